package repository

import (
	"context"
	"database/sql"
	"errors"
)

// ErrRecordNotFound is returned by updates and removals that matched no row.
var ErrRecordNotFound = errors.New("record not found")

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// execOne runs a statement expected to touch exactly one row.
func execOne(ctx context.Context, db *sql.DB, op, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		logErr(op, err)
		return err
	}
	return affected(res)
}
