package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/maheshrc27/contentflow/pkg/logging"
	"go.uber.org/zap"
)

//go:embed schema.sql
var schema string

// Migrate creates any missing tables. Every statement is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func logErr(op string, err error) {
	logging.WithComponent("repository").Info(err.Error(), zap.String("op", op))
}
