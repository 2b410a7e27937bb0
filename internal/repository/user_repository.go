package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/maheshrc27/contentflow/internal/models"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, bool, error)
	GetByEmail(ctx context.Context, email string) (*models.User, bool, error)
	List(ctx context.Context) ([]*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	TouchLogin(ctx context.Context, id string, at time.Time) error
	Remove(ctx context.Context, id string) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, name, email, password, role, client_id, last_login, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var (
		user      models.User
		clientID  sql.NullString
		lastLogin sql.NullTime
	)
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Password, &user.Role,
		&clientID, &lastLogin, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if clientID.Valid {
		user.ClientID = &clientID.String
	}
	if lastLogin.Valid {
		user.LastLogin = &lastLogin.Time
	}
	return &user, nil
}

func (r *userRepository) getOne(ctx context.Context, op, query string, arg any) (*models.User, bool, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		logErr(op, err)
		return nil, false, err
	}
	return user, true, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, bool, error) {
	return r.getOne(ctx, "get user", "SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, bool, error) {
	return r.getOne(ctx, "get user by email", "SELECT "+userColumns+" FROM users WHERE lower(email) = lower($1)", email)
}

func (r *userRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at")
	if err != nil {
		logErr("list users", err)
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			logErr("scan user", err)
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (id, name, email, password, role, client_id) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, user.ID, user.Name, user.Email, user.Password, user.Role, user.ClientID)
	if err != nil {
		logErr("create user", err)
	}
	return err
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET name = $1,
			email = $2,
			password = $3,
			role = $4,
			client_id = $5,
			updated_at = $6
		WHERE id = $7
	`
	res, err := r.db.ExecContext(ctx, query, user.Name, user.Email, user.Password, user.Role, user.ClientID, time.Now(), user.ID)
	if err != nil {
		logErr("update user", err)
		return err
	}
	return affected(res)
}

func (r *userRepository) TouchLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login = $1 WHERE id = $2`, at, id)
	if err != nil {
		logErr("touch login", err)
	}
	return err
}

func (r *userRepository) Remove(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		logErr("remove user", err)
		return err
	}
	return affected(res)
}
