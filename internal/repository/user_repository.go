package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/ElPoteRD/CuentaClaras-sub000/shared/errs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/models"
)

const userColumns = `id, name, email, password_hash, created_at, updated_at`

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// UserWriteRepository handles all state-mutating operations for users and the
// credential lookups that need PasswordHash.
type UserWriteRepository struct {
	db *sql.DB
}

func NewUserWriteRepository(db *sql.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

func (r *UserWriteRepository) Create(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, strings.ToLower(user.Email), user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	)
	return mapError(err, nil, "create user")
}

// GetByID fetches the full write model (including PasswordHash) for internal operations.
func (r *UserWriteRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err, errs.ErrUserNotFound, "get user")
	}
	return user, nil
}

func (r *UserWriteRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, strings.ToLower(email)))
	if err != nil {
		return nil, mapError(err, errs.ErrUserNotFound, "get user")
	}
	return user, nil
}

func (r *UserWriteRepository) Update(ctx context.Context, user *models.User) error {
	query := `UPDATE users SET name = $2, email = $3, updated_at = $4 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, user.ID, user.Name, strings.ToLower(user.Email), user.UpdatedAt)
	if err != nil {
		return mapError(err, nil, "update user")
	}
	return expectRow(res, errs.ErrUserNotFound)
}

// Delete removes the user; categories and opinions go with it through
// ON DELETE CASCADE. Accounts block the delete.
func (r *UserWriteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return mapError(err, nil, "delete user")
	}
	return expectRow(res, errs.ErrUserNotFound)
}

func (r *UserWriteRepository) HasAccounts(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE user_id = $1)`, userID).Scan(&exists)
	if err != nil {
		return false, mapError(err, nil, "check accounts")
	}
	return exists, nil
}
