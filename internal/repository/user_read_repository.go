package repository

import (
	"context"
	"database/sql"

	"github.com/ElPoteRD/CuentaClaras-sub000/shared/errs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/models"
)

// UserReadRepository serves the profile projection, which never carries the
// password hash.
type UserReadRepository struct {
	db *sql.DB
}

func NewUserReadRepository(db *sql.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

func (r *UserReadRepository) GetByID(ctx context.Context, id string) (*models.UserView, error) {
	query := `SELECT id, name, email, created_at, updated_at FROM users WHERE id = $1`
	var view models.UserView
	err := r.db.QueryRowContext(ctx, query, id).Scan(&view.ID, &view.Name, &view.Email, &view.CreatedAt, &view.UpdatedAt)
	if err != nil {
		return nil, mapError(err, errs.ErrUserNotFound, "get user")
	}
	return &view, nil
}
