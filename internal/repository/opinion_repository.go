package repository

import (
	"context"
	"database/sql"

	"github.com/ElPoteRD/CuentaClaras-sub000/shared/errs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/models"
)

type OpinionRepository struct {
	db *sql.DB
}

func NewOpinionRepository(db *sql.DB) *OpinionRepository {
	return &OpinionRepository{db: db}
}

func (r *OpinionRepository) Create(ctx context.Context, o *models.Opinion) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO opinions (id, user_id, rating, comment, created_at) VALUES ($1, $2, $3, $4, $5)`,
		o.ID, o.UserID, o.Rating, o.Comment, o.CreatedAt,
	)
	return mapError(err, nil, "create opinion")
}

func (r *OpinionRepository) GetByID(ctx context.Context, id string) (*models.Opinion, error) {
	var o models.Opinion
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, rating, comment, created_at FROM opinions WHERE id = $1`, id,
	).Scan(&o.ID, &o.UserID, &o.Rating, &o.Comment, &o.CreatedAt)
	if err != nil {
		return nil, mapError(err, errs.ErrOpinionNotFound, "get opinion")
	}
	return &o, nil
}

func (r *OpinionRepository) ListByUserID(ctx context.Context, userID string) ([]models.Opinion, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, rating, comment, created_at FROM opinions WHERE user_id = $1 ORDER BY created_at DESC`, userID,
	)
	if err != nil {
		return nil, mapError(err, nil, "list opinions")
	}
	defer rows.Close()

	opinions := []models.Opinion{}
	for rows.Next() {
		var o models.Opinion
		if err := rows.Scan(&o.ID, &o.UserID, &o.Rating, &o.Comment, &o.CreatedAt); err != nil {
			return nil, errs.Internal("failed to scan opinion", err)
		}
		opinions = append(opinions, o)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Internal("failed to list opinions", err)
	}
	return opinions, nil
}

func (r *OpinionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM opinions WHERE id = $1`, id)
	if err != nil {
		return mapError(err, nil, "delete opinion")
	}
	return expectRow(res, errs.ErrOpinionNotFound)
}
