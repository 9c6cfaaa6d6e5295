package repository

import (
	"context"
	"database/sql"

	"github.com/ElPoteRD/CuentaClaras-sub000/shared/errs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/models"
)

const goalColumns = `id, user_id, account_id, name, target_amount, saved_amount, target_date, created_at, updated_at`

func scanGoal(row rowScanner) (*models.Goal, error) {
	var g models.Goal
	if err := row.Scan(
		&g.ID, &g.UserID, &g.AccountID, &g.Name, &g.TargetAmount, &g.SavedAmount,
		&g.TargetDate, &g.CreatedAt, &g.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &g, nil
}

type GoalRepository struct {
	db *sql.DB
}

func NewGoalRepository(db *sql.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

func (r *GoalRepository) Create(ctx context.Context, g *models.Goal) error {
	query := `INSERT INTO goals (` + goalColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query,
		g.ID, g.UserID, g.AccountID, g.Name, g.TargetAmount, g.SavedAmount,
		g.TargetDate, g.CreatedAt, g.UpdatedAt,
	)
	return mapError(err, nil, "create goal")
}

func (r *GoalRepository) GetByID(ctx context.Context, id string) (*models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1`
	g, err := scanGoal(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err, errs.ErrGoalNotFound, "get goal")
	}
	return g, nil
}

func (r *GoalRepository) ListByUserID(ctx context.Context, userID string) ([]models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE user_id = $1 ORDER BY target_date`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, mapError(err, nil, "list goals")
	}
	defer rows.Close()

	goals := []models.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, errs.Internal("failed to scan goal", err)
		}
		goals = append(goals, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Internal("failed to list goals", err)
	}
	return goals, nil
}

func (r *GoalRepository) Update(ctx context.Context, g *models.Goal) error {
	query := `
		UPDATE goals
		SET name = $2, target_amount = $3, saved_amount = $4, target_date = $5, updated_at = $6
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, g.ID, g.Name, g.TargetAmount, g.SavedAmount, g.TargetDate, g.UpdatedAt)
	if err != nil {
		return mapError(err, nil, "update goal")
	}
	return expectRow(res, errs.ErrGoalNotFound)
}

func (r *GoalRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = $1`, id)
	if err != nil {
		return mapError(err, nil, "delete goal")
	}
	return expectRow(res, errs.ErrGoalNotFound)
}
