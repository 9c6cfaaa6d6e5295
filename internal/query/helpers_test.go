package query

import (
	"context"

	"github.com/ElPoteRD/CuentaClaras-sub000/shared/errs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/models"
	"github.com/shopspring/decimal"
)

type mockGoals []models.Goal

func (m mockGoals) GetByID(_ context.Context, id string) (*models.Goal, error) {
	for i := range m {
		if m[i].ID == id {
			return &m[i], nil
		}
	}
	return nil, errs.ErrGoalNotFound
}

func (m mockGoals) ListByUserID(_ context.Context, userID string) ([]models.Goal, error) {
	var out []models.Goal
	for _, g := range m {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

func mustDec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
