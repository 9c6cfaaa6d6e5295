package command

import (
	"context"
	"strings"
	"time"

	"github.com/ElPoteRD/CuentaClaras-sub000/shared/cqrs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/errs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/models"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/utils"
	"github.com/shopspring/decimal"
)

// GoalCommandService manages savings goals. Goals never move balances; they
// only reference an account the user owns.
type GoalCommandService struct {
	goals    GoalStore
	accounts AccountStore
	now      func() time.Time
}

func NewGoalCommandService(goals GoalStore, accounts AccountStore) *GoalCommandService {
	return &GoalCommandService{
		goals:    goals,
		accounts: accounts,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func validateGoalAmounts(target, saved decimal.Decimal) error {
	if !target.IsPositive() {
		return errs.Validation("targetAmount must be greater than zero")
	}
	if saved.IsNegative() {
		return errs.Validation("savedAmount must not be negative")
	}
	return nil
}

// CreateGoal returns every failure to the caller, including a missing or
// foreign account.
func (s *GoalCommandService) CreateGoal(ctx context.Context, cmd cqrs.CreateGoalCommand) (*models.Goal, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, errs.Validation("name is required")
	}
	if err := validateGoalAmounts(cmd.TargetAmount, cmd.SavedAmount); err != nil {
		return nil, err
	}
	if cmd.TargetDate.IsZero() {
		return nil, errs.Validation("targetDate is required")
	}

	account, err := s.accounts.GetByID(ctx, cmd.AccountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != cmd.UserID {
		return nil, errs.ErrForbidden
	}

	now := s.now()
	goal := &models.Goal{
		ID:           utils.GenerateID(utils.PrefixGoal),
		UserID:       cmd.UserID,
		AccountID:    account.ID,
		Name:         name,
		TargetAmount: cmd.TargetAmount,
		SavedAmount:  cmd.SavedAmount,
		TargetDate:   cmd.TargetDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.goals.Create(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *GoalCommandService) UpdateGoal(ctx context.Context, cmd cqrs.UpdateGoalCommand) (*models.Goal, error) {
	goal, err := s.owned(ctx, cmd.GoalID, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if cmd.Name != nil {
		name := strings.TrimSpace(*cmd.Name)
		if name == "" {
			return nil, errs.Validation("name must not be empty")
		}
		goal.Name = name
	}
	if cmd.TargetAmount != nil {
		goal.TargetAmount = *cmd.TargetAmount
	}
	if cmd.SavedAmount != nil {
		goal.SavedAmount = *cmd.SavedAmount
	}
	if cmd.TargetDate != nil {
		goal.TargetDate = *cmd.TargetDate
	}
	if err := validateGoalAmounts(goal.TargetAmount, goal.SavedAmount); err != nil {
		return nil, err
	}
	goal.UpdatedAt = s.now()
	if err := s.goals.Update(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *GoalCommandService) DeleteGoal(ctx context.Context, cmd cqrs.DeleteGoalCommand) error {
	if _, err := s.owned(ctx, cmd.GoalID, cmd.UserID); err != nil {
		return err
	}
	return s.goals.Delete(ctx, cmd.GoalID)
}

func (s *GoalCommandService) owned(ctx context.Context, id, userID string) (*models.Goal, error) {
	goal, err := s.goals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if goal.UserID != userID {
		return nil, errs.ErrForbidden
	}
	return goal, nil
}
