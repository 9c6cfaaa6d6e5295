package query

import (
	"context"

	"github.com/ElPoteRD/CuentaClaras-sub000/shared/cqrs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/errs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/models"
)

type CategoryQueryService struct {
	categories CategoryReader
}

func NewCategoryQueryService(categories CategoryReader) *CategoryQueryService {
	return &CategoryQueryService{categories: categories}
}

func (s *CategoryQueryService) GetCategory(ctx context.Context, q cqrs.GetCategoryQuery) (*models.Category, error) {
	c, err := s.categories.GetByID(ctx, q.CategoryID)
	if err != nil {
		return nil, err
	}
	if c.UserID != q.UserID {
		return nil, errs.ErrForbidden
	}
	return c, nil
}

func (s *CategoryQueryService) ListCategories(ctx context.Context, q cqrs.ListCategoriesQuery) ([]models.Category, error) {
	return s.categories.ListByUserID(ctx, q.UserID)
}

// GoalQueryService returns goals with their derived progress.
type GoalQueryService struct {
	goals GoalReader
}

func NewGoalQueryService(goals GoalReader) *GoalQueryService {
	return &GoalQueryService{goals: goals}
}

func (s *GoalQueryService) GetGoal(ctx context.Context, q cqrs.GetGoalQuery) (*models.GoalView, error) {
	g, err := s.goals.GetByID(ctx, q.GoalID)
	if err != nil {
		return nil, err
	}
	if g.UserID != q.UserID {
		return nil, errs.ErrForbidden
	}
	return g.View(), nil
}

func (s *GoalQueryService) ListGoals(ctx context.Context, q cqrs.ListGoalsQuery) ([]models.GoalView, error) {
	goals, err := s.goals.ListByUserID(ctx, q.UserID)
	if err != nil {
		return nil, err
	}
	views := make([]models.GoalView, len(goals))
	for i := range goals {
		views[i] = *goals[i].View()
	}
	return views, nil
}

type OpinionQueryService struct {
	opinions OpinionReader
}

func NewOpinionQueryService(opinions OpinionReader) *OpinionQueryService {
	return &OpinionQueryService{opinions: opinions}
}

func (s *OpinionQueryService) GetOpinion(ctx context.Context, q cqrs.GetOpinionQuery) (*models.Opinion, error) {
	o, err := s.opinions.GetByID(ctx, q.OpinionID)
	if err != nil {
		return nil, err
	}
	if o.UserID != q.UserID {
		return nil, errs.ErrForbidden
	}
	return o, nil
}

func (s *OpinionQueryService) ListOpinions(ctx context.Context, q cqrs.ListOpinionsQuery) ([]models.Opinion, error) {
	return s.opinions.ListByUserID(ctx, q.UserID)
}
