package command

import (
	"context"
	"strings"
	"time"

	"github.com/ElPoteRD/CuentaClaras-sub000/shared/cqrs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/errs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/models"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/utils"
)

type CategoryCommandService struct {
	categories CategoryStore
	now        func() time.Time
}

func NewCategoryCommandService(categories CategoryStore) *CategoryCommandService {
	return &CategoryCommandService{
		categories: categories,
		now:        func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

func (s *CategoryCommandService) CreateCategory(ctx context.Context, cmd cqrs.CreateCategoryCommand) (*models.Category, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, errs.Validation("name is required")
	}
	category := &models.Category{
		ID:        utils.GenerateID(utils.PrefixCategory),
		UserID:    cmd.UserID,
		Name:      name,
	}
	category.CreatedAt = s.now()
	category.UpdatedAt = category.CreatedAt
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryCommandService) UpdateCategory(ctx context.Context, cmd cqrs.UpdateCategoryCommand) (*models.Category, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, errs.Validation("name is required")
	}
	category, err := s.owned(ctx, cmd.CategoryID, cmd.UserID)
	if err != nil {
		return nil, err
	}
	category.Name = name
	category.UpdatedAt = s.now()
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory fails with Conflict while transactions still use the category.
func (s *CategoryCommandService) DeleteCategory(ctx context.Context, cmd cqrs.DeleteCategoryCommand) error {
	if _, err := s.owned(ctx, cmd.CategoryID, cmd.UserID); err != nil {
		return err
	}
	return s.categories.Delete(ctx, cmd.CategoryID)
}

func (s *CategoryCommandService) owned(ctx context.Context, id, userID string) (*models.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category.UserID != userID {
		return nil, errs.ErrForbidden
	}
	return category, nil
}
