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

type OpinionCommandService struct {
	opinions OpinionStore
	now      func() time.Time
}

func NewOpinionCommandService(opinions OpinionStore) *OpinionCommandService {
	return &OpinionCommandService{
		opinions: opinions,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *OpinionCommandService) CreateOpinion(ctx context.Context, cmd cqrs.CreateOpinionCommand) (*models.Opinion, error) {
	if cmd.Rating < 1 || cmd.Rating > 5 {
		return nil, errs.Validation("rating must be between 1 and 5")
	}
	opinion := &models.Opinion{
		ID:        utils.GenerateID(utils.PrefixOpinion),
		UserID:    cmd.UserID,
		Rating:    cmd.Rating,
		Comment:   strings.TrimSpace(cmd.Comment),
		CreatedAt: s.now(),
	}
	if err := s.opinions.Create(ctx, opinion); err != nil {
		return nil, err
	}
	return opinion, nil
}

func (s *OpinionCommandService) DeleteOpinion(ctx context.Context, cmd cqrs.DeleteOpinionCommand) error {
	opinion, err := s.opinions.GetByID(ctx, cmd.OpinionID)
	if err != nil {
		return err
	}
	if opinion.UserID != cmd.UserID {
		return errs.ErrForbidden
	}
	return s.opinions.Delete(ctx, cmd.OpinionID)
}
