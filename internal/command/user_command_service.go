package command

import (
	"context"
	"strings"
	"time"

	"github.com/ElPoteRD/CuentaClaras-sub000/shared/cqrs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/errs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/events"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/models"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/utils"
)

// UserCommandService writes user state to PostgreSQL.
type UserCommandService struct {
	users      UserStore
	publisher  EventPublisher
	bcryptCost int
	now        func() time.Time
}

func NewUserCommandService(users UserStore, publisher EventPublisher, bcryptCost int) *UserCommandService {
	return &UserCommandService{
		users:      users,
		publisher:  publisher,
		bcryptCost: bcryptCost,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *UserCommandService) RegisterUser(ctx context.Context, cmd cqrs.RegisterUserCommand) (*models.User, error) {
	passwordHash, err := utils.HashPassword(cmd.Password, s.bcryptCost)
	if err != nil {
		return nil, errs.Internal("failed to hash password", err)
	}
	now := s.now()
	user := &models.User{
		ID:           utils.GenerateID(utils.PrefixUser),
		Name:         strings.TrimSpace(cmd.Name),
		Email:        strings.ToLower(strings.TrimSpace(cmd.Email)),
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, events.UserRegistered, events.UserRegisteredEvent{
		UserID: user.ID,
		Email:  user.Email,
	})
	return user, nil
}

// UpdateUser changes name and email. Empty fields are left as they are.
func (s *UserCommandService) UpdateUser(ctx context.Context, cmd cqrs.UpdateUserCommand) (*models.UserView, error) {
	user, err := s.users.GetByID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(cmd.Name); name != "" {
		user.Name = name
	}
	if email := strings.TrimSpace(cmd.Email); email != "" {
		user.Email = strings.ToLower(email)
	}
	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user.View(), nil
}

// DeleteUser requires the current password and rejects the operation while
// the user still owns accounts.
func (s *UserCommandService) DeleteUser(ctx context.Context, cmd cqrs.DeleteUserCommand) error {
	user, err := s.users.GetByID(ctx, cmd.UserID)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(cmd.Password, user.PasswordHash) {
		return errs.ErrInvalidCredentials
	}
	hasAccounts, err := s.users.HasAccounts(ctx, cmd.UserID)
	if err != nil {
		return err
	}
	if hasAccounts {
		return errs.Conflict("user has accounts; delete them first")
	}
	if err := s.users.Delete(ctx, cmd.UserID); err != nil {
		return err
	}

	publish(ctx, s.publisher, events.UserDeleted, events.UserDeletedEvent{UserID: cmd.UserID})
	return nil
}
