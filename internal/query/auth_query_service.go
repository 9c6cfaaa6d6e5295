package query

import (
	"context"
	"time"

	"github.com/ElPoteRD/CuentaClaras-sub000/shared/cqrs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/errs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/middleware"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/models"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/utils"
)

// Session is a freshly issued bearer token and the user it belongs to.
type Session struct {
	Token string           `json:"token"`
	User  *models.UserView `json:"user"`
}

// AuthQueryService handles login, token refresh and the profile read. There's
// no command service for auth because these operations don't mutate state.
type AuthQueryService struct {
	credentials CredentialReader
	profiles    ProfileReader
	secret      []byte
	ttl         time.Duration
}

func NewAuthQueryService(credentials CredentialReader, profiles ProfileReader, secret []byte, ttl time.Duration) *AuthQueryService {
	return &AuthQueryService{credentials: credentials, profiles: profiles, secret: secret, ttl: ttl}
}

func (s *AuthQueryService) Login(ctx context.Context, cmd cqrs.LoginCommand) (*Session, error) {
	user, err := s.credentials.GetByEmail(ctx, cmd.Email)
	if err != nil {
		if errs.KindOf(err) == errs.KindNotFound {
			return nil, errs.ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPassword(cmd.Password, user.PasswordHash) {
		return nil, errs.ErrInvalidCredentials
	}
	return s.issue(user)
}

// RefreshToken exchanges a still-valid token for a new one, provided the
// user still exists.
func (s *AuthQueryService) RefreshToken(ctx context.Context, cmd cqrs.RefreshTokenCommand) (*Session, error) {
	claims, err := middleware.ParseToken(s.secret, cmd.Token)
	if err != nil {
		return nil, errs.ErrInvalidToken
	}
	user, err := s.credentials.GetByID(ctx, claims.UserID)
	if err != nil {
		if errs.KindOf(err) == errs.KindNotFound {
			return nil, errs.ErrInvalidToken
		}
		return nil, err
	}
	return s.issue(user)
}

func (s *AuthQueryService) GetProfile(ctx context.Context, q cqrs.GetProfileQuery) (*models.UserView, error) {
	return s.profiles.GetByID(ctx, q.UserID)
}

func (s *AuthQueryService) issue(user *models.User) (*Session, error) {
	token, err := middleware.IssueToken(s.secret, user.ID, user.Email, s.ttl)
	if err != nil {
		return nil, errs.Internal("failed to generate token", err)
	}
	return &Session{Token: token, User: user.View()}, nil
}
