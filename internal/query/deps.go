package query

import (
	"context"
	"time"

	"github.com/ElPoteRD/CuentaClaras-sub000/shared/cqrs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/models"
)

type AccountReader interface {
	GetByID(ctx context.Context, id string) (*models.Account, error)
	ListByUserID(ctx context.Context, userID string) ([]models.Account, error)
}

type TransactionReader interface {
	GetByID(ctx context.Context, id string) (*models.TransactionView, error)
	List(ctx context.Context, q cqrs.ListTransactionsQuery) ([]models.TransactionView, error)
}

type CategoryReader interface {
	GetByID(ctx context.Context, id string) (*models.Category, error)
	ListByUserID(ctx context.Context, userID string) ([]models.Category, error)
}

type GoalReader interface {
	GetByID(ctx context.Context, id string) (*models.Goal, error)
	ListByUserID(ctx context.Context, userID string) ([]models.Goal, error)
}

type OpinionReader interface {
	GetByID(ctx context.Context, id string) (*models.Opinion, error)
	ListByUserID(ctx context.Context, userID string) ([]models.Opinion, error)
}

// CredentialReader looks users up with their password hash for login.
type CredentialReader interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type ProfileReader interface {
	GetByID(ctx context.Context, id string) (*models.UserView, error)
}

type ReportReader interface {
	Summary(ctx context.Context, userID, accountID string, from, to time.Time) (*models.Summary, error)
	Statement(ctx context.Context, accountID string, from, to time.Time) (*models.Statement, error)
}
