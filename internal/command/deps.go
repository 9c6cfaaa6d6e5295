package command

import (
	"context"
	"log/slog"

	"github.com/ElPoteRD/CuentaClaras-sub000/internal/ledger"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/models"
)

// Ledger is the balance-changing half of the write side.
type Ledger interface {
	PostTransaction(ctx context.Context, p ledger.PostParams) (*ledger.Result, error)
	ReverseTransaction(ctx context.Context, transactionID, userID string) (*ledger.Result, error)
	EditTransaction(ctx context.Context, p ledger.EditParams) (*ledger.Result, error)
	DeleteAccount(ctx context.Context, accountID, userID string) (*ledger.AccountRemoval, error)
}

// EventPublisher appends a domain event after a commit. events.Publisher and
// events.Nop satisfy it.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, data any) error
}

type AccountStore interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id string) (*models.Account, error)
	Update(ctx context.Context, account *models.Account) error
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	HasAccounts(ctx context.Context, userID string) (bool, error)
}

type CategoryStore interface {
	Create(ctx context.Context, c *models.Category) error
	GetByID(ctx context.Context, id string) (*models.Category, error)
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id string) error
}

type GoalStore interface {
	Create(ctx context.Context, g *models.Goal) error
	GetByID(ctx context.Context, id string) (*models.Goal, error)
	Update(ctx context.Context, g *models.Goal) error
	Delete(ctx context.Context, id string) error
}

type OpinionStore interface {
	Create(ctx context.Context, o *models.Opinion) error
	GetByID(ctx context.Context, id string) (*models.Opinion, error)
	Delete(ctx context.Context, id string) error
}

// TransactionViews is the Redis projection refreshed after ledger commits.
type TransactionViews interface {
	CacheTransactionView(ctx context.Context, view *models.TransactionView)
	InvalidateTransactionViews(ctx context.Context, ids ...string)
}

// publish logs instead of failing: the write has already committed.
func publish(ctx context.Context, p EventPublisher, eventType string, data any) {
	if err := p.Publish(ctx, eventType, data); err != nil {
		slog.WarnContext(ctx, "failed to publish event", "type", eventType, "error", err)
	}
}
