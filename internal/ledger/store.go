package ledger

import (
	"context"
	"time"

	"github.com/ElPoteRD/CuentaClaras-sub000/shared/models"
	"github.com/shopspring/decimal"
)

// Store opens storage transactions for the ledger. InTx commits when fn
// returns nil and rolls back otherwise; no write made through tx survives a
// rollback.
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of row operations the ledger performs inside one storage
// transaction. Implementations must hold the account row lock taken by
// LockAccount until commit or rollback.
type Tx interface {
	// LockAccount reads the account row and locks it against concurrent
	// writers. Missing accounts yield errs.ErrAccountNotFound.
	LockAccount(ctx context.Context, accountID string) (*models.Account, error)
	SetBalance(ctx context.Context, accountID string, balance decimal.Decimal, at time.Time) error
	DeleteAccount(ctx context.Context, accountID string) error

	// GetTransaction reads without locking; LockTransaction re-reads with a
	// row lock after the owning account is locked.
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	LockTransaction(ctx context.Context, id string) (*models.Transaction, error)
	InsertTransaction(ctx context.Context, t *models.Transaction) error
	UpdateTransaction(ctx context.Context, t *models.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
	DeleteTransactionsByAccount(ctx context.Context, accountID string) ([]string, error)
	SumEffects(ctx context.Context, accountID string) (decimal.Decimal, error)

	DeleteGoalsByAccount(ctx context.Context, accountID string) (int64, error)
}
