package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/ElPoteRD/CuentaClaras-sub000/internal/ledger"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/errs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/models"
	"github.com/shopspring/decimal"
)

// LedgerRepository is the PostgreSQL ledger.Store. Every unit runs in a READ
// COMMITTED transaction and locks rows with SELECT ... FOR UPDATE.
type LedgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) InTx(ctx context.Context, fn func(tx ledger.Tx) error) error {
	sqlTx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return errs.Internal("failed to begin transaction", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&ledgerTx{tx: sqlTx}); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return errs.Internal("failed to commit transaction", err)
	}
	return nil
}

// ledgerTx implements ledger.Tx on one *sql.Tx. Transaction row statements
// live in transaction_repository.go.
type ledgerTx struct {
	tx *sql.Tx
}

func (t *ledgerTx) LockAccount(ctx context.Context, accountID string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`
	account, err := scanAccount(t.tx.QueryRowContext(ctx, query, accountID))
	if err != nil {
		return nil, mapError(err, errs.ErrAccountNotFound, "lock account")
	}
	return account, nil
}

func (t *ledgerTx) SetBalance(ctx context.Context, accountID string, balance decimal.Decimal, at time.Time) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE accounts SET balance = $2, updated_at = $3 WHERE id = $1`,
		accountID, balance, at,
	)
	if err != nil {
		return mapError(err, nil, "update balance")
	}
	return expectRow(res, errs.ErrAccountNotFound)
}

func (t *ledgerTx) DeleteAccount(ctx context.Context, accountID string) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, accountID)
	if err != nil {
		return mapError(err, nil, "delete account")
	}
	return expectRow(res, errs.ErrAccountNotFound)
}

func (t *ledgerTx) DeleteGoalsByAccount(ctx context.Context, accountID string) (int64, error) {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM goals WHERE account_id = $1`, accountID)
	if err != nil {
		return 0, mapError(err, nil, "delete goals")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errs.Internal("failed to check rows affected", err)
	}
	return n, nil
}
