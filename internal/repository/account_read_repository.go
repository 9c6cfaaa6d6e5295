package repository

import (
	"context"
	"database/sql"

	"github.com/ElPoteRD/CuentaClaras-sub000/shared/errs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/models"
)

// AccountReadRepository serves account reads straight from PostgreSQL.
// Accounts are not cached: the balance is only ever read from the row the
// ledger writes.
type AccountReadRepository struct {
	db *sql.DB
}

func NewAccountReadRepository(db *sql.DB) *AccountReadRepository {
	return &AccountReadRepository{db: db}
}

func (r *AccountReadRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	account, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err, errs.ErrAccountNotFound, "get account")
	}
	return account, nil
}

func (r *AccountReadRepository) ListByUserID(ctx context.Context, userID string) ([]models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, mapError(err, nil, "list accounts")
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, errs.Internal("failed to scan account", err)
		}
		accounts = append(accounts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Internal("failed to list accounts", err)
	}
	return accounts, nil
}
