package repository

import (
	"context"
	"database/sql"

	"github.com/ElPoteRD/CuentaClaras-sub000/shared/errs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/models"
)

const accountColumns = `id, user_id, name, account_type, currency, balance, initial_balance, created_at, updated_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var a models.Account
	if err := row.Scan(
		&a.ID, &a.UserID, &a.Name, &a.Type, &a.Currency,
		&a.Balance, &a.InitialBalance, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

// AccountWriteRepository handles account rows outside the ledger: creation and
// renaming. Balances are written only through LedgerRepository.
type AccountWriteRepository struct {
	db *sql.DB
}

func NewAccountWriteRepository(db *sql.DB) *AccountWriteRepository {
	return &AccountWriteRepository{db: db}
}

func (r *AccountWriteRepository) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		account.ID, account.UserID, account.Name, account.Type, account.Currency,
		account.Balance, account.InitialBalance, account.CreatedAt, account.UpdatedAt,
	)
	return mapError(err, nil, "create account")
}

// GetByID fetches the full write model including UserID for ownership checks.
func (r *AccountWriteRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	account, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err, errs.ErrAccountNotFound, "get account")
	}
	return account, nil
}

func (r *AccountWriteRepository) Update(ctx context.Context, account *models.Account) error {
	query := `
		UPDATE accounts
		SET name = $2, account_type = $3, updated_at = $4
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, account.ID, account.Name, account.Type, account.UpdatedAt)
	if err != nil {
		return mapError(err, nil, "update account")
	}
	return expectRow(res, errs.ErrAccountNotFound)
}

// ListIDs returns every account id in creation order.
func (r *AccountWriteRepository) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM accounts ORDER BY created_at, id`)
	if err != nil {
		return nil, mapError(err, nil, "list account ids")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, mapError(err, nil, "scan account id")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, nil, "list account ids")
	}
	return ids, nil
}
