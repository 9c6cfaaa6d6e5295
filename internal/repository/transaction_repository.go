package repository

import (
	"context"
	"database/sql"

	"github.com/ElPoteRD/CuentaClaras-sub000/shared/errs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/models"
	"github.com/shopspring/decimal"
)

const transactionColumns = `id, account_id, user_id, category_id, amount, type, description, date, created_at, updated_at`

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var t models.Transaction
	var description sql.NullString
	if err := row.Scan(
		&t.ID, &t.AccountID, &t.UserID, &t.CategoryID, &t.Amount, &t.Type,
		&description, &t.Date, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if description.Valid {
		t.Description = description.String
	}
	return &t, nil
}

// Transaction rows are only written inside a ledger unit, so these statements
// hang off ledgerTx rather than a standalone write repository.

func (t *ledgerTx) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	txn, err := scanTransaction(t.tx.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err, errs.ErrTransactionNotFound, "get transaction")
	}
	return txn, nil
}

func (t *ledgerTx) LockTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 FOR UPDATE`
	txn, err := scanTransaction(t.tx.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err, errs.ErrTransactionNotFound, "lock transaction")
	}
	return txn, nil
}

func (t *ledgerTx) InsertTransaction(ctx context.Context, txn *models.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := t.tx.ExecContext(ctx, query,
		txn.ID, txn.AccountID, txn.UserID, txn.CategoryID, txn.Amount, txn.Type,
		nullString(txn.Description), txn.Date, txn.CreatedAt, txn.UpdatedAt,
	)
	return mapError(err, nil, "create transaction")
}

func (t *ledgerTx) UpdateTransaction(ctx context.Context, txn *models.Transaction) error {
	query := `
		UPDATE transactions
		SET category_id = $2, amount = $3, type = $4, description = $5, date = $6, updated_at = $7
		WHERE id = $1
	`
	res, err := t.tx.ExecContext(ctx, query,
		txn.ID, txn.CategoryID, txn.Amount, txn.Type, nullString(txn.Description), txn.Date, txn.UpdatedAt,
	)
	if err != nil {
		return mapError(err, nil, "update transaction")
	}
	return expectRow(res, errs.ErrTransactionNotFound)
}

func (t *ledgerTx) DeleteTransaction(ctx context.Context, id string) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return mapError(err, nil, "delete transaction")
	}
	return expectRow(res, errs.ErrTransactionNotFound)
}

func (t *ledgerTx) DeleteTransactionsByAccount(ctx context.Context, accountID string) ([]string, error) {
	rows, err := t.tx.QueryContext(ctx, `DELETE FROM transactions WHERE account_id = $1 RETURNING id`, accountID)
	if err != nil {
		return nil, mapError(err, nil, "delete transactions")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errs.Internal("failed to scan transaction id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Internal("failed to delete transactions", err)
	}
	return ids, nil
}

// SumEffects returns the signed sum of every transaction on the account.
func (t *ledgerTx) SumEffects(ctx context.Context, accountID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN type = 'Income' THEN amount ELSE -amount END), 0)
		FROM transactions
		WHERE account_id = $1
	`
	var sum decimal.Decimal
	if err := t.tx.QueryRowContext(ctx, query, accountID).Scan(&sum); err != nil {
		return decimal.Zero, mapError(err, nil, "sum transactions")
	}
	return sum, nil
}
