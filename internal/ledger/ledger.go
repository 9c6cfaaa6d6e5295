// Package ledger keeps every account balance equal to its initial balance plus
// the signed sum of the transactions posted against it.
//
// Each operation runs as one storage transaction: the account row is locked
// first, the new balance is computed from the locked value, and the balance
// write and the transaction row write commit or roll back together.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ElPoteRD/CuentaClaras-sub000/shared/errs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/models"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/utils"
	"github.com/shopspring/decimal"
)

// MaxAmountScale is the number of fractional digits an amount may carry.
const MaxAmountScale = 2

type Ledger struct {
	store Store
	now   func() time.Time
	newID func() string
}

func New(store Store) *Ledger {
	return &Ledger{
		store: store,
		now:   func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
		newID: func() string { return utils.GenerateID(utils.PrefixTransaction) },
	}
}

type PostParams struct {
	AccountID   string
	UserID      string
	CategoryID  string
	Amount      decimal.Decimal
	Type        models.TransactionType
	Description string
	Date        time.Time
}

// EditParams holds optional changes; nil fields are left as they are.
type EditParams struct {
	TransactionID string
	UserID        string
	CategoryID    *string
	Amount        *decimal.Decimal
	Type          *models.TransactionType
	Description   *string
	Date          *time.Time
}

// Result is the committed outcome of a balance-changing operation.
type Result struct {
	Transaction *models.Transaction
	Account     *models.Account
	Change      decimal.Decimal
}

// AccountRemoval describes what DeleteAccount removed.
type AccountRemoval struct {
	Account        *models.Account
	TransactionIDs []string
	Goals          int64
}

// ValidateAmount rejects non-positive amounts and sub-cent precision.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errs.Validation("amount must be greater than zero")
	}
	if !amount.Equal(amount.Round(MaxAmountScale)) {
		return errs.Validation(fmt.Sprintf("amount must have at most %d decimal places", MaxAmountScale))
	}
	return nil
}

func validateType(t models.TransactionType) error {
	if !t.Valid() {
		return errs.Validation("type must be Income or Expense")
	}
	return nil
}

// PostTransaction inserts a transaction and applies it to its account.
func (l *Ledger) PostTransaction(ctx context.Context, p PostParams) (*Result, error) {
	if err := ValidateAmount(p.Amount); err != nil {
		return nil, err
	}
	if err := validateType(p.Type); err != nil {
		return nil, err
	}

	var res *Result
	err := l.store.InTx(ctx, func(tx Tx) error {
		account, err := tx.LockAccount(ctx, p.AccountID)
		if err != nil {
			return err
		}
		if account.UserID != p.UserID {
			return errs.ErrForbidden
		}

		now := l.now()
		date := p.Date
		if date.IsZero() {
			date = now
		}
		t := &models.Transaction{
			ID:          l.newID(),
			AccountID:   account.ID,
			UserID:      p.UserID,
			CategoryID:  p.CategoryID,
			Amount:      p.Amount,
			Type:        p.Type,
			Description: strings.TrimSpace(p.Description),
			Date:        date,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		before := account.Balance
		balance, err := newPosting(t.Amount, t.Type).post(before)
		if err != nil {
			return err
		}
		if err := tx.SetBalance(ctx, account.ID, balance, now); err != nil {
			return err
		}
		if err := tx.InsertTransaction(ctx, t); err != nil {
			return err
		}

		account.Balance = balance
		account.UpdatedAt = now
		res = &Result{Transaction: t, Account: account, Change: balance.Sub(before)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ReverseTransaction undoes a posted transaction and deletes its row.
func (l *Ledger) ReverseTransaction(ctx context.Context, transactionID, userID string) (*Result, error) {
	var res *Result
	err := l.store.InTx(ctx, func(tx Tx) error {
		account, t, err := l.lockOwned(ctx, tx, transactionID, userID)
		if err != nil {
			return err
		}

		before := account.Balance
		balance, err := postedFrom(t).reverse(before)
		if err != nil {
			return err
		}
		now := l.now()
		if err := tx.SetBalance(ctx, account.ID, balance, now); err != nil {
			return err
		}
		if err := tx.DeleteTransaction(ctx, t.ID); err != nil {
			return err
		}

		account.Balance = balance
		account.UpdatedAt = now
		res = &Result{Transaction: t, Account: account, Change: balance.Sub(before)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// EditTransaction updates a transaction. When amount or type change, the old
// effect is reversed and the new one posted on the same locked balance.
func (l *Ledger) EditTransaction(ctx context.Context, p EditParams) (*Result, error) {
	if p.Amount != nil {
		if err := ValidateAmount(*p.Amount); err != nil {
			return nil, err
		}
	}
	if p.Type != nil {
		if err := validateType(*p.Type); err != nil {
			return nil, err
		}
	}

	var res *Result
	err := l.store.InTx(ctx, func(tx Tx) error {
		account, current, err := l.lockOwned(ctx, tx, p.TransactionID, p.UserID)
		if err != nil {
			return err
		}

		updated := *current
		if p.CategoryID != nil {
			updated.CategoryID = *p.CategoryID
		}
		if p.Description != nil {
			updated.Description = strings.TrimSpace(*p.Description)
		}
		if p.Date != nil {
			updated.Date = *p.Date
		}
		if p.Amount != nil {
			updated.Amount = *p.Amount
		}
		if p.Type != nil {
			updated.Type = *p.Type
		}
		now := l.now()
		updated.UpdatedAt = after(now, current.UpdatedAt)

		before := account.Balance
		if !updated.Amount.Equal(current.Amount) || updated.Type != current.Type {
			balance, err := postedFrom(current).reverse(before)
			if err != nil {
				return err
			}
			if balance, err = newPosting(updated.Amount, updated.Type).post(balance); err != nil {
				return err
			}
			if err := tx.SetBalance(ctx, account.ID, balance, now); err != nil {
				return err
			}
			account.Balance = balance
			account.UpdatedAt = now
		}
		if err := tx.UpdateTransaction(ctx, &updated); err != nil {
			return err
		}

		res = &Result{Transaction: &updated, Account: account, Change: account.Balance.Sub(before)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// after returns now, or the microsecond following prev when the clock has not
// moved past it. Stored timestamps keep microseconds.
func after(now, prev time.Time) time.Time {
	if now.Truncate(time.Microsecond).After(prev) {
		return now
	}
	return prev.Truncate(time.Microsecond).Add(time.Microsecond)
}

// lockOwned locks the account of a transaction and then the transaction row,
// always in that order. The transaction is re-read after the account lock so
// a concurrent reversal is seen as not found.
func (l *Ledger) lockOwned(ctx context.Context, tx Tx, transactionID, userID string) (*models.Account, *models.Transaction, error) {
	peek, err := tx.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, nil, err
	}
	if peek.UserID != userID {
		return nil, nil, errs.ErrForbidden
	}
	account, err := tx.LockAccount(ctx, peek.AccountID)
	if err != nil {
		return nil, nil, err
	}
	t, err := tx.LockTransaction(ctx, transactionID)
	if err != nil {
		return nil, nil, err
	}
	if t.AccountID != account.ID {
		return nil, nil, errs.Internal("transaction moved between accounts", nil)
	}
	return account, t, nil
}

// DeleteAccount removes an account together with its transactions and goals.
// Callers must have re-authenticated the requester beforehand.
func (l *Ledger) DeleteAccount(ctx context.Context, accountID, userID string) (*AccountRemoval, error) {
	var removal *AccountRemoval
	err := l.store.InTx(ctx, func(tx Tx) error {
		account, err := tx.LockAccount(ctx, accountID)
		if err != nil {
			return err
		}
		if account.UserID != userID {
			return errs.ErrForbidden
		}
		ids, err := tx.DeleteTransactionsByAccount(ctx, account.ID)
		if err != nil {
			return err
		}
		goals, err := tx.DeleteGoalsByAccount(ctx, account.ID)
		if err != nil {
			return err
		}
		if err := tx.DeleteAccount(ctx, account.ID); err != nil {
			return err
		}
		removal = &AccountRemoval{Account: account, TransactionIDs: ids, Goals: goals}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removal, nil
}

// Reconciliation compares a stored balance with the one implied by the rows.
type Reconciliation struct {
	AccountID string
	Stored    decimal.Decimal
	Expected  decimal.Decimal
}

func (r Reconciliation) Consistent() bool { return r.Stored.Equal(r.Expected) }

// Reconcile recomputes initial balance plus posted effects under the account lock.
func (l *Ledger) Reconcile(ctx context.Context, accountID string) (*Reconciliation, error) {
	var rec *Reconciliation
	err := l.store.InTx(ctx, func(tx Tx) error {
		account, err := tx.LockAccount(ctx, accountID)
		if err != nil {
			return err
		}
		sum, err := tx.SumEffects(ctx, account.ID)
		if err != nil {
			return err
		}
		rec = &Reconciliation{
			AccountID: account.ID,
			Stored:    account.Balance,
			Expected:  account.InitialBalance.Add(sum),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}
