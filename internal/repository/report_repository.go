package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ElPoteRD/CuentaClaras-sub000/internal/ledger"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/errs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ReportRepository runs the aggregate read queries over a pgx pool, separate
// from the database/sql pool the ledger writes through.
type ReportRepository struct {
	pool *pgxpool.Pool
}

func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// NewPool opens a pgx pool and verifies it.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping pgx pool: %w", err)
	}
	return pool, nil
}

// Sums are cast to text and parsed so no precision is lost on the way out.
const incomeExpenseColumns = `
	COALESCE(SUM(CASE WHEN t.type = 'Income' THEN t.amount END), 0)::text,
	COALESCE(SUM(CASE WHEN t.type = 'Expense' THEN t.amount END), 0)::text`

func parseTotals(income, expense string) (models.Totals, error) {
	in, err := decimal.NewFromString(income)
	if err != nil {
		return models.Totals{}, err
	}
	out, err := decimal.NewFromString(expense)
	if err != nil {
		return models.Totals{}, err
	}
	return models.NewTotals(in, out), nil
}

// Summary aggregates the user's transactions in [from, to]. An empty
// accountID covers every account.
func (r *ReportRepository) Summary(ctx context.Context, userID, accountID string, from, to time.Time) (*models.Summary, error) {
	s := &models.Summary{From: from, To: to, ByCategory: []models.CategoryTotals{}, ByAccount: []models.AccountTotals{}}
	args := []any{userID, from, to, accountID}
	filter := `t.user_id = $1 AND t.date >= $2 AND t.date <= $3 AND ($4 = '' OR t.account_id = $4)`

	var income, expense string
	if err := r.pool.QueryRow(ctx, `SELECT `+incomeExpenseColumns+` FROM transactions t WHERE `+filter, args...).
		Scan(&income, &expense); err != nil {
		return nil, errs.Internal("failed to load summary totals", err)
	}
	totals, err := parseTotals(income, expense)
	if err != nil {
		return nil, errs.Internal("failed to parse summary totals", err)
	}
	s.Totals = totals

	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.name, `+incomeExpenseColumns+`
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE `+filter+`
		GROUP BY c.id, c.name
		ORDER BY c.name`, args...)
	if err != nil {
		return nil, errs.Internal("failed to load category totals", err)
	}
	for rows.Next() {
		var ct models.CategoryTotals
		if err := rows.Scan(&ct.CategoryID, &ct.Name, &income, &expense); err != nil {
			rows.Close()
			return nil, errs.Internal("failed to scan category totals", err)
		}
		if ct.Totals, err = parseTotals(income, expense); err != nil {
			rows.Close()
			return nil, errs.Internal("failed to parse category totals", err)
		}
		s.ByCategory = append(s.ByCategory, ct)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, errs.Internal("failed to load category totals", err)
	}

	rows, err = r.pool.Query(ctx, `
		SELECT a.id, a.name, a.currency, `+incomeExpenseColumns+`
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE `+filter+`
		GROUP BY a.id, a.name, a.currency
		ORDER BY a.name`, args...)
	if err != nil {
		return nil, errs.Internal("failed to load account totals", err)
	}
	defer rows.Close()
	for rows.Next() {
		var at models.AccountTotals
		if err := rows.Scan(&at.AccountID, &at.Name, &at.Currency, &income, &expense); err != nil {
			return nil, errs.Internal("failed to scan account totals", err)
		}
		if at.Totals, err = parseTotals(income, expense); err != nil {
			return nil, errs.Internal("failed to parse account totals", err)
		}
		s.ByAccount = append(s.ByAccount, at)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Internal("failed to load account totals", err)
	}
	return s, nil
}

// Statement lists one account's transactions in [from, to] oldest first,
// with the balance carried forward from everything dated before from.
func (r *ReportRepository) Statement(ctx context.Context, accountID string, from, to time.Time) (*models.Statement, error) {
	st := &models.Statement{From: from, To: to, Lines: []models.StatementLine{}}

	var balance, initial string
	a := &st.Account
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, name, account_type, currency, balance::text, initial_balance::text, created_at, updated_at
		FROM accounts WHERE id = $1`, accountID).
		Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &a.Currency, &balance, &initial, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrAccountNotFound
	}
	if err != nil {
		return nil, errs.Internal("failed to load statement account", err)
	}
	if a.Balance, err = decimal.NewFromString(balance); err != nil {
		return nil, errs.Internal("failed to parse balance", err)
	}
	if a.InitialBalance, err = decimal.NewFromString(initial); err != nil {
		return nil, errs.Internal("failed to parse initial balance", err)
	}

	var carried string
	if err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(CASE WHEN type = 'Income' THEN amount ELSE -amount END), 0)::text
		FROM transactions WHERE account_id = $1 AND date < $2`, accountID, from).Scan(&carried); err != nil {
		return nil, errs.Internal("failed to load opening balance", err)
	}
	c, err := decimal.NewFromString(carried)
	if err != nil {
		return nil, errs.Internal("failed to parse opening balance", err)
	}
	st.OpeningBalance = a.InitialBalance.Add(c)

	rows, err := r.pool.Query(ctx, `
		SELECT id, account_id, user_id, category_id, amount::text, type, COALESCE(description, ''), date, created_at, updated_at
		FROM transactions
		WHERE account_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date, created_at`, accountID, from, to)
	if err != nil {
		return nil, errs.Internal("failed to load statement lines", err)
	}
	defer rows.Close()

	running := st.OpeningBalance
	for rows.Next() {
		var line models.StatementLine
		var amount string
		t := &line.Transaction
		if err := rows.Scan(&t.ID, &t.AccountID, &t.UserID, &t.CategoryID, &amount, &t.Type,
			&t.Description, &t.Date, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, errs.Internal("failed to scan statement line", err)
		}
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, errs.Internal("failed to parse amount", err)
		}
		running = running.Add(ledger.Effect(t.Amount, t.Type))
		line.Balance = running
		st.Lines = append(st.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Internal("failed to load statement lines", err)
	}
	st.ClosingBalance = running
	return st, nil
}
