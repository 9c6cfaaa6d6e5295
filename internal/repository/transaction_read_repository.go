package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ElPoteRD/CuentaClaras-sub000/shared/cqrs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/errs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/models"
	sharedredis "github.com/ElPoteRD/CuentaClaras-sub000/shared/redis"
	goredis "github.com/redis/go-redis/v9"
)

const transactionViewKeyPrefix = "transaction:view:"

// TransactionReadRepository handles all read operations for transactions.
// Single lookups go through the Redis view cache; lists always hit PostgreSQL.
type TransactionReadRepository struct {
	db    *sql.DB
	cache *sharedredis.ViewCache[models.TransactionView]
}

func NewTransactionReadRepository(db *sql.DB, redisClient *goredis.Client, ttl time.Duration) *TransactionReadRepository {
	return &TransactionReadRepository{
		db:    db,
		cache: sharedredis.NewViewCache[models.TransactionView](redisClient, transactionViewKeyPrefix, ttl),
	}
}

// GetByID returns a TransactionView by attempting Redis first, then PostgreSQL.
// The view loaded here is cached under the row's updated_at, so it never
// replaces a view written after a later commit or a removal marker.
func (r *TransactionReadRepository) GetByID(ctx context.Context, id string) (*models.TransactionView, error) {
	if view, ok := r.cache.Get(ctx, id); ok {
		return view, nil
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err, errs.ErrTransactionNotFound, "get transaction")
	}

	view := t.View()
	r.cache.Set(ctx, id, view, sharedredis.Version(t.UpdatedAt))
	return view, nil
}

// List returns the user's transactions matching q, newest first.
func (r *TransactionReadRepository) List(ctx context.Context, q cqrs.ListTransactionsQuery) ([]models.TransactionView, error) {
	where, args := transactionFilter(q)
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` + where + ` ORDER BY date DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, nil, "list transactions")
	}
	defer rows.Close()

	views := []models.TransactionView{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, errs.Internal("failed to scan transaction", err)
		}
		views = append(views, *t.View())
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Internal("failed to list transactions", err)
	}
	return views, nil
}

func transactionFilter(q cqrs.ListTransactionsQuery) (string, []any) {
	conds := []string{"user_id = $1"}
	args := []any{q.UserID}
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if q.AccountID != "" {
		add("account_id = $%d", q.AccountID)
	}
	if q.CategoryID != "" {
		add("category_id = $%d", q.CategoryID)
	}
	if q.Type != "" {
		add("type = $%d", q.Type)
	}
	if !q.From.IsZero() {
		add("date >= $%d", q.From)
	}
	if !q.To.IsZero() {
		add("date <= $%d", q.To)
	}
	return strings.Join(conds, " AND "), args
}

// CacheTransactionView stores the read model for a transaction in Redis.
// Called by the command service after every committed post or edit.
func (r *TransactionReadRepository) CacheTransactionView(ctx context.Context, view *models.TransactionView) {
	r.cache.Set(ctx, view.ID, view, sharedredis.Version(view.UpdatedAt))
}

// InvalidateTransactionViews marks reversed or cascaded rows as removed so
// in-flight reads that loaded them before the commit cannot cache them again.
func (r *TransactionReadRepository) InvalidateTransactionViews(ctx context.Context, ids ...string) {
	r.cache.Delete(ctx, ids...)
}
