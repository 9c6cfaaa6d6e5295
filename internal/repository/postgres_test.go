package repository

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/ElPoteRD/CuentaClaras-sub000/internal/ledger"
	"github.com/ElPoteRD/CuentaClaras-sub000/migrations"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/errs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/models"
	sharedredis "github.com/ElPoteRD/CuentaClaras-sub000/shared/redis"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/utils"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests run against a real PostgreSQL when TEST_DATABASE_URL is set,
// and additionally against Redis when TEST_REDIS_ADDR is set.

type fixture struct {
	db       *sql.DB
	user     *models.User
	account  *models.Account
	category *models.Category
}

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	db, err := Open(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Apply(ctx, db))
	return db
}

func testRedis(t *testing.T) *goredis.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	c, err := sharedredis.NewClient(context.Background(), addr, os.Getenv("TEST_REDIS_PASSWORD"), 0)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c.Client
}

func newFixture(t *testing.T, db *sql.DB, initial string) *fixture {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()

	user := &models.User{
		ID: utils.GenerateID(utils.PrefixUser), Name: "Ana",
		PasswordHash: "x", CreatedAt: now, UpdatedAt: now,
	}
	user.Email = user.ID + "@example.com"
	require.NoError(t, NewUserWriteRepository(db).Create(ctx, user))

	bal := decimal.RequireFromString(initial)
	account := &models.Account{
		ID: utils.GenerateID(utils.PrefixAccount), UserID: user.ID, Name: "Main",
		Type: models.AccountTypeBank, Currency: "USD", Balance: bal, InitialBalance: bal,
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, NewAccountWriteRepository(db).Create(ctx, account))

	category := &models.Category{ID: utils.GenerateID(utils.PrefixCategory), UserID: user.ID, Name: "Food", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, NewCategoryRepository(db, nil, 0).Create(ctx, category))

	t.Cleanup(func() {
		for _, q := range []string{
			`DELETE FROM transactions WHERE user_id = $1`,
			`DELETE FROM goals WHERE user_id = $1`,
			`DELETE FROM accounts WHERE user_id = $1`,
			`DELETE FROM users WHERE id = $1`,
		} {
			if _, err := db.ExecContext(context.Background(), q, user.ID); err != nil {
				t.Errorf("cleanup %q: %v", q, err)
			}
		}
	})
	return &fixture{db: db, user: user, account: account, category: category}
}

func (f *fixture) post(t *testing.T, l *ledger.Ledger, amount string, typ models.TransactionType) *ledger.Result {
	t.Helper()
	res, err := l.PostTransaction(context.Background(), ledger.PostParams{
		AccountID: f.account.ID, UserID: f.user.ID, CategoryID: f.category.ID,
		Amount: decimal.RequireFromString(amount), Type: typ,
	})
	require.NoError(t, err)
	return res
}

func (f *fixture) balance(t *testing.T) decimal.Decimal {
	t.Helper()
	a, err := NewAccountWriteRepository(f.db).GetByID(context.Background(), f.account.ID)
	require.NoError(t, err)
	return a.Balance
}

func TestPostgresConcurrentPostsBothApply(t *testing.T) {
	f := newFixture(t, testDB(t), "100")
	l := ledger.New(NewLedgerRepository(f.db))

	var wg sync.WaitGroup
	errCh := make(chan error, 2)
	for _, p := range []struct {
		amount string
		typ    models.TransactionType
	}{{"30", models.TransactionIncome}, {"20", models.TransactionExpense}} {
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.PostTransaction(context.Background(), ledger.PostParams{
				AccountID: f.account.ID, UserID: f.user.ID, CategoryID: f.category.ID,
				Amount: decimal.RequireFromString(p.amount), Type: p.typ,
			})
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}

	assert.True(t, decimal.RequireFromString("110").Equal(f.balance(t)), "balance %s", f.balance(t))
}

func TestPostgresManyConcurrentPostsReconcile(t *testing.T) {
	f := newFixture(t, testDB(t), "0")
	l := ledger.New(NewLedgerRepository(f.db))

	const n = 20
	var wg sync.WaitGroup
	errCh := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			typ := models.TransactionIncome
			if i%4 == 0 {
				typ = models.TransactionExpense
			}
			_, err := l.PostTransaction(context.Background(), ledger.PostParams{
				AccountID: f.account.ID, UserID: f.user.ID, CategoryID: f.category.ID,
				Amount: decimal.RequireFromString("10.50"), Type: typ,
			})
			errCh <- err
		}(i)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}

	// 15 incomes and 5 expenses of 10.50.
	assert.True(t, decimal.RequireFromString("105").Equal(f.balance(t)), "balance %s", f.balance(t))
	rec, err := l.Reconcile(context.Background(), f.account.ID)
	require.NoError(t, err)
	assert.True(t, rec.Consistent(), "stored %s expected %s", rec.Stored, rec.Expected)
}

func TestPostgresEditAndReverse(t *testing.T) {
	f := newFixture(t, testDB(t), "100")
	l := ledger.New(NewLedgerRepository(f.db))
	ctx := context.Background()

	res := f.post(t, l, "50", models.TransactionIncome)
	expense := models.TransactionExpense
	_, err := l.EditTransaction(ctx, ledger.EditParams{TransactionID: res.Transaction.ID, UserID: f.user.ID, Type: &expense})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("50").Equal(f.balance(t)))

	_, err = l.ReverseTransaction(ctx, res.Transaction.ID, f.user.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("100").Equal(f.balance(t)))

	_, err = l.ReverseTransaction(ctx, res.Transaction.ID, f.user.ID)
	assert.ErrorIs(t, err, errs.ErrTransactionNotFound)
	assert.True(t, decimal.RequireFromString("100").Equal(f.balance(t)))
}

func TestPostgresDeleteAccountCascades(t *testing.T) {
	f := newFixture(t, testDB(t), "100")
	l := ledger.New(NewLedgerRepository(f.db))
	ctx := context.Background()

	first := f.post(t, l, "10", models.TransactionIncome)
	second := f.post(t, l, "5", models.TransactionExpense)
	now := time.Now().UTC()
	require.NoError(t, NewGoalRepository(f.db).Create(ctx, &models.Goal{
		ID: utils.GenerateID(utils.PrefixGoal), UserID: f.user.ID, AccountID: f.account.ID, Name: "Trip",
		TargetAmount: decimal.RequireFromString("500"), TargetDate: now.AddDate(1, 0, 0), CreatedAt: now, UpdatedAt: now,
	}))

	removal, err := l.DeleteAccount(ctx, f.account.ID, f.user.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{first.Transaction.ID, second.Transaction.ID}, removal.TransactionIDs)
	assert.Equal(t, int64(1), removal.Goals)

	_, err = NewAccountWriteRepository(f.db).GetByID(ctx, f.account.ID)
	assert.ErrorIs(t, err, errs.ErrAccountNotFound)
	_, err = NewTransactionReadRepository(f.db, nil, 0).GetByID(ctx, first.Transaction.ID)
	assert.ErrorIs(t, err, errs.ErrTransactionNotFound)
}

func TestPostgresCategoryUpdateAdvancesVersion(t *testing.T) {
	f := newFixture(t, testDB(t), "0")
	repo := NewCategoryRepository(f.db, nil, 0)
	ctx := context.Background()

	c := *f.category
	prev := c.UpdatedAt
	for _, name := range []string{"Groceries", "Market"} {
		c.Name = name
		c.UpdatedAt = prev
		require.NoError(t, repo.Update(ctx, &c))
		assert.True(t, c.UpdatedAt.After(prev), "%s not after %s", c.UpdatedAt, prev)
		prev = c.UpdatedAt
	}

	err := repo.Update(ctx, &models.Category{ID: "cat-missing", Name: "x", UpdatedAt: time.Now()})
	assert.ErrorIs(t, err, errs.ErrCategoryNotFound)
}

// A reader that loaded the row just before the reversal committed caches it
// after the writer invalidated it. The removed transaction must still be gone.
func TestTransactionViewNotServedAfterReverse(t *testing.T) {
	f := newFixture(t, testDB(t), "100")
	reads := NewTransactionReadRepository(f.db, testRedis(t), time.Minute)
	l := ledger.New(NewLedgerRepository(f.db))
	ctx := context.Background()

	res := f.post(t, l, "25", models.TransactionIncome)
	stale, err := reads.GetByID(ctx, res.Transaction.ID)
	require.NoError(t, err)

	reversed, err := l.ReverseTransaction(ctx, res.Transaction.ID, f.user.ID)
	require.NoError(t, err)
	reads.InvalidateTransactionViews(ctx, reversed.Transaction.ID)
	reads.cache.Set(ctx, stale.ID, stale, sharedredis.Version(stale.UpdatedAt))

	_, err = reads.GetByID(ctx, res.Transaction.ID)
	assert.ErrorIs(t, err, errs.ErrTransactionNotFound)
}

func TestTransactionViewKeepsLatestEdit(t *testing.T) {
	f := newFixture(t, testDB(t), "100")
	reads := NewTransactionReadRepository(f.db, testRedis(t), time.Minute)
	l := ledger.New(NewLedgerRepository(f.db))
	ctx := context.Background()

	res := f.post(t, l, "25", models.TransactionIncome)
	stale := res.Transaction.View()

	amount := decimal.RequireFromString("40")
	edited, err := l.EditTransaction(ctx, ledger.EditParams{TransactionID: res.Transaction.ID, UserID: f.user.ID, Amount: &amount})
	require.NoError(t, err)
	reads.CacheTransactionView(ctx, edited.Transaction.View())
	reads.CacheTransactionView(ctx, stale)

	got, err := reads.GetByID(ctx, res.Transaction.ID)
	require.NoError(t, err)
	assert.True(t, amount.Equal(got.Amount), "amount %s", got.Amount)
}

func TestPostgresLockAccountMissing(t *testing.T) {
	db := testDB(t)
	err := NewLedgerRepository(db).InTx(context.Background(), func(tx ledger.Tx) error {
		_, err := tx.LockAccount(context.Background(), "acc-missing")
		return err
	})
	assert.True(t, errors.Is(err, errs.ErrAccountNotFound), "got %v", err)
}
