package command

import (
	"context"
	"errors"
	"sync"

	"github.com/ElPoteRD/CuentaClaras-sub000/internal/ledger"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/errs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/models"
)

var errNotConfigured = errors.New("not configured")

type mockLedger struct {
	postFn    func(ledger.PostParams) (*ledger.Result, error)
	reverseFn func(txID, userID string) (*ledger.Result, error)
	editFn    func(ledger.EditParams) (*ledger.Result, error)
	deleteFn  func(accountID, userID string) (*ledger.AccountRemoval, error)
	calls     int
}

func (m *mockLedger) PostTransaction(_ context.Context, p ledger.PostParams) (*ledger.Result, error) {
	m.calls++
	if m.postFn != nil {
		return m.postFn(p)
	}
	return nil, errNotConfigured
}

func (m *mockLedger) ReverseTransaction(_ context.Context, txID, userID string) (*ledger.Result, error) {
	m.calls++
	if m.reverseFn != nil {
		return m.reverseFn(txID, userID)
	}
	return nil, errNotConfigured
}

func (m *mockLedger) EditTransaction(_ context.Context, p ledger.EditParams) (*ledger.Result, error) {
	m.calls++
	if m.editFn != nil {
		return m.editFn(p)
	}
	return nil, errNotConfigured
}

func (m *mockLedger) DeleteAccount(_ context.Context, accountID, userID string) (*ledger.AccountRemoval, error) {
	m.calls++
	if m.deleteFn != nil {
		return m.deleteFn(accountID, userID)
	}
	return nil, errNotConfigured
}

type mockAccountStore struct {
	accounts map[string]*models.Account
	createFn func(*models.Account) error
}

func (m *mockAccountStore) Create(_ context.Context, a *models.Account) error {
	if m.createFn != nil {
		return m.createFn(a)
	}
	if m.accounts == nil {
		m.accounts = map[string]*models.Account{}
	}
	m.accounts[a.ID] = a
	return nil
}

func (m *mockAccountStore) GetByID(_ context.Context, id string) (*models.Account, error) {
	if a, ok := m.accounts[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, errs.ErrAccountNotFound
}

func (m *mockAccountStore) Update(_ context.Context, a *models.Account) error {
	m.accounts[a.ID] = a
	return nil
}

type mockUserStore struct {
	users       map[string]*models.User
	createFn    func(*models.User) error
	hasAccounts bool
	deleted     []string
}

func (m *mockUserStore) Create(_ context.Context, u *models.User) error {
	if m.createFn != nil {
		return m.createFn(u)
	}
	if m.users == nil {
		m.users = map[string]*models.User{}
	}
	m.users[u.ID] = u
	return nil
}

func (m *mockUserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, errs.ErrUserNotFound
}

func (m *mockUserStore) Update(_ context.Context, u *models.User) error {
	m.users[u.ID] = u
	return nil
}

func (m *mockUserStore) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.users, id)
	return nil
}

func (m *mockUserStore) HasAccounts(context.Context, string) (bool, error) {
	return m.hasAccounts, nil
}

type mockCategoryStore struct {
	categories map[string]*models.Category
	deleteErr  error
}

func (m *mockCategoryStore) Create(_ context.Context, c *models.Category) error {
	if m.categories == nil {
		m.categories = map[string]*models.Category{}
	}
	m.categories[c.ID] = c
	return nil
}

func (m *mockCategoryStore) GetByID(_ context.Context, id string) (*models.Category, error) {
	if c, ok := m.categories[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, errs.ErrCategoryNotFound
}

func (m *mockCategoryStore) Update(_ context.Context, c *models.Category) error {
	m.categories[c.ID] = c
	return nil
}

func (m *mockCategoryStore) Delete(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.categories, id)
	return nil
}

type mockGoalStore struct {
	goals     map[string]*models.Goal
	createErr error
}

func (m *mockGoalStore) Create(_ context.Context, g *models.Goal) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.goals == nil {
		m.goals = map[string]*models.Goal{}
	}
	m.goals[g.ID] = g
	return nil
}

func (m *mockGoalStore) GetByID(_ context.Context, id string) (*models.Goal, error) {
	if g, ok := m.goals[id]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, errs.ErrGoalNotFound
}

func (m *mockGoalStore) Update(_ context.Context, g *models.Goal) error {
	m.goals[g.ID] = g
	return nil
}

func (m *mockGoalStore) Delete(_ context.Context, id string) error {
	delete(m.goals, id)
	return nil
}

type mockOpinionStore struct {
	opinions map[string]*models.Opinion
}

func (m *mockOpinionStore) Create(_ context.Context, o *models.Opinion) error {
	if m.opinions == nil {
		m.opinions = map[string]*models.Opinion{}
	}
	m.opinions[o.ID] = o
	return nil
}

func (m *mockOpinionStore) GetByID(_ context.Context, id string) (*models.Opinion, error) {
	if o, ok := m.opinions[id]; ok {
		return o, nil
	}
	return nil, errs.ErrOpinionNotFound
}

func (m *mockOpinionStore) Delete(_ context.Context, id string) error {
	delete(m.opinions, id)
	return nil
}

type recordingViews struct {
	cached      []string
	invalidated []string
}

func (v *recordingViews) CacheTransactionView(_ context.Context, view *models.TransactionView) {
	v.cached = append(v.cached, view.ID)
}

func (v *recordingViews) InvalidateTransactionViews(_ context.Context, ids ...string) {
	v.invalidated = append(v.invalidated, ids...)
}

type recordingPublisher struct {
	mu    sync.Mutex
	types []string
	err   error
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.types = append(p.types, eventType)
	return p.err
}
