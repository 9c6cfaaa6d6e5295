package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/ElPoteRD/CuentaClaras-sub000/internal/ledger"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/cqrs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/errs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ---- mock implementations ----

type mockAccountCommander struct {
	createFn func(cqrs.CreateAccountCommand) (*models.Account, error)
	updateFn func(cqrs.UpdateAccountCommand) (*models.Account, error)
	deleteFn func(cqrs.DeleteAccountCommand) (*ledger.AccountRemoval, error)
}

func (m *mockAccountCommander) CreateAccount(_ context.Context, cmd cqrs.CreateAccountCommand) (*models.Account, error) {
	if m.createFn != nil {
		return m.createFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockAccountCommander) UpdateAccount(_ context.Context, cmd cqrs.UpdateAccountCommand) (*models.Account, error) {
	if m.updateFn != nil {
		return m.updateFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockAccountCommander) DeleteAccount(_ context.Context, cmd cqrs.DeleteAccountCommand) (*ledger.AccountRemoval, error) {
	if m.deleteFn != nil {
		return m.deleteFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}

type mockAccountQuerier struct {
	getFn  func(cqrs.GetAccountQuery) (*models.Account, error)
	listFn func(cqrs.ListAccountsQuery) ([]models.Account, error)
}

func (m *mockAccountQuerier) GetAccount(_ context.Context, q cqrs.GetAccountQuery) (*models.Account, error) {
	if m.getFn != nil {
		return m.getFn(q)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockAccountQuerier) ListAccounts(_ context.Context, q cqrs.ListAccountsQuery) ([]models.Account, error) {
	if m.listFn != nil {
		return m.listFn(q)
	}
	return nil, fmt.Errorf("not configured")
}

// ---- helpers ----

func newAccountTestRouter(cmds AccountCommander, qrys AccountQuerier, authUserID string) *gin.Engine {
	r := newTestEngine(authUserID)
	h := NewAccountHandler(cmds, qrys)
	g := r.Group("/account")
	g.POST("/createAccount", h.CreateAccount)
	g.DELETE("/deleteAccount", h.DeleteAccount)
	g.GET("", h.ListAccounts)
	g.GET("/:id", h.GetAccount)
	g.PATCH("/:id", h.UpdateAccount)
	return r
}

// ---- test data ----

var aTestAccount = &models.Account{
	ID: "acc-001", UserID: "usr-001", Name: "Ahorros", Type: models.AccountTypeBank,
	Currency: "DOP", Balance: decimal.RequireFromString("100.00"), InitialBalance: decimal.RequireFromString("100.00"),
	CreatedAt: time.Now(), UpdatedAt: time.Now(),
}

func aValidCreateBody() map[string]any {
	return map[string]any{"name": "Ahorros", "type": "bank", "currency": "DOP", "initialBalance": "100.00"}
}

// ---- tests ----

func TestCreateAccount(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		createFn       func(cqrs.CreateAccountCommand) (*models.Account, error)
		expectedStatus int
	}{
		{
			name: "success - create bank account",
			body: aValidCreateBody(),
			createFn: func(cmd cqrs.CreateAccountCommand) (*models.Account, error) {
				if cmd.UserID != "usr-001" || !cmd.InitialBalance.Equal(decimal.NewFromInt(100)) {
					return nil, fmt.Errorf("unexpected command %+v", cmd)
				}
				return aTestAccount, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "bad request - missing required fields",
			body:           map[string]any{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - invalid account type",
			body:           map[string]any{"name": "Test", "type": "business", "currency": "DOP"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - invalid currency",
			body:           map[string]any{"name": "Test", "type": "cash", "currency": "XXQ"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - malformed json",
			body:           `{"name":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "bad request - service validation",
			body: aValidCreateBody(),
			createFn: func(cqrs.CreateAccountCommand) (*models.Account, error) {
				return nil, errs.Validation("initialBalance must have at most 2 decimal places")
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "internal error - storage failure",
			body: aValidCreateBody(),
			createFn: func(cqrs.CreateAccountCommand) (*models.Account, error) {
				return nil, errs.Internal("failed to create account", fmt.Errorf("connection reset"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := &mockAccountCommander{createFn: tt.createFn}
			router := newAccountTestRouter(cmds, &mockAccountQuerier{}, "usr-001")
			w := doRequest(router, http.MethodPost, "/account/createAccount", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestListAccounts(t *testing.T) {
	listFn := func(q cqrs.ListAccountsQuery) ([]models.Account, error) {
		if q.UserID != "usr-001" {
			return nil, nil
		}
		return []models.Account{*aTestAccount}, nil
	}
	router := newAccountTestRouter(&mockAccountCommander{}, &mockAccountQuerier{listFn: listFn}, "usr-001")
	w := doRequest(router, http.MethodGet, "/account", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Accounts []map[string]any `json:"accounts"`
	}
	if err := decodeBody(w, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Accounts) != 1 || resp.Accounts[0]["id"] != "acc-001" {
		t.Errorf("unexpected accounts %v", resp.Accounts)
	}
	if _, leaked := resp.Accounts[0]["userId"]; leaked {
		t.Errorf("owner id must not be serialised")
	}

	empty := newAccountTestRouter(&mockAccountCommander{}, &mockAccountQuerier{listFn: listFn}, "usr-002")
	w = doRequest(empty, http.MethodGet, "/account", nil)
	if w.Body.String() != `{"accounts":[]}` {
		t.Errorf("expected empty list, got %s", w.Body.String())
	}
}

func TestGetAccount(t *testing.T) {
	tests := []struct {
		name           string
		accountID      string
		getFn          func(cqrs.GetAccountQuery) (*models.Account, error)
		expectedStatus int
	}{
		{
			name:           "success - fetch own account",
			accountID:      "acc-001",
			getFn:          func(q cqrs.GetAccountQuery) (*models.Account, error) { return aTestAccount, nil },
			expectedStatus: http.StatusOK,
		},
		{
			name:           "forbidden - fetch another user's account",
			accountID:      "acc-999",
			getFn:          func(q cqrs.GetAccountQuery) (*models.Account, error) { return nil, errs.ErrForbidden },
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "not found - account does not exist",
			accountID:      "acc-000",
			getFn:          func(q cqrs.GetAccountQuery) (*models.Account, error) { return nil, errs.ErrAccountNotFound },
			expectedStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAccountTestRouter(&mockAccountCommander{}, &mockAccountQuerier{getFn: tt.getFn}, "usr-001")
			w := doRequest(router, http.MethodGet, "/account/"+tt.accountID, nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestUpdateAccount(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		updateFn       func(cqrs.UpdateAccountCommand) (*models.Account, error)
		expectedStatus int
	}{
		{
			name: "success - rename own account",
			body: map[string]any{"name": "Nómina"},
			updateFn: func(cmd cqrs.UpdateAccountCommand) (*models.Account, error) {
				if cmd.AccountID != "acc-001" || cmd.Name != "Nómina" {
					return nil, fmt.Errorf("unexpected command %+v", cmd)
				}
				return aTestAccount, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "bad request - invalid type",
			body:           map[string]any{"type": "savings"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "forbidden - update another user's account",
			body:           map[string]any{"name": "x"},
			updateFn:       func(cmd cqrs.UpdateAccountCommand) (*models.Account, error) { return nil, errs.ErrForbidden },
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "not found - account does not exist",
			body:           map[string]any{"name": "x"},
			updateFn:       func(cmd cqrs.UpdateAccountCommand) (*models.Account, error) { return nil, errs.ErrAccountNotFound },
			expectedStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := &mockAccountCommander{updateFn: tt.updateFn}
			router := newAccountTestRouter(cmds, &mockAccountQuerier{}, "usr-001")
			w := doRequest(router, http.MethodPatch, "/account/acc-001", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestDeleteAccount(t *testing.T) {
	removed := &ledger.AccountRemoval{Account: aTestAccount, TransactionIDs: []string{"tan-1", "tan-2"}, Goals: 1}
	tests := []struct {
		name           string
		body           any
		deleteFn       func(cqrs.DeleteAccountCommand) (*ledger.AccountRemoval, error)
		expectedStatus int
	}{
		{
			name: "success - delete own account",
			body: map[string]any{"accountId": "acc-001", "password": "s3cret!!"},
			deleteFn: func(cmd cqrs.DeleteAccountCommand) (*ledger.AccountRemoval, error) {
				if cmd.AccountID != "acc-001" || cmd.Password != "s3cret!!" || cmd.RequestingUserID != "usr-001" {
					return nil, fmt.Errorf("unexpected command %+v", cmd)
				}
				return removed, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "bad request - missing password",
			body:           map[string]any{"accountId": "acc-001"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unauthorized - wrong password",
			body:           map[string]any{"accountId": "acc-001", "password": "nope"},
			deleteFn:       func(cqrs.DeleteAccountCommand) (*ledger.AccountRemoval, error) { return nil, errs.ErrInvalidCredentials },
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "forbidden - delete another user's account",
			body:           map[string]any{"accountId": "acc-999", "password": "s3cret!!"},
			deleteFn:       func(cqrs.DeleteAccountCommand) (*ledger.AccountRemoval, error) { return nil, errs.ErrForbidden },
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "not found - account does not exist",
			body:           map[string]any{"accountId": "acc-000", "password": "s3cret!!"},
			deleteFn:       func(cqrs.DeleteAccountCommand) (*ledger.AccountRemoval, error) { return nil, errs.ErrAccountNotFound },
			expectedStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := &mockAccountCommander{deleteFn: tt.deleteFn}
			router := newAccountTestRouter(cmds, &mockAccountQuerier{}, "usr-001")
			w := doRequest(router, http.MethodDelete, "/account/deleteAccount", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
			if w.Code == http.StatusOK {
				var resp DeleteAccountResponse
				if err := decodeBody(w, &resp); err != nil || resp.DeletedTransactions != 2 || resp.DeletedGoals != 1 {
					t.Errorf("unexpected response %s", w.Body.String())
				}
			}
		})
	}
}
