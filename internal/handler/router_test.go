package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ElPoteRD/CuentaClaras-sub000/shared/cqrs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/middleware"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/models"
	"github.com/gin-gonic/gin"
)

type pingFunc func(context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

var routerSecret = []byte("router-secret")

func newFullRouter(db Pinger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	accounts := &mockAccountQuerier{listFn: func(q cqrs.ListAccountsQuery) ([]models.Account, error) {
		return []models.Account{{ID: "acc-001", UserID: q.UserID}}, nil
	}}
	categories := &mockCategoryService{}
	goals := &mockGoalService{}
	opinions := &mockOpinionService{}
	return NewRouter(Handlers{
		Accounts:     NewAccountHandler(&mockAccountCommander{}, accounts),
		Transactions: NewTransactionHandler(&mockTransactionCommander{}, &mockTransactionQuerier{}),
		Categories:   NewCategoryHandler(categories, categories),
		Goals:        NewGoalHandler(goals, goals),
		Opinions:     NewOpinionHandler(opinions, opinions),
		Auth:         NewAuthHandler(&mockAuthQuerier{}),
		Users:        NewUserHandler(&mockUserCommander{}),
		Reports:      NewReportHandler(&mockReportQuerier{}),
	}, RouterConfig{
		JWTSecret:   routerSecret,
		CORSOrigins: []string{"http://localhost:5173"},
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		DB:          db,
	})
}

func TestRouterRequiresToken(t *testing.T) {
	router := newFullRouter(nil)
	protected := []struct{ method, url string }{
		{http.MethodGet, "/account"},
		{http.MethodPost, "/transaction/createTransaction"},
		{http.MethodGet, "/category"},
		{http.MethodGet, "/goals"},
		{http.MethodGet, "/opinion"},
		{http.MethodGet, "/report/summary"},
		{http.MethodGet, "/auth/profile"},
		{http.MethodPatch, "/user"},
		{http.MethodDelete, "/account/deleteAccount"},
	}
	for _, p := range protected {
		w := doRequest(router, p.method, p.url, nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", p.method, p.url, w.Code)
		}
	}
}

func TestRouterAcceptsIssuedToken(t *testing.T) {
	router := newFullRouter(nil)
	token, err := middleware.IssueToken(routerSecret, "usr-042", "ana@example.com", time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/account", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body: %s", w.Code, w.Body.String())
	}
	if w.Header().Get(middleware.RequestIDHeader) == "" {
		t.Errorf("expected a request id header")
	}
}

func TestRouterPublicRoutes(t *testing.T) {
	router := newFullRouter(nil)
	// Public routes reach their handlers, which reject the empty body.
	for _, url := range []string{"/auth/register", "/auth/login", "/auth/refresh"} {
		if w := doRequest(router, http.MethodPost, url, map[string]any{}); w.Code != http.StatusBadRequest {
			t.Errorf("POST %s: expected 400, got %d", url, w.Code)
		}
	}
}

func TestHealth(t *testing.T) {
	up := newFullRouter(pingFunc(func(context.Context) error { return nil }))
	if w := doRequest(up, http.MethodGet, "/health", nil); w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	down := newFullRouter(pingFunc(func(context.Context) error { return errors.New("connection refused") }))
	if w := doRequest(down, http.MethodGet, "/health", nil); w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	router := newFullRouter(nil)
	req := httptest.NewRequest(http.MethodOptions, "/account", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("unexpected allow-origin %q", got)
	}
}
