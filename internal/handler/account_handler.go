package handler

import (
	"context"
	"net/http"

	"github.com/ElPoteRD/CuentaClaras-sub000/internal/ledger"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/cqrs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/middleware"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AccountCommander defines the write-side operations used by AccountHandler.
type AccountCommander interface {
	CreateAccount(context.Context, cqrs.CreateAccountCommand) (*models.Account, error)
	UpdateAccount(context.Context, cqrs.UpdateAccountCommand) (*models.Account, error)
	DeleteAccount(context.Context, cqrs.DeleteAccountCommand) (*ledger.AccountRemoval, error)
}

// AccountQuerier defines the read-side operations used by AccountHandler.
type AccountQuerier interface {
	GetAccount(context.Context, cqrs.GetAccountQuery) (*models.Account, error)
	ListAccounts(context.Context, cqrs.ListAccountsQuery) ([]models.Account, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	commands AccountCommander
	queries  AccountQuerier
}

type CreateAccountRequest struct {
	Name           string          `json:"name" validate:"required,max=100"`
	Type           string          `json:"type" validate:"required,oneof=bank credit cash investment"`
	Currency       string          `json:"currency" validate:"required,iso4217"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
}

type UpdateAccountRequest struct {
	Name string `json:"name" validate:"omitempty,max=100"`
	Type string `json:"type" validate:"omitempty,oneof=bank credit cash investment"`
}

type DeleteAccountRequest struct {
	AccountID string `json:"accountId" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

type ListAccountsResponse struct {
	Accounts []models.Account `json:"accounts"`
}

type DeleteAccountResponse struct {
	AccountID           string `json:"accountId"`
	DeletedTransactions int    `json:"deletedTransactions"`
	DeletedGoals        int64  `json:"deletedGoals"`
}

func NewAccountHandler(commands AccountCommander, queries AccountQuerier) *AccountHandler {
	return &AccountHandler{commands: commands, queries: queries}
}

func (h *AccountHandler) CreateAccount(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req CreateAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	account, err := h.commands.CreateAccount(c.Request.Context(), cqrs.CreateAccountCommand{
		UserID:         userID,
		Name:           req.Name,
		Type:           models.AccountType(req.Type),
		Currency:       req.Currency,
		InitialBalance: req.InitialBalance,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to create account")
		return
	}

	c.JSON(http.StatusCreated, account)
}

func (h *AccountHandler) ListAccounts(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	accounts, err := h.queries.ListAccounts(c.Request.Context(), cqrs.ListAccountsQuery{UserID: userID})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to list accounts")
		return
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	c.JSON(http.StatusOK, ListAccountsResponse{Accounts: accounts})
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	account, err := h.queries.GetAccount(c.Request.Context(), cqrs.GetAccountQuery{
		AccountID:        c.Param("id"),
		RequestingUserID: userID,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to fetch account")
		return
	}

	c.JSON(http.StatusOK, account)
}

func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req UpdateAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	account, err := h.commands.UpdateAccount(c.Request.Context(), cqrs.UpdateAccountCommand{
		AccountID:        c.Param("id"),
		RequestingUserID: userID,
		Name:             req.Name,
		Type:             models.AccountType(req.Type),
	})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to update account")
		return
	}

	c.JSON(http.StatusOK, account)
}

// DeleteAccount takes the account id and the caller's password in the body.
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req DeleteAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	removal, err := h.commands.DeleteAccount(c.Request.Context(), cqrs.DeleteAccountCommand{
		AccountID:        req.AccountID,
		RequestingUserID: userID,
		Password:         req.Password,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to delete account")
		return
	}

	c.JSON(http.StatusOK, DeleteAccountResponse{
		AccountID:           removal.Account.ID,
		DeletedTransactions: len(removal.TransactionIDs),
		DeletedGoals:        removal.Goals,
	})
}
