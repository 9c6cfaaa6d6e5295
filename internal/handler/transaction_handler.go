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

// TransactionCommander defines the write-side operations used by TransactionHandler.
type TransactionCommander interface {
	CreateTransaction(context.Context, cqrs.CreateTransactionCommand) (*ledger.Result, error)
	UpdateTransaction(context.Context, cqrs.UpdateTransactionCommand) (*ledger.Result, error)
	DeleteTransaction(context.Context, cqrs.DeleteTransactionCommand) (*ledger.Result, error)
}

// TransactionQuerier defines the read-side operations used by TransactionHandler.
type TransactionQuerier interface {
	GetTransaction(context.Context, cqrs.GetTransactionQuery) (*models.Transaction, error)
	ListTransactions(context.Context, cqrs.ListTransactionsQuery) ([]models.Transaction, error)
}

// TransactionHandler handles transaction-related HTTP requests. Every write
// answers with the account balance it committed.
type TransactionHandler struct {
	commands TransactionCommander
	queries  TransactionQuerier
}

type CreateTransactionRequest struct {
	AccountID   string          `json:"accountId" validate:"required"`
	CategoryID  string          `json:"categoryId" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Type        string          `json:"type" validate:"required,oneof=Income Expense"`
	Description string          `json:"description" validate:"max=255"`
	Date        string          `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateTransactionRequest leaves absent fields unchanged. The account of a
// transaction cannot be changed.
type UpdateTransactionRequest struct {
	CategoryID  *string          `json:"categoryId"`
	Amount      *decimal.Decimal `json:"amount"`
	Type        *string          `json:"type" validate:"omitempty,oneof=Income Expense"`
	Description *string          `json:"description" validate:"omitempty,max=255"`
	Date        *string          `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

type TransactionResponse struct {
	Transaction *models.Transaction `json:"transaction"`
	Balance     decimal.Decimal     `json:"balance"`
}

type ListTransactionsResponse struct {
	Transactions []models.Transaction `json:"transactions"`
}

func NewTransactionHandler(commands TransactionCommander, queries TransactionQuerier) *TransactionHandler {
	return &TransactionHandler{commands: commands, queries: queries}
}

func resultResponse(res *ledger.Result) TransactionResponse {
	return TransactionResponse{Transaction: res.Transaction, Balance: res.Account.Balance}
}

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req CreateTransactionRequest
	if !bindJSON(c, &req) {
		return
	}
	date, err := parseDay("date", req.Date)
	if err != nil {
		middleware.RespondWithAppError(c, err, "Invalid date")
		return
	}

	res, err := h.commands.CreateTransaction(c.Request.Context(), cqrs.CreateTransactionCommand{
		AccountID:   req.AccountID,
		UserID:      userID,
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		Type:        models.TransactionType(req.Type),
		Description: req.Description,
		Date:        date,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to create transaction")
		return
	}

	c.JSON(http.StatusCreated, resultResponse(res))
}

func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	from, to, err := queryRange(c)
	if err != nil {
		middleware.RespondWithAppError(c, err, "Invalid date range")
		return
	}

	txns, err := h.queries.ListTransactions(c.Request.Context(), cqrs.ListTransactionsQuery{
		UserID:     userID,
		AccountID:  c.Query("accountId"),
		CategoryID: c.Query("categoryId"),
		Type:       models.TransactionType(c.Query("type")),
		From:       from,
		To:         to,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to list transactions")
		return
	}
	if txns == nil {
		txns = []models.Transaction{}
	}

	c.JSON(http.StatusOK, ListTransactionsResponse{Transactions: txns})
}

func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	txn, err := h.queries.GetTransaction(c.Request.Context(), cqrs.GetTransactionQuery{
		TransactionID: c.Param("id"),
		UserID:        userID,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to fetch transaction")
		return
	}

	c.JSON(http.StatusOK, txn)
}

func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req UpdateTransactionRequest
	if !bindJSON(c, &req) {
		return
	}
	date, err := parseOptionalDay("date", req.Date)
	if err != nil {
		middleware.RespondWithAppError(c, err, "Invalid date")
		return
	}

	cmd := cqrs.UpdateTransactionCommand{
		TransactionID: c.Param("id"),
		UserID:        userID,
		CategoryID:    req.CategoryID,
		Amount:        req.Amount,
		Description:   req.Description,
		Date:          date,
	}
	if req.Type != nil {
		t := models.TransactionType(*req.Type)
		cmd.Type = &t
	}

	res, err := h.commands.UpdateTransaction(c.Request.Context(), cmd)
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to update transaction")
		return
	}

	c.JSON(http.StatusOK, resultResponse(res))
}

func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	res, err := h.commands.DeleteTransaction(c.Request.Context(), cqrs.DeleteTransactionCommand{
		TransactionID: c.Param("id"),
		UserID:        userID,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to delete transaction")
		return
	}

	c.JSON(http.StatusOK, resultResponse(res))
}
