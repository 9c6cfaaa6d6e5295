package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	UserRegistered = "user.registered"
	UserDeleted    = "user.deleted"

	AccountCreated = "account.created"
	AccountUpdated = "account.updated"
	AccountDeleted = "account.deleted"

	TransactionPosted   = "transaction.posted"
	TransactionEdited   = "transaction.edited"
	TransactionReversed = "transaction.reversed"
	BalanceUpdated      = "balance.updated"
)

// LedgerStream is the single Redis stream carrying every ledger event, so
// consumers see postings and reversals in commit order per account.
const LedgerStream = "ledger.events"

// Event is the envelope appended to the stream.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// Decode re-marshals the generic Data payload into v.
func (e Event) Decode(v any) error {
	raw, err := json.Marshal(e.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", e.Type, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s payload: %w", e.Type, err)
	}
	return nil
}

type UserRegisteredEvent struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

type UserDeletedEvent struct {
	UserID string `json:"userId"`
}

type AccountCreatedEvent struct {
	AccountID      string          `json:"accountId"`
	UserID         string          `json:"userId"`
	Type           string          `json:"type"`
	Currency       string          `json:"currency"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
}

type AccountUpdatedEvent struct {
	AccountID string `json:"accountId"`
	UserID    string `json:"userId"`
	Name      string `json:"name"`
}

type AccountDeletedEvent struct {
	AccountID           string `json:"accountId"`
	UserID              string `json:"userId"`
	RemovedTransactions int64  `json:"removedTransactions"`
}

type TransactionEvent struct {
	TransactionID string          `json:"transactionId"`
	AccountID     string          `json:"accountId"`
	UserID        string          `json:"userId"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
}

// BalanceUpdatedEvent reports the committed balance and the signed change.
type BalanceUpdatedEvent struct {
	AccountID  string          `json:"accountId"`
	NewBalance decimal.Decimal `json:"newBalance"`
	Change     decimal.Decimal `json:"change"`
}
