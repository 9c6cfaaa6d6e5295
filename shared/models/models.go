package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeBank       AccountType = "bank"
	AccountTypeCredit     AccountType = "credit"
	AccountTypeCash       AccountType = "cash"
	AccountTypeInvestment AccountType = "investment"
)

type TransactionType string

const (
	TransactionIncome  TransactionType = "Income"
	TransactionExpense TransactionType = "Expense"
)

// Valid reports whether t is Income or Expense.
func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdTimestamp"`
	UpdatedAt    time.Time `json:"updatedTimestamp"`
}

type Account struct {
	ID             string          `json:"id"`
	UserID         string          `json:"-"`
	Name           string          `json:"name"`
	Type           AccountType     `json:"type"`
	Currency       string          `json:"currency"`
	Balance        decimal.Decimal `json:"balance"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	CreatedAt      time.Time       `json:"createdTimestamp"`
	UpdatedAt      time.Time       `json:"updatedTimestamp"`
}

// Transaction amounts are always positive; Type carries the direction.
type Transaction struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"accountId"`
	UserID      string          `json:"-"`
	CategoryID  string          `json:"categoryId"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	Description string          `json:"description,omitempty"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"createdTimestamp"`
	UpdatedAt   time.Time       `json:"updatedTimestamp"`
}

type Category struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdTimestamp"`
	UpdatedAt time.Time `json:"updatedTimestamp"`
}

type Goal struct {
	ID           string          `json:"id"`
	UserID       string          `json:"-"`
	AccountID    string          `json:"accountId"`
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
	SavedAmount  decimal.Decimal `json:"savedAmount"`
	TargetDate   time.Time       `json:"targetDate"`
	CreatedAt    time.Time       `json:"createdTimestamp"`
	UpdatedAt    time.Time       `json:"updatedTimestamp"`
}

// Progress returns the saved share of the target as a percentage, capped at 100.
func (g *Goal) Progress() decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	p := g.SavedAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).Round(2)
	if p.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.NewFromInt(100)
	}
	return p
}

type Opinion struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdTimestamp"`
}
