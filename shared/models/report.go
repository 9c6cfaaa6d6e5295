package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Totals is income, expense, and their difference over a period.
type Totals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// NewTotals derives Net from income and expense.
func NewTotals(income, expense decimal.Decimal) Totals {
	return Totals{Income: income, Expense: expense, Net: income.Sub(expense)}
}

type CategoryTotals struct {
	CategoryID string `json:"categoryId"`
	Name       string `json:"name"`
	Totals
}

type AccountTotals struct {
	AccountID string `json:"accountId"`
	Name      string `json:"name"`
	Currency  string `json:"currency"`
	Totals
}

type Summary struct {
	From       time.Time        `json:"from"`
	To         time.Time        `json:"to"`
	Totals     Totals           `json:"totals"`
	ByCategory []CategoryTotals `json:"byCategory"`
	ByAccount  []AccountTotals  `json:"byAccount"`
}

// StatementLine is one transaction with the balance right after it.
type StatementLine struct {
	Transaction
	Balance decimal.Decimal `json:"balance"`
}

type Statement struct {
	Account        Account         `json:"account"`
	From           time.Time       `json:"from"`
	To             time.Time       `json:"to"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	Lines          []StatementLine `json:"lines"`
}
