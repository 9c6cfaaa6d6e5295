package cqrs

import (
	"time"

	"github.com/ElPoteRD/CuentaClaras-sub000/shared/models"
)

// ---------- User queries ----------

type GetProfileQuery struct {
	UserID string
}

// ---------- Account queries ----------

// GetAccountQuery fetches a single account, subject to ownership check.
type GetAccountQuery struct {
	AccountID        string
	RequestingUserID string
}

// ListAccountsQuery fetches all accounts belonging to a user.
type ListAccountsQuery struct {
	UserID string
}

// ---------- Transaction queries ----------

type GetTransactionQuery struct {
	TransactionID string
	UserID        string
}

// ListTransactionsQuery filters a user's transactions. Zero values are ignored.
type ListTransactionsQuery struct {
	UserID     string
	AccountID  string
	CategoryID string
	Type       models.TransactionType
	From       time.Time
	To         time.Time
}

// ---------- Category / Goal / Opinion queries ----------

type GetCategoryQuery struct {
	CategoryID string
	UserID     string
}

type ListCategoriesQuery struct {
	UserID string
}

type GetGoalQuery struct {
	GoalID string
	UserID string
}

type ListGoalsQuery struct {
	UserID string
}

type GetOpinionQuery struct {
	OpinionID string
	UserID    string
}

type ListOpinionsQuery struct {
	UserID string
}

// ---------- Report queries ----------

// SummaryQuery aggregates posted transactions between From and To inclusive.
type SummaryQuery struct {
	UserID    string
	AccountID string
	From      time.Time
	To        time.Time
}

type StatementQuery struct {
	UserID    string
	AccountID string
	From      time.Time
	To        time.Time
}
