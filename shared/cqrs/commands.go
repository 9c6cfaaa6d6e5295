package cqrs

import (
	"time"

	"github.com/ElPoteRD/CuentaClaras-sub000/shared/models"
	"github.com/shopspring/decimal"
)

type RegisterUserCommand struct {
	Name     string
	Email    string
	Password string
}

type UpdateUserCommand struct {
	UserID string
	Name   string
	Email  string
}

type DeleteUserCommand struct {
	UserID   string
	Password string
}

type CreateAccountCommand struct {
	UserID         string
	Name           string
	Type           models.AccountType
	Currency       string
	InitialBalance decimal.Decimal
}

type UpdateAccountCommand struct {
	AccountID        string
	RequestingUserID string
	Name             string
	Type             models.AccountType
}

// DeleteAccountCommand carries the requester's password; deletion re-verifies it.
type DeleteAccountCommand struct {
	AccountID        string
	RequestingUserID string
	Password         string
}

type CreateTransactionCommand struct {
	AccountID   string
	UserID      string
	CategoryID  string
	Amount      decimal.Decimal
	Type        models.TransactionType
	Description string
	Date        time.Time
}

// UpdateTransactionCommand holds optional fields; nil means unchanged.
// The owning account cannot be changed.
type UpdateTransactionCommand struct {
	TransactionID string
	UserID        string
	CategoryID    *string
	Amount        *decimal.Decimal
	Type          *models.TransactionType
	Description   *string
	Date          *time.Time
}

type DeleteTransactionCommand struct {
	TransactionID string
	UserID        string
}

type CreateCategoryCommand struct {
	UserID string
	Name   string
}

type UpdateCategoryCommand struct {
	CategoryID string
	UserID     string
	Name       string
}

type DeleteCategoryCommand struct {
	CategoryID string
	UserID     string
}

type CreateGoalCommand struct {
	UserID       string
	AccountID    string
	Name         string
	TargetAmount decimal.Decimal
	SavedAmount  decimal.Decimal
	TargetDate   time.Time
}

type UpdateGoalCommand struct {
	GoalID       string
	UserID       string
	Name         *string
	TargetAmount *decimal.Decimal
	SavedAmount  *decimal.Decimal
	TargetDate   *time.Time
}

type DeleteGoalCommand struct {
	GoalID string
	UserID string
}

type CreateOpinionCommand struct {
	UserID  string
	Rating  int
	Comment string
}

type DeleteOpinionCommand struct {
	OpinionID string
	UserID    string
}

type LoginCommand struct {
	Email    string
	Password string
}

type RefreshTokenCommand struct {
	Token string
}
