package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserView is the read-optimised projection of a user.
// It never exposes PasswordHash.
type UserView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdTimestamp"`
	UpdatedAt time.Time `json:"updatedTimestamp"`
}

// TransactionView is the cached projection of a transaction.
// UserID is kept for ownership checks and serialised only inside the cache.
type TransactionView struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"accountId"`
	UserID      string          `json:"userId"`
	CategoryID  string          `json:"categoryId"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	Description string          `json:"description,omitempty"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"createdTimestamp"`
	UpdatedAt   time.Time       `json:"updatedTimestamp"`
}

func (t *Transaction) View() *TransactionView {
	return &TransactionView{
		ID:          t.ID,
		AccountID:   t.AccountID,
		UserID:      t.UserID,
		CategoryID:  t.CategoryID,
		Amount:      t.Amount,
		Type:        t.Type,
		Description: t.Description,
		Date:        t.Date,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// Transaction converts a cached view back to the model returned by the API.
func (v *TransactionView) Transaction() *Transaction {
	return &Transaction{
		ID:          v.ID,
		AccountID:   v.AccountID,
		UserID:      v.UserID,
		CategoryID:  v.CategoryID,
		Amount:      v.Amount,
		Type:        v.Type,
		Description: v.Description,
		Date:        v.Date,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

// CategoryView mirrors Category with the owner serialised for the cache.
type CategoryView struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdTimestamp"`
	UpdatedAt time.Time `json:"updatedTimestamp"`
}

func (c *Category) View() *CategoryView {
	return &CategoryView{ID: c.ID, UserID: c.UserID, Name: c.Name, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

func (v *CategoryView) Category() *Category {
	return &Category{ID: v.ID, UserID: v.UserID, Name: v.Name, CreatedAt: v.CreatedAt, UpdatedAt: v.UpdatedAt}
}

// GoalView adds the derived progress percentage.
type GoalView struct {
	Goal
	Progress decimal.Decimal `json:"progress"`
}

func (g *Goal) View() *GoalView {
	return &GoalView{Goal: *g, Progress: g.Progress()}
}

func (u *User) View() *UserView {
	return &UserView{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
}
