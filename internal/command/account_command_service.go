package command

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/ElPoteRD/CuentaClaras-sub000/internal/ledger"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/cqrs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/errs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/events"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/models"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/utils"
)

// AccountCommandService writes account state. Deletion goes through the
// ledger so the account, its transactions and its goals disappear together.
type AccountCommandService struct {
	accounts  AccountStore
	users     UserStore
	ledger    Ledger
	txViews   TransactionViews
	publisher EventPublisher
	now       func() time.Time
}

func NewAccountCommandService(
	accounts AccountStore,
	users UserStore,
	ledger Ledger,
	txViews TransactionViews,
	publisher EventPublisher,
) *AccountCommandService {
	return &AccountCommandService{
		accounts:  accounts,
		users:     users,
		ledger:    ledger,
		txViews:   txViews,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func validAccountType(t models.AccountType) bool {
	switch t {
	case models.AccountTypeBank, models.AccountTypeCredit, models.AccountTypeCash, models.AccountTypeInvestment:
		return true
	}
	return false
}

func (s *AccountCommandService) CreateAccount(ctx context.Context, cmd cqrs.CreateAccountCommand) (*models.Account, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, errs.Validation("name is required")
	}
	if !validAccountType(cmd.Type) {
		return nil, errs.Validation("type must be one of bank, credit, cash, investment")
	}
	if !cmd.InitialBalance.Equal(cmd.InitialBalance.Round(ledger.MaxAmountScale)) {
		return nil, errs.Validation("initialBalance must have at most 2 decimal places")
	}

	now := s.now()
	account := &models.Account{
		ID:             utils.GenerateID(utils.PrefixAccount),
		UserID:         cmd.UserID,
		Name:           name,
		Type:           cmd.Type,
		Currency:       strings.ToUpper(cmd.Currency),
		Balance:        cmd.InitialBalance,
		InitialBalance: cmd.InitialBalance,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, events.AccountCreated, events.AccountCreatedEvent{
		AccountID:      account.ID,
		UserID:         account.UserID,
		Type:           string(account.Type),
		Currency:       account.Currency,
		InitialBalance: account.InitialBalance,
	})
	return account, nil
}

// UpdateAccount renames or retypes an account. Empty fields are left as they are.
func (s *AccountCommandService) UpdateAccount(ctx context.Context, cmd cqrs.UpdateAccountCommand) (*models.Account, error) {
	if cmd.Type != "" && !validAccountType(cmd.Type) {
		return nil, errs.Validation("type must be one of bank, credit, cash, investment")
	}
	account, err := s.accounts.GetByID(ctx, cmd.AccountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != cmd.RequestingUserID {
		return nil, errs.ErrForbidden
	}
	if name := strings.TrimSpace(cmd.Name); name != "" {
		account.Name = name
	}
	if cmd.Type != "" {
		account.Type = cmd.Type
	}
	account.UpdatedAt = s.now()
	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, events.AccountUpdated, events.AccountUpdatedEvent{
		AccountID: account.ID,
		UserID:    account.UserID,
		Name:      account.Name,
	})
	return account, nil
}

// DeleteAccount re-verifies the requester's password before touching any row,
// then removes the account with everything that references it in one unit.
func (s *AccountCommandService) DeleteAccount(ctx context.Context, cmd cqrs.DeleteAccountCommand) (*ledger.AccountRemoval, error) {
	if cmd.Password == "" {
		return nil, errs.Validation("password is required")
	}
	user, err := s.users.GetByID(ctx, cmd.RequestingUserID)
	if err != nil {
		if errs.KindOf(err) == errs.KindNotFound {
			return nil, errs.ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPassword(cmd.Password, user.PasswordHash) {
		return nil, errs.ErrInvalidCredentials
	}

	removal, err := s.ledger.DeleteAccount(ctx, cmd.AccountID, cmd.RequestingUserID)
	if err != nil {
		return nil, err
	}

	s.txViews.InvalidateTransactionViews(ctx, removal.TransactionIDs...)
	publish(ctx, s.publisher, events.AccountDeleted, events.AccountDeletedEvent{
		AccountID:           removal.Account.ID,
		UserID:              removal.Account.UserID,
		RemovedTransactions: int64(len(removal.TransactionIDs)),
	})
	slog.InfoContext(ctx, "account deleted",
		"accountId", removal.Account.ID,
		"transactions", len(removal.TransactionIDs),
		"goals", removal.Goals,
	)
	return removal, nil
}
