package command

import (
	"context"

	"github.com/ElPoteRD/CuentaClaras-sub000/internal/ledger"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/cqrs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/errs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/events"
)

// TransactionCommandService turns transaction commands into ledger units and
// refreshes the transaction views once they commit.
type TransactionCommandService struct {
	ledger     Ledger
	categories CategoryStore
	views      TransactionViews
	publisher  EventPublisher
}

func NewTransactionCommandService(
	ledger Ledger,
	categories CategoryStore,
	views TransactionViews,
	publisher EventPublisher,
) *TransactionCommandService {
	return &TransactionCommandService{
		ledger:     ledger,
		categories: categories,
		views:      views,
		publisher:  publisher,
	}
}

// checkCategory verifies the category exists and belongs to the user.
func (s *TransactionCommandService) checkCategory(ctx context.Context, categoryID, userID string) error {
	if categoryID == "" {
		return errs.Validation("categoryId is required")
	}
	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if category.UserID != userID {
		return errs.ErrForbidden
	}
	return nil
}

func (s *TransactionCommandService) CreateTransaction(ctx context.Context, cmd cqrs.CreateTransactionCommand) (*ledger.Result, error) {
	if err := s.checkCategory(ctx, cmd.CategoryID, cmd.UserID); err != nil {
		return nil, err
	}
	res, err := s.ledger.PostTransaction(ctx, ledger.PostParams{
		AccountID:   cmd.AccountID,
		UserID:      cmd.UserID,
		CategoryID:  cmd.CategoryID,
		Amount:      cmd.Amount,
		Type:        cmd.Type,
		Description: cmd.Description,
		Date:        cmd.Date,
	})
	if err != nil {
		return nil, err
	}

	s.views.CacheTransactionView(ctx, res.Transaction.View())
	s.announce(ctx, events.TransactionPosted, res)
	return res, nil
}

func (s *TransactionCommandService) UpdateTransaction(ctx context.Context, cmd cqrs.UpdateTransactionCommand) (*ledger.Result, error) {
	if cmd.CategoryID != nil {
		if err := s.checkCategory(ctx, *cmd.CategoryID, cmd.UserID); err != nil {
			return nil, err
		}
	}
	res, err := s.ledger.EditTransaction(ctx, ledger.EditParams{
		TransactionID: cmd.TransactionID,
		UserID:        cmd.UserID,
		CategoryID:    cmd.CategoryID,
		Amount:        cmd.Amount,
		Type:          cmd.Type,
		Description:   cmd.Description,
		Date:          cmd.Date,
	})
	if err != nil {
		return nil, err
	}

	s.views.CacheTransactionView(ctx, res.Transaction.View())
	s.announce(ctx, events.TransactionEdited, res)
	return res, nil
}

func (s *TransactionCommandService) DeleteTransaction(ctx context.Context, cmd cqrs.DeleteTransactionCommand) (*ledger.Result, error) {
	res, err := s.ledger.ReverseTransaction(ctx, cmd.TransactionID, cmd.UserID)
	if err != nil {
		return nil, err
	}

	s.views.InvalidateTransactionViews(ctx, res.Transaction.ID)
	s.announce(ctx, events.TransactionReversed, res)
	return res, nil
}

// announce publishes the transaction event and, when the balance moved, a
// balance.updated event carrying the committed value.
func (s *TransactionCommandService) announce(ctx context.Context, eventType string, res *ledger.Result) {
	publish(ctx, s.publisher, eventType, events.TransactionEvent{
		TransactionID: res.Transaction.ID,
		AccountID:     res.Transaction.AccountID,
		UserID:        res.Transaction.UserID,
		Amount:        res.Transaction.Amount,
		Type:          string(res.Transaction.Type),
	})
	if !res.Change.IsZero() {
		publish(ctx, s.publisher, events.BalanceUpdated, events.BalanceUpdatedEvent{
			AccountID:  res.Account.ID,
			NewBalance: res.Account.Balance,
			Change:     res.Change,
		})
	}
}
