package query

import (
	"context"

	"github.com/ElPoteRD/CuentaClaras-sub000/shared/cqrs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/errs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/models"
)

// TransactionQueryService serves transaction reads. Lists are always scoped
// to the requesting user; single reads check the owner on the view.
type TransactionQueryService struct {
	transactions TransactionReader
}

func NewTransactionQueryService(transactions TransactionReader) *TransactionQueryService {
	return &TransactionQueryService{transactions: transactions}
}

func (s *TransactionQueryService) GetTransaction(ctx context.Context, q cqrs.GetTransactionQuery) (*models.Transaction, error) {
	view, err := s.transactions.GetByID(ctx, q.TransactionID)
	if err != nil {
		return nil, err
	}
	if view.UserID != q.UserID {
		return nil, errs.ErrForbidden
	}
	return view.Transaction(), nil
}

func (s *TransactionQueryService) ListTransactions(ctx context.Context, q cqrs.ListTransactionsQuery) ([]models.Transaction, error) {
	if q.Type != "" && !q.Type.Valid() {
		return nil, errs.Validation("type must be Income or Expense")
	}
	if !q.From.IsZero() && !q.To.IsZero() && q.To.Before(q.From) {
		return nil, errs.Validation("to must not be before from")
	}
	views, err := s.transactions.List(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]models.Transaction, len(views))
	for i := range views {
		out[i] = *views[i].Transaction()
	}
	return out, nil
}
