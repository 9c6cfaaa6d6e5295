package query

import (
	"context"

	"github.com/ElPoteRD/CuentaClaras-sub000/shared/cqrs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/errs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/models"
)

type AccountQueryService struct {
	accounts AccountReader
}

func NewAccountQueryService(accounts AccountReader) *AccountQueryService {
	return &AccountQueryService{accounts: accounts}
}

// GetAccount fetches a single account and enforces ownership.
func (s *AccountQueryService) GetAccount(ctx context.Context, q cqrs.GetAccountQuery) (*models.Account, error) {
	account, err := s.accounts.GetByID(ctx, q.AccountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != q.RequestingUserID {
		return nil, errs.ErrForbidden
	}
	return account, nil
}

func (s *AccountQueryService) ListAccounts(ctx context.Context, q cqrs.ListAccountsQuery) ([]models.Account, error) {
	return s.accounts.ListByUserID(ctx, q.UserID)
}
