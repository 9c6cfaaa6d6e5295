package query

import (
	"context"
	"time"

	"github.com/ElPoteRD/CuentaClaras-sub000/shared/cqrs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/errs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/models"
)

// DefaultReportDays is the period used when a report request names no range.
const DefaultReportDays = 30

type ReportQueryService struct {
	reports  ReportReader
	accounts AccountReader
	now      func() time.Time
}

func NewReportQueryService(reports ReportReader, accounts AccountReader) *ReportQueryService {
	return &ReportQueryService{
		reports:  reports,
		accounts: accounts,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// period fills in the default range and moves to to the end of its day, so
// both bounds are inclusive calendar days.
func (s *ReportQueryService) period(from, to time.Time) (time.Time, time.Time, error) {
	if to.IsZero() {
		to = s.now()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -(DefaultReportDays - 1))
	}
	from = startOfDay(from)
	to = startOfDay(to).AddDate(0, 0, 1).Add(-time.Nanosecond)
	if to.Before(from) {
		return time.Time{}, time.Time{}, errs.Validation("to must not be before from")
	}
	return from, to, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (s *ReportQueryService) ownAccount(ctx context.Context, accountID, userID string) (*models.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != userID {
		return nil, errs.ErrForbidden
	}
	return account, nil
}

func (s *ReportQueryService) Summary(ctx context.Context, q cqrs.SummaryQuery) (*models.Summary, error) {
	from, to, err := s.period(q.From, q.To)
	if err != nil {
		return nil, err
	}
	if q.AccountID != "" {
		if _, err := s.ownAccount(ctx, q.AccountID, q.UserID); err != nil {
			return nil, err
		}
	}
	return s.reports.Summary(ctx, q.UserID, q.AccountID, from, to)
}

func (s *ReportQueryService) Statement(ctx context.Context, q cqrs.StatementQuery) (*models.Statement, error) {
	if q.AccountID == "" {
		return nil, errs.Validation("accountId is required")
	}
	from, to, err := s.period(q.From, q.To)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownAccount(ctx, q.AccountID, q.UserID); err != nil {
		return nil, err
	}
	return s.reports.Statement(ctx, q.AccountID, from, to)
}
