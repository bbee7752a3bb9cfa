package repayment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lendqube/lendqube/internal/loan"
	"github.com/lendqube/lendqube/internal/reservation"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=repayment
type Repository interface {
	GetScheduleItem(ctx context.Context, id uuid.UUID) (*loan.ScheduleItem, error)
	GetLoan(ctx context.Context, id uuid.UUID) (*loan.Loan, error)
	GetRepaymentByKey(ctx context.Context, key uuid.UUID) (*Repayment, error)

	// ListDueItems returns pending items due on or before the cutoff that
	// are not waiting on a retry backoff; ListRetryItems returns the ones
	// whose backoff has elapsed.
	ListDueItems(ctx context.Context, cutoff time.Time) ([]*loan.ScheduleItem, error)
	ListRetryItems(ctx context.Context, now time.Time) ([]*loan.ScheduleItem, error)

	// MarkProcessing claims a pending item for one charge attempt. Returns
	// false when another runner already claimed it.
	MarkProcessing(ctx context.Context, id uuid.UUID) (bool, error)

	// RecordSuccess atomically inserts the repayment, marks the item paid,
	// advances the loan's amount paid (completing it when fully repaid),
	// bumps the mapping's repaid total and appends the ledger entries.
	RecordSuccess(ctx context.Context, rec *Repayment, item *loan.ScheduleItem) error

	// RecordFailure stores the outcome of a failed attempt: either a retry
	// slot (pending with next_retry_at) or a terminal failure.
	RecordFailure(ctx context.Context, item *loan.ScheduleItem) error
}

// Service records externally settled repayments (bank transfer, cash)
// against a schedule line.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type ManualParams struct {
	MerchantID uuid.UUID
	LoanID     uuid.UUID
	ScheduleID uuid.UUID
	Amount     int64
	Reference  string
	Method     Method
}

// RecordManual applies a repayment settled outside the engine. Distinct
// calls with the same (merchant, reference) pair are the same operation and
// return the original record.
func (s *Service) RecordManual(ctx context.Context, params ManualParams) (*Repayment, error) {
	if params.Amount <= 0 {
		return nil, fmt.Errorf("invalid amount %d", params.Amount)
	}

	if params.Reference == "" {
		return nil, errors.New("missing reference")
	}

	key := reservation.IdempotencyKey(params.MerchantID, "repayment:"+params.Reference)

	existing, err := s.repo.GetRepaymentByKey(ctx, key)
	if err == nil {
		return existing, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("looking up repayment: %w", err)
	}

	item, err := s.repo.GetScheduleItem(ctx, params.ScheduleID)
	if err != nil {
		return nil, err
	}

	if item.LoanID != params.LoanID {
		return nil, loan.ErrItemNotFound
	}

	l, err := s.repo.GetLoan(ctx, item.LoanID)
	if err != nil {
		return nil, err
	}

	if l.MerchantID != params.MerchantID {
		return nil, ErrWrongMerchant
	}

	if item.Status == loan.ItemSuccess {
		return nil, ErrAlreadyPaid
	}

	method := params.Method
	if method == "" {
		method = MethodManual
	}

	rec := &Repayment{
		ID:             uuid.New(),
		ScheduleItemID: item.ID,
		LoanID:         l.ID,
		MerchantID:     params.MerchantID,
		Amount:         params.Amount,
		Method:         method,
		Reference:      params.Reference,
		IdempotencyKey: key,
	}

	item.PaidAmount = params.Amount

	if err := s.repo.RecordSuccess(ctx, rec, item); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return s.repo.GetRepaymentByKey(ctx, key)
		}

		return nil, err
	}

	return rec, nil
}
