package loan

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lendqube/lendqube/internal/allocation"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=loan
type Repository interface {
	GetLoan(ctx context.Context, id uuid.UUID) (*Loan, error)
	GetMapping(ctx context.Context, id uuid.UUID) (*allocation.Mapping, error)
	ListSchedule(ctx context.Context, loanID uuid.UUID) ([]*ScheduleItem, error)

	// ActivateWithSchedule persists the authoritative config, activates the
	// loan and inserts its schedule items in one transaction. Returns false
	// without writing anything when the loan already has a schedule, which
	// makes webhook replays harmless.
	ActivateWithSchedule(ctx context.Context, l *Loan, items []*ScheduleItem) (bool, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get loads one loan.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Loan, error) {
	return s.repo.GetLoan(ctx, id)
}

// Schedule lists a loan's installments in order.
func (s *Service) Schedule(ctx context.Context, loanID uuid.UUID) ([]*ScheduleItem, error) {
	if _, err := s.repo.GetLoan(ctx, loanID); err != nil {
		return nil, err
	}

	return s.repo.ListSchedule(ctx, loanID)
}

// Activate replaces a pending loan's placeholder terms with the financing
// plan's authoritative configuration and materializes its repayment
// schedule. The loan is updated in place; a replayed confirmation finds a
// non-pending loan or an existing schedule and changes nothing.
func (s *Service) Activate(ctx context.Context, loanID uuid.UUID) error {
	l, err := s.repo.GetLoan(ctx, loanID)
	if err != nil {
		return fmt.Errorf("loading loan: %w", err)
	}

	if l.Status != StatusPending {
		return nil
	}

	mapping, err := s.repo.GetMapping(ctx, l.MappingID)
	if err != nil {
		return fmt.Errorf("loading mapping terms: %w", err)
	}

	cfg := configFromTerms(mapping.Terms)

	l.Config = cfg
	l.TotalAmount = l.Principal + Interest(l.Principal, cfg.InterestRate)
	l.Status = StatusActive

	start := l.CreatedAt
	if l.FirstPaymentDate != nil {
		start = *l.FirstPaymentDate
	}

	items := GenerateSchedule(l, start)

	created, err := s.repo.ActivateWithSchedule(ctx, l, items)
	if err != nil {
		return fmt.Errorf("activating loan: %w", err)
	}

	if !created {
		slog.Info("loan already activated, skipping", "loan_id", l.ID)
		return nil
	}

	slog.Info("loan activated",
		"loan_id", l.ID,
		"installments", cfg.Installments,
		"total_amount", l.TotalAmount,
	)

	return nil
}

func configFromTerms(t allocation.PlanTerms) Config {
	cfg := Config{
		TenorValue:   t.TenorValue,
		TenorPeriod:  TenorPeriod(t.TenorPeriod),
		Frequency:    Frequency(t.Frequency),
		InterestRate: t.InterestRate,
		PenaltyRate:  t.PenaltyRate,
	}
	cfg.Installments = Installments(cfg.Frequency, cfg.TenorValue, cfg.TenorPeriod)

	return cfg
}
