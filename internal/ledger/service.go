package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrTrailNotFound = errors.New("ledger trail not found")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	ListByLoan(ctx context.Context, loanID uuid.UUID) ([]*Entry, error)
	ListByMapping(ctx context.Context, mappingID uuid.UUID) ([]*Entry, error)
}

// Service exposes the read side of the ledger: the money trail of a loan or
// an allocation mapping, replayed in append order.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// LoanTrail returns every entry touching one loan, scoped to the merchant
// that owns it. A loan with no entries never disbursed anything, so the
// trail is reported as missing rather than empty.
func (s *Service) LoanTrail(ctx context.Context, merchantID, loanID uuid.UUID) ([]*Entry, error) {
	entries, err := s.repo.ListByLoan(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("listing loan trail: %w", err)
	}

	if len(entries) == 0 || entries[0].MerchantID != merchantID {
		return nil, ErrTrailNotFound
	}

	return entries, nil
}

// MappingTrail returns every entry touching one allocation mapping.
func (s *Service) MappingTrail(ctx context.Context, mappingID uuid.UUID) ([]*Entry, error) {
	entries, err := s.repo.ListByMapping(ctx, mappingID)
	if err != nil {
		return nil, fmt.Errorf("listing mapping trail: %w", err)
	}

	return entries, nil
}
