package reservation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/lendqube/lendqube/internal/allocation"
	"github.com/lendqube/lendqube/internal/merchant"
	"github.com/lendqube/lendqube/internal/metrics"
)

// Eligibility reasons surfaced to checkout callers. These strings are part
// of the API contract; merchant integrations branch on them.
const (
	ReasonNoActivePlans       = "no active plans"
	ReasonInsufficientFunds   = "insufficient allocation"
	ReasonNoSettlementAccount = "settlement account not configured"
)

// IneligibleError carries the business-rule reason a reservation was
// refused, so handlers can surface it to the caller verbatim.
type IneligibleError struct {
	Reason string
}

func (e *IneligibleError) Error() string {
	return "not eligible: " + e.Reason
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=reservation
type Repository interface {
	GetByIdempotencyKey(ctx context.Context, key uuid.UUID) (*Reservation, error)
	GetReservation(ctx context.Context, id uuid.UUID) (*Reservation, error)
	ListEligibleMappings(ctx context.Context, merchantID uuid.UUID) ([]*allocation.Mapping, error)

	// CreateReservation atomically re-verifies the mapping headroom,
	// increments its current allocation, inserts the reservation and appends
	// the ALLOCATION_RESERVED ledger entry. Returns
	// allocation.ErrInsufficient when the re-read finds too little headroom.
	CreateReservation(ctx context.Context, res *Reservation) error

	ListActive(ctx context.Context) ([]*Reservation, error)

	// Expire atomically re-checks the reservation is still active, returns
	// its hold to the mapping and appends the compensating ledger entry.
	// Returns false without error when the reservation reached a terminal
	// state first.
	Expire(ctx context.Context, res *Reservation) (bool, error)
}

type MerchantSource interface {
	GetMerchant(ctx context.Context, id uuid.UUID) (*merchant.Merchant, error)
}

// Eligibility is the outcome of a checkout eligibility probe.
type Eligibility struct {
	Eligible   bool
	Reason     string
	Candidates []*allocation.Mapping
}

// Service is the reservation manager: it answers eligibility probes and
// converts them into atomic, idempotent holds against one mapping.
type Service struct {
	repo      Repository
	merchants MerchantSource
	ttl       time.Duration
	now       func() time.Time
}

func NewService(repo Repository, merchants MerchantSource, ttl time.Duration) *Service {
	return &Service{
		repo:      repo,
		merchants: merchants,
		ttl:       ttl,
		now:       time.Now,
	}
}

// CheckEligibility scans the merchant's active mappings for headroom and
// orders candidates largest-remaining-first. The ordering is deterministic
// for a given snapshot; over-allocation is prevented by the reservation
// transaction, not by this scan.
func (s *Service) CheckEligibility(ctx context.Context, merchantID uuid.UUID, amount int64) (*Eligibility, error) {
	m, err := s.merchants.GetMerchant(ctx, merchantID)
	if err != nil {
		return nil, fmt.Errorf("loading merchant: %w", err)
	}

	if !m.Settlement.Configured() {
		return &Eligibility{Reason: ReasonNoSettlementAccount}, nil
	}

	mappings, err := s.repo.ListEligibleMappings(ctx, merchantID)
	if err != nil {
		return nil, fmt.Errorf("listing mappings: %w", err)
	}

	if len(mappings) == 0 {
		return &Eligibility{Reason: ReasonNoActivePlans}, nil
	}

	var candidates []*allocation.Mapping

	for _, mp := range mappings {
		if mp.Remaining() >= amount {
			candidates = append(candidates, mp)
		}
	}

	if len(candidates) == 0 {
		return &Eligibility{Reason: ReasonInsufficientFunds}, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Remaining() > candidates[j].Remaining()
	})

	return &Eligibility{Eligible: true, Candidates: candidates}, nil
}

type ReserveParams struct {
	MerchantID uuid.UUID
	Reference  string
	Amount     int64
	CustomerID uuid.UUID
}

// Reserve places a hold for the given amount. Replaying the same
// (merchant, reference) pair returns the original reservation untouched.
// The headroom check is repeated inside the store transaction, so two
// callers racing for the last slice of a mapping cannot both win.
func (s *Service) Reserve(ctx context.Context, params ReserveParams) (*Reservation, error) {
	if params.Amount <= 0 {
		return nil, fmt.Errorf("invalid amount %d", params.Amount)
	}

	if params.Reference == "" {
		return nil, errors.New("missing reference")
	}

	key := IdempotencyKey(params.MerchantID, params.Reference)

	existing, err := s.repo.GetByIdempotencyKey(ctx, key)
	if err == nil {
		return existing, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("looking up reservation: %w", err)
	}

	elig, err := s.CheckEligibility(ctx, params.MerchantID, params.Amount)
	if err != nil {
		return nil, err
	}

	if !elig.Eligible {
		if elig.Reason == ReasonInsufficientFunds {
			return nil, allocation.ErrInsufficient
		}

		return nil, &IneligibleError{Reason: elig.Reason}
	}

	res := &Reservation{
		ID:             uuid.New(),
		MappingID:      elig.Candidates[0].ID,
		MerchantID:     params.MerchantID,
		CustomerID:     params.CustomerID,
		Amount:         params.Amount,
		Currency:       "NGN",
		IdempotencyKey: key,
		Status:         StatusActive,
		ExpiresAt:      s.now().Add(s.ttl),
	}

	if err := s.repo.CreateReservation(ctx, res); err != nil {
		// A concurrent replay of the same reference can insert first; the
		// unique key turns that into a fetch of its result.
		if errors.Is(err, ErrAlreadyExists) {
			return s.repo.GetByIdempotencyKey(ctx, key)
		}

		return nil, err
	}

	metrics.ReservationsCreated.Inc()

	return res, nil
}

// Get loads one reservation by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	return s.repo.GetReservation(ctx, id)
}
