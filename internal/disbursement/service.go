package disbursement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lendqube/lendqube/internal/loan"
	"github.com/lendqube/lendqube/internal/merchant"
	"github.com/lendqube/lendqube/internal/metrics"
	"github.com/lendqube/lendqube/internal/paystack"
	"github.com/lendqube/lendqube/internal/reservation"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=disbursement
type Repository interface {
	GetDisbursement(ctx context.Context, id uuid.UUID) (*Disbursement, error)
	GetByIdempotencyKey(ctx context.Context, key uuid.UUID) (*Disbursement, error)
	GetByTransferReference(ctx context.Context, reference string) (*Disbursement, error)

	// ListInitiatedBefore returns disbursements still initiated whose
	// creation predates the cutoff, oldest first. The reconciliation pass
	// feeds on it.
	ListInitiatedBefore(ctx context.Context, cutoff time.Time) ([]*Disbursement, error)

	// CreateInitiated persists the disbursement, the provisional loan and
	// their ledger entries in one transaction, re-checking the reservation
	// is still active first.
	CreateInitiated(ctx context.Context, d *Disbursement, l *loan.Loan) error

	// FinalizeSuccess and FinalizeFailure apply a provider outcome
	// atomically. Both are no-ops (false) when the disbursement already
	// left the initiated state.
	FinalizeSuccess(ctx context.Context, d *Disbursement) (bool, error)
	FinalizeFailure(ctx context.Context, d *Disbursement, reason string) (bool, error)
}

type Reservations interface {
	Get(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
}

type Merchants interface {
	GetMerchant(ctx context.Context, id uuid.UUID) (*merchant.Merchant, error)
	CacheRecipientCode(ctx context.Context, id uuid.UUID, code string) error
}

// Payout is the provider surface used during initiation. Calls happen
// strictly outside store transactions.
type Payout interface {
	CreateRecipient(ctx context.Context, params paystack.RecipientParams) (string, error)
	InitiateTransfer(ctx context.Context, params paystack.TransferParams) (*paystack.Transfer, error)
	VerifyTransfer(ctx context.Context, reference string) (*paystack.Transfer, error)
}

// Scheduler finalizes the loan once the transfer settles; implemented by
// the loan service.
type Scheduler interface {
	Activate(ctx context.Context, loanID uuid.UUID) error
}

var (
	ErrReservationNotActive = errors.New("reservation not active")
	ErrWrongMerchant        = errors.New("reservation belongs to another merchant")
	ErrNoSettlementAccount  = errors.New("settlement account not configured")
)

// Service orchestrates the conversion of an active reservation into an
// external transfer and a loan.
type Service struct {
	repo         Repository
	reservations Reservations
	merchants    Merchants
	payout       Payout
	scheduler    Scheduler
}

func NewService(repo Repository, reservations Reservations, merchants Merchants, payout Payout, scheduler Scheduler) *Service {
	return &Service{
		repo:         repo,
		reservations: reservations,
		merchants:    merchants,
		payout:       payout,
		scheduler:    scheduler,
	}
}

type InitiateParams struct {
	MerchantID    uuid.UUID
	Reference     string
	ReservationID uuid.UUID
	CustomerID    uuid.UUID
}

// Result is the synchronous acknowledgment returned to the merchant
// integration: the disbursement, and the provisional loan identifier it can
// hand to the customer immediately.
type Result struct {
	Disbursement *Disbursement
	LoanID       uuid.UUID
}

// Initiate requests the external transfer for an active reservation and
// records the disbursement plus a provisional loan. Replaying the same
// (merchant, reference) pair returns the original outcome without touching
// the provider again; the transfer reference is the idempotency key itself,
// so even a crash between the provider call and the local commit cannot
// double-spend: the provider rejects the duplicate reference on retry.
func (s *Service) Initiate(ctx context.Context, params InitiateParams) (*Result, error) {
	if params.Reference == "" {
		return nil, errors.New("missing reference")
	}

	key := reservation.IdempotencyKey(params.MerchantID, params.Reference)

	existing, err := s.repo.GetByIdempotencyKey(ctx, key)
	if err == nil {
		return &Result{Disbursement: existing, LoanID: existing.LoanID}, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("looking up disbursement: %w", err)
	}

	res, err := s.reservations.Get(ctx, params.ReservationID)
	if err != nil {
		return nil, fmt.Errorf("loading reservation: %w", err)
	}

	if res.MerchantID != params.MerchantID {
		return nil, ErrWrongMerchant
	}

	if res.Status != reservation.StatusActive {
		return nil, ErrReservationNotActive
	}

	m, err := s.merchants.GetMerchant(ctx, params.MerchantID)
	if err != nil {
		return nil, fmt.Errorf("loading merchant: %w", err)
	}

	if !m.Settlement.Configured() {
		return nil, ErrNoSettlementAccount
	}

	recipientCode, err := s.resolveRecipient(ctx, m)
	if err != nil {
		return nil, err
	}

	transfer, err := s.payout.InitiateTransfer(ctx, paystack.TransferParams{
		Amount:        res.Amount,
		RecipientCode: recipientCode,
		Reference:     key.String(),
		Reason:        "loan disbursement " + params.Reference,
	})
	if err != nil {
		return nil, fmt.Errorf("initiating transfer: %w", err)
	}

	d := &Disbursement{
		ID:                uuid.New(),
		ReservationID:     res.ID,
		LoanID:            uuid.New(),
		MappingID:         res.MappingID,
		MerchantID:        params.MerchantID,
		Amount:            res.Amount,
		Currency:          res.Currency,
		IdempotencyKey:    key,
		TransferCode:      transfer.TransferCode,
		TransferReference: key.String(),
		Status:            StatusInitiated,
	}

	l := &loan.Loan{
		ID:             d.LoanID,
		DisbursementID: d.ID,
		MappingID:      res.MappingID,
		MerchantID:     params.MerchantID,
		CustomerID:     params.CustomerID,
		Principal:      res.Amount,
		TotalAmount:    res.Amount,
		Config:         loan.DefaultConfig(),
		Status:         loan.StatusPending,
	}

	if err := s.repo.CreateInitiated(ctx, d, l); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			replay, lookupErr := s.repo.GetByIdempotencyKey(ctx, key)
			if lookupErr != nil {
				return nil, lookupErr
			}

			return &Result{Disbursement: replay, LoanID: replay.LoanID}, nil
		}

		// The provider already holds the transfer request; the webhook (or
		// a verify pass) will finalize it against the replayed record.
		return nil, fmt.Errorf("recording disbursement: %w", err)
	}

	metrics.Disbursements.WithLabelValues(string(StatusInitiated)).Inc()
	slog.Info("disbursement initiated",
		"disbursement_id", d.ID,
		"loan_id", d.LoanID,
		"amount", d.Amount,
		"transfer_code", d.TransferCode,
	)

	return &Result{Disbursement: d, LoanID: d.LoanID}, nil
}

func (s *Service) resolveRecipient(ctx context.Context, m *merchant.Merchant) (string, error) {
	if m.RecipientCode != "" {
		return m.RecipientCode, nil
	}

	code, err := s.payout.CreateRecipient(ctx, paystack.RecipientParams{
		Name:          m.Settlement.AccountName,
		AccountNumber: m.Settlement.AccountNumber,
		BankCode:      m.Settlement.BankCode,
	})
	if err != nil {
		return "", fmt.Errorf("creating transfer recipient: %w", err)
	}

	// Cache failure is tolerable: the next disbursement just creates the
	// recipient again.
	if err := s.merchants.CacheRecipientCode(ctx, m.ID, code); err != nil {
		slog.Warn("failed to cache recipient code", "merchant_id", m.ID, "error", err)
	}

	return code, nil
}

// FinalizeSuccess applies a confirmed transfer: disbursement success,
// reservation consumed, mapping totals bumped, then loan activation and
// schedule generation. Replays are no-ops.
func (s *Service) FinalizeSuccess(ctx context.Context, disbursementID uuid.UUID) error {
	d, err := s.repo.GetDisbursement(ctx, disbursementID)
	if err != nil {
		return err
	}

	applied, err := s.repo.FinalizeSuccess(ctx, d)
	if err != nil {
		return fmt.Errorf("finalizing disbursement: %w", err)
	}

	if !applied {
		slog.Info("disbursement already finalized", "disbursement_id", d.ID, "status", d.Status)
		return nil
	}

	metrics.Disbursements.WithLabelValues(string(StatusSuccess)).Inc()
	slog.Info("disbursement succeeded", "disbursement_id", d.ID, "loan_id", d.LoanID)

	if err := s.scheduler.Activate(ctx, d.LoanID); err != nil {
		// The disbursement is committed; activation can be replayed from
		// the next webhook delivery or a verify pass.
		return fmt.Errorf("activating loan %s: %w", d.LoanID, err)
	}

	return nil
}

// FinalizeFailure applies a failed or reversed transfer: disbursement
// failed, reservation released, hold returned to the mapping, provisional
// loan cancelled. Replays are no-ops.
func (s *Service) FinalizeFailure(ctx context.Context, disbursementID uuid.UUID, reason string) error {
	d, err := s.repo.GetDisbursement(ctx, disbursementID)
	if err != nil {
		return err
	}

	applied, err := s.repo.FinalizeFailure(ctx, d, reason)
	if err != nil {
		return fmt.Errorf("finalizing disbursement: %w", err)
	}

	if !applied {
		slog.Info("disbursement already finalized", "disbursement_id", d.ID, "status", d.Status)
		return nil
	}

	metrics.Disbursements.WithLabelValues(string(StatusFailed)).Inc()
	slog.Warn("disbursement failed", "disbursement_id", d.ID, "reason", reason)

	return nil
}

// GetByTransferReference resolves a provider webhook to its disbursement.
func (s *Service) GetByTransferReference(ctx context.Context, reference string) (*Disbursement, error) {
	return s.repo.GetByTransferReference(ctx, reference)
}
