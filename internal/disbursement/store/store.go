package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	allocStore "github.com/lendqube/lendqube/internal/allocation/store"
	"github.com/lendqube/lendqube/internal/database"
	"github.com/lendqube/lendqube/internal/disbursement"
	"github.com/lendqube/lendqube/internal/ledger"
	ledgerStore "github.com/lendqube/lendqube/internal/ledger/store"
	"github.com/lendqube/lendqube/internal/loan"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectDisbursementColumns = `
	id, reservation_id, loan_id, mapping_id, merchant_id, amount, currency,
	idempotency_key, transfer_code, transfer_reference, status,
	failure_reason, created_at, updated_at
`

func scanDisbursement(s scanner) (*disbursement.Disbursement, error) {
	var d disbursement.Disbursement

	var statusStr string

	var transferCode, failureReason sql.NullString

	if err := s.Scan(
		&d.ID, &d.ReservationID, &d.LoanID, &d.MappingID, &d.MerchantID,
		&d.Amount, &d.Currency, &d.IdempotencyKey, &transferCode,
		&d.TransferReference, &statusStr, &failureReason, &d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}

	d.Status = disbursement.Status(statusStr)
	d.TransferCode = transferCode.String
	d.FailureReason = failureReason.String

	return &d, nil
}

func (s *Store) GetDisbursement(ctx context.Context, id uuid.UUID) (*disbursement.Disbursement, error) {
	query := `SELECT ` + selectDisbursementColumns + ` FROM disbursements WHERE id = $1`
	return s.get(ctx, query, id)
}

func (s *Store) GetByIdempotencyKey(ctx context.Context, key uuid.UUID) (*disbursement.Disbursement, error) {
	query := `SELECT ` + selectDisbursementColumns + ` FROM disbursements WHERE idempotency_key = $1`
	return s.get(ctx, query, key)
}

func (s *Store) GetByTransferReference(ctx context.Context, reference string) (*disbursement.Disbursement, error) {
	query := `SELECT ` + selectDisbursementColumns + ` FROM disbursements WHERE transfer_reference = $1`
	return s.get(ctx, query, reference)
}

// ListInitiatedBefore returns stale initiated disbursements, oldest first,
// for the reconciliation pass.
func (s *Store) ListInitiatedBefore(ctx context.Context, cutoff time.Time) ([]*disbursement.Disbursement, error) {
	query := `SELECT ` + selectDisbursementColumns + `
		FROM disbursements
		WHERE status = 'initiated' AND created_at < $1
		ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("listing initiated disbursements: %w", err)
	}
	defer rows.Close()

	var disbursements []*disbursement.Disbursement

	for rows.Next() {
		d, err := scanDisbursement(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning disbursement: %w", err)
		}

		disbursements = append(disbursements, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating disbursements: %w", err)
	}

	return disbursements, nil
}

func (s *Store) get(ctx context.Context, query string, arg any) (*disbursement.Disbursement, error) {
	d, err := scanDisbursement(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, disbursement.ErrNotFound
		}

		return nil, fmt.Errorf("getting disbursement: %w", err)
	}

	return d, nil
}

// CreateInitiated commits the synchronous half of a disbursement: the
// initiated record, the provisional loan and both ledger entries. The
// reservation is re-read under lock so an expiry that won the race fails
// this transaction cleanly instead of disbursing a released hold.
func (s *Store) CreateInitiated(ctx context.Context, d *disbursement.Disbursement, l *loan.Loan) error {
	return database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var resStatus string
		if err := tx.QueryRowContext(ctx,
			`SELECT status FROM reservations WHERE id = $1 FOR UPDATE`, d.ReservationID,
		).Scan(&resStatus); err != nil {
			return fmt.Errorf("locking reservation: %w", err)
		}

		if resStatus != "active" {
			return disbursement.ErrReservationNotActive
		}

		insertDisbursement := `
			INSERT INTO disbursements (
				id, reservation_id, loan_id, mapping_id, merchant_id, amount,
				currency, idempotency_key, transfer_code, transfer_reference,
				status, created_at, updated_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
			RETURNING created_at
		`

		err := tx.QueryRowContext(ctx, insertDisbursement,
			d.ID,
			d.ReservationID,
			d.LoanID,
			d.MappingID,
			d.MerchantID,
			d.Amount,
			d.Currency,
			d.IdempotencyKey,
			d.TransferCode,
			d.TransferReference,
			d.Status,
		).Scan(&d.CreatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return disbursement.ErrAlreadyExists
			}

			return fmt.Errorf("creating disbursement: %w", err)
		}

		insertLoan := `
			INSERT INTO loans (
				id, disbursement_id, mapping_id, merchant_id, customer_id,
				principal, total_amount, amount_paid, tenor_value,
				tenor_period, frequency, installments, interest_rate,
				penalty_rate, status, created_at, updated_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
			RETURNING created_at
		`

		err = tx.QueryRowContext(ctx, insertLoan,
			l.ID,
			l.DisbursementID,
			l.MappingID,
			l.MerchantID,
			l.CustomerID,
			l.Principal,
			l.TotalAmount,
			l.Config.TenorValue,
			l.Config.TenorPeriod,
			l.Config.Frequency,
			l.Config.Installments,
			l.Config.InterestRate,
			l.Config.PenaltyRate,
			l.Status,
		).Scan(&l.CreatedAt)
		if err != nil {
			return fmt.Errorf("creating provisional loan: %w", err)
		}

		if err := ledgerStore.Append(ctx, tx, &ledger.Entry{
			Type:           ledger.TypeDisbursementInitiated,
			Status:         ledger.StatusPending,
			IdempotencyKey: d.IdempotencyKey,
			Amount:         d.Amount,
			Currency:       d.Currency,
			MerchantID:     d.MerchantID,
			MappingID:      &d.MappingID,
			ReservationID:  &d.ReservationID,
			DisbursementID: &d.ID,
		}); err != nil {
			return err
		}

		return ledgerStore.Append(ctx, tx, &ledger.Entry{
			Type:           ledger.TypeLoanCreated,
			Status:         ledger.StatusSuccess,
			IdempotencyKey: d.IdempotencyKey,
			Amount:         l.Principal,
			Currency:       d.Currency,
			MerchantID:     d.MerchantID,
			MappingID:      &d.MappingID,
			DisbursementID: &d.ID,
			LoanID:         &l.ID,
		})
	})
}

// FinalizeSuccess moves an initiated disbursement to success, consumes the
// reservation and bumps the mapping's running totals. If the sweeper
// expired the reservation while the transfer was in flight, the hold is
// re-taken so the mapping keeps accounting for the disbursed funds.
func (s *Store) FinalizeSuccess(ctx context.Context, d *disbursement.Disbursement) (bool, error) {
	applied := false

	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		applied = false

		result, err := tx.ExecContext(ctx, `
			UPDATE disbursements
			SET status = 'success', updated_at = NOW()
			WHERE id = $1 AND status = 'initiated'
		`, d.ID)
		if err != nil {
			return fmt.Errorf("updating disbursement: %w", err)
		}

		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("updating disbursement: %w", err)
		}

		if n == 0 {
			return nil // already terminal
		}

		var resStatus string
		if err := tx.QueryRowContext(ctx,
			`SELECT status FROM reservations WHERE id = $1 FOR UPDATE`, d.ReservationID,
		).Scan(&resStatus); err != nil {
			return fmt.Errorf("locking reservation: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE reservations
			SET status = 'consumed', updated_at = NOW()
			WHERE id = $1
		`, d.ReservationID); err != nil {
			return fmt.Errorf("consuming reservation: %w", err)
		}

		if resStatus == "expired" {
			// The sweeper returned the hold before the transfer settled;
			// take it back so conservation holds.
			if err := allocStore.AdjustCurrentAllocation(ctx, tx, d.MappingID, d.Amount); err != nil {
				return err
			}

			if err := ledgerStore.Append(ctx, tx, &ledger.Entry{
				Type:           ledger.TypeAllocationReserved,
				Status:         ledger.StatusSuccess,
				IdempotencyKey: d.IdempotencyKey,
				Amount:         d.Amount,
				Currency:       d.Currency,
				MerchantID:     d.MerchantID,
				MappingID:      &d.MappingID,
				ReservationID:  &d.ReservationID,
				Reason:         "expired_hold_restored",
			}); err != nil {
				return err
			}
		}

		if err := allocStore.RecordDisbursed(ctx, tx, d.MappingID, d.Amount); err != nil {
			return err
		}

		if err := ledgerStore.Append(ctx, tx, &ledger.Entry{
			Type:           ledger.TypeDisbursementSuccess,
			Status:         ledger.StatusSuccess,
			IdempotencyKey: d.IdempotencyKey,
			Amount:         d.Amount,
			Currency:       d.Currency,
			MerchantID:     d.MerchantID,
			MappingID:      &d.MappingID,
			ReservationID:  &d.ReservationID,
			DisbursementID: &d.ID,
			LoanID:         &d.LoanID,
		}); err != nil {
			return err
		}

		applied = true

		return nil
	})
	if err != nil {
		return false, err
	}

	return applied, nil
}

// FinalizeFailure moves an initiated disbursement to failed, releases the
// reservation, returns the hold to the mapping and cancels the provisional
// loan.
func (s *Store) FinalizeFailure(ctx context.Context, d *disbursement.Disbursement, reason string) (bool, error) {
	applied := false

	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		applied = false

		result, err := tx.ExecContext(ctx, `
			UPDATE disbursements
			SET status = 'failed', failure_reason = $1, updated_at = NOW()
			WHERE id = $2 AND status = 'initiated'
		`, reason, d.ID)
		if err != nil {
			return fmt.Errorf("updating disbursement: %w", err)
		}

		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("updating disbursement: %w", err)
		}

		if n == 0 {
			return nil
		}

		releaseRes, err := tx.ExecContext(ctx, `
			UPDATE reservations
			SET status = 'released', updated_at = NOW()
			WHERE id = $1 AND status = 'active'
		`, d.ReservationID)
		if err != nil {
			return fmt.Errorf("releasing reservation: %w", err)
		}

		released, err := releaseRes.RowsAffected()
		if err != nil {
			return fmt.Errorf("releasing reservation: %w", err)
		}

		// An expired reservation already gave its hold back; only an
		// active one still carries it.
		if released > 0 {
			if err := allocStore.AdjustCurrentAllocation(ctx, tx, d.MappingID, -d.Amount); err != nil {
				return err
			}

			if err := ledgerStore.Append(ctx, tx, &ledger.Entry{
				Type:           ledger.TypeAllocationReleased,
				Status:         ledger.StatusSuccess,
				IdempotencyKey: d.IdempotencyKey,
				Amount:         d.Amount,
				Currency:       d.Currency,
				MerchantID:     d.MerchantID,
				MappingID:      &d.MappingID,
				ReservationID:  &d.ReservationID,
				Reason:         "disbursement_failed",
			}); err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE loans
			SET status = 'cancelled', updated_at = NOW()
			WHERE id = $1 AND status = 'pending'
		`, d.LoanID); err != nil {
			return fmt.Errorf("cancelling provisional loan: %w", err)
		}

		if err := ledgerStore.Append(ctx, tx, &ledger.Entry{
			Type:           ledger.TypeDisbursementFailed,
			Status:         ledger.StatusFailed,
			IdempotencyKey: d.IdempotencyKey,
			Amount:         d.Amount,
			Currency:       d.Currency,
			MerchantID:     d.MerchantID,
			MappingID:      &d.MappingID,
			ReservationID:  &d.ReservationID,
			DisbursementID: &d.ID,
			LoanID:         &d.LoanID,
			Reason:         reason,
		}); err != nil {
			return err
		}

		applied = true

		return nil
	})
	if err != nil {
		return false, err
	}

	return applied, nil
}
