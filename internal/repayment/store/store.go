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
	"github.com/lendqube/lendqube/internal/ledger"
	ledgerStore "github.com/lendqube/lendqube/internal/ledger/store"
	"github.com/lendqube/lendqube/internal/loan"
	loanStore "github.com/lendqube/lendqube/internal/loan/store"
	"github.com/lendqube/lendqube/internal/repayment"
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

func (s *Store) GetLoan(ctx context.Context, id uuid.UUID) (*loan.Loan, error) {
	return loanStore.GetLoan(ctx, s.db, id)
}

func (s *Store) GetScheduleItem(ctx context.Context, id uuid.UUID) (*loan.ScheduleItem, error) {
	return loanStore.GetScheduleItem(ctx, s.db, id)
}

const selectRepaymentColumns = `
	id, schedule_item_id, loan_id, merchant_id, amount, method, reference,
	idempotency_key, provider_reference, created_at
`

func scanRepayment(s scanner) (*repayment.Repayment, error) {
	var r repayment.Repayment

	var methodStr string

	var providerRef sql.NullString

	if err := s.Scan(
		&r.ID, &r.ScheduleItemID, &r.LoanID, &r.MerchantID, &r.Amount,
		&methodStr, &r.Reference, &r.IdempotencyKey, &providerRef,
		&r.CreatedAt,
	); err != nil {
		return nil, err
	}

	r.Method = repayment.Method(methodStr)
	r.ProviderReference = providerRef.String

	return &r, nil
}

func (s *Store) GetRepaymentByKey(ctx context.Context, key uuid.UUID) (*repayment.Repayment, error) {
	query := `SELECT ` + selectRepaymentColumns + ` FROM repayments WHERE idempotency_key = $1`

	r, err := scanRepayment(s.db.QueryRowContext(ctx, query, key))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repayment.ErrNotFound
		}

		return nil, fmt.Errorf("getting repayment by key: %w", err)
	}

	return r, nil
}

func (s *Store) ListDueItems(ctx context.Context, cutoff time.Time) ([]*loan.ScheduleItem, error) {
	query := `
		SELECT si.id FROM schedule_items si
		JOIN loans l ON si.loan_id = l.id
		WHERE si.status = 'pending'
		  AND si.next_retry_at IS NULL
		  AND si.due_date <= $1
		  AND l.status = 'active'
		ORDER BY si.due_date ASC
	`

	return s.listItems(ctx, query, cutoff)
}

func (s *Store) ListRetryItems(ctx context.Context, now time.Time) ([]*loan.ScheduleItem, error) {
	query := `
		SELECT si.id FROM schedule_items si
		JOIN loans l ON si.loan_id = l.id
		WHERE si.status = 'pending'
		  AND si.next_retry_at IS NOT NULL
		  AND si.next_retry_at <= $1
		  AND l.status = 'active'
		ORDER BY si.next_retry_at ASC
	`

	return s.listItems(ctx, query, now)
}

func (s *Store) listItems(ctx context.Context, query string, args ...any) ([]*loan.ScheduleItem, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing schedule items: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning schedule item id: %w", err)
		}

		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schedule items: %w", err)
	}

	items := make([]*loan.ScheduleItem, 0, len(ids))

	for _, id := range ids {
		it, err := loanStore.GetScheduleItem(ctx, s.db, id)
		if err != nil {
			return nil, err
		}

		items = append(items, it)
	}

	return items, nil
}

func (s *Store) MarkProcessing(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE schedule_items
		SET status = 'processing', updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("claiming schedule item: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("claiming schedule item: %w", err)
	}

	return n > 0, nil
}

// RecordSuccess commits the full success leg of a repayment in one
// transaction: repayment row, paid item, loan progress (completion when the
// last naira lands), mapping repaid total and the ledger trail.
func (s *Store) RecordSuccess(ctx context.Context, rec *repayment.Repayment, item *loan.ScheduleItem) error {
	return database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		insert := `
			INSERT INTO repayments (
				id, schedule_item_id, loan_id, merchant_id, amount, method,
				reference, idempotency_key, provider_reference, created_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
			RETURNING created_at
		`

		err := tx.QueryRowContext(ctx, insert,
			rec.ID,
			rec.ScheduleItemID,
			rec.LoanID,
			rec.MerchantID,
			rec.Amount,
			rec.Method,
			rec.Reference,
			rec.IdempotencyKey,
			rec.ProviderReference,
		).Scan(&rec.CreatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return repayment.ErrAlreadyExists
			}

			return fmt.Errorf("creating repayment: %w", err)
		}

		itemUpdate := `
			UPDATE schedule_items
			SET status = 'success', paid_amount = $1, late_fee = $2,
			    next_retry_at = NULL, updated_at = NOW()
			WHERE id = $3 AND status <> 'success'
		`

		result, err := tx.ExecContext(ctx, itemUpdate, item.PaidAmount, item.LateFee, item.ID)
		if err != nil {
			return fmt.Errorf("marking item paid: %w", err)
		}

		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("marking item paid: %w", err)
		}

		if n == 0 {
			return repayment.ErrAlreadyPaid
		}

		l, err := loanStore.GetLoan(ctx, tx, rec.LoanID)
		if err != nil {
			return err
		}

		loanUpdate := `
			UPDATE loans
			SET amount_paid = amount_paid + $1,
			    status = CASE WHEN amount_paid + $1 >= total_amount THEN 'completed' ELSE status END,
			    updated_at = NOW()
			WHERE id = $2
		`

		if _, err := tx.ExecContext(ctx, loanUpdate, rec.Amount, rec.LoanID); err != nil {
			return fmt.Errorf("advancing loan: %w", err)
		}

		if err := allocStore.RecordRepaid(ctx, tx, l.MappingID, rec.Amount); err != nil {
			return err
		}

		if err := ledgerStore.Append(ctx, tx, &ledger.Entry{
			Type:           ledger.TypeRepaymentSuccess,
			Status:         ledger.StatusSuccess,
			IdempotencyKey: rec.IdempotencyKey,
			Amount:         rec.Amount,
			Currency:       "NGN",
			MerchantID:     rec.MerchantID,
			MappingID:      &l.MappingID,
			LoanID:         &rec.LoanID,
			ScheduleItemID: &rec.ScheduleItemID,
			RepaymentID:    &rec.ID,
		}); err != nil {
			return err
		}

		if item.LateFee > 0 {
			if err := ledgerStore.Append(ctx, tx, &ledger.Entry{
				Type:           ledger.TypeFeeCharged,
				Status:         ledger.StatusSuccess,
				IdempotencyKey: rec.IdempotencyKey,
				Amount:         item.LateFee,
				Currency:       "NGN",
				MerchantID:     rec.MerchantID,
				MappingID:      &l.MappingID,
				LoanID:         &rec.LoanID,
				ScheduleItemID: &rec.ScheduleItemID,
				RepaymentID:    &rec.ID,
				Reason:         "late_fee",
			}); err != nil {
				return err
			}
		}

		return nil
	})
}

func (s *Store) RecordFailure(ctx context.Context, item *loan.ScheduleItem) error {
	query := `
		UPDATE schedule_items
		SET status = $1, retry_count = $2, next_retry_at = $3, updated_at = NOW()
		WHERE id = $4
	`

	_, err := s.db.ExecContext(ctx, query, item.Status, item.RetryCount, item.NextRetryAt, item.ID)
	if err != nil {
		return fmt.Errorf("recording failed attempt: %w", err)
	}

	return nil
}
