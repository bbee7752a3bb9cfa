package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/lendqube/lendqube/internal/allocation"
	allocStore "github.com/lendqube/lendqube/internal/allocation/store"
	"github.com/lendqube/lendqube/internal/database"
	"github.com/lendqube/lendqube/internal/loan"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Querier is satisfied by *sql.DB and *sql.Tx; the package-level getters
// below are shared with the repayment store, which reads loans and schedule
// items inside its own transactions.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

const selectLoanColumns = `
	id, disbursement_id, mapping_id, merchant_id, customer_id, principal,
	total_amount, amount_paid, tenor_value, tenor_period, frequency,
	installments, interest_rate, penalty_rate, status, authorization_code,
	first_payment_date, created_at, updated_at
`

func scanLoan(s scanner) (*loan.Loan, error) {
	var l loan.Loan

	var statusStr, tenorPeriod, frequency string

	var authCode sql.NullString

	if err := s.Scan(
		&l.ID, &l.DisbursementID, &l.MappingID, &l.MerchantID, &l.CustomerID,
		&l.Principal, &l.TotalAmount, &l.AmountPaid, &l.Config.TenorValue,
		&tenorPeriod, &frequency, &l.Config.Installments,
		&l.Config.InterestRate, &l.Config.PenaltyRate, &statusStr, &authCode,
		&l.FirstPaymentDate, &l.CreatedAt, &l.UpdatedAt,
	); err != nil {
		return nil, err
	}

	l.Status = loan.Status(statusStr)
	l.Config.TenorPeriod = loan.TenorPeriod(tenorPeriod)
	l.Config.Frequency = loan.Frequency(frequency)
	l.AuthorizationCode = authCode.String

	return &l, nil
}

// GetLoan loads one loan through any querier.
func GetLoan(ctx context.Context, q Querier, id uuid.UUID) (*loan.Loan, error) {
	query := `SELECT ` + selectLoanColumns + ` FROM loans WHERE id = $1`

	l, err := scanLoan(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, loan.ErrNotFound
		}

		return nil, fmt.Errorf("getting loan: %w", err)
	}

	return l, nil
}

// GetScheduleItem loads one installment through any querier.
func GetScheduleItem(ctx context.Context, q Querier, id uuid.UUID) (*loan.ScheduleItem, error) {
	query := `SELECT ` + selectItemColumns + ` FROM schedule_items WHERE id = $1`

	it, err := scanItem(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, loan.ErrItemNotFound
		}

		return nil, fmt.Errorf("getting schedule item: %w", err)
	}

	return it, nil
}

func (s *Store) GetLoan(ctx context.Context, id uuid.UUID) (*loan.Loan, error) {
	return GetLoan(ctx, s.db, id)
}

func (s *Store) GetMapping(ctx context.Context, id uuid.UUID) (*allocation.Mapping, error) {
	return allocStore.GetMapping(ctx, s.db, id)
}

const selectItemColumns = `
	id, loan_id, number, due_date, amount, principal_amount, interest_amount,
	status, paid_amount, late_fee, retry_count, next_retry_at, created_at,
	updated_at
`

func scanItem(s scanner) (*loan.ScheduleItem, error) {
	var it loan.ScheduleItem

	var statusStr string

	if err := s.Scan(
		&it.ID, &it.LoanID, &it.Number, &it.DueDate, &it.Amount,
		&it.PrincipalAmount, &it.InterestAmount, &statusStr, &it.PaidAmount,
		&it.LateFee, &it.RetryCount, &it.NextRetryAt, &it.CreatedAt,
		&it.UpdatedAt,
	); err != nil {
		return nil, err
	}

	it.Status = loan.ItemStatus(statusStr)

	return &it, nil
}

func (s *Store) ListSchedule(ctx context.Context, loanID uuid.UUID) ([]*loan.ScheduleItem, error) {
	query := `SELECT ` + selectItemColumns + `
		FROM schedule_items
		WHERE loan_id = $1
		ORDER BY number ASC`

	rows, err := s.db.QueryContext(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("listing schedule: %w", err)
	}
	defer rows.Close()

	var items []*loan.ScheduleItem

	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning schedule item: %w", err)
		}

		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schedule items: %w", err)
	}

	return items, nil
}

// ActivateWithSchedule writes the authoritative loan terms and the generated
// items in one transaction. The guarded loan UPDATE only matches pending
// loans, and the count check on existing items makes a replay a no-op even
// if the loan row was somehow reset.
func (s *Store) ActivateWithSchedule(ctx context.Context, l *loan.Loan, items []*loan.ScheduleItem) (bool, error) {
	created := false

	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		created = false

		var existing int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM schedule_items WHERE loan_id = $1`, l.ID,
		).Scan(&existing); err != nil {
			return fmt.Errorf("counting schedule items: %w", err)
		}

		if existing > 0 {
			return nil
		}

		query := `
			UPDATE loans
			SET total_amount = $1, tenor_value = $2, tenor_period = $3,
			    frequency = $4, installments = $5, interest_rate = $6,
			    penalty_rate = $7, status = 'active', updated_at = NOW()
			WHERE id = $8 AND status = 'pending'
		`

		result, err := tx.ExecContext(ctx, query,
			l.TotalAmount,
			l.Config.TenorValue,
			l.Config.TenorPeriod,
			l.Config.Frequency,
			l.Config.Installments,
			l.Config.InterestRate,
			l.Config.PenaltyRate,
			l.ID,
		)
		if err != nil {
			return fmt.Errorf("activating loan: %w", err)
		}

		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("activating loan: %w", err)
		}

		if n == 0 {
			return nil
		}

		insert := `
			INSERT INTO schedule_items (
				id, loan_id, number, due_date, amount, principal_amount,
				interest_amount, status, paid_amount, late_fee, retry_count,
				created_at, updated_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, 0, 0, NOW(), NOW())
		`

		for _, it := range items {
			if _, err := tx.ExecContext(ctx, insert,
				it.ID,
				it.LoanID,
				it.Number,
				it.DueDate,
				it.Amount,
				it.PrincipalAmount,
				it.InterestAmount,
				it.Status,
			); err != nil {
				return fmt.Errorf("inserting schedule item %d: %w", it.Number, err)
			}
		}

		created = true

		return nil
	})
	if err != nil {
		return false, err
	}

	return created, nil
}
