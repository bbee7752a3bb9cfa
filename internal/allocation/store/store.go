package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/lendqube/lendqube/internal/allocation"
)

// Querier is satisfied by *sql.DB and *sql.Tx. The mutating helpers below
// are meant to run on a *sql.Tx owned by the reservation or disbursement
// store, so mapping adjustments commit atomically with the records that
// justify them.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

const selectMappingColumns = `
	id, plan_id, merchant_id, financier_id, funds_allocated, current_allocation,
	total_loans, total_disbursed, total_repaid, status, interest_rate,
	penalty_rate, tenor_value, tenor_period, frequency, expires_at,
	created_at, updated_at
`

func scanMapping(s scanner) (*allocation.Mapping, error) {
	var m allocation.Mapping

	var statusStr string

	if err := s.Scan(
		&m.ID, &m.PlanID, &m.MerchantID, &m.FinancierID, &m.FundsAllocated,
		&m.CurrentAllocation, &m.TotalLoans, &m.TotalDisbursed, &m.TotalRepaid,
		&statusStr, &m.Terms.InterestRate, &m.Terms.PenaltyRate,
		&m.Terms.TenorValue, &m.Terms.TenorPeriod, &m.Terms.Frequency,
		&m.ExpiresAt, &m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return nil, err
	}

	m.Status = allocation.Status(statusStr)

	return &m, nil
}

// ListActiveByMerchant returns the merchant's active, non-expired mappings.
func ListActiveByMerchant(ctx context.Context, q Querier, merchantID uuid.UUID) ([]*allocation.Mapping, error) {
	query := `SELECT ` + selectMappingColumns + `
		FROM allocation_mappings
		WHERE merchant_id = $1 AND status = 'active' AND expires_at > NOW()`

	rows, err := q.QueryContext(ctx, query, merchantID)
	if err != nil {
		return nil, fmt.Errorf("listing mappings: %w", err)
	}
	defer rows.Close()

	var mappings []*allocation.Mapping

	for rows.Next() {
		m, err := scanMapping(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning mapping: %w", err)
		}

		mappings = append(mappings, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating mappings: %w", err)
	}

	return mappings, nil
}

// GetMapping loads one mapping without locking it.
func GetMapping(ctx context.Context, q Querier, id uuid.UUID) (*allocation.Mapping, error) {
	query := `SELECT ` + selectMappingColumns + `
		FROM allocation_mappings
		WHERE id = $1`

	m, err := scanMapping(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, allocation.ErrNotFound
		}

		return nil, fmt.Errorf("getting mapping: %w", err)
	}

	return m, nil
}

// GetMappingForUpdate re-reads a mapping with a row lock, guarding the
// window between an eligibility check and the reservation commit.
func GetMappingForUpdate(ctx context.Context, q Querier, id uuid.UUID) (*allocation.Mapping, error) {
	query := `SELECT ` + selectMappingColumns + `
		FROM allocation_mappings
		WHERE id = $1
		FOR UPDATE`

	m, err := scanMapping(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, allocation.ErrNotFound
		}

		return nil, fmt.Errorf("locking mapping: %w", err)
	}

	return m, nil
}

// AdjustCurrentAllocation moves current_allocation by delta (positive on
// reserve, negative on release). The WHERE clause enforces the
// 0 <= current_allocation <= funds_allocated invariant inside the
// statement itself; a zero row count means the adjustment would have
// broken it.
func AdjustCurrentAllocation(ctx context.Context, q Querier, id uuid.UUID, delta int64) error {
	query := `
		UPDATE allocation_mappings
		SET current_allocation = current_allocation + $1, updated_at = NOW()
		WHERE id = $2
		  AND current_allocation + $1 >= 0
		  AND current_allocation + $1 <= funds_allocated
	`

	res, err := q.ExecContext(ctx, query, delta, id)
	if err != nil {
		return fmt.Errorf("adjusting allocation: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("adjusting allocation: %w", err)
	}

	if n == 0 {
		return allocation.ErrInsufficient
	}

	return nil
}

// RecordDisbursed bumps the running totals when a disbursement settles.
func RecordDisbursed(ctx context.Context, q Querier, id uuid.UUID, amount int64) error {
	query := `
		UPDATE allocation_mappings
		SET total_disbursed = total_disbursed + $1,
		    total_loans = total_loans + 1,
		    updated_at = NOW()
		WHERE id = $2
	`

	if _, err := q.ExecContext(ctx, query, amount, id); err != nil {
		return fmt.Errorf("recording disbursed total: %w", err)
	}

	return nil
}

// RecordRepaid bumps the repaid running total on a successful repayment.
func RecordRepaid(ctx context.Context, q Querier, id uuid.UUID, amount int64) error {
	query := `
		UPDATE allocation_mappings
		SET total_repaid = total_repaid + $1, updated_at = NOW()
		WHERE id = $2
	`

	if _, err := q.ExecContext(ctx, query, amount, id); err != nil {
		return fmt.Errorf("recording repaid total: %w", err)
	}

	return nil
}
