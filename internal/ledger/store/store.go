package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/lendqube/lendqube/internal/ledger"
)

// Querier is satisfied by both *sql.DB and *sql.Tx, so entries can be
// appended inside another store's transaction. Ledger writes always ride
// in the same transaction as the state change they record.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Append inserts one immutable ledger entry. There is no update or delete
// counterpart anywhere in this package.
func Append(ctx context.Context, q Querier, e *ledger.Entry) error {
	query := `
		INSERT INTO ledger_entries (
			id, type, status, idempotency_key, amount, currency, merchant_id,
			mapping_id, reservation_id, disbursement_id, loan_id,
			schedule_item_id, repayment_id, reason, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())
		RETURNING created_at
	`

	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	err := q.QueryRowContext(ctx, query,
		e.ID,
		e.Type,
		e.Status,
		e.IdempotencyKey,
		e.Amount,
		e.Currency,
		e.MerchantID,
		e.MappingID,
		e.ReservationID,
		e.DisbursementID,
		e.LoanID,
		e.ScheduleItemID,
		e.RepaymentID,
		e.Reason,
	).Scan(&e.CreatedAt)
	if err != nil {
		return fmt.Errorf("appending ledger entry: %w", err)
	}

	return nil
}

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectEntryColumns = `
	id, type, status, idempotency_key, amount, currency, merchant_id,
	mapping_id, reservation_id, disbursement_id, loan_id,
	schedule_item_id, repayment_id, reason, created_at
`

func scanEntry(rows *sql.Rows) (*ledger.Entry, error) {
	var e ledger.Entry

	var typeStr, statusStr string

	var reason sql.NullString

	if err := rows.Scan(
		&e.ID, &typeStr, &statusStr, &e.IdempotencyKey, &e.Amount, &e.Currency,
		&e.MerchantID, &e.MappingID, &e.ReservationID, &e.DisbursementID,
		&e.LoanID, &e.ScheduleItemID, &e.RepaymentID, &reason, &e.CreatedAt,
	); err != nil {
		return nil, err
	}

	e.Type = ledger.EntryType(typeStr)
	e.Status = ledger.Status(statusStr)
	e.Reason = reason.String

	return &e, nil
}

// ListByLoan returns the money trail for one loan in append order.
func (s *Store) ListByLoan(ctx context.Context, loanID uuid.UUID) ([]*ledger.Entry, error) {
	query := `SELECT ` + selectEntryColumns + `
		FROM ledger_entries
		WHERE loan_id = $1
		ORDER BY created_at ASC`

	return s.list(ctx, query, loanID)
}

// ListByMapping returns every entry touching one allocation mapping.
func (s *Store) ListByMapping(ctx context.Context, mappingID uuid.UUID) ([]*ledger.Entry, error) {
	query := `SELECT ` + selectEntryColumns + `
		FROM ledger_entries
		WHERE mapping_id = $1
		ORDER BY created_at ASC`

	return s.list(ctx, query, mappingID)
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]*ledger.Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*ledger.Entry

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning ledger entry: %w", err)
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ledger entries: %w", err)
	}

	return entries, nil
}
