package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lendqube/lendqube/internal/allocation"
	allocStore "github.com/lendqube/lendqube/internal/allocation/store"
	"github.com/lendqube/lendqube/internal/database"
	"github.com/lendqube/lendqube/internal/ledger"
	ledgerStore "github.com/lendqube/lendqube/internal/ledger/store"
	"github.com/lendqube/lendqube/internal/reservation"
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

const selectReservationColumns = `
	id, mapping_id, merchant_id, customer_id, amount, currency,
	idempotency_key, status, expires_at, created_at, updated_at
`

func scanReservation(s scanner) (*reservation.Reservation, error) {
	var res reservation.Reservation

	var statusStr string

	if err := s.Scan(
		&res.ID, &res.MappingID, &res.MerchantID, &res.CustomerID, &res.Amount,
		&res.Currency, &res.IdempotencyKey, &statusStr, &res.ExpiresAt,
		&res.CreatedAt, &res.UpdatedAt,
	); err != nil {
		return nil, err
	}

	res.Status = reservation.Status(statusStr)

	return &res, nil
}

func (s *Store) GetReservation(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	query := `SELECT ` + selectReservationColumns + ` FROM reservations WHERE id = $1`

	res, err := scanReservation(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, reservation.ErrNotFound
		}

		return nil, fmt.Errorf("getting reservation: %w", err)
	}

	return res, nil
}

func (s *Store) GetByIdempotencyKey(ctx context.Context, key uuid.UUID) (*reservation.Reservation, error) {
	query := `SELECT ` + selectReservationColumns + ` FROM reservations WHERE idempotency_key = $1`

	res, err := scanReservation(s.db.QueryRowContext(ctx, query, key))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, reservation.ErrNotFound
		}

		return nil, fmt.Errorf("getting reservation by key: %w", err)
	}

	return res, nil
}

func (s *Store) ListEligibleMappings(ctx context.Context, merchantID uuid.UUID) ([]*allocation.Mapping, error) {
	return allocStore.ListActiveByMerchant(ctx, s.db, merchantID)
}

// CreateReservation performs the reservation transaction: lock and re-read
// the mapping, re-verify headroom, take the hold, insert the reservation and
// append the ALLOCATION_RESERVED entry. All five steps commit or none do.
func (s *Store) CreateReservation(ctx context.Context, res *reservation.Reservation) error {
	return database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		mapping, err := allocStore.GetMappingForUpdate(ctx, tx, res.MappingID)
		if err != nil {
			return err
		}

		if mapping.Remaining() < res.Amount {
			return allocation.ErrInsufficient
		}

		if err := allocStore.AdjustCurrentAllocation(ctx, tx, res.MappingID, res.Amount); err != nil {
			return err
		}

		query := `
			INSERT INTO reservations (
				id, mapping_id, merchant_id, customer_id, amount, currency,
				idempotency_key, status, expires_at, created_at, updated_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
			RETURNING created_at
		`

		err = tx.QueryRowContext(ctx, query,
			res.ID,
			res.MappingID,
			res.MerchantID,
			res.CustomerID,
			res.Amount,
			res.Currency,
			res.IdempotencyKey,
			res.Status,
			res.ExpiresAt,
		).Scan(&res.CreatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return reservation.ErrAlreadyExists
			}

			return fmt.Errorf("creating reservation: %w", err)
		}

		return ledgerStore.Append(ctx, tx, &ledger.Entry{
			Type:           ledger.TypeAllocationReserved,
			Status:         ledger.StatusSuccess,
			IdempotencyKey: res.IdempotencyKey,
			Amount:         res.Amount,
			Currency:       res.Currency,
			MerchantID:     res.MerchantID,
			MappingID:      &res.MappingID,
			ReservationID:  &res.ID,
		})
	})
}

func (s *Store) ListActive(ctx context.Context) ([]*reservation.Reservation, error) {
	query := `SELECT ` + selectReservationColumns + `
		FROM reservations
		WHERE status = 'active'
		ORDER BY expires_at ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing active reservations: %w", err)
	}
	defer rows.Close()

	var out []*reservation.Reservation

	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning reservation: %w", err)
		}

		out = append(out, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reservations: %w", err)
	}

	return out, nil
}

// Expire releases one overdue reservation. The guarded UPDATE re-checks the
// status is still active, so a disbursement that consumed the reservation
// between the sweep's read and this transaction makes it a clean no-op.
func (s *Store) Expire(ctx context.Context, res *reservation.Reservation) (bool, error) {
	expired := false

	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		expired = false

		query := `
			UPDATE reservations
			SET status = 'expired', updated_at = NOW()
			WHERE id = $1 AND status = 'active'
		`

		result, err := tx.ExecContext(ctx, query, res.ID)
		if err != nil {
			return fmt.Errorf("expiring reservation: %w", err)
		}

		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("expiring reservation: %w", err)
		}

		if n == 0 {
			return nil // already terminal, nothing to release
		}

		if err := allocStore.AdjustCurrentAllocation(ctx, tx, res.MappingID, -res.Amount); err != nil {
			return err
		}

		if err := ledgerStore.Append(ctx, tx, &ledger.Entry{
			Type:           ledger.TypeAllocationReleased,
			Status:         ledger.StatusSuccess,
			IdempotencyKey: res.IdempotencyKey,
			Amount:         res.Amount,
			Currency:       res.Currency,
			MerchantID:     res.MerchantID,
			MappingID:      &res.MappingID,
			ReservationID:  &res.ID,
			Reason:         "reservation_expired",
		}); err != nil {
			return err
		}

		expired = true

		return nil
	})
	if err != nil {
		return false, err
	}

	return expired, nil
}
