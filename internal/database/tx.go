package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// maxTxAttempts bounds the internal retry loop on serialization conflicts.
const maxTxAttempts = 3

// ErrTxExhausted is returned when a transaction keeps conflicting after
// maxTxAttempts tries. Callers surface it as a generic "try again".
var ErrTxExhausted = errors.New("transaction retries exhausted")

// WithTx runs fn inside a serializable transaction. The transaction is
// retried on serialization failures (SQLSTATE 40001) and deadlocks (40P01);
// any other error rolls back and is returned as-is. fn must not call the
// external provider; provider calls happen outside store transactions.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	for attempt := 1; ; attempt++ {
		err := runTx(ctx, db, fn)
		if err == nil {
			return nil
		}

		if !retryable(err) {
			return err
		}

		if attempt >= maxTxAttempts {
			return fmt.Errorf("%w: %w", ErrTxExhausted, err)
		}
	}
}

func runTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func retryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}
