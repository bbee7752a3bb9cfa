package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/lendqube/lendqube/internal/merchant"
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

const selectMerchantColumns = `
	id, name, api_key_hash, webhook_url, bank_code, account_number,
	account_name, recipient_code, created_at, updated_at
`

func scanMerchant(s scanner) (*merchant.Merchant, error) {
	var m merchant.Merchant

	var webhookURL, bankCode, accountNumber, accountName, recipientCode sql.NullString

	if err := s.Scan(
		&m.ID, &m.Name, &m.APIKeyHash, &webhookURL, &bankCode, &accountNumber,
		&accountName, &recipientCode, &m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return nil, err
	}

	m.WebhookURL = webhookURL.String
	m.Settlement = merchant.SettlementAccount{
		BankCode:      bankCode.String,
		AccountNumber: accountNumber.String,
		AccountName:   accountName.String,
	}
	m.RecipientCode = recipientCode.String

	return &m, nil
}

func (s *Store) GetMerchant(ctx context.Context, id uuid.UUID) (*merchant.Merchant, error) {
	query := `SELECT ` + selectMerchantColumns + ` FROM merchants WHERE id = $1`

	m, err := scanMerchant(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, merchant.ErrNotFound
		}

		return nil, fmt.Errorf("getting merchant: %w", err)
	}

	return m, nil
}

func (s *Store) GetByAPIKeyHash(ctx context.Context, hash string) (*merchant.Merchant, error) {
	query := `SELECT ` + selectMerchantColumns + ` FROM merchants WHERE api_key_hash = $1`

	m, err := scanMerchant(s.db.QueryRowContext(ctx, query, hash))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, merchant.ErrNotFound
		}

		return nil, fmt.Errorf("getting merchant by api key: %w", err)
	}

	return m, nil
}

func (s *Store) UpdateRecipientCode(ctx context.Context, id uuid.UUID, code string) error {
	query := `
		UPDATE merchants
		SET recipient_code = $1, updated_at = NOW()
		WHERE id = $2
	`

	_, err := s.db.ExecContext(ctx, query, code, id)
	if err != nil {
		return fmt.Errorf("updating recipient code: %w", err)
	}

	return nil
}
