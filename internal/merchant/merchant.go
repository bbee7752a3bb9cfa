package merchant

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("merchant not found")

// SettlementAccount is the bank destination for disbursed funds.
type SettlementAccount struct {
	BankCode      string
	AccountNumber string
	AccountName   string
}

// Configured reports whether the account is complete enough to disburse to.
func (a SettlementAccount) Configured() bool {
	return a.BankCode != "" && a.AccountNumber != ""
}

// Merchant is the read-mostly slice of the merchant record this engine
// consumes. Onboarding and CRUD live upstream; the engine only reads the
// settlement destination and API key, and caches the provider-side
// transfer recipient code once it has been created.
type Merchant struct {
	ID            uuid.UUID
	Name          string
	APIKeyHash    string
	WebhookURL    string
	Settlement    SettlementAccount
	RecipientCode string
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// HashAPIKey derives the stored lookup hash for a raw API key.
func HashAPIKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
