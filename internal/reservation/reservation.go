package reservation

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status is the reservation lifecycle state. Active is the only non-terminal
// state; a reservation leaves it exactly once, via consumption, release or
// expiry, and never transitions again.
type Status string

const (
	StatusActive   Status = "active"
	StatusConsumed Status = "consumed"
	StatusReleased Status = "released"
	StatusExpired  Status = "expired"
)

var (
	ErrNotFound      = errors.New("reservation not found")
	ErrAlreadyExists = errors.New("reservation already exists")
)

// Reservation is a temporary exclusive hold of an amount against one
// allocation mapping, pending disbursement.
type Reservation struct {
	ID             uuid.UUID
	MappingID      uuid.UUID
	MerchantID     uuid.UUID
	CustomerID     uuid.UUID
	Amount         int64
	Currency       string
	IdempotencyKey uuid.UUID
	Status         Status
	ExpiresAt      time.Time
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

// keyNamespace seeds deterministic idempotency keys. Changing it would break
// replay detection for in-flight operations.
var keyNamespace = uuid.MustParse("9b1c5f02-6f54-4b3a-8f6d-2f7d1a4c9e10")

// IdempotencyKey derives the deterministic key for one (merchant, reference)
// pair. The same pair always maps to the same UUID, so a retried call finds
// the record its first attempt created.
func IdempotencyKey(merchantID uuid.UUID, reference string) uuid.UUID {
	return uuid.NewSHA1(keyNamespace, []byte(merchantID.String()+":"+reference))
}
