package disbursement

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status of one disbursement attempt. Initiated means the provider accepted
// the transfer request; success and failed are set from provider
// confirmations and are terminal.
type Status string

const (
	StatusInitiated Status = "initiated"
	StatusSuccess   Status = "success"
	StatusFailed    Status = "failed"
)

var (
	ErrNotFound      = errors.New("disbursement not found")
	ErrAlreadyExists = errors.New("disbursement already exists")
)

// Disbursement is one attempt to move reserved funds to a merchant's
// settlement account. It consumes exactly one reservation and provisions
// exactly one loan.
type Disbursement struct {
	ID                uuid.UUID
	ReservationID     uuid.UUID
	LoanID            uuid.UUID
	MappingID         uuid.UUID
	MerchantID        uuid.UUID
	Amount            int64
	Currency          string
	IdempotencyKey    uuid.UUID
	TransferCode      string
	TransferReference string
	Status            Status
	FailureReason     string
	CreatedAt         time.Time
	UpdatedAt         *time.Time
}
