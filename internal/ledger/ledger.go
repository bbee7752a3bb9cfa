package ledger

import (
	"time"

	"github.com/google/uuid"
)

// EntryType classifies a money-affecting event.
type EntryType string

const (
	TypeAllocationReserved    EntryType = "ALLOCATION_RESERVED"
	TypeAllocationReleased    EntryType = "ALLOCATION_RELEASED"
	TypeDisbursementInitiated EntryType = "DISBURSEMENT_INITIATED"
	TypeDisbursementSuccess   EntryType = "DISBURSEMENT_SUCCESS"
	TypeDisbursementFailed    EntryType = "DISBURSEMENT_FAILED"
	TypeLoanCreated           EntryType = "LOAN_CREATED"
	TypeRepaymentSuccess      EntryType = "REPAYMENT_SUCCESS"
	TypeFeeCharged            EntryType = "FEE_CHARGED"
)

// Status of the underlying event at append time.
type Status string

const (
	StatusSuccess Status = "success"
	StatusPending Status = "pending"
	StatusFailed  Status = "failed"
)

// Entry is one immutable ledger record. Entries are append-only: nothing in
// the engine updates or deletes them, and the full money trail for any loan
// or mapping is reconstructable by replaying them in created_at order.
type Entry struct {
	ID             uuid.UUID
	Type           EntryType
	Status         Status
	IdempotencyKey uuid.UUID
	Amount         int64 // minor units
	Currency       string
	MerchantID     uuid.UUID
	MappingID      *uuid.UUID
	ReservationID  *uuid.UUID
	DisbursementID *uuid.UUID
	LoanID         *uuid.UUID
	ScheduleItemID *uuid.UUID
	RepaymentID    *uuid.UUID
	Reason         string
	CreatedAt      time.Time
}
