package allocation

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an allocation mapping.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

var (
	ErrNotFound     = errors.New("allocation mapping not found")
	ErrInsufficient = errors.New("insufficient allocation")
)

// PlanTerms are the financing-plan terms attached to a mapping. They become
// the authoritative loan configuration once a disbursement is confirmed.
type PlanTerms struct {
	InterestRate int // percent
	PenaltyRate  int // percent, applied per overdue installment
	TenorValue   int
	TenorPeriod  string // DAYS, WEEKS, MONTHS, YEARS
	Frequency    string // daily, weekly, bi-weekly, monthly, quarterly, bi-annually, annually
}

// Mapping allocates a slice of one financier's funds to one merchant under
// one financing plan. currentAllocation is the amount currently held by
// active reservations or disbursed-but-unsettled loans; the invariant
// 0 <= CurrentAllocation <= FundsAllocated holds at all times.
type Mapping struct {
	ID                uuid.UUID
	PlanID            uuid.UUID
	MerchantID        uuid.UUID
	FinancierID       uuid.UUID
	FundsAllocated    int64
	CurrentAllocation int64
	TotalLoans        int64
	TotalDisbursed    int64
	TotalRepaid       int64
	Status            Status
	Terms             PlanTerms
	ExpiresAt         time.Time
	CreatedAt         time.Time
	UpdatedAt         *time.Time
}

// Remaining is the headroom still reservable on this mapping.
func (m *Mapping) Remaining() int64 {
	return m.FundsAllocated - m.CurrentAllocation
}
