package loan

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status is the loan lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusDefaulted Status = "defaulted"
	StatusCancelled Status = "cancelled"
)

// ItemStatus is the lifecycle state of one schedule installment.
type ItemStatus string

// A past-due installment stays pending and carries a late fee; it never
// gets a distinct lifecycle state.
const (
	ItemPending    ItemStatus = "pending"
	ItemProcessing ItemStatus = "processing"
	ItemSuccess    ItemStatus = "success"
	ItemFailed     ItemStatus = "failed"
)

var (
	ErrNotFound     = errors.New("loan not found")
	ErrItemNotFound = errors.New("schedule item not found")
)

// Frequency is how often installments fall due.
type Frequency string

const (
	FrequencyDaily      Frequency = "daily"
	FrequencyWeekly     Frequency = "weekly"
	FrequencyBiWeekly   Frequency = "bi-weekly"
	FrequencyMonthly    Frequency = "monthly"
	FrequencyQuarterly  Frequency = "quarterly"
	FrequencyBiAnnually Frequency = "bi-annually"
	FrequencyAnnually   Frequency = "annually"
)

// Days is the period length of one frequency step, day-normalized.
func (f Frequency) Days() int {
	switch f {
	case FrequencyDaily:
		return 1
	case FrequencyWeekly:
		return 7
	case FrequencyBiWeekly:
		return 14
	case FrequencyQuarterly:
		return 90
	case FrequencyBiAnnually:
		return 180
	case FrequencyAnnually:
		return 365
	default:
		return 30 // monthly
	}
}

// TenorPeriod is the unit of a loan tenor.
type TenorPeriod string

const (
	TenorDays   TenorPeriod = "DAYS"
	TenorWeeks  TenorPeriod = "WEEKS"
	TenorMonths TenorPeriod = "MONTHS"
	TenorYears  TenorPeriod = "YEARS"
)

// Days converts a tenor value in this period to days.
func (p TenorPeriod) Days(value int) int {
	switch p {
	case TenorWeeks:
		return value * 7
	case TenorMonths:
		return value * 30
	case TenorYears:
		return value * 365
	default:
		return value
	}
}

// Config is a loan's repayment configuration.
type Config struct {
	TenorValue   int
	TenorPeriod  TenorPeriod
	Frequency    Frequency
	Installments int
	InterestRate int // percent
	PenaltyRate  int // percent per overdue installment
}

// DefaultConfig is the placeholder configuration given to a provisional
// loan at disbursement-initiation time. The authoritative terms replace it
// once the provider confirms the transfer.
func DefaultConfig() Config {
	return Config{
		TenorValue:   3,
		TenorPeriod:  TenorMonths,
		Frequency:    FrequencyMonthly,
		Installments: 3,
	}
}

// Loan is the repayment obligation provisioned by a disbursement. It is
// created pending with placeholder terms and activated in place (never
// duplicated) when the transfer is confirmed.
type Loan struct {
	ID                uuid.UUID
	DisbursementID    uuid.UUID
	MappingID         uuid.UUID
	MerchantID        uuid.UUID
	CustomerID        uuid.UUID
	Principal         int64
	TotalAmount       int64
	AmountPaid        int64
	Config            Config
	Status            Status
	AuthorizationCode string // stored card credential, empty when none saved
	FirstPaymentDate  *time.Time
	CreatedAt         time.Time
	UpdatedAt         *time.Time
}

// Remaining is the amount still owed on the loan.
func (l *Loan) Remaining() int64 {
	return l.TotalAmount - l.AmountPaid
}

// ScheduleItem is one due installment of a loan.
type ScheduleItem struct {
	ID              uuid.UUID
	LoanID          uuid.UUID
	Number          int
	DueDate         time.Time
	Amount          int64
	PrincipalAmount int64
	InterestAmount  int64
	Status          ItemStatus
	PaidAmount      int64
	LateFee         int64
	RetryCount      int
	NextRetryAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}
