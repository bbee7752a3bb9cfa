package repayment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Method records how a repayment was settled.
type Method string

const (
	MethodAutoDebit    Method = "auto_debit"
	MethodManual       Method = "manual"
	MethodBankTransfer Method = "bank_transfer"
	MethodCash         Method = "cash"
)

var (
	ErrNotFound      = errors.New("repayment not found")
	ErrAlreadyPaid   = errors.New("schedule item already paid")
	ErrAlreadyExists = errors.New("repayment already exists")
	ErrWrongMerchant = errors.New("schedule item belongs to another merchant")
)

// Repayment is one settlement of a schedule item.
type Repayment struct {
	ID                uuid.UUID
	ScheduleItemID    uuid.UUID
	LoanID            uuid.UUID
	MerchantID        uuid.UUID
	Amount            int64
	Method            Method
	Reference         string
	IdempotencyKey    uuid.UUID
	ProviderReference string
	CreatedAt         time.Time
}
