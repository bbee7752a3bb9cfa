package loan

import (
	"time"

	"github.com/google/uuid"
)

// ceilDiv rounds the quotient up so summed installments never undershoot
// the amount they split.
func ceilDiv(total, n int64) int64 {
	if n <= 0 {
		return total
	}

	return (total + n - 1) / n
}

// Installments derives the installment count from tenor and frequency:
// tenor normalized to days, divided by the frequency period, rounded up.
func Installments(freq Frequency, tenorValue int, tenorPeriod TenorPeriod) int {
	tenorDays := tenorPeriod.Days(tenorValue)

	n := int(ceilDiv(int64(tenorDays), int64(freq.Days())))
	if n < 1 {
		n = 1
	}

	return n
}

// Interest is the flat interest charged on a principal at a percent rate.
func Interest(principal int64, rate int) int64 {
	return ceilDiv(principal*int64(rate), 100)
}

// GenerateSchedule derives the ordered installment list for a loan. It is a
// pure function of the loan's configuration and the start date: the same
// inputs always produce the same count, amounts and due dates. The sum of
// installment amounts is >= TotalAmount, overshooting by less than the
// installment count (ceil rounding).
//
// Callers persist the result exactly once per loan, at confirmation time;
// ActivateWithSchedule enforces that.
func GenerateSchedule(l *Loan, start time.Time) []*ScheduleItem {
	n := int64(l.Config.Installments)

	amount := ceilDiv(l.TotalAmount, n)
	principal := ceilDiv(l.Principal, n)
	interest := ceilDiv(l.TotalAmount-l.Principal, n)
	stepDays := l.Config.Frequency.Days()

	items := make([]*ScheduleItem, l.Config.Installments)
	for i := range items {
		items[i] = &ScheduleItem{
			ID:              uuid.New(),
			LoanID:          l.ID,
			Number:          i + 1,
			DueDate:         start.AddDate(0, 0, stepDays*(i+1)),
			Amount:          amount,
			PrincipalAmount: principal,
			InterestAmount:  interest,
			Status:          ItemPending,
		}
	}

	return items
}
