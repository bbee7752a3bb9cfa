package repayment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lendqube/lendqube/internal/loan"
	"github.com/lendqube/lendqube/internal/metrics"
	"github.com/lendqube/lendqube/internal/paystack"
)

// maxAttempts bounds consecutive charge failures per schedule item. The
// third failure is terminal.
const maxAttempts = 3

// backoffFor returns the wait before the next attempt after the given
// failure count.
func backoffFor(failures int) time.Duration {
	switch failures {
	case 1:
		return 6 * time.Hour
	case 2:
		return 24 * time.Hour
	default:
		return 48 * time.Hour
	}
}

//go:generate mockgen -source=collector.go -destination=collector_mock.go -package=repayment
type Charger interface {
	ChargeAuthorization(ctx context.Context, params paystack.ChargeParams) (*paystack.Charge, error)
}

type Publisher interface {
	Publish(ctx context.Context, merchantID uuid.UUID, event string, payload any)
}

// Collector is the auto-debit sweep: it charges due installments against
// each loan's stored card credential. Items are processed independently;
// one failure never blocks or rolls back another, and runs are safe to
// overlap because each item is claimed with a guarded status transition.
type Collector struct {
	repo      Repository
	charger   Charger
	publisher Publisher
	now       func() time.Time
}

func NewCollector(repo Repository, charger Charger, publisher Publisher) *Collector {
	return &Collector{
		repo:      repo,
		charger:   charger,
		publisher: publisher,
		now:       time.Now,
	}
}

// Run drives the daily collection pass and the hourly retry dispatch until
// ctx is cancelled.
func (c *Collector) Run(ctx context.Context, collectEvery, retryEvery time.Duration) {
	collect := time.NewTicker(collectEvery)
	defer collect.Stop()

	retry := time.NewTicker(retryEvery)
	defer retry.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-collect.C:
			if _, err := c.CollectOnce(ctx); err != nil {
				slog.Error("auto-debit collection failed", "error", err)
			}
		case <-retry.C:
			if _, err := c.RetryOnce(ctx); err != nil {
				slog.Error("auto-debit retry dispatch failed", "error", err)
			}
		}
	}
}

// CollectOnce charges every pending installment due today or earlier.
func (c *Collector) CollectOnce(ctx context.Context) (int, error) {
	cutoff := endOfDay(c.now())

	items, err := c.repo.ListDueItems(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("listing due items: %w", err)
	}

	return c.processAll(ctx, items), nil
}

// RetryOnce re-attempts items whose retry backoff has elapsed.
func (c *Collector) RetryOnce(ctx context.Context) (int, error) {
	items, err := c.repo.ListRetryItems(ctx, c.now())
	if err != nil {
		return 0, fmt.Errorf("listing retry items: %w", err)
	}

	return c.processAll(ctx, items), nil
}

func (c *Collector) processAll(ctx context.Context, items []*loan.ScheduleItem) int {
	charged := 0

	for _, item := range items {
		ok, err := c.processItem(ctx, item)
		if err != nil {
			slog.Error("auto-debit item failed", "schedule_item_id", item.ID, "error", err)
			continue
		}

		if ok {
			charged++
		}
	}

	return charged
}

func (c *Collector) processItem(ctx context.Context, item *loan.ScheduleItem) (bool, error) {
	l, err := c.repo.GetLoan(ctx, item.LoanID)
	if err != nil {
		return false, fmt.Errorf("loading loan: %w", err)
	}

	claimed, err := c.repo.MarkProcessing(ctx, item.ID)
	if err != nil {
		return false, err
	}

	if !claimed {
		return false, nil // another runner has it
	}

	// No stored credential means nothing to retry against: fail
	// immediately and permanently.
	if l.AuthorizationCode == "" {
		item.Status = loan.ItemFailed
		item.RetryCount = maxAttempts
		item.NextRetryAt = nil

		if err := c.repo.RecordFailure(ctx, item); err != nil {
			return false, err
		}

		metrics.AutoDebitCharges.WithLabelValues("no_card").Inc()
		c.publisher.Publish(ctx, l.MerchantID, "payment.failed", map[string]any{
			"loan_id":          l.ID,
			"schedule_item_id": item.ID,
			"installment":      item.Number,
			"reason":           "no saved card",
		})

		return false, nil
	}

	now := c.now()

	var newFee int64
	if overdue(item.DueDate, now) && item.LateFee == 0 {
		newFee = loan.Interest(item.Amount, l.Config.PenaltyRate)
	}

	chargeAmount := item.Amount + item.LateFee + newFee
	attempt := item.RetryCount + 1
	reference := fmt.Sprintf("%s-attempt-%d", item.ID, attempt)

	charge, err := c.charger.ChargeAuthorization(ctx, paystack.ChargeParams{
		AuthorizationCode: l.AuthorizationCode,
		Email:             customerEmail(l),
		Amount:            chargeAmount,
		Reference:         reference,
	})
	if err != nil {
		return false, c.recordAttemptFailure(ctx, l, item, err)
	}

	item.PaidAmount = chargeAmount
	item.LateFee += newFee

	rec := &Repayment{
		ID:                uuid.New(),
		ScheduleItemID:    item.ID,
		LoanID:            l.ID,
		MerchantID:        l.MerchantID,
		Amount:            chargeAmount,
		Method:            MethodAutoDebit,
		Reference:         reference,
		IdempotencyKey:    uuid.NewSHA1(uuid.NameSpaceOID, []byte(reference)),
		ProviderReference: charge.Reference,
	}

	if err := c.repo.RecordSuccess(ctx, rec, item); err != nil {
		return false, fmt.Errorf("recording repayment: %w", err)
	}

	metrics.AutoDebitCharges.WithLabelValues("success").Inc()
	slog.Info("installment collected",
		"loan_id", l.ID,
		"schedule_item_id", item.ID,
		"installment", item.Number,
		"amount", chargeAmount,
		"late_fee", item.LateFee,
	)

	c.publisher.Publish(ctx, l.MerchantID, "payment.success", map[string]any{
		"loan_id":          l.ID,
		"schedule_item_id": item.ID,
		"installment":      item.Number,
		"amount":           chargeAmount,
		"late_fee":         item.LateFee,
	})

	return true, nil
}

func (c *Collector) recordAttemptFailure(ctx context.Context, l *loan.Loan, item *loan.ScheduleItem, cause error) error {
	item.RetryCount++

	if item.RetryCount >= maxAttempts {
		item.Status = loan.ItemFailed
		item.NextRetryAt = nil
	} else {
		next := c.now().Add(backoffFor(item.RetryCount))
		item.Status = loan.ItemPending
		item.NextRetryAt = &next
	}

	if err := c.repo.RecordFailure(ctx, item); err != nil {
		return err
	}

	metrics.AutoDebitCharges.WithLabelValues("failed").Inc()
	slog.Warn("charge attempt failed",
		"schedule_item_id", item.ID,
		"attempt", item.RetryCount,
		"terminal", item.Status == loan.ItemFailed,
		"error", cause,
	)

	if item.Status == loan.ItemFailed {
		c.publisher.Publish(ctx, l.MerchantID, "payment.failed", map[string]any{
			"loan_id":          l.ID,
			"schedule_item_id": item.ID,
			"installment":      item.Number,
			"reason":           "retries exhausted",
		})
	}

	return nil
}

// overdue compares at day granularity: a charge on the due date itself is
// on time.
func overdue(dueDate, now time.Time) bool {
	y1, m1, d1 := dueDate.Date()
	y2, m2, d2 := now.Date()

	due := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	today := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)

	return today.After(due)
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}

func customerEmail(l *loan.Loan) string {
	// Paystack requires an email on charge calls; customer PII lives
	// upstream, so a stable synthetic address keyed on the customer ID is
	// used for stored-authorization charges.
	return fmt.Sprintf("customer+%s@lendqube.app", l.CustomerID)
}
