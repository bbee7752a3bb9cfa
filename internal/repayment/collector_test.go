package repayment_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lendqube/lendqube/internal/loan"
	"github.com/lendqube/lendqube/internal/paystack"
	"github.com/lendqube/lendqube/internal/repayment"
)

func collectorLoan(merchantID uuid.UUID) *loan.Loan {
	return &loan.Loan{
		ID:                uuid.New(),
		MerchantID:        merchantID,
		CustomerID:        uuid.New(),
		Principal:         30_000,
		TotalAmount:       30_000,
		Status:            loan.StatusActive,
		AuthorizationCode: "AUTH_xyz",
		Config: loan.Config{
			TenorValue:   3,
			TenorPeriod:  loan.TenorMonths,
			Frequency:    loan.FrequencyMonthly,
			Installments: 3,
			PenaltyRate:  2,
		},
	}
}

func dueItem(l *loan.Loan, dueDate time.Time) *loan.ScheduleItem {
	return &loan.ScheduleItem{
		ID:      uuid.New(),
		LoanID:  l.ID,
		Number:  1,
		DueDate: dueDate,
		Amount:  10_000,
		Status:  loan.ItemPending,
	}
}

func TestCollector_CollectOnce_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	merchantID := uuid.New()
	l := collectorLoan(merchantID)
	item := dueItem(l, time.Now()) // due today, not overdue

	repo := repayment.NewMockRepository(ctrl)
	charger := repayment.NewMockCharger(ctrl)
	publisher := repayment.NewMockPublisher(ctrl)

	repo.EXPECT().ListDueItems(gomock.Any(), gomock.Any()).Return([]*loan.ScheduleItem{item}, nil)
	repo.EXPECT().GetLoan(gomock.Any(), l.ID).Return(l, nil)
	repo.EXPECT().MarkProcessing(gomock.Any(), item.ID).Return(true, nil)
	charger.EXPECT().
		ChargeAuthorization(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p paystack.ChargeParams) (*paystack.Charge, error) {
			assert.Equal(t, "AUTH_xyz", p.AuthorizationCode)
			assert.Equal(t, int64(10_000), p.Amount) // no late fee on time
			assert.Equal(t, fmt.Sprintf("%s-attempt-1", item.ID), p.Reference)

			return &paystack.Charge{Status: "success", Reference: p.Reference, Amount: p.Amount}, nil
		})
	repo.EXPECT().
		RecordSuccess(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rec *repayment.Repayment, it *loan.ScheduleItem) error {
			assert.Equal(t, repayment.MethodAutoDebit, rec.Method)
			assert.Equal(t, int64(10_000), rec.Amount)
			assert.Equal(t, int64(0), it.LateFee)

			return nil
		})
	publisher.EXPECT().Publish(gomock.Any(), merchantID, "payment.success", gomock.Any())

	collector := repayment.NewCollector(repo, charger, publisher)
	n, err := collector.CollectOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCollector_OverdueChargesLateFeeOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	merchantID := uuid.New()
	l := collectorLoan(merchantID)
	item := dueItem(l, time.Now().AddDate(0, 0, -3))

	repo := repayment.NewMockRepository(ctrl)
	charger := repayment.NewMockCharger(ctrl)
	publisher := repayment.NewMockPublisher(ctrl)

	repo.EXPECT().ListDueItems(gomock.Any(), gomock.Any()).Return([]*loan.ScheduleItem{item}, nil)
	repo.EXPECT().GetLoan(gomock.Any(), l.ID).Return(l, nil)
	repo.EXPECT().MarkProcessing(gomock.Any(), item.ID).Return(true, nil)
	charger.EXPECT().
		ChargeAuthorization(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p paystack.ChargeParams) (*paystack.Charge, error) {
			// 10_000 installment + 2% penalty
			assert.Equal(t, int64(10_200), p.Amount)
			return &paystack.Charge{Status: "success", Reference: p.Reference, Amount: p.Amount}, nil
		})
	repo.EXPECT().
		RecordSuccess(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rec *repayment.Repayment, it *loan.ScheduleItem) error {
			assert.Equal(t, int64(200), it.LateFee)
			assert.Equal(t, int64(10_200), it.PaidAmount)

			return nil
		})
	publisher.EXPECT().Publish(gomock.Any(), merchantID, "payment.success", gomock.Any())

	collector := repayment.NewCollector(repo, charger, publisher)
	n, err := collector.CollectOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCollector_RetryItemKeepsExistingLateFee(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	merchantID := uuid.New()
	l := collectorLoan(merchantID)
	item := dueItem(l, time.Now().AddDate(0, 0, -3))
	item.LateFee = 200 // charged on a prior attempt
	item.RetryCount = 1

	repo := repayment.NewMockRepository(ctrl)
	charger := repayment.NewMockCharger(ctrl)
	publisher := repayment.NewMockPublisher(ctrl)

	repo.EXPECT().ListRetryItems(gomock.Any(), gomock.Any()).Return([]*loan.ScheduleItem{item}, nil)
	repo.EXPECT().GetLoan(gomock.Any(), l.ID).Return(l, nil)
	repo.EXPECT().MarkProcessing(gomock.Any(), item.ID).Return(true, nil)
	charger.EXPECT().
		ChargeAuthorization(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p paystack.ChargeParams) (*paystack.Charge, error) {
			// Existing fee is included but not recomputed.
			assert.Equal(t, int64(10_200), p.Amount)
			assert.Equal(t, fmt.Sprintf("%s-attempt-2", item.ID), p.Reference)

			return &paystack.Charge{Status: "success", Reference: p.Reference, Amount: p.Amount}, nil
		})
	repo.EXPECT().
		RecordSuccess(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *repayment.Repayment, it *loan.ScheduleItem) error {
			assert.Equal(t, int64(200), it.LateFee)
			return nil
		})
	publisher.EXPECT().Publish(gomock.Any(), merchantID, "payment.success", gomock.Any())

	collector := repayment.NewCollector(repo, charger, publisher)
	n, err := collector.RetryOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCollector_FirstFailureSchedulesRetry(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	merchantID := uuid.New()
	l := collectorLoan(merchantID)
	item := dueItem(l, time.Now())

	repo := repayment.NewMockRepository(ctrl)
	charger := repayment.NewMockCharger(ctrl)
	publisher := repayment.NewMockPublisher(ctrl)

	repo.EXPECT().ListDueItems(gomock.Any(), gomock.Any()).Return([]*loan.ScheduleItem{item}, nil)
	repo.EXPECT().GetLoan(gomock.Any(), l.ID).Return(l, nil)
	repo.EXPECT().MarkProcessing(gomock.Any(), item.ID).Return(true, nil)
	charger.EXPECT().
		ChargeAuthorization(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("insufficient funds"))
	repo.EXPECT().
		RecordFailure(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, it *loan.ScheduleItem) error {
			assert.Equal(t, loan.ItemPending, it.Status)
			assert.Equal(t, 1, it.RetryCount)
			require.NotNil(t, it.NextRetryAt)
			assert.WithinDuration(t, time.Now().Add(6*time.Hour), *it.NextRetryAt, time.Minute)

			return nil
		})

	collector := repayment.NewCollector(repo, charger, publisher)
	n, err := collector.CollectOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestCollector_SecondFailureBacksOffLonger(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	merchantID := uuid.New()
	l := collectorLoan(merchantID)
	item := dueItem(l, time.Now().AddDate(0, 0, -1))
	item.LateFee = 200
	item.RetryCount = 1

	repo := repayment.NewMockRepository(ctrl)
	charger := repayment.NewMockCharger(ctrl)
	publisher := repayment.NewMockPublisher(ctrl)

	repo.EXPECT().ListRetryItems(gomock.Any(), gomock.Any()).Return([]*loan.ScheduleItem{item}, nil)
	repo.EXPECT().GetLoan(gomock.Any(), l.ID).Return(l, nil)
	repo.EXPECT().MarkProcessing(gomock.Any(), item.ID).Return(true, nil)
	charger.EXPECT().
		ChargeAuthorization(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("card declined"))
	repo.EXPECT().
		RecordFailure(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, it *loan.ScheduleItem) error {
			assert.Equal(t, loan.ItemPending, it.Status)
			assert.Equal(t, 2, it.RetryCount)
			require.NotNil(t, it.NextRetryAt)
			assert.WithinDuration(t, time.Now().Add(24*time.Hour), *it.NextRetryAt, time.Minute)

			return nil
		})

	collector := repayment.NewCollector(repo, charger, publisher)
	_, err := collector.RetryOnce(context.Background())

	require.NoError(t, err)
}

func TestCollector_ThirdFailureIsTerminal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	merchantID := uuid.New()
	l := collectorLoan(merchantID)
	item := dueItem(l, time.Now().AddDate(0, 0, -2))
	item.LateFee = 200
	item.RetryCount = 2

	repo := repayment.NewMockRepository(ctrl)
	charger := repayment.NewMockCharger(ctrl)
	publisher := repayment.NewMockPublisher(ctrl)

	repo.EXPECT().ListRetryItems(gomock.Any(), gomock.Any()).Return([]*loan.ScheduleItem{item}, nil)
	repo.EXPECT().GetLoan(gomock.Any(), l.ID).Return(l, nil)
	repo.EXPECT().MarkProcessing(gomock.Any(), item.ID).Return(true, nil)
	charger.EXPECT().
		ChargeAuthorization(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("card declined"))
	repo.EXPECT().
		RecordFailure(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, it *loan.ScheduleItem) error {
			assert.Equal(t, loan.ItemFailed, it.Status)
			assert.Equal(t, 3, it.RetryCount)
			assert.Nil(t, it.NextRetryAt)

			return nil
		})
	publisher.EXPECT().Publish(gomock.Any(), merchantID, "payment.failed", gomock.Any())

	collector := repayment.NewCollector(repo, charger, publisher)
	_, err := collector.RetryOnce(context.Background())

	require.NoError(t, err)
}

func TestCollector_NoSavedCardFailsImmediately(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	merchantID := uuid.New()
	l := collectorLoan(merchantID)
	l.AuthorizationCode = ""
	item := dueItem(l, time.Now())

	repo := repayment.NewMockRepository(ctrl)
	charger := repayment.NewMockCharger(ctrl)
	publisher := repayment.NewMockPublisher(ctrl)

	repo.EXPECT().ListDueItems(gomock.Any(), gomock.Any()).Return([]*loan.ScheduleItem{item}, nil)
	repo.EXPECT().GetLoan(gomock.Any(), l.ID).Return(l, nil)
	repo.EXPECT().MarkProcessing(gomock.Any(), item.ID).Return(true, nil)
	repo.EXPECT().
		RecordFailure(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, it *loan.ScheduleItem) error {
			assert.Equal(t, loan.ItemFailed, it.Status)
			assert.Nil(t, it.NextRetryAt)

			return nil
		})
	publisher.EXPECT().Publish(gomock.Any(), merchantID, "payment.failed", gomock.Any())

	collector := repayment.NewCollector(repo, charger, publisher)
	n, err := collector.CollectOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestCollector_LostClaimSkipsItem(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	merchantID := uuid.New()
	l := collectorLoan(merchantID)
	item := dueItem(l, time.Now())

	repo := repayment.NewMockRepository(ctrl)
	charger := repayment.NewMockCharger(ctrl)
	publisher := repayment.NewMockPublisher(ctrl)

	repo.EXPECT().ListDueItems(gomock.Any(), gomock.Any()).Return([]*loan.ScheduleItem{item}, nil)
	repo.EXPECT().GetLoan(gomock.Any(), l.ID).Return(l, nil)
	repo.EXPECT().MarkProcessing(gomock.Any(), item.ID).Return(false, nil)

	collector := repayment.NewCollector(repo, charger, publisher)
	n, err := collector.CollectOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestCollector_OneItemErrorDoesNotBlockRest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	merchantID := uuid.New()
	l := collectorLoan(merchantID)
	broken := dueItem(l, time.Now())
	healthy := dueItem(l, time.Now())
	healthy.Number = 2

	repo := repayment.NewMockRepository(ctrl)
	charger := repayment.NewMockCharger(ctrl)
	publisher := repayment.NewMockPublisher(ctrl)

	repo.EXPECT().ListDueItems(gomock.Any(), gomock.Any()).Return([]*loan.ScheduleItem{broken, healthy}, nil)

	repo.EXPECT().GetLoan(gomock.Any(), l.ID).Return(nil, errors.New("db error"))

	repo.EXPECT().GetLoan(gomock.Any(), l.ID).Return(l, nil)
	repo.EXPECT().MarkProcessing(gomock.Any(), healthy.ID).Return(true, nil)
	charger.EXPECT().
		ChargeAuthorization(gomock.Any(), gomock.Any()).
		Return(&paystack.Charge{Status: "success"}, nil)
	repo.EXPECT().RecordSuccess(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	publisher.EXPECT().Publish(gomock.Any(), merchantID, "payment.success", gomock.Any())

	collector := repayment.NewCollector(repo, charger, publisher)
	n, err := collector.CollectOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
