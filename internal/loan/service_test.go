package loan_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lendqube/lendqube/internal/allocation"
	"github.com/lendqube/lendqube/internal/loan"
)

func TestService_Activate(t *testing.T) {
	loanID := uuid.New()
	mappingID := uuid.New()
	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	pending := func() *loan.Loan {
		return &loan.Loan{
			ID:        loanID,
			MappingID: mappingID,
			Principal: 30_000,
			Config:    loan.DefaultConfig(),
			Status:    loan.StatusPending,
			CreatedAt: created,
		}
	}

	mapping := &allocation.Mapping{
		ID: mappingID,
		Terms: allocation.PlanTerms{
			InterestRate: 5,
			PenaltyRate:  2,
			TenorValue:   3,
			TenorPeriod:  string(loan.TenorMonths),
			Frequency:    string(loan.FrequencyMonthly),
		},
	}

	t.Run("ActivatesInPlaceWithPlanTerms", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := loan.NewMockRepository(ctrl)
		repo.EXPECT().GetLoan(gomock.Any(), loanID).Return(pending(), nil)
		repo.EXPECT().GetMapping(gomock.Any(), mappingID).Return(mapping, nil)
		repo.EXPECT().
			ActivateWithSchedule(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, l *loan.Loan, items []*loan.ScheduleItem) (bool, error) {
				assert.Equal(t, loanID, l.ID)
				assert.Equal(t, loan.StatusActive, l.Status)
				assert.Equal(t, int64(31_500), l.TotalAmount) // 30_000 + 5%
				assert.Equal(t, 3, l.Config.Installments)
				assert.Equal(t, 2, l.Config.PenaltyRate)

				require.Len(t, items, 3)
				assert.Equal(t, created.AddDate(0, 0, 30), items[0].DueDate)

				return true, nil
			})

		svc := loan.NewService(repo)
		require.NoError(t, svc.Activate(context.Background(), loanID))
	})

	t.Run("StartsFromFirstPaymentDate", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		firstPayment := created.AddDate(0, 1, 0)

		l := pending()
		l.FirstPaymentDate = &firstPayment

		repo := loan.NewMockRepository(ctrl)
		repo.EXPECT().GetLoan(gomock.Any(), loanID).Return(l, nil)
		repo.EXPECT().GetMapping(gomock.Any(), mappingID).Return(mapping, nil)
		repo.EXPECT().
			ActivateWithSchedule(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *loan.Loan, items []*loan.ScheduleItem) (bool, error) {
				require.NotEmpty(t, items)
				assert.Equal(t, firstPayment.AddDate(0, 0, 30), items[0].DueDate)

				return true, nil
			})

		svc := loan.NewService(repo)
		require.NoError(t, svc.Activate(context.Background(), loanID))
	})

	t.Run("NonPendingLoanIsNoOp", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		active := pending()
		active.Status = loan.StatusActive

		repo := loan.NewMockRepository(ctrl)
		repo.EXPECT().GetLoan(gomock.Any(), loanID).Return(active, nil)

		svc := loan.NewService(repo)
		require.NoError(t, svc.Activate(context.Background(), loanID))
	})

	t.Run("ReplayedConfirmationIsNoOp", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := loan.NewMockRepository(ctrl)
		repo.EXPECT().GetLoan(gomock.Any(), loanID).Return(pending(), nil)
		repo.EXPECT().GetMapping(gomock.Any(), mappingID).Return(mapping, nil)
		repo.EXPECT().
			ActivateWithSchedule(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(false, nil)

		svc := loan.NewService(repo)
		require.NoError(t, svc.Activate(context.Background(), loanID))
	})

	t.Run("MappingError", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := loan.NewMockRepository(ctrl)
		repo.EXPECT().GetLoan(gomock.Any(), loanID).Return(pending(), nil)
		repo.EXPECT().GetMapping(gomock.Any(), mappingID).Return(nil, errors.New("db error"))

		svc := loan.NewService(repo)
		assert.Error(t, svc.Activate(context.Background(), loanID))
	})
}

func TestService_Schedule(t *testing.T) {
	loanID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := loan.NewMockRepository(ctrl)
		repo.EXPECT().GetLoan(gomock.Any(), loanID).Return(&loan.Loan{ID: loanID}, nil)
		repo.EXPECT().
			ListSchedule(gomock.Any(), loanID).
			Return([]*loan.ScheduleItem{{Number: 1}, {Number: 2}}, nil)

		svc := loan.NewService(repo)
		got, err := svc.Schedule(context.Background(), loanID)

		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("LoanNotFound", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := loan.NewMockRepository(ctrl)
		repo.EXPECT().GetLoan(gomock.Any(), loanID).Return(nil, loan.ErrNotFound)

		svc := loan.NewService(repo)
		_, err := svc.Schedule(context.Background(), loanID)

		assert.ErrorIs(t, err, loan.ErrNotFound)
	})
}
