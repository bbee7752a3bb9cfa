package disbursement_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lendqube/lendqube/internal/disbursement"
	"github.com/lendqube/lendqube/internal/paystack"
)

func staleDisbursement() *disbursement.Disbursement {
	key := uuid.New()

	return &disbursement.Disbursement{
		ID:                uuid.New(),
		ReservationID:     uuid.New(),
		LoanID:            uuid.New(),
		MappingID:         uuid.New(),
		MerchantID:        uuid.New(),
		Amount:            50_000,
		Currency:          "NGN",
		IdempotencyKey:    key,
		TransferReference: key.String(),
		Status:            disbursement.StatusInitiated,
	}
}

func TestService_Reconcile(t *testing.T) {
	t.Run("FinalizesSettledTransfer", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		d := staleDisbursement()

		m := newMocks(ctrl)
		m.repo.EXPECT().
			ListInitiatedBefore(gomock.Any(), gomock.Any()).
			Return([]*disbursement.Disbursement{d}, nil)
		m.payout.EXPECT().
			VerifyTransfer(gomock.Any(), d.TransferReference).
			Return(&paystack.Transfer{TransferCode: "TRF_1", Status: "success"}, nil)
		m.repo.EXPECT().GetDisbursement(gomock.Any(), d.ID).Return(d, nil)
		m.repo.EXPECT().FinalizeSuccess(gomock.Any(), d).Return(true, nil)
		m.scheduler.EXPECT().Activate(gomock.Any(), d.LoanID).Return(nil)

		n, err := newService(m).Reconcile(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("FinalizesFailedTransfer", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		d := staleDisbursement()

		m := newMocks(ctrl)
		m.repo.EXPECT().
			ListInitiatedBefore(gomock.Any(), gomock.Any()).
			Return([]*disbursement.Disbursement{d}, nil)
		m.payout.EXPECT().
			VerifyTransfer(gomock.Any(), d.TransferReference).
			Return(&paystack.Transfer{Status: "failed"}, nil)
		m.repo.EXPECT().GetDisbursement(gomock.Any(), d.ID).Return(d, nil)
		m.repo.EXPECT().FinalizeFailure(gomock.Any(), d, "transfer failed").Return(true, nil)

		n, err := newService(m).Reconcile(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("PendingTransferLeftAlone", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		d := staleDisbursement()

		m := newMocks(ctrl)
		m.repo.EXPECT().
			ListInitiatedBefore(gomock.Any(), gomock.Any()).
			Return([]*disbursement.Disbursement{d}, nil)
		m.payout.EXPECT().
			VerifyTransfer(gomock.Any(), d.TransferReference).
			Return(&paystack.Transfer{Status: "pending"}, nil)

		n, err := newService(m).Reconcile(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("VerifyErrorDoesNotBlockRest", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		broken := staleDisbursement()
		settled := staleDisbursement()

		m := newMocks(ctrl)
		m.repo.EXPECT().
			ListInitiatedBefore(gomock.Any(), gomock.Any()).
			Return([]*disbursement.Disbursement{broken, settled}, nil)
		m.payout.EXPECT().
			VerifyTransfer(gomock.Any(), broken.TransferReference).
			Return(nil, errors.New("provider timeout"))
		m.payout.EXPECT().
			VerifyTransfer(gomock.Any(), settled.TransferReference).
			Return(&paystack.Transfer{Status: "success"}, nil)
		m.repo.EXPECT().GetDisbursement(gomock.Any(), settled.ID).Return(settled, nil)
		m.repo.EXPECT().FinalizeSuccess(gomock.Any(), settled).Return(true, nil)
		m.scheduler.EXPECT().Activate(gomock.Any(), settled.LoanID).Return(nil)

		n, err := newService(m).Reconcile(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("ListError", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		m := newMocks(ctrl)
		m.repo.EXPECT().
			ListInitiatedBefore(gomock.Any(), gomock.Any()).
			Return(nil, errors.New("db error"))

		_, err := newService(m).Reconcile(context.Background())

		assert.Error(t, err)
	})
}
