package reservation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lendqube/lendqube/internal/reservation"
)

func TestSweeper_SweepOnce(t *testing.T) {
	overdue := &reservation.Reservation{
		ID:        uuid.New(),
		MappingID: uuid.New(),
		Amount:    10_000,
		Status:    reservation.StatusActive,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	fresh := &reservation.Reservation{
		ID:        uuid.New(),
		MappingID: uuid.New(),
		Amount:    20_000,
		Status:    reservation.StatusActive,
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}

	t.Run("ExpiresOnlyOverdue", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := reservation.NewMockRepository(ctrl)
		repo.EXPECT().ListActive(gomock.Any()).Return([]*reservation.Reservation{overdue, fresh}, nil)
		repo.EXPECT().Expire(gomock.Any(), overdue).Return(true, nil)

		sweeper := reservation.NewSweeper(repo, time.Minute)
		n, err := sweeper.SweepOnce(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("ConsumedRaceIsNoOp", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := reservation.NewMockRepository(ctrl)
		repo.EXPECT().ListActive(gomock.Any()).Return([]*reservation.Reservation{overdue}, nil)
		repo.EXPECT().Expire(gomock.Any(), overdue).Return(false, nil)

		sweeper := reservation.NewSweeper(repo, time.Minute)
		n, err := sweeper.SweepOnce(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("OneFailureDoesNotBlockRest", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		second := &reservation.Reservation{
			ID:        uuid.New(),
			MappingID: uuid.New(),
			Amount:    5_000,
			Status:    reservation.StatusActive,
			ExpiresAt: time.Now().Add(-time.Minute),
		}

		repo := reservation.NewMockRepository(ctrl)
		repo.EXPECT().ListActive(gomock.Any()).Return([]*reservation.Reservation{overdue, second}, nil)
		repo.EXPECT().Expire(gomock.Any(), overdue).Return(false, errors.New("db error"))
		repo.EXPECT().Expire(gomock.Any(), second).Return(true, nil)

		sweeper := reservation.NewSweeper(repo, time.Minute)
		n, err := sweeper.SweepOnce(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("ListError", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := reservation.NewMockRepository(ctrl)
		repo.EXPECT().ListActive(gomock.Any()).Return(nil, errors.New("db error"))

		sweeper := reservation.NewSweeper(repo, time.Minute)
		_, err := sweeper.SweepOnce(context.Background())

		assert.Error(t, err)
	})
}
