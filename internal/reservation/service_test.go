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

	"github.com/lendqube/lendqube/internal/allocation"
	"github.com/lendqube/lendqube/internal/merchant"
	"github.com/lendqube/lendqube/internal/reservation"
)

func configuredMerchant(id uuid.UUID) *merchant.Merchant {
	return &merchant.Merchant{
		ID:   id,
		Name: "Test Merchant",
		Settlement: merchant.SettlementAccount{
			BankCode:      "058",
			AccountNumber: "0123456789",
			AccountName:   "Test Merchant Ltd",
		},
	}
}

func activeMapping(merchantID uuid.UUID, allocated, current int64) *allocation.Mapping {
	return &allocation.Mapping{
		ID:                uuid.New(),
		PlanID:            uuid.New(),
		MerchantID:        merchantID,
		FinancierID:       uuid.New(),
		FundsAllocated:    allocated,
		CurrentAllocation: current,
		Status:            allocation.StatusActive,
		ExpiresAt:         time.Now().Add(24 * time.Hour),
	}
}

func TestIdempotencyKey_Deterministic(t *testing.T) {
	merchantID := uuid.New()

	a := reservation.IdempotencyKey(merchantID, "order-123")
	b := reservation.IdempotencyKey(merchantID, "order-123")
	c := reservation.IdempotencyKey(merchantID, "order-124")
	d := reservation.IdempotencyKey(uuid.New(), "order-123")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, d)
}

func TestService_CheckEligibility(t *testing.T) {
	merchantID := uuid.New()

	type testCase struct {
		name         string
		amount       int64
		setupMock    func(repo *reservation.MockRepository, merchants *reservation.MockMerchantSource)
		wantEligible bool
		wantReason   string
		wantErr      bool
	}

	tests := []testCase{
		{
			name:   "Eligible",
			amount: 50_000,
			setupMock: func(repo *reservation.MockRepository, merchants *reservation.MockMerchantSource) {
				merchants.EXPECT().
					GetMerchant(gomock.Any(), merchantID).
					Return(configuredMerchant(merchantID), nil)
				repo.EXPECT().
					ListEligibleMappings(gomock.Any(), merchantID).
					Return([]*allocation.Mapping{activeMapping(merchantID, 100_000, 0)}, nil)
			},
			wantEligible: true,
		},
		{
			name:   "NoSettlementAccount",
			amount: 50_000,
			setupMock: func(repo *reservation.MockRepository, merchants *reservation.MockMerchantSource) {
				merchants.EXPECT().
					GetMerchant(gomock.Any(), merchantID).
					Return(&merchant.Merchant{ID: merchantID}, nil)
			},
			wantReason: reservation.ReasonNoSettlementAccount,
		},
		{
			name:   "NoActivePlans",
			amount: 50_000,
			setupMock: func(repo *reservation.MockRepository, merchants *reservation.MockMerchantSource) {
				merchants.EXPECT().
					GetMerchant(gomock.Any(), merchantID).
					Return(configuredMerchant(merchantID), nil)
				repo.EXPECT().
					ListEligibleMappings(gomock.Any(), merchantID).
					Return(nil, nil)
			},
			wantReason: reservation.ReasonNoActivePlans,
		},
		{
			name:   "InsufficientAllocation",
			amount: 150_000,
			setupMock: func(repo *reservation.MockRepository, merchants *reservation.MockMerchantSource) {
				merchants.EXPECT().
					GetMerchant(gomock.Any(), merchantID).
					Return(configuredMerchant(merchantID), nil)
				repo.EXPECT().
					ListEligibleMappings(gomock.Any(), merchantID).
					Return([]*allocation.Mapping{activeMapping(merchantID, 100_000, 0)}, nil)
			},
			wantReason: reservation.ReasonInsufficientFunds,
		},
		{
			name:   "RepoError",
			amount: 50_000,
			setupMock: func(repo *reservation.MockRepository, merchants *reservation.MockMerchantSource) {
				merchants.EXPECT().
					GetMerchant(gomock.Any(), merchantID).
					Return(configuredMerchant(merchantID), nil)
				repo.EXPECT().
					ListEligibleMappings(gomock.Any(), merchantID).
					Return(nil, errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := reservation.NewMockRepository(ctrl)
			merchants := reservation.NewMockMerchantSource(ctrl)
			tt.setupMock(repo, merchants)

			svc := reservation.NewService(repo, merchants, 15*time.Minute)
			got, err := svc.CheckEligibility(context.Background(), merchantID, tt.amount)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantEligible, got.Eligible)
			assert.Equal(t, tt.wantReason, got.Reason)
		})
	}
}

func TestService_CheckEligibility_OrdersByRemaining(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	merchantID := uuid.New()

	small := activeMapping(merchantID, 100_000, 80_000) // 20_000 remaining
	big := activeMapping(merchantID, 100_000, 10_000)   // 90_000 remaining
	mid := activeMapping(merchantID, 60_000, 10_000)    // 50_000 remaining

	repo := reservation.NewMockRepository(ctrl)
	merchants := reservation.NewMockMerchantSource(ctrl)

	merchants.EXPECT().
		GetMerchant(gomock.Any(), merchantID).
		Return(configuredMerchant(merchantID), nil)
	repo.EXPECT().
		ListEligibleMappings(gomock.Any(), merchantID).
		Return([]*allocation.Mapping{small, big, mid}, nil)

	svc := reservation.NewService(repo, merchants, 15*time.Minute)
	got, err := svc.CheckEligibility(context.Background(), merchantID, 10_000)
	require.NoError(t, err)

	require.True(t, got.Eligible)
	require.Len(t, got.Candidates, 3)
	assert.Equal(t, big.ID, got.Candidates[0].ID)
	assert.Equal(t, mid.ID, got.Candidates[1].ID)
	assert.Equal(t, small.ID, got.Candidates[2].ID)
}

func TestService_Reserve(t *testing.T) {
	merchantID := uuid.New()
	customerID := uuid.New()
	key := reservation.IdempotencyKey(merchantID, "order-1")

	params := reservation.ReserveParams{
		MerchantID: merchantID,
		Reference:  "order-1",
		Amount:     30_000,
		CustomerID: customerID,
	}

	type testCase struct {
		name       string
		params     reservation.ReserveParams
		setupMock  func(repo *reservation.MockRepository, merchants *reservation.MockMerchantSource)
		wantErr    error
		wantReason string
		check      func(t *testing.T, got *reservation.Reservation)
	}

	tests := []testCase{
		{
			name:   "Success",
			params: params,
			setupMock: func(repo *reservation.MockRepository, merchants *reservation.MockMerchantSource) {
				repo.EXPECT().
					GetByIdempotencyKey(gomock.Any(), key).
					Return(nil, reservation.ErrNotFound)
				merchants.EXPECT().
					GetMerchant(gomock.Any(), merchantID).
					Return(configuredMerchant(merchantID), nil)
				repo.EXPECT().
					ListEligibleMappings(gomock.Any(), merchantID).
					Return([]*allocation.Mapping{activeMapping(merchantID, 100_000, 0)}, nil)
				repo.EXPECT().
					CreateReservation(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, res *reservation.Reservation) error {
						res.CreatedAt = time.Now()
						return nil
					})
			},
			check: func(t *testing.T, got *reservation.Reservation) {
				assert.Equal(t, reservation.StatusActive, got.Status)
				assert.Equal(t, key, got.IdempotencyKey)
				assert.Equal(t, int64(30_000), got.Amount)
				assert.Equal(t, "NGN", got.Currency)
				assert.WithinDuration(t, time.Now().Add(15*time.Minute), got.ExpiresAt, time.Minute)
			},
		},
		{
			name:   "ReplayReturnsOriginal",
			params: params,
			setupMock: func(repo *reservation.MockRepository, merchants *reservation.MockMerchantSource) {
				repo.EXPECT().
					GetByIdempotencyKey(gomock.Any(), key).
					Return(&reservation.Reservation{ID: uuid.New(), IdempotencyKey: key, Amount: 30_000}, nil)
			},
			check: func(t *testing.T, got *reservation.Reservation) {
				assert.Equal(t, key, got.IdempotencyKey)
			},
		},
		{
			name: "InvalidAmount",
			params: reservation.ReserveParams{
				MerchantID: merchantID,
				Reference:  "order-1",
				Amount:     0,
			},
			setupMock: func(repo *reservation.MockRepository, merchants *reservation.MockMerchantSource) {},
			wantErr:   errors.New("invalid amount 0"),
		},
		{
			name: "MissingReference",
			params: reservation.ReserveParams{
				MerchantID: merchantID,
				Amount:     30_000,
			},
			setupMock: func(repo *reservation.MockRepository, merchants *reservation.MockMerchantSource) {},
			wantErr:   errors.New("missing reference"),
		},
		{
			name:   "InsufficientAllocation",
			params: params,
			setupMock: func(repo *reservation.MockRepository, merchants *reservation.MockMerchantSource) {
				repo.EXPECT().
					GetByIdempotencyKey(gomock.Any(), key).
					Return(nil, reservation.ErrNotFound)
				merchants.EXPECT().
					GetMerchant(gomock.Any(), merchantID).
					Return(configuredMerchant(merchantID), nil)
				repo.EXPECT().
					ListEligibleMappings(gomock.Any(), merchantID).
					Return([]*allocation.Mapping{activeMapping(merchantID, 20_000, 0)}, nil)
			},
			wantErr: allocation.ErrInsufficient,
		},
		{
			name:   "NoSettlementAccountSurfacesReason",
			params: params,
			setupMock: func(repo *reservation.MockRepository, merchants *reservation.MockMerchantSource) {
				repo.EXPECT().
					GetByIdempotencyKey(gomock.Any(), key).
					Return(nil, reservation.ErrNotFound)
				merchants.EXPECT().
					GetMerchant(gomock.Any(), merchantID).
					Return(&merchant.Merchant{ID: merchantID}, nil)
			},
			wantReason: reservation.ReasonNoSettlementAccount,
		},
		{
			name:   "NoActivePlansSurfacesReason",
			params: params,
			setupMock: func(repo *reservation.MockRepository, merchants *reservation.MockMerchantSource) {
				repo.EXPECT().
					GetByIdempotencyKey(gomock.Any(), key).
					Return(nil, reservation.ErrNotFound)
				merchants.EXPECT().
					GetMerchant(gomock.Any(), merchantID).
					Return(configuredMerchant(merchantID), nil)
				repo.EXPECT().
					ListEligibleMappings(gomock.Any(), merchantID).
					Return(nil, nil)
			},
			wantReason: reservation.ReasonNoActivePlans,
		},
		{
			name:   "RaceLosesToConcurrentReplay",
			params: params,
			setupMock: func(repo *reservation.MockRepository, merchants *reservation.MockMerchantSource) {
				repo.EXPECT().
					GetByIdempotencyKey(gomock.Any(), key).
					Return(nil, reservation.ErrNotFound)
				merchants.EXPECT().
					GetMerchant(gomock.Any(), merchantID).
					Return(configuredMerchant(merchantID), nil)
				repo.EXPECT().
					ListEligibleMappings(gomock.Any(), merchantID).
					Return([]*allocation.Mapping{activeMapping(merchantID, 100_000, 0)}, nil)
				repo.EXPECT().
					CreateReservation(gomock.Any(), gomock.Any()).
					Return(reservation.ErrAlreadyExists)
				repo.EXPECT().
					GetByIdempotencyKey(gomock.Any(), key).
					Return(&reservation.Reservation{ID: uuid.New(), IdempotencyKey: key}, nil)
			},
			check: func(t *testing.T, got *reservation.Reservation) {
				assert.Equal(t, key, got.IdempotencyKey)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := reservation.NewMockRepository(ctrl)
			merchants := reservation.NewMockMerchantSource(ctrl)
			tt.setupMock(repo, merchants)

			svc := reservation.NewService(repo, merchants, 15*time.Minute)
			got, err := svc.Reserve(context.Background(), tt.params)

			if tt.wantReason != "" {
				var inel *reservation.IneligibleError
				require.ErrorAs(t, err, &inel)
				assert.Equal(t, tt.wantReason, inel.Reason)
				assert.Nil(t, got)

				return
			}

			if tt.wantErr != nil {
				require.Error(t, err)

				if errors.Is(tt.wantErr, allocation.ErrInsufficient) {
					assert.ErrorIs(t, err, allocation.ErrInsufficient)
				}

				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)

			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}
