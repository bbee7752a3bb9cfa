package merchant

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=merchant
type Repository interface {
	GetMerchant(ctx context.Context, id uuid.UUID) (*Merchant, error)
	GetByAPIKeyHash(ctx context.Context, hash string) (*Merchant, error)
	UpdateRecipientCode(ctx context.Context, id uuid.UUID, code string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetMerchant(ctx context.Context, id uuid.UUID) (*Merchant, error) {
	return s.repo.GetMerchant(ctx, id)
}

// Authenticate resolves a raw API key to the owning merchant.
func (s *Service) Authenticate(ctx context.Context, rawKey string) (*Merchant, error) {
	return s.repo.GetByAPIKeyHash(ctx, HashAPIKey(rawKey))
}

// CacheRecipientCode stores a freshly created provider recipient code so
// later disbursements skip recipient creation.
func (s *Service) CacheRecipientCode(ctx context.Context, id uuid.UUID, code string) error {
	return s.repo.UpdateRecipientCode(ctx, id, code)
}
