package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/lendqube/lendqube/internal/http/api"
	"github.com/lendqube/lendqube/internal/merchant"
)

type contextKey string

const merchantKey contextKey = "merchant"

// MerchantSource resolves credentials to merchants; implemented by the
// merchant service.
type MerchantSource interface {
	Authenticate(ctx context.Context, rawKey string) (*merchant.Merchant, error)
	GetMerchant(ctx context.Context, id uuid.UUID) (*merchant.Merchant, error)
}

// Authenticator accepts either a merchant API key (X-Api-Key, server to
// server) or a bearer session token (checkout front-end). Both resolve to
// the owning merchant, injected into the request context.
type Authenticator struct {
	merchants MerchantSource
	jwtSecret []byte
}

func NewAuthenticator(merchants MerchantSource, jwtSecret []byte) *Authenticator {
	return &Authenticator{merchants: merchants, jwtSecret: jwtSecret}
}

func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m, err := a.resolve(r)
		if err != nil {
			api.WriteError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithMerchant(r.Context(), m)))
	})
}

func (a *Authenticator) resolve(r *http.Request) (*merchant.Merchant, error) {
	if key := r.Header.Get("X-Api-Key"); key != "" {
		return a.merchants.Authenticate(r.Context(), key)
	}

	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, errors.New("missing credentials")
	}

	return a.resolveToken(r.Context(), strings.TrimPrefix(header, "Bearer "))
}

func (a *Authenticator) resolveToken(ctx context.Context, raw string) (*merchant.Merchant, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}

		return a.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return nil, err
	}

	merchantID, err := uuid.Parse(sub)
	if err != nil {
		return nil, errors.New("invalid subject")
	}

	return a.merchants.GetMerchant(ctx, merchantID)
}

// ContextWithMerchant attaches an authenticated merchant to the context.
func ContextWithMerchant(ctx context.Context, m *merchant.Merchant) context.Context {
	return context.WithValue(ctx, merchantKey, m)
}

// MerchantFromContext returns the authenticated merchant placed by the
// middleware.
func MerchantFromContext(ctx context.Context) (*merchant.Merchant, bool) {
	m, ok := ctx.Value(merchantKey).(*merchant.Merchant)
	return m, ok
}
