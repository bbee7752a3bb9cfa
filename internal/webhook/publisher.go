// Package webhook delivers engine events to merchant callback URLs.
// Delivery is fire-and-forget: failures are logged and counted, never
// propagated, and never roll back the financial state change that
// triggered them.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/lendqube/lendqube/internal/merchant"
	"github.com/lendqube/lendqube/internal/metrics"
)

type MerchantSource interface {
	GetMerchant(ctx context.Context, id uuid.UUID) (*merchant.Merchant, error)
}

type Publisher struct {
	merchants MerchantSource
	client    *http.Client
}

func NewPublisher(merchants MerchantSource) *Publisher {
	return &Publisher{
		merchants: merchants,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Publish posts one event to the merchant's registered callback URL.
// A merchant without a URL is a silent no-op.
func (p *Publisher) Publish(ctx context.Context, merchantID uuid.UUID, name string, payload any) {
	m, err := p.merchants.GetMerchant(ctx, merchantID)
	if err != nil {
		slog.Error("webhook: failed to load merchant", "merchant_id", merchantID, "error", err)
		metrics.WebhookEvents.WithLabelValues("error").Inc()

		return
	}

	if m.WebhookURL == "" {
		return
	}

	body, err := json.Marshal(event{Event: name, Data: payload})
	if err != nil {
		slog.Error("webhook: failed to encode payload", "event", name, "error", err)
		metrics.WebhookEvents.WithLabelValues("error").Inc()

		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.WebhookURL, bytes.NewReader(body))
	if err != nil {
		slog.Error("webhook: failed to build request", "event", name, "error", err)
		metrics.WebhookEvents.WithLabelValues("error").Inc()

		return
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		slog.Error("webhook: delivery failed", "event", name, "merchant_id", merchantID, "error", err)
		metrics.WebhookEvents.WithLabelValues("failed").Inc()

		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		slog.Warn("webhook: non-2xx response", "event", name, "merchant_id", merchantID, "status", resp.StatusCode)
		metrics.WebhookEvents.WithLabelValues("rejected").Inc()

		return
	}

	metrics.WebhookEvents.WithLabelValues("delivered").Inc()
}
