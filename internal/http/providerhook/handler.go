// Package providerhook receives Paystack transfer callbacks. Payloads are
// authenticated by HMAC signature before any state is touched; a bad
// signature is rejected with no side effects.
package providerhook

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lendqube/lendqube/internal/disbursement"
	"github.com/lendqube/lendqube/internal/http/api"
)

// Verifier checks the provider signature over the raw body.
type Verifier interface {
	VerifySignature(payload []byte, signature string) bool
}

type Handler struct {
	svc      *disbursement.Service
	verifier Verifier
}

func NewHandler(svc *disbursement.Service, verifier Verifier) *Handler {
	return &Handler{svc: svc, verifier: verifier}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/paystack", h.paystack)
}

type webhookPayload struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Reason    string `json:"reason"`
		Status    string `json:"status"`
	} `json:"data"`
}

func (h *Handler) paystack(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "unreadable body")
		return
	}

	if !h.verifier.VerifySignature(body, r.Header.Get("x-paystack-signature")) {
		api.WriteError(w, http.StatusBadRequest, "invalid signature")
		return
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		api.WriteError(w, http.StatusBadRequest, "malformed payload")
		return
	}

	switch payload.Event {
	case "transfer.success", "transfer.failed", "transfer.reversed":
	default:
		// Unhandled events are acknowledged so the provider stops
		// redelivering them.
		w.WriteHeader(http.StatusOK)
		return
	}

	d, err := h.svc.GetByTransferReference(r.Context(), payload.Data.Reference)
	if err != nil {
		if errors.Is(err, disbursement.ErrNotFound) {
			slog.Warn("webhook for unknown transfer", "reference", payload.Data.Reference)
			api.WriteError(w, http.StatusNotFound, "unknown transfer")

			return
		}

		api.WriteError(w, http.StatusInternalServerError, "internal error")

		return
	}

	switch payload.Event {
	case "transfer.success":
		err = h.svc.FinalizeSuccess(r.Context(), d.ID)
	default:
		reason := payload.Data.Reason
		if reason == "" {
			reason = payload.Event
		}

		err = h.svc.FinalizeFailure(r.Context(), d.ID, reason)
	}

	if err != nil {
		slog.Error("failed to apply transfer webhook",
			"event", payload.Event,
			"disbursement_id", d.ID,
			"error", err,
		)
		api.WriteError(w, http.StatusInternalServerError, "internal error")

		return
	}

	w.WriteHeader(http.StatusOK)
}
