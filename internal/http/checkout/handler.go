package checkout

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lendqube/lendqube/internal/allocation"
	"github.com/lendqube/lendqube/internal/http/api"
	"github.com/lendqube/lendqube/internal/http/auth"
	"github.com/lendqube/lendqube/internal/reservation"
)

type Handler struct {
	reservations *reservation.Service
}

func NewHandler(reservations *reservation.Service) *Handler {
	return &Handler{reservations: reservations}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/eligibility", h.eligibility)
	r.Post("/reserve", h.reserve)
}

type candidateResponse struct {
	MappingID uuid.UUID `json:"mapping_id"`
	PlanID    uuid.UUID `json:"plan_id"`
	Remaining int64     `json:"remaining"`
}

type eligibilityResponse struct {
	Eligible   bool                `json:"eligible"`
	Reason     string              `json:"reason,omitempty"`
	Candidates []candidateResponse `json:"candidates,omitempty"`
}

func (h *Handler) eligibility(w http.ResponseWriter, r *http.Request) {
	m, ok := auth.MerchantFromContext(r.Context())
	if !ok {
		api.WriteError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	amount, err := strconv.ParseInt(r.URL.Query().Get("amount"), 10, 64)
	if err != nil || amount <= 0 {
		api.WriteError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	elig, err := h.reservations.CheckEligibility(r.Context(), m.ID, amount)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := eligibilityResponse{Eligible: elig.Eligible, Reason: elig.Reason}
	for _, c := range elig.Candidates {
		resp.Candidates = append(resp.Candidates, candidateResponse{
			MappingID: c.ID,
			PlanID:    c.PlanID,
			Remaining: c.Remaining(),
		})
	}

	api.WriteJSON(w, http.StatusOK, resp)
}

type reserveRequest struct {
	Reference  string    `json:"reference"`
	Amount     int64     `json:"amount"`
	CustomerID uuid.UUID `json:"customer_id"`
}

type reservationResponse struct {
	ID        uuid.UUID `json:"id"`
	MappingID uuid.UUID `json:"mapping_id"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	Status    string    `json:"status"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *Handler) reserve(w http.ResponseWriter, r *http.Request) {
	m, ok := auth.MerchantFromContext(r.Context())
	if !ok {
		api.WriteError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	var req reserveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if req.Reference == "" || req.Amount <= 0 {
		api.WriteError(w, http.StatusBadRequest, "reference and positive amount required")
		return
	}

	res, err := h.reservations.Reserve(r.Context(), reservation.ReserveParams{
		MerchantID: m.ID,
		Reference:  req.Reference,
		Amount:     req.Amount,
		CustomerID: req.CustomerID,
	})
	if err != nil {
		if errors.Is(err, allocation.ErrInsufficient) {
			api.WriteError(w, http.StatusBadRequest, reservation.ReasonInsufficientFunds)
			return
		}

		var inel *reservation.IneligibleError
		if errors.As(err, &inel) {
			api.WriteError(w, http.StatusBadRequest, inel.Reason)
			return
		}

		api.WriteError(w, http.StatusInternalServerError, "internal error")

		return
	}

	api.WriteJSON(w, http.StatusCreated, reservationResponse{
		ID:        res.ID,
		MappingID: res.MappingID,
		Amount:    res.Amount,
		Currency:  res.Currency,
		Status:    string(res.Status),
		ExpiresAt: res.ExpiresAt,
	})
}
