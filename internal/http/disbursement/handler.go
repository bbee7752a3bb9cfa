package disbursement

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lendqube/lendqube/internal/disbursement"
	"github.com/lendqube/lendqube/internal/http/api"
	"github.com/lendqube/lendqube/internal/http/auth"
	"github.com/lendqube/lendqube/internal/reservation"
)

type Handler struct {
	svc *disbursement.Service
}

func NewHandler(svc *disbursement.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/initiate", h.initiate)
}

type initiateRequest struct {
	Reference     string    `json:"reference"`
	ReservationID uuid.UUID `json:"reservation_id"`
	CustomerID    uuid.UUID `json:"customer_id"`
}

type initiateResponse struct {
	DisbursementID uuid.UUID `json:"disbursement_id"`
	LoanID         uuid.UUID `json:"loan_id"`
	Status         string    `json:"status"`
}

func (h *Handler) initiate(w http.ResponseWriter, r *http.Request) {
	m, ok := auth.MerchantFromContext(r.Context())
	if !ok {
		api.WriteError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	var req initiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if req.Reference == "" || req.ReservationID == uuid.Nil {
		api.WriteError(w, http.StatusBadRequest, "reference and reservation_id required")
		return
	}

	result, err := h.svc.Initiate(r.Context(), disbursement.InitiateParams{
		MerchantID:    m.ID,
		Reference:     req.Reference,
		ReservationID: req.ReservationID,
		CustomerID:    req.CustomerID,
	})
	if err != nil {
		switch {
		case errors.Is(err, reservation.ErrNotFound):
			api.WriteError(w, http.StatusNotFound, "reservation not found")
		case errors.Is(err, disbursement.ErrReservationNotActive),
			errors.Is(err, disbursement.ErrWrongMerchant):
			api.WriteError(w, http.StatusBadRequest, "reservation not active")
		case errors.Is(err, disbursement.ErrNoSettlementAccount):
			api.WriteError(w, http.StatusBadRequest, "settlement account not configured")
		default:
			api.WriteError(w, http.StatusInternalServerError, "internal error")
		}

		return
	}

	api.WriteJSON(w, http.StatusCreated, initiateResponse{
		DisbursementID: result.Disbursement.ID,
		LoanID:         result.LoanID,
		Status:         string(result.Disbursement.Status),
	})
}
