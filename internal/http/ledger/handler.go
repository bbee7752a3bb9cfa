package ledger

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lendqube/lendqube/internal/http/api"
	"github.com/lendqube/lendqube/internal/http/auth"
	"github.com/lendqube/lendqube/internal/ledger"
)

type Handler struct {
	trails *ledger.Service
}

func NewHandler(trails *ledger.Service) *Handler {
	return &Handler{trails: trails}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/loans/{loanID}", h.loanTrail)
}

type entryResponse struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *Handler) loanTrail(w http.ResponseWriter, r *http.Request) {
	m, ok := auth.MerchantFromContext(r.Context())
	if !ok {
		api.WriteError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	loanID, err := uuid.Parse(chi.URLParam(r, "loanID"))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "invalid loan id")
		return
	}

	entries, err := h.trails.LoanTrail(r.Context(), m.ID, loanID)
	if err != nil {
		if errors.Is(err, ledger.ErrTrailNotFound) {
			api.WriteError(w, http.StatusNotFound, "loan not found")
			return
		}

		api.WriteError(w, http.StatusInternalServerError, "internal error")

		return
	}

	resp := make([]entryResponse, len(entries))
	for i, e := range entries {
		resp[i] = entryResponse{
			ID:        e.ID,
			Type:      string(e.Type),
			Status:    string(e.Status),
			Amount:    e.Amount,
			Currency:  e.Currency,
			Reason:    e.Reason,
			CreatedAt: e.CreatedAt,
		}
	}

	api.WriteJSON(w, http.StatusOK, resp)
}
