package repayment

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lendqube/lendqube/internal/http/api"
	"github.com/lendqube/lendqube/internal/http/auth"
	"github.com/lendqube/lendqube/internal/loan"
	"github.com/lendqube/lendqube/internal/repayment"
)

type Handler struct {
	loans *loan.Service
	svc   *repayment.Service
}

func NewHandler(loans *loan.Service, svc *repayment.Service) *Handler {
	return &Handler{loans: loans, svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/schedule/{loanID}", h.schedule)
	r.Post("/manual", h.manual)
}

type scheduleItemResponse struct {
	ID          uuid.UUID  `json:"id"`
	Number      int        `json:"number"`
	DueDate     time.Time  `json:"due_date"`
	Amount      int64      `json:"amount"`
	Principal   int64      `json:"principal"`
	Interest    int64      `json:"interest"`
	Status      string     `json:"status"`
	PaidAmount  int64      `json:"paid_amount"`
	LateFee     int64      `json:"late_fee"`
	RetryCount  int        `json:"retry_count"`
	NextRetryAt *time.Time `json:"next_retry_at,omitempty"`
}

func (h *Handler) schedule(w http.ResponseWriter, r *http.Request) {
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

	l, err := h.loans.Get(r.Context(), loanID)
	if err != nil || l.MerchantID != m.ID {
		api.WriteError(w, http.StatusNotFound, "loan not found")
		return
	}

	items, err := h.loans.Schedule(r.Context(), loanID)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := make([]scheduleItemResponse, len(items))
	for i, it := range items {
		resp[i] = scheduleItemResponse{
			ID:          it.ID,
			Number:      it.Number,
			DueDate:     it.DueDate,
			Amount:      it.Amount,
			Principal:   it.PrincipalAmount,
			Interest:    it.InterestAmount,
			Status:      string(it.Status),
			PaidAmount:  it.PaidAmount,
			LateFee:     it.LateFee,
			RetryCount:  it.RetryCount,
			NextRetryAt: it.NextRetryAt,
		}
	}

	api.WriteJSON(w, http.StatusOK, resp)
}

type manualRequest struct {
	LoanID     uuid.UUID `json:"loan_id"`
	ScheduleID uuid.UUID `json:"schedule_id"`
	Amount     int64     `json:"amount"`
	Reference  string    `json:"reference"`
	Method     string    `json:"method,omitempty"`
}

type repaymentResponse struct {
	ID         uuid.UUID `json:"id"`
	ScheduleID uuid.UUID `json:"schedule_id"`
	LoanID     uuid.UUID `json:"loan_id"`
	Amount     int64     `json:"amount"`
	Method     string    `json:"method"`
	Reference  string    `json:"reference"`
	CreatedAt  time.Time `json:"created_at"`
}

func (h *Handler) manual(w http.ResponseWriter, r *http.Request) {
	m, ok := auth.MerchantFromContext(r.Context())
	if !ok {
		api.WriteError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	var req manualRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	rec, err := h.svc.RecordManual(r.Context(), repayment.ManualParams{
		MerchantID: m.ID,
		LoanID:     req.LoanID,
		ScheduleID: req.ScheduleID,
		Amount:     req.Amount,
		Reference:  req.Reference,
		Method:     repayment.Method(req.Method),
	})
	if err != nil {
		switch {
		case errors.Is(err, repayment.ErrAlreadyPaid):
			api.WriteError(w, http.StatusBadRequest, "already paid")
		case errors.Is(err, loan.ErrNotFound), errors.Is(err, loan.ErrItemNotFound),
			errors.Is(err, repayment.ErrWrongMerchant):
			api.WriteError(w, http.StatusNotFound, "schedule item not found")
		default:
			api.WriteError(w, http.StatusBadRequest, "unable to record repayment")
		}

		return
	}

	api.WriteJSON(w, http.StatusCreated, repaymentResponse{
		ID:         rec.ID,
		ScheduleID: rec.ScheduleItemID,
		LoanID:     rec.LoanID,
		Amount:     rec.Amount,
		Method:     string(rec.Method),
		Reference:  rec.Reference,
		CreatedAt:  rec.CreatedAt,
	})
}
