package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ayo6706/circulation-scheduler/internal/domain"
	"github.com/ayo6706/circulation-scheduler/internal/service"
)

type TransferHandler struct {
	svc *service.TransferService
}

func NewTransferHandler(svc *service.TransferService) *TransferHandler {
	return &TransferHandler{svc: svc}
}

// List handles GET /v1/transfers with optional filter and sort parameters.
func (h *TransferHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := parseTransferQuery(r.URL.Query())
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "transfer/invalid-query", err.Error())
		return
	}
	transfers, err := h.svc.List(r.Context(), q)
	if err != nil {
		respondServiceError(w, r, "transfer", err)
		return
	}
	RespondJSON(w, http.StatusOK, transfers)
}

// UpdateDate handles PATCH /v1/transfers/{id}.
func (h *TransferHandler) UpdateDate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	tx, err := h.svc.UpdateDate(r.Context(), chi.URLParam(r, "id"), req.Date)
	if err != nil {
		respondServiceError(w, r, "transfer", err)
		return
	}
	RespondJSON(w, http.StatusOK, tx)
}

// Export handles GET /v1/transfers/export.csv using the list filters.
func (h *TransferHandler) Export(w http.ResponseWriter, r *http.Request) {
	q, err := parseTransferQuery(r.URL.Query())
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "transfer/invalid-query", err.Error())
		return
	}
	// Validate before the body starts streaming so errors still get a problem response.
	if _, err := h.svc.List(r.Context(), q); err != nil {
		respondServiceError(w, r, "transfer", err)
		return
	}

	filename := fmt.Sprintf("transfer-schedule_%s.csv", time.Now().UTC().Format(domain.DateLayout))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if err := h.svc.ExportCSV(r.Context(), w, q); err != nil {
		zap.L().Error("csv export failed", zap.Error(err))
	}
}

func (h *TransferHandler) Daily(w http.ResponseWriter, r *http.Request) {
	daily, err := h.svc.DailyVolumes(r.Context())
	if err != nil {
		respondServiceError(w, r, "transfer", err)
		return
	}
	RespondJSON(w, http.StatusOK, daily)
}

func (h *TransferHandler) Months(w http.ResponseWriter, r *http.Request) {
	months, err := h.svc.Months(r.Context())
	if err != nil {
		respondServiceError(w, r, "transfer", err)
		return
	}
	RespondJSON(w, http.StatusOK, months)
}

func parseTransferQuery(v url.Values) (service.TransferQuery, error) {
	q := service.TransferQuery{
		Search:        v.Get("search"),
		Status:        v.Get("status"),
		GroupID:       v.Get("group_id"),
		FromAccountID: v.Get("from_account_id"),
		ToAccountID:   v.Get("to_account_id"),
		SortField:     v.Get("sort"),
		SortOrder:     v.Get("order"),
	}
	for name, dst := range map[string]**int64{"min_amount": &q.MinAmount, "max_amount": &q.MaxAmount} {
		raw := v.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return q, fmt.Errorf("%s must be an integer", name)
		}
		*dst = &n
	}
	return q, nil
}
