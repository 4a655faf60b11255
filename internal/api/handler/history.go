package handler

import (
	"net/http"
	"strconv"

	"github.com/ayo6706/circulation-scheduler/internal/service"
)

type HistoryHandler struct {
	svc *service.HistoryService
}

func NewHistoryHandler(svc *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{svc: svc}
}

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.List(r.Context())
	if err != nil {
		respondServiceError(w, r, "history", err)
		return
	}
	RespondJSON(w, http.StatusOK, entries)
}

func (h *HistoryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Clear(r.Context()); err != nil {
		respondServiceError(w, r, "history", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Archive handles GET /v1/history/archive?page=&page_size=.
func (h *HistoryHandler) Archive(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	entries, err := h.svc.Archived(r.Context(), page, pageSize)
	if err != nil {
		respondServiceError(w, r, "history", err)
		return
	}
	RespondJSON(w, http.StatusOK, entries)
}
