package handler

import (
	"net/http"

	"github.com/ayo6706/circulation-scheduler/internal/service"
)

type AuditHandler struct {
	svc *service.AuditService
}

func NewAuditHandler(svc *service.AuditService) *AuditHandler {
	return &AuditHandler{svc: svc}
}

// Audit handles GET /v1/audit?scope=all|<account id>&month=all|YYYY-MM.
func (h *AuditHandler) Audit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.svc.Audit(r.Context(), q.Get("scope"), q.Get("month"))
	if err != nil {
		respondServiceError(w, r, "audit", err)
		return
	}
	RespondJSON(w, http.StatusOK, result)
}
