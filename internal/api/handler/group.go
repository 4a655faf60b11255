package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ayo6706/circulation-scheduler/internal/service"
)

type GroupHandler struct {
	svc *service.GroupService
}

func NewGroupHandler(svc *service.GroupService) *GroupHandler {
	return &GroupHandler{svc: svc}
}

func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.List(r.Context())
	if err != nil {
		respondServiceError(w, r, "group", err)
		return
	}
	RespondJSON(w, http.StatusOK, groups)
}

func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateGroupInput
	if !decodeJSON(w, r, &req) {
		return
	}
	group, err := h.svc.Create(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, "group", err)
		return
	}
	RespondJSON(w, http.StatusCreated, group)
}

func (h *GroupHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateGroupInput
	if !decodeJSON(w, r, &req) {
		return
	}
	group, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondServiceError(w, r, "group", err)
		return
	}
	RespondJSON(w, http.StatusOK, group)
}

// Delete removes the group; its members return to the automatic pool.
func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, r, "group", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
