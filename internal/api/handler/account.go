package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ayo6706/circulation-scheduler/internal/service"
)

type AccountHandler struct {
	svc *service.AccountService
}

func NewAccountHandler(svc *service.AccountService) *AccountHandler {
	return &AccountHandler{svc: svc}
}

// List handles GET /v1/accounts?search=&group_id=
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	accounts, err := h.svc.List(r.Context(), service.AccountFilter{
		Search:  q.Get("search"),
		GroupID: q.Get("group_id"),
	})
	if err != nil {
		respondServiceError(w, r, "account", err)
		return
	}
	RespondJSON(w, http.StatusOK, accounts)
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	account, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, "account", err)
		return
	}
	RespondJSON(w, http.StatusOK, account)
}

func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateAccountInput
	if !decodeJSON(w, r, &req) {
		return
	}
	account, err := h.svc.Create(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, "account", err)
		return
	}
	RespondJSON(w, http.StatusCreated, account)
}

func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateAccountInput
	if !decodeJSON(w, r, &req) {
		return
	}
	account, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondServiceError(w, r, "account", err)
		return
	}
	RespondJSON(w, http.StatusOK, account)
}

func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, r, "account", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
