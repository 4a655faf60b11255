package handler

import (
	"net/http"
	"time"

	"github.com/ayo6706/circulation-scheduler/internal/domain"
	"github.com/ayo6706/circulation-scheduler/internal/models"
	"github.com/ayo6706/circulation-scheduler/internal/service"
)

type SimulationHandler struct {
	svc *service.SimulationService
	now func() time.Time
}

func NewSimulationHandler(svc *service.SimulationService) *SimulationHandler {
	return &SimulationHandler{svc: svc, now: time.Now}
}

func (h *SimulationHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.svc.Config(r.Context())
	if err != nil {
		respondServiceError(w, r, "config", err)
		return
	}
	RespondJSON(w, http.StatusOK, cfg)
}

func (h *SimulationHandler) PutConfig(w http.ResponseWriter, r *http.Request) {
	var req models.SimulationConfig
	if !decodeJSON(w, r, &req) {
		return
	}
	cfg, err := h.svc.SaveConfig(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, "config", err)
		return
	}
	RespondJSON(w, http.StatusOK, cfg)
}

// Run handles POST /v1/simulations with the saved configuration.
func (h *SimulationHandler) Run(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Run(r.Context(), domain.TriggerManual)
	if err != nil {
		respondServiceError(w, r, "simulation", err)
		return
	}
	RespondJSON(w, http.StatusCreated, result)
}

// Reset handles POST /v1/simulations/reset: seeds a fresh account pool.
func (h *SimulationHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req models.SimulationConfig
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.Reset(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, "simulation", err)
		return
	}
	RespondJSON(w, http.StatusCreated, result)
}

type executionStatus struct {
	Enabled          bool   `json:"enabled"`
	RemainingSeconds int64  `json:"remainingSeconds"`
	Remaining        string `json:"remaining,omitempty"`
}

// Execution reports the countdown to the scheduled run.
func (h *SimulationHandler) Execution(w http.ResponseWriter, r *http.Request) {
	remaining, ok, err := h.svc.TimeUntilExecution(r.Context(), h.now())
	if err != nil {
		respondServiceError(w, r, "simulation", err)
		return
	}
	status := executionStatus{Enabled: ok}
	if ok {
		status.RemainingSeconds = int64(remaining / time.Second)
		status.Remaining = remaining.Truncate(time.Second).String()
	}
	RespondJSON(w, http.StatusOK, status)
}
