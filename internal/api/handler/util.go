package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ayo6706/circulation-scheduler/internal/api/problem"
	"github.com/ayo6706/circulation-scheduler/internal/models"
	"github.com/ayo6706/circulation-scheduler/internal/repository"
)

const maxBodyBytes = 1 << 20

// RespondJSON writes a JSON response.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// RespondError writes an error response.
func RespondError(w http.ResponseWriter, r *http.Request, status int, problemType, message string) {
	if problemType != "" && problemType != "about:blank" && !strings.HasPrefix(problemType, "http") {
		problemType = problem.Type(problemType)
	}
	problem.Write(w, r, status, problemType, http.StatusText(status), message)
}

// respondServiceError maps service errors onto problem responses. Unexpected
// errors are logged and hidden behind a generic message.
func respondServiceError(w http.ResponseWriter, r *http.Request, resource string, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		RespondError(w, r, http.StatusBadRequest, resource+"/invalid", err.Error())
	case errors.Is(err, models.ErrNotFound):
		RespondError(w, r, http.StatusNotFound, resource+"/not-found", err.Error())
	case errors.Is(err, repository.ErrConflict):
		RespondError(w, r, http.StatusConflict, resource+"/conflict", "concurrent update, retry the request")
	default:
		zap.L().Error("request failed", zap.String("resource", resource), zap.String("path", r.URL.Path), zap.Error(err))
		RespondError(w, r, http.StatusInternalServerError, resource+"/internal", "internal error")
	}
}

// decodeJSON reads a single JSON object and rejects unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body: "+err.Error())
		return false
	}
	return true
}
