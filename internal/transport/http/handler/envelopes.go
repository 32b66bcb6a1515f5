package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/guild-verify-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// writeServiceError maps a dependency error to an HTTP status without leaking
// internal detail to the caller. The full error is logged here, once.
func writeServiceError(w http.ResponseWriter, err error) {
	slog.Error("request failed", "err", err)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "temporarily unavailable, please retry")
	default:
		writeError(w, http.StatusInternalServerError, "something went wrong, please retry")
	}
}
