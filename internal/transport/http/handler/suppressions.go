package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/guild-verify-api/internal/application/suppression"
)

// SuppressionHandler manages the email deny-list.
type SuppressionHandler struct {
	svc suppression.Service
}

func NewSuppressionHandler(svc suppression.Service) *SuppressionHandler {
	return &SuppressionHandler{svc: svc}
}

func (h *SuppressionHandler) Put(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Reason string `json:"reason"`
	}
	// The body is optional; an empty reason is allowed.
	_ = json.NewDecoder(r.Body).Decode(&body)

	if err := h.svc.Add(r.Context(), chi.URLParam(r, "email"), body.Reason); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "address suppressed"})
}

func (h *SuppressionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Remove(r.Context(), chi.URLParam(r, "email")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "address unsuppressed"})
}
