package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/guild-verify-api/internal/application/audit"
	"github.com/guild-verify-api/internal/domain"
)

// RecordsHandler exposes the audit-record admin endpoints.
type RecordsHandler struct {
	svc audit.Service
}

func NewRecordsHandler(svc audit.Service) *RecordsHandler {
	return &RecordsHandler{svc: svc}
}

// RecordsEnvelope wraps a page of verification records.
type RecordsEnvelope struct {
	Data       []domain.VerificationRecord `json:"data"`
	NextCursor string                      `json:"next_cursor,omitempty"`
}

func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := int64(0)
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.ParseInt(v, 10, 32)
	}
	recs, next, err := h.svc.List(r.Context(), chi.URLParam(r, "tenantID"), int32(limit), r.URL.Query().Get("cursor"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if recs == nil {
		recs = []domain.VerificationRecord{}
	}
	writeJSON(w, http.StatusOK, RecordsEnvelope{Data: recs, NextCursor: next})
}

func (h *RecordsHandler) Export(w http.ResponseWriter, r *http.Request) {
	url, err := h.svc.Export(r.Context(), chi.URLParam(r, "tenantID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: url})
}
