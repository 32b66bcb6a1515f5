package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/guild-verify-api/internal/application/tenantcfg"
	"github.com/guild-verify-api/internal/pkg/validate"
)

// TenantConfigHandler exposes the admin-workflow config endpoints.
type TenantConfigHandler struct {
	svc tenantcfg.Service
}

func NewTenantConfigHandler(svc tenantcfg.Service) *TenantConfigHandler {
	return &TenantConfigHandler{svc: svc}
}

func (h *TenantConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.svc.Get(r.Context(), chi.URLParam(r, "tenantID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (h *TenantConfigHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req tenantcfg.PutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cfg, err := h.svc.Put(r.Context(), chi.URLParam(r, "tenantID"), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}
