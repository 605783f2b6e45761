package handlers

import (
	"encoding/json"
	"net/http"

	"clearcue-backend/internal/middleware"
	"clearcue-backend/internal/models"
	"clearcue-backend/internal/services"
)

type ConfigHandler struct {
	configs *services.ConfigService
}

func NewConfigHandler(configs *services.ConfigService) *ConfigHandler {
	return &ConfigHandler{configs: configs}
}

func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.configs.Resolve(r.Context(), middleware.GetOwner(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (h *ConfigHandler) Update(w http.ResponseWriter, r *http.Request) {
	var cfg models.ApiConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp(services.CodeValidation, "Invalid request body", r))
		return
	}

	saved, err := h.configs.Save(r.Context(), middleware.GetOwner(r.Context()), cfg)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *ConfigHandler) Providers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"providers": h.configs.Providers()})
}
