package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tavola-pos/api/internal/config"
	"github.com/tavola-pos/api/internal/enum"
	mw "github.com/tavola-pos/api/internal/middleware"
)

// SettingsStore is the part of the restaurant service the config panel
// needs.
type SettingsStore interface {
	AppConfig() config.AppConfig
	SaveAppConfig(ctx context.Context, cfg config.AppConfig) (config.AppConfig, error)
}

// SettingsHandler serves the admin configuration panel.
type SettingsHandler struct {
	store SettingsStore
}

func NewSettingsHandler(store SettingsStore) *SettingsHandler {
	return &SettingsHandler{store: store}
}

// RegisterRoutes registers config endpoints.
// Expected to be mounted at /config
func (h *SettingsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
	r.With(mw.RequireRole(enum.StaffRoleManager)).Put("/", h.Update)
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.AppConfig())
}

// Update merges the request body onto the current config; fields that are
// absent keep their value.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	cfg := h.store.AppConfig()
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	saved, err := h.store.SaveAppConfig(r.Context(), cfg)
	if err != nil {
		writeServiceError(w, "save config", err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}
