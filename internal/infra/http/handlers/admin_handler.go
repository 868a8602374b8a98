package handlers

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

// AnalyticsService lo cumple *usecase.AnalyticsUseCase.
type AnalyticsService interface {
	Dashboard(ctx context.Context, userID string) (*entity.Dashboard, error)
}

// SettingsService lo cumple *usecase.SettingsUseCase.
type SettingsService interface {
	Get(ctx context.Context) (map[string]string, error)
	Save(ctx context.Context, values map[string]string) error
}

type AdminHandler struct {
	Analytics AnalyticsService
	Settings  SettingsService
	log       zerolog.Logger
}

func NewAdminHandler(analytics AnalyticsService, settings SettingsService, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{Analytics: analytics, Settings: settings, log: log}
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.Analytics.Dashboard(r.Context(), userID(r))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *AdminHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	values, err := h.Settings.Get(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, values)
}

func (h *AdminHandler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	var values map[string]string
	if !decode(w, r, &values) {
		return
	}
	if err := h.Settings.Save(r.Context(), values); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Ajustes guardados"})
}
