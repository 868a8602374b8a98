package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// HunterService lo cumple *usecase.HunterUseCase.
type HunterService interface {
	SearchProspects(ctx context.Context, userID string, in usecase.SearchInput) (*usecase.SearchOutput, error)
	AnalyzeProspect(ctx context.Context, userID, prospectID string) (*entity.Prospect, error)
	DeepAnalyzeProspect(ctx context.Context, userID, prospectID string) (*entity.Prospect, error)
	ProcessProspectToLead(ctx context.Context, userID, prospectID string) (*entity.Lead, error)
	GenerateDemo(ctx context.Context, userID, prospectID string) (*entity.HunterDemo, error)
	GetDemo(ctx context.Context, token string) (*entity.HunterDemo, error)
	ListSearches(ctx context.Context, userID string, limit int) ([]*entity.HunterSearch, error)
	ListProspects(ctx context.Context, userID string, f entity.ProspectFilter) ([]*entity.Prospect, error)
	GetProspect(ctx context.Context, userID, id string) (*entity.Prospect, error)
	Stats(ctx context.Context, userID string) (*entity.HunterStats, error)
	Access(ctx context.Context, userID string) (*entity.HunterAccess, error)
	UpdateAccess(ctx context.Context, userID string, in usecase.HunterAccessInput) error
}

type HunterHandler struct {
	Hunter HunterService
	// PublicAPIURL se usa para construir el enlace público de las demos.
	PublicAPIURL string
	log          zerolog.Logger
}

func NewHunterHandler(hunter HunterService, publicAPIURL string, log zerolog.Logger) *HunterHandler {
	return &HunterHandler{Hunter: hunter, PublicAPIURL: publicAPIURL, log: log}
}

func (h *HunterHandler) Access(w http.ResponseWriter, r *http.Request) {
	access, err := h.Hunter.Access(r.Context(), userID(r))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, access)
}

func (h *HunterHandler) Search(w http.ResponseWriter, r *http.Request) {
	var in usecase.SearchInput
	if !decode(w, r, &in) {
		return
	}
	out, err := h.Hunter.SearchProspects(r.Context(), userID(r), in)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HunterHandler) Searches(w http.ResponseWriter, r *http.Request) {
	list, err := h.Hunter.ListSearches(r.Context(), userID(r), queryInt(r, "limit", 20))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *HunterHandler) Prospects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := entity.ProspectFilter{
		SearchID: q.Get("search_id"),
		Status:   q.Get("status"),
		Limit:    queryInt(r, "limit", 0),
		Offset:   queryInt(r, "offset", 0),
	}
	list, err := h.Hunter.ListProspects(r.Context(), userID(r), f)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *HunterHandler) Prospect(w http.ResponseWriter, r *http.Request) {
	p, err := h.Hunter.GetProspect(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *HunterHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	p, err := h.Hunter.AnalyzeProspect(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *HunterHandler) DeepAnalyze(w http.ResponseWriter, r *http.Request) {
	p, err := h.Hunter.DeepAnalyzeProspect(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *HunterHandler) Convert(w http.ResponseWriter, r *http.Request) {
	lead, err := h.Hunter.ProcessProspectToLead(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Prospecto convertido en lead",
		"lead":    lead,
	})
}

func (h *HunterHandler) Demo(w http.ResponseWriter, r *http.Request) {
	demo, err := h.Hunter.GenerateDemo(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"demo": demo,
		"url":  h.PublicAPIURL + "/api/public/demos/" + demo.Token,
	})
}

func (h *HunterHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Hunter.Stats(r.Context(), userID(r))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// UpdateAccess es sólo para administradores.
func (h *HunterHandler) UpdateAccess(w http.ResponseWriter, r *http.Request) {
	var in usecase.HunterAccessInput
	if !decode(w, r, &in) {
		return
	}
	if err := h.Hunter.UpdateAccess(r.Context(), chi.URLParam(r, "userID"), in); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Acceso actualizado"})
}

// PublicDemo sirve el HTML generado tal cual.
func (h *HunterHandler) PublicDemo(w http.ResponseWriter, r *http.Request) {
	demo, err := h.Hunter.GetDemo(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Frame-Options", "SAMEORIGIN")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(demo.HTML))
}
