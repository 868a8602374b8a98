package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// LeadService lo cumple *usecase.LeadUseCase.
type LeadService interface {
	Create(ctx context.Context, in usecase.CreateLeadInput, userID *string) (*entity.Lead, error)
	Capture(ctx context.Context, in usecase.CaptureLeadInput) (*entity.Lead, error)
	Get(ctx context.Context, id string) (*usecase.LeadDetail, error)
	List(ctx context.Context, f entity.LeadFilter) ([]*entity.Lead, error)
	Update(ctx context.Context, id string, in usecase.UpdateLeadInput) (*entity.Lead, error)
	UpdateStatus(ctx context.Context, id, status string, userID *string) (*entity.Lead, error)
	AddNote(ctx context.Context, id, note string, userID *string) (*entity.Activity, error)
	ListActivities(ctx context.Context, id string) ([]*entity.Activity, error)
	ListTags(ctx context.Context) ([]entity.Tag, error)
	Delete(ctx context.Context, id string) error
	ExportExcel(ctx context.Context, f entity.LeadFilter) ([]byte, error)
}

type LeadHandler struct {
	Leads LeadService
	log   zerolog.Logger
}

func NewLeadHandler(leads LeadService, log zerolog.Logger) *LeadHandler {
	return &LeadHandler{Leads: leads, log: log}
}

func leadFilter(r *http.Request) entity.LeadFilter {
	q := r.URL.Query()
	return entity.LeadFilter{
		Status:       q.Get("status"),
		CommercialID: q.Get("commercial_id"),
		Search:       q.Get("search"),
		Limit:        queryInt(r, "limit", 0),
		Offset:       queryInt(r, "offset", 0),
	}
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	leads, err := h.Leads.List(r.Context(), leadFilter(r))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in usecase.CreateLeadInput
	if !decode(w, r, &in) {
		return
	}
	lead, err := h.Leads.Create(r.Context(), in, actor(r))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, lead)
}

// Capture es el formulario público de la web; va detrás del rate limiter.
func (h *LeadHandler) Capture(w http.ResponseWriter, r *http.Request) {
	var in usecase.CaptureLeadInput
	if !decode(w, r, &in) {
		return
	}
	if _, err := h.Leads.Capture(r.Context(), in); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "¡Gracias! Nos pondremos en contacto contigo pronto.",
	})
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	lead, err := h.Leads.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in usecase.UpdateLeadInput
	if !decode(w, r, &in) {
		return
	}
	lead, err := h.Leads.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Status string `json:"status"`
	}
	if !decode(w, r, &in) {
		return
	}
	lead, err := h.Leads.UpdateStatus(r.Context(), chi.URLParam(r, "id"), in.Status, actor(r))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Note string `json:"note"`
	}
	if !decode(w, r, &in) {
		return
	}
	activity, err := h.Leads.AddNote(r.Context(), chi.URLParam(r, "id"), in.Note, actor(r))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, activity)
}

func (h *LeadHandler) Activities(w http.ResponseWriter, r *http.Request) {
	activities, err := h.Leads.ListActivities(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, activities)
}

func (h *LeadHandler) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.Leads.ListTags(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Leads.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Lead eliminado"})
}

func (h *LeadHandler) Export(w http.ResponseWriter, r *http.Request) {
	body, err := h.Leads.ExportExcel(r.Context(), leadFilter(r))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	name := fmt.Sprintf("leads_%s.xlsx", time.Now().Format("20060102"))
	writeFile(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", name, body)
}
