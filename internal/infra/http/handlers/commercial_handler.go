package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// CommercialService lo cumple *usecase.CommercialUseCase.
type CommercialService interface {
	ReferralURL(code string) string
	Create(ctx context.Context, in usecase.CreateCommercialInput) (*entity.Commercial, error)
	List(ctx context.Context) ([]*entity.Commercial, error)
	Get(ctx context.Context, id string) (*entity.Commercial, error)
	Me(ctx context.Context, userID string) (*entity.Commercial, error)
	Update(ctx context.Context, id string, in usecase.UpdateCommercialInput) (*entity.Commercial, error)
	Stats(ctx context.Context, id string) (*entity.CommercialStats, error)
	QR(ctx context.Context, id string) ([]byte, error)
	Delete(ctx context.Context, id string) error
}

type CommercialHandler struct {
	Commercials CommercialService
	log         zerolog.Logger
}

func NewCommercialHandler(commercials CommercialService, log zerolog.Logger) *CommercialHandler {
	return &CommercialHandler{Commercials: commercials, log: log}
}

type commercialResponse struct {
	*entity.Commercial
	ReferralURL string `json:"referral_url"`
}

func (h *CommercialHandler) withURL(c *entity.Commercial) commercialResponse {
	return commercialResponse{Commercial: c, ReferralURL: h.Commercials.ReferralURL(c.ReferralCode)}
}

func (h *CommercialHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Commercials.List(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	out := make([]commercialResponse, 0, len(list))
	for _, c := range list {
		out = append(out, h.withURL(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CommercialHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in usecase.CreateCommercialInput
	if !decode(w, r, &in) {
		return
	}
	c, err := h.Commercials.Create(r.Context(), in)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.withURL(c))
}

func (h *CommercialHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.Commercials.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, h.withURL(c))
}

func (h *CommercialHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in usecase.UpdateCommercialInput
	if !decode(w, r, &in) {
		return
	}
	c, err := h.Commercials.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, h.withURL(c))
}

func (h *CommercialHandler) Stats(w http.ResponseWriter, r *http.Request) {
	h.writeStats(w, r, chi.URLParam(r, "id"))
}

func (h *CommercialHandler) QR(w http.ResponseWriter, r *http.Request) {
	h.writeQR(w, r, chi.URLParam(r, "id"))
}

func (h *CommercialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Commercials.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Comercial eliminado"})
}

// ---- panel del propio comercial ----

func (h *CommercialHandler) Me(w http.ResponseWriter, r *http.Request) {
	c, err := h.Commercials.Me(r.Context(), userID(r))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, h.withURL(c))
}

func (h *CommercialHandler) MyStats(w http.ResponseWriter, r *http.Request) {
	c, err := h.Commercials.Me(r.Context(), userID(r))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	h.writeStats(w, r, c.ID)
}

func (h *CommercialHandler) MyQR(w http.ResponseWriter, r *http.Request) {
	c, err := h.Commercials.Me(r.Context(), userID(r))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	h.writeQR(w, r, c.ID)
}

func (h *CommercialHandler) writeStats(w http.ResponseWriter, r *http.Request, id string) {
	stats, err := h.Commercials.Stats(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *CommercialHandler) writeQR(w http.ResponseWriter, r *http.Request, id string) {
	png, err := h.Commercials.QR(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
