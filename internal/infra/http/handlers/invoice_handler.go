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

// pixelGIF es un GIF transparente de 1x1.
var pixelGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xff, 0xff, 0xff, 0x21, 0xf9, 0x04, 0x01, 0x00, 0x00, 0x00, 0x00, 0x2c, 0x00, 0x00, 0x00, 0x00,
	0x01, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x44, 0x01, 0x00, 0x3b,
}

// InvoiceService lo cumple *usecase.InvoiceUseCase.
type InvoiceService interface {
	Create(ctx context.Context, in usecase.CreateInvoiceInput, userID *string) (*entity.Invoice, error)
	Get(ctx context.Context, id string) (*entity.Invoice, error)
	List(ctx context.Context, status string) ([]*entity.Invoice, error)
	GetByToken(ctx context.Context, token string) (*entity.Invoice, error)
	MarkPaid(ctx context.Context, id string) (*entity.Invoice, error)
	Cancel(ctx context.Context, id string) error
	Send(ctx context.Context, id, to string) error
	TrackOpen(ctx context.Context, token string)
	PDF(ctx context.Context, id string) (*entity.Invoice, []byte, error)
	Delete(ctx context.Context, id string) error
}

type InvoiceHandler struct {
	Invoices InvoiceService
	log      zerolog.Logger
}

func NewInvoiceHandler(invoices InvoiceService, log zerolog.Logger) *InvoiceHandler {
	return &InvoiceHandler{Invoices: invoices, log: log}
}

func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.Invoices.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, invoices)
}

func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in usecase.CreateInvoiceInput
	if !decode(w, r, &in) {
		return
	}
	inv, err := h.Invoices.Create(r.Context(), in, actor(r))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	inv, err := h.Invoices.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	inv, err := h.Invoices.MarkPaid(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.Invoices.Cancel(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Factura cancelada"})
}

func (h *InvoiceHandler) Send(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
	}
	// el cuerpo es opcional: sin email se usa el del lead
	if r.ContentLength != 0 && !decode(w, r, &in) {
		return
	}
	if err := h.Invoices.Send(r.Context(), chi.URLParam(r, "id"), in.Email); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Factura enviada"})
}

func (h *InvoiceHandler) PDF(w http.ResponseWriter, r *http.Request) {
	inv, body, err := h.Invoices.PDF(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeFile(w, "application/pdf", inv.Number+".pdf", body)
}

func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Invoices.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Factura eliminada"})
}

// ---- rutas públicas por token ----

func (h *InvoiceHandler) PublicGet(w http.ResponseWriter, r *http.Request) {
	inv, err := h.Invoices.GetByToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) PublicPDF(w http.ResponseWriter, r *http.Request) {
	inv, err := h.Invoices.GetByToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	_, body, err := h.Invoices.PDF(r.Context(), inv.ID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeFile(w, "application/pdf", inv.Number+".pdf", body)
}

// Pixel siempre responde el GIF, exista o no el token.
func (h *InvoiceHandler) Pixel(w http.ResponseWriter, r *http.Request) {
	h.Invoices.TrackOpen(r.Context(), chi.URLParam(r, "token"))

	w.Header().Set("Content-Type", "image/gif")
	w.Header().Set("Content-Length", strconv.Itoa(len(pixelGIF)))
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	w.Header().Set("Pragma", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write(pixelGIF)
}
