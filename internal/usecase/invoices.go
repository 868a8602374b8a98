package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

type InvoiceUseCase struct {
	Invoices  InvoiceRepository
	Leads     LeadRepository
	Mailer    Mailer
	Notifier  Notifier
	Documents DocumentRenderer

	FrontendURL  string
	PublicAPIURL string
	log          zerolog.Logger
}

func NewInvoiceUseCase(
	invoices InvoiceRepository,
	leads LeadRepository,
	mailer Mailer,
	notifier Notifier,
	documents DocumentRenderer,
	frontendURL, publicAPIURL string,
	log zerolog.Logger,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		Invoices:     invoices,
		Leads:        leads,
		Mailer:       mailer,
		Notifier:     notifier,
		Documents:    documents,
		FrontendURL:  strings.TrimRight(frontendURL, "/"),
		PublicAPIURL: strings.TrimRight(publicAPIURL, "/"),
		log:          log,
	}
}

func (uc *InvoiceUseCase) PublicURL(token string) string {
	return uc.FrontendURL + "/factura/" + token
}

func (uc *InvoiceUseCase) PixelURL(token string) string {
	return uc.PublicAPIURL + "/api/public/invoices/" + token + "/pixel.gif"
}

// CreateFromProposal es idempotente por propuesta: si ya existe factura se devuelve esa.
func (uc *InvoiceUseCase) CreateFromProposal(ctx context.Context, p *entity.Proposal, userID *string) (*entity.Invoice, error) {
	if existing, err := uc.Invoices.FindByProposalID(ctx, p.ID); err == nil {
		return existing, nil
	} else if !errors.Is(err, entity.ErrNotFound) {
		return nil, internal("Error al buscar factura", err)
	}

	proposalID := p.ID
	inv, err := entity.NewInvoice(p.LeadID, &proposalID, p.Items, p.TotalPrice, userID)
	if err != nil {
		return nil, internal("Error al generar token", err)
	}
	activity := entity.NewActivity(p.LeadID, userID, entity.ActivityInvoiceCreated,
		fmt.Sprintf("Factura generada desde la propuesta \"%s\"", p.Title))

	err = uc.Invoices.Create(ctx, inv, activity)
	if errors.Is(err, entity.ErrInvoiceAlreadyExists) {
		// otra petición la creó entre la búsqueda y el insert
		existing, findErr := uc.Invoices.FindByProposalID(ctx, p.ID)
		if findErr != nil {
			return nil, internal("Error al buscar factura", findErr)
		}
		return existing, nil
	}
	if err != nil {
		return nil, internal("Error al crear factura", err)
	}
	inv.LeadName, inv.LeadEmail = p.LeadName, p.LeadEmail
	uc.log.Info().Str("invoice", inv.Number).Str("proposal_id", p.ID).Msg("🧾 factura generada")

	if userID != nil && uc.Notifier != nil {
		if _, err := uc.Notifier.Notify(ctx, *userID, entity.NotificationInvoiceCreated, "Factura generada",
			fmt.Sprintf("Se generó la factura %s", inv.Number), "/facturas/"+inv.ID); err != nil {
			uc.log.Warn().Err(err).Msg("⚠️ no se pudo notificar la factura")
		}
	}
	return inv, nil
}

func (uc *InvoiceUseCase) Create(ctx context.Context, in CreateInvoiceInput, userID *string) (*entity.Invoice, error) {
	if strings.TrimSpace(in.LeadID) == "" {
		return nil, validationError("El lead es obligatorio")
	}
	lead, err := uc.Leads.FindByID(ctx, in.LeadID)
	if err != nil {
		return nil, fromRepo(err, "Lead no encontrado", "Error al buscar lead")
	}

	total := in.Total
	if total == 0 {
		for _, it := range in.Items {
			total += it.Subtotal()
		}
	}
	if total <= 0 {
		return nil, validationError("El total debe ser mayor que cero")
	}

	inv, err := entity.NewInvoice(lead.ID, nil, in.Items, total, userID)
	if err != nil {
		return nil, internal("Error al generar token", err)
	}
	if in.DueDate != nil {
		inv.DueDate = *in.DueDate
	}
	activity := entity.NewActivity(lead.ID, userID, entity.ActivityInvoiceCreated, "Factura creada manualmente")
	if err := uc.Invoices.Create(ctx, inv, activity); err != nil {
		return nil, internal("Error al crear factura", err)
	}
	inv.LeadName, inv.LeadEmail = lead.Name, lead.Email
	return inv, nil
}

func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := uc.Invoices.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "Factura no encontrada", "Error al buscar factura")
	}
	return inv, nil
}

func (uc *InvoiceUseCase) List(ctx context.Context, status string) ([]*entity.Invoice, error) {
	if status != "" && !entity.ValidInvoiceStatus(status) {
		return nil, validationError("Estado de factura inválido")
	}
	list, err := uc.Invoices.List(ctx, status)
	if err != nil {
		return nil, internal("Error al listar facturas", err)
	}
	return list, nil
}

// GetByToken es la vista pública; viewed_at sólo se escribe la primera vez.
func (uc *InvoiceUseCase) GetByToken(ctx context.Context, token string) (*entity.Invoice, error) {
	inv, err := uc.Invoices.FindByToken(ctx, token)
	if err != nil {
		return nil, fromRepo(err, "Factura no encontrada", "Error al buscar factura")
	}
	if inv.ViewedAt == nil {
		if err := uc.Invoices.MarkViewed(ctx, token); err != nil {
			return nil, internal("Error al registrar la vista", err)
		}
		now := time.Now()
		inv.ViewedAt = &now
	}
	return inv, nil
}

func (uc *InvoiceUseCase) MarkPaid(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := uc.Invoices.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "Factura no encontrada", "Error al buscar factura")
	}
	if inv.Status == entity.InvoiceStatusCancelled {
		return nil, validationError("No se puede cobrar una factura anulada")
	}
	if inv.Status == entity.InvoiceStatusPaid {
		return inv, nil
	}

	now := time.Now()
	patch := entity.Patch{"status": entity.InvoiceStatusPaid, "paid_at": now}
	if err := uc.Invoices.Update(ctx, id, patch); err != nil {
		return nil, fromRepo(err, "Factura no encontrada", "Error al actualizar factura")
	}
	inv.Status, inv.PaidAt = entity.InvoiceStatusPaid, &now
	return inv, nil
}

func (uc *InvoiceUseCase) Cancel(ctx context.Context, id string) error {
	if err := uc.Invoices.Update(ctx, id, entity.Patch{"status": entity.InvoiceStatusCancelled}); err != nil {
		return fromRepo(err, "Factura no encontrada", "Error al anular factura")
	}
	return nil
}

// Send envía la factura con el píxel de seguimiento de aperturas.
func (uc *InvoiceUseCase) Send(ctx context.Context, id, to string) error {
	inv, err := uc.Invoices.FindByID(ctx, id)
	if err != nil {
		return fromRepo(err, "Factura no encontrada", "Error al buscar factura")
	}
	if to == "" {
		to = inv.LeadEmail
	}
	if !isValidEmail(to) {
		return validationError("El email no es válido")
	}
	err = uc.Mailer.SendInvoice(ctx, to, inv.LeadName, inv.Number, inv.Total, inv.DueDate,
		uc.PublicURL(inv.Token), uc.PixelURL(inv.Token))
	if err != nil {
		return internal("No se pudo enviar el email", err)
	}
	return nil
}

// TrackOpen nunca falla hacia el cliente: el píxel se sirve siempre.
func (uc *InvoiceUseCase) TrackOpen(ctx context.Context, token string) {
	if err := uc.Invoices.TrackOpen(ctx, token); err != nil && !errors.Is(err, entity.ErrNotFound) {
		uc.log.Warn().Err(err).Msg("⚠️ no se pudo registrar la apertura")
	}
}

func (uc *InvoiceUseCase) PDF(ctx context.Context, id string) (*entity.Invoice, []byte, error) {
	inv, err := uc.Invoices.FindByID(ctx, id)
	if err != nil {
		return nil, nil, fromRepo(err, "Factura no encontrada", "Error al buscar factura")
	}
	doc, err := uc.Documents.InvoicePDF(inv)
	if err != nil {
		return nil, nil, internal("Error al generar PDF", err)
	}
	return inv, doc, nil
}

func (uc *InvoiceUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.Invoices.Delete(ctx, id); err != nil {
		return fromRepo(err, "Factura no encontrada", "Error al eliminar factura")
	}
	return nil
}
