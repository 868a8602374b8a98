package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/metrics"
)

// Eventos realtime del ciclo de vida de la propuesta.
const (
	EventProposalViewed    = "proposal_viewed"
	EventProposalCommented = "proposal_commented"
	EventProposalAccepted  = "proposal_accepted"
)

// AutoInvoicer lo implementa InvoiceUseCase.
type AutoInvoicer interface {
	CreateFromProposal(ctx context.Context, p *entity.Proposal, userID *string) (*entity.Invoice, error)
}

type ProposalUseCase struct {
	Proposals  ProposalRepository
	Leads      LeadRepository
	Activities ActivityRepository
	Users      UserRepository
	Invoicer   AutoInvoicer
	Mailer     Mailer
	Notifier   Notifier
	Realtime   RealtimePublisher
	Settings   SettingsSource
	Documents  DocumentRenderer

	FrontendURL string
	log         zerolog.Logger
}

func NewProposalUseCase(
	proposals ProposalRepository,
	leads LeadRepository,
	activities ActivityRepository,
	users UserRepository,
	invoicer AutoInvoicer,
	mailer Mailer,
	notifier Notifier,
	realtime RealtimePublisher,
	settings SettingsSource,
	documents DocumentRenderer,
	frontendURL string,
	log zerolog.Logger,
) *ProposalUseCase {
	return &ProposalUseCase{
		Proposals:   proposals,
		Leads:       leads,
		Activities:  activities,
		Users:       users,
		Invoicer:    invoicer,
		Mailer:      mailer,
		Notifier:    notifier,
		Realtime:    realtime,
		Settings:    settings,
		Documents:   documents,
		FrontendURL: strings.TrimRight(frontendURL, "/"),
		log:         log,
	}
}

// PublicURL es el enlace que recibe el cliente; el token es su único control de acceso.
func (uc *ProposalUseCase) PublicURL(token string) string {
	return uc.FrontendURL + "/propuesta/" + token
}

func (uc *ProposalUseCase) Create(ctx context.Context, in CreateProposalInput, userID *string) (*ProposalResult, error) {
	if err := validationFailed(ValidateCreateProposalInput(in)); err != nil {
		return nil, err
	}

	lead, err := uc.Leads.FindByID(ctx, in.LeadID)
	if err != nil {
		return nil, fromRepo(err, "Lead no encontrado", "Error al buscar lead")
	}

	p, err := entity.NewProposal(lead.ID, strings.TrimSpace(in.Title), in.Description, in.Items, in.TotalPrice, userID)
	if err != nil {
		return nil, internal("Error al generar token", err)
	}
	activity := entity.NewActivity(lead.ID, userID, entity.ActivityProposalCreated,
		fmt.Sprintf("Propuesta creada: %s", p.Title))

	if err := uc.Proposals.Create(ctx, p, activity); err != nil {
		return nil, internal("Error al crear propuesta", err)
	}
	p.LeadName, p.LeadEmail = lead.Name, lead.Email
	metrics.RecordProposal("created")
	uc.log.Info().Str("proposal_id", p.ID).Str("lead_id", lead.ID).Msg("📄 propuesta creada")

	out := NewOutbox(uc.log)
	if lead.Email != "" {
		out.Add("email_propuesta", WarnProposalEmail, func(ctx context.Context) error {
			return uc.Mailer.SendProposal(ctx, lead.Email, lead.Name, p.Title, uc.PublicURL(p.Token))
		})
	}
	return &ProposalResult{Proposal: p, Warnings: out.Dispatch(ctx)}, nil
}

func (uc *ProposalUseCase) Get(ctx context.Context, id string) (*PublicProposal, error) {
	p, err := uc.Proposals.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "Propuesta no encontrada", "Error al buscar propuesta")
	}
	comments, err := uc.Proposals.ListComments(ctx, p.ID)
	if err != nil {
		return nil, internal("Error al leer comentarios", err)
	}
	return &PublicProposal{Proposal: p, Comments: comments}, nil
}

func (uc *ProposalUseCase) List(ctx context.Context, leadID string) ([]*entity.Proposal, error) {
	list, err := uc.Proposals.List(ctx, leadID)
	if err != nil {
		return nil, internal("Error al listar propuestas", err)
	}
	return list, nil
}

func (uc *ProposalUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.Proposals.Delete(ctx, id); err != nil {
		return fromRepo(err, "Propuesta no encontrada", "Error al eliminar propuesta")
	}
	return nil
}

// GetByToken es la vista pública. La primera lectura marca viewed_at y pasa de sent a
// viewed; las siguientes no cambian nada.
func (uc *ProposalUseCase) GetByToken(ctx context.Context, token string) (*PublicProposal, error) {
	if strings.TrimSpace(token) == "" {
		return nil, validationError("Token inválido")
	}
	p, err := uc.Proposals.FindByToken(ctx, token)
	if err != nil {
		return nil, fromRepo(err, "Propuesta no encontrada", "Error al buscar propuesta")
	}

	first, err := uc.Proposals.MarkViewed(ctx, token)
	if err != nil {
		return nil, internal("Error al registrar la vista", err)
	}
	if first {
		now := time.Now()
		p.ViewedAt = &now
		if p.Status == entity.ProposalStatusSent {
			p.Status = entity.ProposalStatusViewed
		}
		metrics.RecordProposal("viewed")
		uc.notifyCreator(ctx, p, entity.NotificationProposalViewed, EventProposalViewed,
			"Propuesta vista", fmt.Sprintf("%s abrió la propuesta \"%s\"", p.LeadName, p.Title))
	}

	comments, err := uc.Proposals.ListComments(ctx, p.ID)
	if err != nil {
		return nil, internal("Error al leer comentarios", err)
	}
	return &PublicProposal{Proposal: p, Comments: comments}, nil
}

func (uc *ProposalUseCase) Comment(ctx context.Context, token string, in CommentInput) (*entity.ProposalComment, error) {
	if strings.TrimSpace(in.Comment) == "" {
		return nil, validationError("El comentario es obligatorio")
	}
	p, err := uc.Proposals.FindByToken(ctx, token)
	if err != nil {
		return nil, fromRepo(err, "Propuesta no encontrada", "Error al buscar propuesta")
	}

	author := strings.TrimSpace(in.Author)
	if author == "" {
		author = p.LeadName
	}
	c := &entity.ProposalComment{
		ID:         uuid.New().String(),
		ProposalID: p.ID,
		Author:     author,
		Comment:    strings.TrimSpace(in.Comment),
		CreatedAt:  time.Now(),
	}
	if err := uc.Proposals.AddComment(ctx, c); err != nil {
		return nil, internal("Error al guardar comentario", err)
	}

	uc.notifyCreator(ctx, p, entity.NotificationProposalCommented, EventProposalCommented,
		"Nuevo comentario", fmt.Sprintf("%s comentó la propuesta \"%s\"", author, p.Title))
	return c, nil
}

// Accept confirma la propuesta en una transacción (propuesta, lead y actividad). Los
// emails, la notificación y la factura automática son efectos posteriores: si fallan
// se devuelven como advertencias y la aceptación se mantiene.
func (uc *ProposalUseCase) Accept(ctx context.Context, id string, in AcceptProposalInput) (*AcceptResult, error) {
	if strings.TrimSpace(in.SignerName) == "" {
		return nil, validationError("El nombre del firmante es obligatorio")
	}

	activity := entity.NewActivity("", nil, entity.ActivityProposalAccepted,
		fmt.Sprintf("Propuesta aceptada por %s", in.SignerName))
	err := uc.Proposals.Accept(ctx, id, in.SignatureData, strings.TrimSpace(in.SignerName), activity)
	switch {
	case errors.Is(err, entity.ErrProposalAlreadyAccepted):
		return nil, &DomainError{Code: CodeValidation, Message: "La propuesta ya fue aceptada", Err: err}
	case err != nil:
		return nil, fromRepo(err, "Propuesta no encontrada", "Error al aceptar propuesta")
	}
	metrics.RecordProposal("accepted")

	p, err := uc.Proposals.FindByID(ctx, id)
	if err != nil {
		return nil, internal("Error al leer la propuesta aceptada", err)
	}
	uc.log.Info().Str("proposal_id", p.ID).Str("signer", in.SignerName).Msg("✅ propuesta aceptada")

	result := &AcceptResult{Proposal: p}
	settings := uc.Settings.Get(ctx)
	out := NewOutbox(uc.log)

	if p.LeadEmail != "" {
		out.Add("email_confirmacion_cliente", WarnConfirmationEmail, func(ctx context.Context) error {
			return uc.Mailer.SendAcceptanceConfirmation(ctx, p.LeadEmail, in.SignerName, p.Title, p.TotalPrice)
		})
	}
	if settings.AdminEmail != "" {
		out.Add("email_aviso_admin", WarnAdminNotice, func(ctx context.Context) error {
			return uc.Mailer.SendAcceptanceNotice(ctx, settings.AdminEmail, p.LeadName, p.Title, in.SignerName, p.TotalPrice)
		})
	}
	out.Add("notificacion", WarnNotification, func(ctx context.Context) error {
		return uc.notify(ctx, p, entity.NotificationProposalAccepted, EventProposalAccepted,
			"Propuesta aceptada", fmt.Sprintf("%s aceptó la propuesta \"%s\"", in.SignerName, p.Title))
	})
	if settings.AutoInvoice && uc.Invoicer != nil {
		out.Add("factura_automatica", WarnAutoInvoice, func(ctx context.Context) error {
			inv, err := uc.Invoicer.CreateFromProposal(ctx, p, p.CreatedBy)
			if err != nil {
				return err
			}
			result.Invoice = inv
			return nil
		})
	}

	result.Warnings = out.Dispatch(ctx)
	return result, nil
}

// AcceptByToken es la aceptación desde el enlace público.
func (uc *ProposalUseCase) AcceptByToken(ctx context.Context, token string, in AcceptProposalInput) (*AcceptResult, error) {
	p, err := uc.Proposals.FindByToken(ctx, token)
	if err != nil {
		return nil, fromRepo(err, "Propuesta no encontrada", "Error al buscar propuesta")
	}
	return uc.Accept(ctx, p.ID, in)
}

// Resend reenvía la propuesta al email del lead.
func (uc *ProposalUseCase) Resend(ctx context.Context, id string, userID *string) error {
	p, err := uc.Proposals.FindByID(ctx, id)
	if err != nil {
		return fromRepo(err, "Propuesta no encontrada", "Error al buscar propuesta")
	}
	if p.LeadEmail == "" {
		return validationError("El lead no tiene email")
	}
	return uc.send(ctx, p, p.LeadEmail, userID)
}

// SendByEmail envía la propuesta a una dirección arbitraria.
func (uc *ProposalUseCase) SendByEmail(ctx context.Context, id, to string, userID *string) error {
	if !isValidEmail(to) {
		return validationError("El email no es válido")
	}
	p, err := uc.Proposals.FindByID(ctx, id)
	if err != nil {
		return fromRepo(err, "Propuesta no encontrada", "Error al buscar propuesta")
	}
	return uc.send(ctx, p, to, userID)
}

// send registra siempre exactamente una actividad email_sent, también cuando el envío
// falla; el error del envío se devuelve después de registrarla.
func (uc *ProposalUseCase) send(ctx context.Context, p *entity.Proposal, to string, userID *string) error {
	sendErr := uc.Mailer.SendProposal(ctx, to, p.LeadName, p.Title, uc.PublicURL(p.Token))

	desc := fmt.Sprintf("Propuesta \"%s\" enviada a %s", p.Title, to)
	if sendErr != nil {
		desc = fmt.Sprintf("Fallo al enviar la propuesta \"%s\" a %s", p.Title, to)
		uc.log.Error().Err(sendErr).Str("proposal_id", p.ID).Msg("❌ error al enviar propuesta")
	}
	if err := uc.Activities.Create(ctx, entity.NewActivity(p.LeadID, userID, entity.ActivityEmailSent, desc)); err != nil {
		return internal("Error al registrar actividad", err)
	}
	if sendErr != nil {
		return internal("No se pudo enviar el email", sendErr)
	}
	return nil
}

func (uc *ProposalUseCase) PDF(ctx context.Context, id string) (*entity.Proposal, []byte, error) {
	p, err := uc.Proposals.FindByID(ctx, id)
	if err != nil {
		return nil, nil, fromRepo(err, "Propuesta no encontrada", "Error al buscar propuesta")
	}
	doc, err := uc.Documents.ProposalPDF(p)
	if err != nil {
		return nil, nil, internal("Error al generar PDF", err)
	}
	return p, doc, nil
}

// notifyCreator es best-effort: sólo registra el fallo.
func (uc *ProposalUseCase) notifyCreator(ctx context.Context, p *entity.Proposal, kind, event, title, msg string) {
	if err := uc.notify(ctx, p, kind, event, title, msg); err != nil {
		metrics.RecordEffectFailure(kind)
		uc.log.Warn().Err(err).Str("proposal_id", p.ID).Msg("⚠️ no se pudo notificar al creador")
	}
}

// notify avisa al creador de la propuesta, o al primer administrador si no tiene.
func (uc *ProposalUseCase) notify(ctx context.Context, p *entity.Proposal, kind, event, title, msg string) error {
	recipient := ""
	if p.CreatedBy != nil {
		recipient = *p.CreatedBy
	} else if uc.Users != nil {
		id, err := uc.Users.FirstAdminID(ctx)
		if err != nil {
			return err
		}
		recipient = id
	}
	if recipient == "" {
		return nil
	}

	if _, err := uc.Notifier.Notify(ctx, recipient, kind, title, msg, "/propuestas/"+p.ID); err != nil {
		return err
	}
	if uc.Realtime != nil {
		return uc.Realtime.Publish(ctx, recipient, event, map[string]string{
			"proposal_id": p.ID,
			"status":      p.Status,
		})
	}
	return nil
}
