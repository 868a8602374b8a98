package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

type LeadUseCase struct {
	Leads       LeadRepository
	Activities  ActivityRepository
	Commercials CommercialRepository
	Users       UserRepository
	Notifier    Notifier
	Documents   DocumentRenderer
	log         zerolog.Logger
}

func NewLeadUseCase(
	leads LeadRepository,
	activities ActivityRepository,
	commercials CommercialRepository,
	users UserRepository,
	notifier Notifier,
	documents DocumentRenderer,
	log zerolog.Logger,
) *LeadUseCase {
	return &LeadUseCase{
		Leads:       leads,
		Activities:  activities,
		Commercials: commercials,
		Users:       users,
		Notifier:    notifier,
		Documents:   documents,
		log:         log,
	}
}

func (uc *LeadUseCase) Create(ctx context.Context, in CreateLeadInput, userID *string) (*entity.Lead, error) {
	if err := validationFailed(ValidateCreateLeadInput(in)); err != nil {
		return nil, err
	}
	if err := uc.checkCommercial(ctx, in.CommercialID); err != nil {
		return nil, err
	}
	lead := entity.NewLead(strings.TrimSpace(in.Name), normalizeEmail(in.Email), in.Phone, in.Company, in.Source)
	lead.Notes = in.Notes
	lead.CommercialID = in.CommercialID
	lead.CreatedBy = userID
	if in.Tags != nil {
		lead.Tags = in.Tags
	}

	if err := uc.Leads.Create(ctx, lead); err != nil {
		return nil, internal("Error al crear lead", err)
	}
	uc.logActivity(ctx, entity.NewActivity(lead.ID, userID, entity.ActivityLeadCreated, "Lead creado"))
	return lead, nil
}

// Capture es el formulario público. Con un código de referido válido el lead queda
// asignado al comercial; un código desconocido no bloquea la captura.
func (uc *LeadUseCase) Capture(ctx context.Context, in CaptureLeadInput) (*entity.Lead, error) {
	if err := validationFailed(ValidateCaptureLeadInput(in)); err != nil {
		return nil, err
	}

	source := entity.LeadSourceWeb
	var commercial *entity.Commercial
	if code := strings.TrimSpace(in.ReferralCode); code != "" {
		c, err := uc.Commercials.FindByReferralCode(ctx, code)
		switch {
		case err == nil:
			commercial = c
			source = entity.LeadSourceReferral
		case errors.Is(err, entity.ErrNotFound):
			uc.log.Warn().Str("code", code).Msg("⚠️ código de referido desconocido")
		default:
			return nil, internal("Error al validar el código de referido", err)
		}
	}

	lead := entity.NewLead(strings.TrimSpace(in.Name), normalizeEmail(in.Email), in.Phone, in.Company, source)
	lead.Notes = in.Message
	if commercial != nil {
		lead.CommercialID = &commercial.ID
	}
	if err := uc.Leads.Create(ctx, lead); err != nil {
		return nil, internal("Error al registrar el contacto", err)
	}
	uc.logActivity(ctx, entity.NewActivity(lead.ID, nil, entity.ActivityLeadCreated, "Lead capturado desde el formulario web"))

	recipient := ""
	if commercial != nil {
		recipient = commercial.UserID
	} else if id, err := uc.Users.FirstAdminID(ctx); err == nil {
		recipient = id
	}
	if recipient != "" {
		if _, err := uc.Notifier.Notify(ctx, recipient, entity.NotificationLeadCaptured, "Nuevo lead",
			fmt.Sprintf("%s dejó sus datos en el formulario", lead.Name), "/leads/"+lead.ID); err != nil {
			uc.log.Warn().Err(err).Msg("⚠️ no se pudo notificar el nuevo lead")
		}
	}
	return lead, nil
}

func (uc *LeadUseCase) Get(ctx context.Context, id string) (*LeadDetail, error) {
	lead, err := uc.Leads.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "Lead no encontrado", "Error al buscar lead")
	}
	acts, err := uc.Activities.ListByLead(ctx, id)
	if err != nil {
		return nil, internal("Error al leer actividades", err)
	}
	return &LeadDetail{Lead: lead, Activities: acts}, nil
}

func (uc *LeadUseCase) List(ctx context.Context, f entity.LeadFilter) ([]*entity.Lead, error) {
	if f.Status != "" && !entity.ValidLeadStatus(f.Status) {
		return nil, validationError("Estado de lead inválido")
	}
	list, err := uc.Leads.List(ctx, f)
	if err != nil {
		return nil, internal("Error al listar leads", err)
	}
	return list, nil
}

func (uc *LeadUseCase) Update(ctx context.Context, id string, in UpdateLeadInput) (*entity.Lead, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, validationError("El nombre es obligatorio")
	}
	if in.Email != nil && *in.Email != "" && !isValidEmail(*in.Email) {
		return nil, validationError("El email no es válido")
	}

	patch := entity.Patch{}
	entity.Set(patch, "name", in.Name)
	entity.Set(patch, "email", in.Email)
	entity.Set(patch, "phone", in.Phone)
	entity.Set(patch, "company", in.Company)
	entity.Set(patch, "source", in.Source)
	entity.Set(patch, "notes", in.Notes)
	if in.CommercialID != nil {
		// "" desasigna el comercial
		if *in.CommercialID == "" {
			patch["commercial_id"] = nil
		} else {
			patch["commercial_id"] = *in.CommercialID
		}
	}

	if patch.Empty() && in.Tags == nil {
		return nil, validationError("No hay campos para actualizar")
	}
	if _, err := uc.Leads.FindByID(ctx, id); err != nil {
		return nil, fromRepo(err, "Lead no encontrado", "Error al buscar lead")
	}
	if err := uc.checkCommercial(ctx, in.CommercialID); err != nil {
		return nil, err
	}
	if !patch.Empty() {
		if err := uc.Leads.Update(ctx, id, patch); err != nil {
			return nil, fromRepo(err, "Lead no encontrado", "Error al actualizar lead")
		}
	}
	if in.Tags != nil {
		if err := uc.Leads.SetTags(ctx, id, *in.Tags); err != nil {
			return nil, internal("Error al actualizar etiquetas", err)
		}
	}

	lead, err := uc.Leads.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "Lead no encontrado", "Error al buscar lead")
	}
	return lead, nil
}

// checkCommercial valida que el comercial asignado exista; nil o "" no asignan.
func (uc *LeadUseCase) checkCommercial(ctx context.Context, id *string) error {
	if id == nil || *id == "" {
		return nil
	}
	if _, err := uc.Commercials.FindByID(ctx, *id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return &DomainError{Code: CodeValidation, Message: "El comercial asignado no existe", Err: err}
		}
		return internal("Error al buscar comercial", err)
	}
	return nil
}

func (uc *LeadUseCase) UpdateStatus(ctx context.Context, id, status string, userID *string) (*entity.Lead, error) {
	if !entity.ValidLeadStatus(status) {
		return nil, validationError("Estado de lead inválido")
	}
	lead, err := uc.Leads.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "Lead no encontrado", "Error al buscar lead")
	}
	if lead.Status == status {
		return lead, nil
	}

	activity := entity.NewActivity(id, userID, entity.ActivityStatusChange,
		fmt.Sprintf("Estado cambiado de %s a %s", lead.Status, status))
	if err := uc.Leads.UpdateStatus(ctx, id, status, activity); err != nil {
		return nil, fromRepo(err, "Lead no encontrado", "Error al cambiar el estado")
	}
	lead.Status = status
	return lead, nil
}

func (uc *LeadUseCase) AddNote(ctx context.Context, id, note string, userID *string) (*entity.Activity, error) {
	if strings.TrimSpace(note) == "" {
		return nil, validationError("La nota es obligatoria")
	}
	if _, err := uc.Leads.FindByID(ctx, id); err != nil {
		return nil, fromRepo(err, "Lead no encontrado", "Error al buscar lead")
	}
	a := entity.NewActivity(id, userID, entity.ActivityNote, strings.TrimSpace(note))
	if err := uc.Activities.Create(ctx, a); err != nil {
		return nil, internal("Error al guardar la nota", err)
	}
	return a, nil
}

func (uc *LeadUseCase) ListActivities(ctx context.Context, id string) ([]*entity.Activity, error) {
	acts, err := uc.Activities.ListByLead(ctx, id)
	if err != nil {
		return nil, internal("Error al leer actividades", err)
	}
	return acts, nil
}

func (uc *LeadUseCase) ListTags(ctx context.Context) ([]entity.Tag, error) {
	tags, err := uc.Leads.ListTags(ctx)
	if err != nil {
		return nil, internal("Error al listar etiquetas", err)
	}
	return tags, nil
}

func (uc *LeadUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.Leads.Delete(ctx, id); err != nil {
		return fromRepo(err, "Lead no encontrado", "Error al eliminar lead")
	}
	return nil
}

func (uc *LeadUseCase) ExportExcel(ctx context.Context, f entity.LeadFilter) ([]byte, error) {
	f.Limit = 500
	leads, err := uc.List(ctx, f)
	if err != nil {
		return nil, err
	}
	doc, err := uc.Documents.LeadsExcel(leads)
	if err != nil {
		return nil, internal("Error al generar el Excel", err)
	}
	return doc, nil
}

func (uc *LeadUseCase) logActivity(ctx context.Context, a *entity.Activity) {
	if err := uc.Activities.Create(ctx, a); err != nil {
		uc.log.Warn().Err(err).Str("lead_id", a.LeadID).Msg("⚠️ no se pudo registrar la actividad")
	}
}
