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

const dateLayout = "2006-01-02"

const (
	msgNoHunterAccess   = "No tienes acceso a Lead Hunter"
	msgAlreadyProcessed = "Este prospecto ya fue convertido en lead"
)

// HunterUseCase orquesta búsqueda, análisis IA y conversión a lead bajo una cuota diaria.
type HunterUseCase struct {
	Repo     HunterRepository
	Places   PlaceSearcher
	Analyzer ProspectAnalyzer

	// Now es inyectable para probar el reinicio diario de la cuota.
	Now func() time.Time
	log zerolog.Logger
}

func NewHunterUseCase(repo HunterRepository, places PlaceSearcher, analyzer ProspectAnalyzer, log zerolog.Logger) *HunterUseCase {
	return &HunterUseCase{
		Repo:     repo,
		Places:   places,
		Analyzer: analyzer,
		Now:      time.Now,
		log:      log,
	}
}

// CheckUserAccess reinicia el contador si cambió el día y valida acceso y cuota.
func (uc *HunterUseCase) CheckUserAccess(ctx context.Context, userID string) (*entity.HunterAccess, error) {
	access, err := uc.Repo.GetAccess(ctx, userID)
	if err != nil {
		return nil, fromRepo(err, "Usuario no encontrado", "Error al verificar acceso")
	}

	today := uc.Now().UTC().Format(dateLayout)
	if access.LastResetDate != today {
		if err := uc.Repo.ResetDailyCounter(ctx, userID, today); err != nil {
			return nil, internal("Error al reiniciar la cuota", err)
		}
		access.ProspectsToday = 0
		access.LastResetDate = today
	}

	if !access.Enabled {
		return nil, accessDenied(msgNoHunterAccess)
	}
	if access.ProspectsToday >= access.DailyLimit {
		return nil, quotaExceeded(quotaMessage(access.DailyLimit))
	}
	return access, nil
}

func quotaMessage(limit int) string {
	return fmt.Sprintf("Has alcanzado tu límite diario de %d búsquedas. Vuelve a intentarlo mañana.", limit)
}

// SearchProspects consume una unidad de cuota por búsqueda, no por resultado. Si la
// búsqueda externa falla no se descuenta.
func (uc *HunterUseCase) SearchProspects(ctx context.Context, userID string, in SearchInput) (*SearchOutput, error) {
	if strings.TrimSpace(in.Query) == "" {
		return nil, validationError("La búsqueda es obligatoria")
	}
	if in.Radius < 0 {
		return nil, validationError("El radio no puede ser negativo")
	}

	access, err := uc.CheckUserAccess(ctx, userID)
	if err != nil {
		return nil, err
	}

	search := entity.NewHunterSearch(userID, strings.TrimSpace(in.Query), strings.TrimSpace(in.Location), in.Radius)
	if err := uc.Repo.CreateSearch(ctx, search); err != nil {
		return nil, internal("Error al guardar la búsqueda", err)
	}

	places, err := uc.Places.Search(ctx, search.Query, search.Location, search.Radius)
	if err != nil {
		metrics.RecordIntegrationError("places")
		uc.log.Error().Err(err).Str("query", search.Query).Msg("❌ error en la búsqueda de lugares")
		return nil, internal("Error al buscar lugares", err)
	}

	prospects := make([]*entity.Prospect, 0, len(places))
	for _, place := range places {
		if place.PlaceID == "" {
			continue
		}
		p := entity.NewProspect(userID, search.ID, place)
		if err := uc.Repo.UpsertProspect(ctx, p); err != nil {
			return nil, internal("Error al guardar prospectos", err)
		}
		prospects = append(prospects, p)
	}

	search.ResultsCount = len(prospects)
	if err := uc.Repo.SetSearchResults(ctx, search.ID, search.ResultsCount); err != nil {
		return nil, internal("Error al guardar la búsqueda", err)
	}
	if err := uc.Repo.ConsumeQuota(ctx, userID); err != nil {
		if errors.Is(err, entity.ErrQuotaExceeded) {
			return nil, quotaExceeded(quotaMessage(access.DailyLimit))
		}
		return nil, internal("Error al descontar la cuota", err)
	}
	uc.bumpStat(ctx, userID, entity.StatSearches)
	metrics.RecordHunter("search")

	uc.log.Info().Str("user_id", userID).Str("query", search.Query).Int("results", search.ResultsCount).
		Msg("🔎 búsqueda Lead Hunter")

	return &SearchOutput{
		Search:    search,
		Prospects: prospects,
		Remaining: access.Remaining() - 1,
	}, nil
}

func (uc *HunterUseCase) AnalyzeProspect(ctx context.Context, userID, prospectID string) (*entity.Prospect, error) {
	p, err := uc.findProspect(ctx, userID, prospectID)
	if err != nil {
		return nil, err
	}
	analysis, err := uc.Analyzer.Analyze(ctx, p)
	if err != nil {
		metrics.RecordIntegrationError("gemini")
		return nil, internal("Error al analizar el prospecto", err)
	}
	if err := uc.Repo.SaveAnalysis(ctx, p.ID, analysis); err != nil {
		return nil, internal("Error al guardar el análisis", err)
	}
	uc.bumpStat(ctx, userID, entity.StatAnalyses)
	metrics.RecordHunter("analysis")
	return uc.findProspect(ctx, userID, prospectID)
}

func (uc *HunterUseCase) DeepAnalyzeProspect(ctx context.Context, userID, prospectID string) (*entity.Prospect, error) {
	p, err := uc.findProspect(ctx, userID, prospectID)
	if err != nil {
		return nil, err
	}
	analysis, err := uc.Analyzer.DeepAnalyze(ctx, p)
	if err != nil {
		metrics.RecordIntegrationError("gemini")
		return nil, internal("Error al analizar el prospecto", err)
	}
	if err := uc.Repo.SaveDeepAnalysis(ctx, p.ID, analysis); err != nil {
		return nil, internal("Error al guardar el análisis", err)
	}
	uc.bumpStat(ctx, userID, entity.StatDeepAnalyses)
	metrics.RecordHunter("deep_analysis")
	return uc.findProspect(ctx, userID, prospectID)
}

// ProcessProspectToLead convierte el prospecto en lead una sola vez.
func (uc *HunterUseCase) ProcessProspectToLead(ctx context.Context, userID, prospectID string) (*entity.Lead, error) {
	p, err := uc.findProspect(ctx, userID, prospectID)
	if err != nil {
		return nil, err
	}
	if p.Processed {
		return nil, validationError(msgAlreadyProcessed)
	}

	lead := entity.NewLead(p.Name, "", p.Phone, p.Name, entity.LeadSourceLeadHunter)
	lead.CreatedBy = &userID
	lead.Notes = prospectNotes(p)
	lead.Tags = append([]string{}, p.AITags...)

	uid := userID
	activity := entity.NewActivity(lead.ID, &uid, entity.ActivityLeadCreated, "Lead creado desde Lead Hunter")

	err = uc.Repo.ConvertToLead(ctx, userID, p.ID, lead, activity)
	switch {
	case errors.Is(err, entity.ErrProspectAlreadyProcessed):
		return nil, &DomainError{Code: CodeValidation, Message: msgAlreadyProcessed, Err: err}
	case err != nil:
		return nil, fromRepo(err, "Prospecto no encontrado", "Error al convertir el prospecto")
	}

	lead.Tags = append([]string{entity.LeadHunterTag}, lead.Tags...)
	metrics.RecordHunter("conversion")
	uc.log.Info().Str("prospect_id", p.ID).Str("lead_id", lead.ID).Msg("🎯 prospecto convertido en lead")
	return lead, nil
}

func (uc *HunterUseCase) GenerateDemo(ctx context.Context, userID, prospectID string) (*entity.HunterDemo, error) {
	p, err := uc.findProspect(ctx, userID, prospectID)
	if err != nil {
		return nil, err
	}
	html, err := uc.Analyzer.GenerateDemo(ctx, p)
	if err != nil {
		metrics.RecordIntegrationError("gemini")
		return nil, internal("Error al generar la demo", err)
	}
	token, err := entity.NewToken()
	if err != nil {
		return nil, internal("Error al generar token", err)
	}

	demo := &entity.HunterDemo{
		ID:         uuid.New().String(),
		ProspectID: p.ID,
		UserID:     userID,
		Token:      token,
		HTML:       html,
		CreatedAt:  uc.Now(),
	}
	if err := uc.Repo.CreateDemo(ctx, demo); err != nil {
		return nil, internal("Error al guardar la demo", err)
	}
	uc.bumpStat(ctx, userID, entity.StatDemosGenerated)
	metrics.RecordHunter("demo")
	return demo, nil
}

func (uc *HunterUseCase) GetDemo(ctx context.Context, token string) (*entity.HunterDemo, error) {
	d, err := uc.Repo.FindDemoByToken(ctx, token)
	if err != nil {
		return nil, fromRepo(err, "Demo no encontrada", "Error al buscar demo")
	}
	return d, nil
}

func (uc *HunterUseCase) ListSearches(ctx context.Context, userID string, limit int) ([]*entity.HunterSearch, error) {
	list, err := uc.Repo.ListSearches(ctx, userID, limit)
	if err != nil {
		return nil, internal("Error al listar búsquedas", err)
	}
	return list, nil
}

func (uc *HunterUseCase) ListProspects(ctx context.Context, userID string, f entity.ProspectFilter) ([]*entity.Prospect, error) {
	list, err := uc.Repo.ListProspects(ctx, userID, f)
	if err != nil {
		return nil, internal("Error al listar prospectos", err)
	}
	return list, nil
}

func (uc *HunterUseCase) GetProspect(ctx context.Context, userID, id string) (*entity.Prospect, error) {
	return uc.findProspect(ctx, userID, id)
}

func (uc *HunterUseCase) Stats(ctx context.Context, userID string) (*entity.HunterStats, error) {
	s, err := uc.Repo.GetStats(ctx, userID)
	if err != nil {
		return nil, internal("Error al leer estadísticas", err)
	}
	return s, nil
}

// Access devuelve la cuota del usuario sin exigir que tenga acceso.
func (uc *HunterUseCase) Access(ctx context.Context, userID string) (*entity.HunterAccess, error) {
	a, err := uc.Repo.GetAccess(ctx, userID)
	if err != nil {
		return nil, fromRepo(err, "Usuario no encontrado", "Error al leer la cuota")
	}
	if a.LastResetDate != uc.Now().UTC().Format(dateLayout) {
		a.ProspectsToday = 0
	}
	return a, nil
}

func (uc *HunterUseCase) UpdateAccess(ctx context.Context, userID string, in HunterAccessInput) error {
	if in.DailyLimit < 0 {
		return validationError("El límite diario no puede ser negativo")
	}
	limit := in.DailyLimit
	if limit == 0 {
		limit = entity.DefaultHunterDailyLimit
	}
	if err := uc.Repo.UpdateAccess(ctx, userID, in.Enabled, limit); err != nil {
		return fromRepo(err, "Usuario no encontrado", "Error al actualizar acceso")
	}
	return nil
}

func (uc *HunterUseCase) findProspect(ctx context.Context, userID, id string) (*entity.Prospect, error) {
	p, err := uc.Repo.FindProspect(ctx, userID, id)
	if err != nil {
		return nil, fromRepo(err, "Prospecto no encontrado", "Error al buscar prospecto")
	}
	return p, nil
}

// bumpStat no interrumpe la operación si falla.
func (uc *HunterUseCase) bumpStat(ctx context.Context, userID, stat string) {
	if err := uc.Repo.IncrementStat(ctx, userID, stat); err != nil {
		uc.log.Warn().Err(err).Str("stat", stat).Msg("⚠️ no se pudo actualizar la estadística")
	}
}

func prospectNotes(p *entity.Prospect) string {
	var b strings.Builder
	if p.Address != "" {
		fmt.Fprintf(&b, "Dirección: %s\n", p.Address)
	}
	if p.Website != "" {
		fmt.Fprintf(&b, "Web: %s\n", p.Website)
	}
	if p.Rating > 0 {
		fmt.Fprintf(&b, "Valoración: %.1f (%d reseñas)\n", p.Rating, p.ReviewsCount)
	}
	if p.AIMessage != "" {
		fmt.Fprintf(&b, "Mensaje sugerido: %s\n", p.AIMessage)
	}
	return strings.TrimSpace(b.String())
}
