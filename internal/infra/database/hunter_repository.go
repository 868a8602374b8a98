package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

var statColumns = columns(
	entity.StatSearches, entity.StatAnalyses, entity.StatDeepAnalyses,
	entity.StatLeadsCreated, entity.StatDemosGenerated,
)

const prospectSelect = `
	SELECT id, user_id, COALESCE(search_id::text, ''), place_id, name, COALESCE(address, ''),
	       COALESCE(phone, ''), COALESCE(website, ''), rating, reviews_count, COALESCE(category, ''),
	       latitude, longitude, COALESCE(maps_url, ''), status, ai_analysis, ai_tags,
	       COALESCE(ai_priority, ''), COALESCE(ai_message, ''), deep_analysis, processed, lead_id,
	       created_at, updated_at
	FROM hunter_prospects`

type HunterRepository struct {
	DB *sql.DB
}

func NewHunterRepository(db *sql.DB) *HunterRepository {
	return &HunterRepository{DB: db}
}

// ---- cuota ----

func (r *HunterRepository) GetAccess(ctx context.Context, userID string) (*entity.HunterAccess, error) {
	a := &entity.HunterAccess{UserID: userID}
	err := r.DB.QueryRowContext(ctx, `
		SELECT hunter_access, hunter_daily_limit, hunter_prospects_today,
		       COALESCE(to_char(hunter_last_reset, 'YYYY-MM-DD'), '')
		FROM users WHERE id = $1
	`, userID).Scan(&a.Enabled, &a.DailyLimit, &a.ProspectsToday, &a.LastResetDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error al leer acceso Lead Hunter: %w", err)
	}
	return a, nil
}

func (r *HunterRepository) ResetDailyCounter(ctx context.Context, userID, today string) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE users SET hunter_prospects_today = 0, hunter_last_reset = $2::date WHERE id = $1
	`, userID, today)
	return err
}

// ConsumeQuota descuenta una unidad sólo si queda cupo, así dos búsquedas
// simultáneas no pasan del límite.
func (r *HunterRepository) ConsumeQuota(ctx context.Context, userID string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE users SET hunter_prospects_today = hunter_prospects_today + 1
		WHERE id = $1 AND hunter_prospects_today < hunter_daily_limit
	`, userID)
	if err != nil {
		return fmt.Errorf("error al descontar cuota: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrQuotaExceeded
	}
	return nil
}

func (r *HunterRepository) UpdateAccess(ctx context.Context, userID string, enabled bool, dailyLimit int) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE users SET hunter_access = $2, hunter_daily_limit = $3, updated_at = NOW() WHERE id = $1
	`, userID, enabled, dailyLimit)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// ---- búsquedas ----

func (r *HunterRepository) CreateSearch(ctx context.Context, s *entity.HunterSearch) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO hunter_searches (id, user_id, query, location, radius, results_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, s.ID, s.UserID, s.Query, nullString(s.Location), s.Radius, s.ResultsCount, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("error al guardar búsqueda: %w", err)
	}
	return nil
}

func (r *HunterRepository) SetSearchResults(ctx context.Context, searchID string, count int) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE hunter_searches SET results_count = $2 WHERE id = $1`, searchID, count)
	return err
}

func (r *HunterRepository) ListSearches(ctx context.Context, userID string, limit int) ([]*entity.HunterSearch, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, query, COALESCE(location, ''), radius, results_count, created_at
		FROM hunter_searches WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2
	`, userID, limitOrDefault(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*entity.HunterSearch{}
	for rows.Next() {
		s := &entity.HunterSearch{}
		if err := rows.Scan(&s.ID, &s.UserID, &s.Query, &s.Location, &s.Radius, &s.ResultsCount, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ---- prospectos ----

// UpsertProspect deduplica por (user_id, place_id): si ya existía se re-vincula a la
// búsqueda nueva y se refrescan los datos del lugar, conservando el análisis.
func (r *HunterRepository) UpsertProspect(ctx context.Context, p *entity.Prospect) error {
	var leadID sql.NullString
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO hunter_prospects (id, user_id, search_id, place_id, name, address, phone, website,
		                              rating, reviews_count, category, latitude, longitude, maps_url,
		                              status, ai_tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (user_id, place_id) DO UPDATE SET
			search_id     = EXCLUDED.search_id,
			name          = EXCLUDED.name,
			address       = EXCLUDED.address,
			phone         = COALESCE(EXCLUDED.phone, hunter_prospects.phone),
			website       = COALESCE(EXCLUDED.website, hunter_prospects.website),
			rating        = EXCLUDED.rating,
			reviews_count = EXCLUDED.reviews_count,
			updated_at    = NOW()
		RETURNING id, status, processed, lead_id, created_at
	`,
		p.ID, p.UserID, nullString(p.SearchID), p.PlaceID, p.Name, nullString(p.Address), nullString(p.Phone),
		nullString(p.Website), p.Rating, p.ReviewsCount, nullString(p.Category), p.Latitude,
		p.Longitude, nullString(p.MapsURL), p.Status, pq.Array(p.AITags), p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID, &p.Status, &p.Processed, &leadID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("error al guardar prospecto: %w", err)
	}
	p.LeadID = stringPtr(leadID)
	return nil
}

func scanProspect(row interface{ Scan(...any) error }) (*entity.Prospect, error) {
	p := &entity.Prospect{}
	var analysis, deep []byte
	var tags pq.StringArray
	var leadID sql.NullString
	err := row.Scan(&p.ID, &p.UserID, &p.SearchID, &p.PlaceID, &p.Name, &p.Address, &p.Phone,
		&p.Website, &p.Rating, &p.ReviewsCount, &p.Category, &p.Latitude, &p.Longitude, &p.MapsURL,
		&p.Status, &analysis, &tags, &p.AIPriority, &p.AIMessage, &deep, &p.Processed, &leadID,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	if len(analysis) > 0 {
		p.AIAnalysis = json.RawMessage(analysis)
	}
	if len(deep) > 0 {
		p.DeepAnalysis = json.RawMessage(deep)
	}
	p.AITags = []string(tags)
	if p.AITags == nil {
		p.AITags = []string{}
	}
	p.LeadID = stringPtr(leadID)
	return p, nil
}

func (r *HunterRepository) FindProspect(ctx context.Context, userID, id string) (*entity.Prospect, error) {
	return scanProspect(r.DB.QueryRowContext(ctx, prospectSelect+` WHERE id = $1 AND user_id = $2`, id, userID))
}

func (r *HunterRepository) ListProspects(ctx context.Context, userID string, f entity.ProspectFilter) ([]*entity.Prospect, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}
	if f.SearchID != "" {
		args = append(args, f.SearchID)
		where = append(where, fmt.Sprintf("search_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	args = append(args, limitOrDefault(f.Limit), f.Offset)
	query := fmt.Sprintf("%s WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		prospectSelect, strings.Join(where, " AND "), len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error al listar prospectos: %w", err)
	}
	defer rows.Close()

	out := []*entity.Prospect{}
	for rows.Next() {
		p, err := scanProspect(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SaveAnalysis guarda el análisis rápido. Un prospecto procesado no vuelve a analyzed.
func (r *HunterRepository) SaveAnalysis(ctx context.Context, id string, a *entity.Analysis) error {
	raw, err := json.Marshal(a)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, `
		UPDATE hunter_prospects
		SET ai_analysis = $2, ai_tags = $3, ai_priority = $4, ai_message = $5,
		    status = CASE WHEN processed THEN status ELSE 'analyzed' END,
		    updated_at = NOW()
		WHERE id = $1
	`, id, raw, pq.Array(a.Tags), a.Priority, a.SuggestedMessage)
	if err != nil {
		return fmt.Errorf("error al guardar análisis: %w", err)
	}
	return expectRow(res)
}

func (r *HunterRepository) SaveDeepAnalysis(ctx context.Context, id string, a *entity.DeepAnalysis) error {
	raw, err := json.Marshal(a)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, `
		UPDATE hunter_prospects
		SET deep_analysis = $2,
		    status = CASE WHEN processed THEN status ELSE 'analyzed' END,
		    updated_at = NOW()
		WHERE id = $1
	`, id, raw)
	if err != nil {
		return fmt.Errorf("error al guardar análisis profundo: %w", err)
	}
	return expectRow(res)
}

// ConvertToLead es la conversión prospecto -> lead en una sola transacción:
// bloquea el prospecto, rechaza si ya fue procesado, crea el lead con sus etiquetas
// (incluida "Lead Hunter"), marca el prospecto y suma la estadística.
func (r *HunterRepository) ConvertToLead(ctx context.Context, userID, prospectID string, lead *entity.Lead, activity *entity.Activity) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		var processed bool
		err := tx.QueryRowContext(ctx, `
			SELECT processed FROM hunter_prospects WHERE id = $1 AND user_id = $2 FOR UPDATE
		`, prospectID, userID).Scan(&processed)
		if errors.Is(err, sql.ErrNoRows) {
			return entity.ErrNotFound
		}
		if err != nil {
			return err
		}
		if processed {
			return entity.ErrProspectAlreadyProcessed
		}

		if err := insertLead(ctx, tx, lead); err != nil {
			return err
		}
		tags := append([]string{entity.LeadHunterTag}, lead.Tags...)
		if err := attachTags(ctx, tx, lead.ID, tags); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE hunter_prospects
			SET processed = TRUE, status = 'processed', lead_id = $2, updated_at = NOW()
			WHERE id = $1
		`, prospectID, lead.ID); err != nil {
			return fmt.Errorf("error al marcar prospecto: %w", err)
		}

		if err := insertActivity(ctx, tx, activity); err != nil {
			return err
		}
		return incrementStat(ctx, tx, userID, entity.StatLeadsCreated)
	})
}

// ---- demos ----

func (r *HunterRepository) CreateDemo(ctx context.Context, d *entity.HunterDemo) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO hunter_demos (id, prospect_id, user_id, token, html, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, d.ID, d.ProspectID, d.UserID, d.Token, d.HTML, d.CreatedAt)
	if err != nil {
		return fmt.Errorf("error al guardar demo: %w", err)
	}
	return nil
}

func (r *HunterRepository) FindDemoByToken(ctx context.Context, token string) (*entity.HunterDemo, error) {
	d := &entity.HunterDemo{}
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, prospect_id, user_id, token, html, created_at FROM hunter_demos WHERE token = $1
	`, token).Scan(&d.ID, &d.ProspectID, &d.UserID, &d.Token, &d.HTML, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// ---- estadísticas ----

func (r *HunterRepository) IncrementStat(ctx context.Context, userID, stat string) error {
	return incrementStat(ctx, r.DB, userID, stat)
}

func incrementStat(ctx context.Context, q querier, userID, stat string) error {
	if !statColumns[stat] {
		return fmt.Errorf("estadística desconocida: %s", stat)
	}
	query := fmt.Sprintf(`
		INSERT INTO hunter_usage_stats (user_id, %[1]s, updated_at) VALUES ($1, 1, NOW())
		ON CONFLICT (user_id) DO UPDATE SET %[1]s = hunter_usage_stats.%[1]s + 1, updated_at = NOW()
	`, stat)
	if _, err := q.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("error al actualizar estadísticas: %w", err)
	}
	return nil
}

func (r *HunterRepository) GetStats(ctx context.Context, userID string) (*entity.HunterStats, error) {
	s := &entity.HunterStats{UserID: userID}
	err := r.DB.QueryRowContext(ctx, `
		SELECT searches, analyses, deep_analyses, leads_created, demos_generated, updated_at
		FROM hunter_usage_stats WHERE user_id = $1
	`, userID).Scan(&s.Searches, &s.Analyses, &s.DeepAnalyses, &s.LeadsCreated, &s.DemosGenerated, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}
