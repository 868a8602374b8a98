package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

var leadColumns = columns("name", "email", "phone", "company", "source", "status", "notes", "commercial_id")

const leadSelect = `
	SELECT l.id, l.name, COALESCE(l.email, ''), COALESCE(l.phone, ''), COALESCE(l.company, ''),
	       l.source, l.status, COALESCE(l.notes, ''), l.commercial_id, l.created_by,
	       ARRAY(SELECT t.name FROM lead_tags lt JOIN tags t ON t.id = lt.tag_id
	             WHERE lt.lead_id = l.id ORDER BY t.name) AS tags,
	       l.created_at, l.updated_at
	FROM leads l`

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		if err := insertLead(ctx, tx, lead); err != nil {
			return err
		}
		return attachTags(ctx, tx, lead.ID, lead.Tags)
	})
}

func insertLead(ctx context.Context, q querier, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (id, name, email, phone, company, source, status, notes, commercial_id, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := q.ExecContext(ctx, query,
		lead.ID,
		lead.Name,
		nullString(lead.Email),
		nullString(lead.Phone),
		nullString(lead.Company),
		lead.Source,
		lead.Status,
		nullString(lead.Notes),
		lead.CommercialID,
		lead.CreatedBy,
		lead.CreatedAt,
		lead.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("error al crear lead: %w", err)
	}
	return nil
}

// attachTags crea las etiquetas que falten y las vincula al lead.
func attachTags(ctx context.Context, q querier, leadID string, tags []string) error {
	seen := map[string]bool{}
	for _, name := range tags {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true

		var tagID string
		err := q.QueryRowContext(ctx, `
			INSERT INTO tags (id, name) VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`, uuid.New().String(), name).Scan(&tagID)
		if err != nil {
			return fmt.Errorf("error al crear etiqueta %q: %w", name, err)
		}

		if _, err := q.ExecContext(ctx,
			`INSERT INTO lead_tags (lead_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			leadID, tagID); err != nil {
			return fmt.Errorf("error al etiquetar lead: %w", err)
		}
	}
	return nil
}

func scanLead(row interface{ Scan(...any) error }) (*entity.Lead, error) {
	l := &entity.Lead{}
	var commercialID, createdBy sql.NullString
	var tags pq.StringArray
	err := row.Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.Company, &l.Source, &l.Status, &l.Notes,
		&commercialID, &createdBy, &tags, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	l.CommercialID = stringPtr(commercialID)
	l.CreatedBy = stringPtr(createdBy)
	l.Tags = []string(tags)
	if l.Tags == nil {
		l.Tags = []string{}
	}
	return l, nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	return scanLead(r.DB.QueryRowContext(ctx, leadSelect+` WHERE l.id = $1`, id))
}

func (r *LeadRepository) List(ctx context.Context, f entity.LeadFilter) ([]*entity.Lead, error) {
	var where []string
	var args []any
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("l.status = $%d", len(args)))
	}
	if f.CommercialID != "" {
		args = append(args, f.CommercialID)
		where = append(where, fmt.Sprintf("l.commercial_id = $%d", len(args)))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+strings.ToLower(s)+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(lower(l.name) LIKE $%d OR lower(COALESCE(l.email, '')) LIKE $%d OR lower(COALESCE(l.company, '')) LIKE $%d)", n, n, n))
	}

	query := leadSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, limitOrDefault(f.Limit), f.Offset)
	query += fmt.Sprintf(" ORDER BY l.created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error al listar leads: %w", err)
	}
	defer rows.Close()

	leads := []*entity.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

func (r *LeadRepository) Update(ctx context.Context, id string, patch entity.Patch) error {
	query, args, err := buildUpdate("leads", patch, leadColumns, cond{"id", id})
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error al actualizar lead: %w", err)
	}
	return expectRow(res)
}

// UpdateStatus cambia el estado y registra la actividad en la misma transacción.
func (r *LeadRepository) UpdateStatus(ctx context.Context, id, status string, activity *entity.Activity) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE leads SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
		if err != nil {
			return fmt.Errorf("error al cambiar estado: %w", err)
		}
		if err := expectRow(res); err != nil {
			return err
		}
		return insertActivity(ctx, tx, activity)
	})
}

func (r *LeadRepository) SetTags(ctx context.Context, id string, tags []string) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM lead_tags WHERE lead_id = $1`, id); err != nil {
			return err
		}
		return attachTags(ctx, tx, id, tags)
	})
}

func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error al eliminar lead: %w", err)
	}
	return expectRow(res)
}

func (r *LeadRepository) ListTags(ctx context.Context) ([]entity.Tag, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, name, COALESCE(color, '') FROM tags ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []entity.Tag{}
	for rows.Next() {
		var t entity.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
