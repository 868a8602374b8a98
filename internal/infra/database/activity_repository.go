package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type ActivityRepository struct {
	DB *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

func (r *ActivityRepository) Create(ctx context.Context, a *entity.Activity) error {
	return insertActivity(ctx, r.DB, a)
}

func insertActivity(ctx context.Context, q querier, a *entity.Activity) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO activities (id, lead_id, user_id, type, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, a.ID, a.LeadID, a.UserID, a.Type, a.Description, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("error al registrar actividad: %w", err)
	}
	return nil
}

func (r *ActivityRepository) ListByLead(ctx context.Context, leadID string) ([]*entity.Activity, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, lead_id, user_id, type, description, created_at
		FROM activities WHERE lead_id = $1 ORDER BY created_at DESC
	`, leadID)
	if err != nil {
		return nil, fmt.Errorf("error al listar actividades: %w", err)
	}
	defer rows.Close()

	out := []*entity.Activity{}
	for rows.Next() {
		a := &entity.Activity{}
		var userID sql.NullString
		if err := rows.Scan(&a.ID, &a.LeadID, &userID, &a.Type, &a.Description, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.UserID = stringPtr(userID)
		out = append(out, a)
	}
	return out, rows.Err()
}
