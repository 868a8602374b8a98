package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type AnalyticsRepository struct {
	DB *sql.DB
}

func NewAnalyticsRepository(db *sql.DB) *AnalyticsRepository {
	return &AnalyticsRepository{DB: db}
}

// Dashboard agrega los contadores globales. La tasa de conversión se calcula
// sobre propuestas enviadas.
func (r *AnalyticsRepository) Dashboard(ctx context.Context) (*entity.Dashboard, error) {
	d := &entity.Dashboard{LeadsByStatus: map[string]int{}}

	rows, err := r.DB.QueryContext(ctx, `SELECT status, COUNT(*) FROM leads GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("error al contar leads: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		d.LeadsByStatus[status] = n
		d.TotalLeads += n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE viewed_at IS NOT NULL),
		       COUNT(*) FILTER (WHERE status = 'accepted')
		FROM proposals
	`).Scan(&d.ProposalsSent, &d.ProposalsViewed, &d.ProposalsAccepted)
	if err != nil {
		return nil, fmt.Errorf("error al contar propuestas: %w", err)
	}
	if d.ProposalsSent > 0 {
		d.ConversionRate = float64(d.ProposalsAccepted) / float64(d.ProposalsSent) * 100
	}

	var paid, pending sql.NullFloat64
	err = r.DB.QueryRowContext(ctx, `
		SELECT SUM(total) FILTER (WHERE status = 'paid'),
		       SUM(total) FILTER (WHERE status IN ('pending', 'overdue'))
		FROM invoices
	`).Scan(&paid, &pending)
	if err != nil {
		return nil, fmt.Errorf("error al sumar facturas: %w", err)
	}
	d.RevenuePaid = paid.Float64
	d.RevenuePending = pending.Float64
	return d, nil
}
