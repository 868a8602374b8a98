package usecase

import (
	"context"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type AnalyticsUseCase struct {
	Analytics AnalyticsRepository
	Hunter    HunterRepository
}

func NewAnalyticsUseCase(analytics AnalyticsRepository, hunter HunterRepository) *AnalyticsUseCase {
	return &AnalyticsUseCase{Analytics: analytics, Hunter: hunter}
}

// Dashboard agrega los totales globales y el uso de Lead Hunter del usuario.
func (uc *AnalyticsUseCase) Dashboard(ctx context.Context, userID string) (*entity.Dashboard, error) {
	d, err := uc.Analytics.Dashboard(ctx)
	if err != nil {
		return nil, internal("Error al calcular el panel", err)
	}
	if uc.Hunter != nil && userID != "" {
		stats, err := uc.Hunter.GetStats(ctx, userID)
		if err != nil {
			return nil, internal("Error al leer estadísticas de Lead Hunter", err)
		}
		d.Hunter = stats
	}
	return d, nil
}
