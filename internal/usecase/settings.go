package usecase

import (
	"context"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/config"
)

const maskedSecret = "********"

type SettingsUseCase struct {
	Store    SettingsStore
	Provider SettingsSource
}

func NewSettingsUseCase(store SettingsStore, provider SettingsSource) *SettingsUseCase {
	return &SettingsUseCase{Store: store, Provider: provider}
}

// Get devuelve los valores guardados con los secretos enmascarados.
func (uc *SettingsUseCase) Get(ctx context.Context) (map[string]string, error) {
	values, err := uc.Store.LoadSettings(ctx)
	if err != nil {
		return nil, internal("Error al leer ajustes", err)
	}
	out := make(map[string]string, len(values))
	for k, v := range values {
		if config.SecretKeys[k] && v != "" {
			v = maskedSecret
		}
		out[k] = v
	}
	return out, nil
}

// Save ignora los secretos que vuelven enmascarados e invalida la caché.
func (uc *SettingsUseCase) Save(ctx context.Context, values map[string]string) error {
	clean := make(map[string]string, len(values))
	for k, v := range values {
		if !config.KnownKeys[k] {
			return validationError("Ajuste desconocido: " + k)
		}
		if config.SecretKeys[k] && v == maskedSecret {
			continue
		}
		clean[k] = strings.TrimSpace(v)
	}
	if len(clean) == 0 {
		return nil
	}
	if err := uc.Store.SaveSettings(ctx, clean); err != nil {
		return internal("Error al guardar ajustes", err)
	}
	uc.Provider.Invalidate()
	return nil
}
