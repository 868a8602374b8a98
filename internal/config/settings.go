package config

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Settings son los ajustes que un administrador puede cambiar en caliente
// (tabla app_settings). Los servicios los piden en cada uso en vez de guardarlos.
type Settings struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPass     string
	SMTPFrom     string
	AdminEmail   string
	GeminiAPIKey string
	GeminiModel  string
	PlacesAPIKey string
	AutoInvoice  bool
}

// Claves de app_settings.
const (
	KeySMTPHost     = "smtp_host"
	KeySMTPPort     = "smtp_port"
	KeySMTPUser     = "smtp_user"
	KeySMTPPass     = "smtp_pass"
	KeySMTPFrom     = "smtp_from"
	KeyAdminEmail   = "admin_email"
	KeyGeminiAPIKey = "gemini_api_key"
	KeyGeminiModel  = "gemini_model"
	KeyPlacesAPIKey = "google_places_api_key"
	KeyAutoInvoice  = "auto_invoice"
)

var SecretKeys = map[string]bool{
	KeySMTPPass:     true,
	KeyGeminiAPIKey: true,
	KeyPlacesAPIKey: true,
}

var KnownKeys = map[string]bool{
	KeySMTPHost: true, KeySMTPPort: true, KeySMTPUser: true, KeySMTPPass: true,
	KeySMTPFrom: true, KeyAdminEmail: true, KeyGeminiAPIKey: true, KeyGeminiModel: true,
	KeyPlacesAPIKey: true, KeyAutoInvoice: true,
}

type SettingsLoader interface {
	LoadSettings(ctx context.Context) (map[string]string, error)
}

// SettingsProvider mezcla app_settings sobre los valores de entorno y cachea el
// resultado durante ttl.
type SettingsProvider struct {
	loader   SettingsLoader
	defaults Settings
	ttl      time.Duration
	log      zerolog.Logger
	now      func() time.Time

	mu      sync.Mutex
	cached  Settings
	expires time.Time
	loaded  bool
}

func NewSettingsProvider(loader SettingsLoader, defaults Settings, ttl time.Duration, log zerolog.Logger) *SettingsProvider {
	return &SettingsProvider{
		loader:   loader,
		defaults: defaults,
		ttl:      ttl,
		log:      log,
		now:      time.Now,
	}
}

// Get nunca falla: si la base no responde devuelve la última copia buena o, si no
// hay ninguna, los valores de entorno.
func (p *SettingsProvider) Get(ctx context.Context) Settings {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.loaded && p.now().Before(p.expires) {
		return p.cached
	}

	values, err := p.loader.LoadSettings(ctx)
	if err != nil {
		p.log.Warn().Err(err).Msg("no se pudieron leer app_settings, usando la última configuración")
		if p.loaded {
			return p.cached
		}
		return p.defaults
	}

	p.cached = Merge(p.defaults, values)
	p.expires = p.now().Add(p.ttl)
	p.loaded = true
	return p.cached
}

// Invalidate fuerza la recarga en el próximo Get (tras editar ajustes). La copia
// en caché sigue valiendo como respaldo si esa recarga falla.
func (p *SettingsProvider) Invalidate() {
	p.mu.Lock()
	p.expires = time.Time{}
	p.mu.Unlock()
}

// Merge aplica los valores no vacíos de app_settings sobre base.
func Merge(base Settings, values map[string]string) Settings {
	s := base
	str := func(key string, dst *string) {
		if v, ok := values[key]; ok && v != "" {
			*dst = v
		}
	}
	str(KeySMTPHost, &s.SMTPHost)
	str(KeySMTPUser, &s.SMTPUser)
	str(KeySMTPPass, &s.SMTPPass)
	str(KeySMTPFrom, &s.SMTPFrom)
	str(KeyAdminEmail, &s.AdminEmail)
	str(KeyGeminiAPIKey, &s.GeminiAPIKey)
	str(KeyGeminiModel, &s.GeminiModel)
	str(KeyPlacesAPIKey, &s.PlacesAPIKey)

	if v, ok := values[KeySMTPPort]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			s.SMTPPort = n
		}
	}
	if v, ok := values[KeyAutoInvoice]; ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			s.AutoInvoice = b
		}
	}
	return s
}
