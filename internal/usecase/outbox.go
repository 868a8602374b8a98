package usecase

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/xavierca1/ligue-crm/internal/infra/metrics"
)

// Effect es un efecto secundario que se ejecuta después del commit. Su fallo no
// revierte nada: el error va al log y al cliente sólo le llega Warning, un texto
// fijo que puede verlo cualquiera con el enlace público.
type Effect struct {
	Name    string
	Warning string
	Fn      func(context.Context) error
}

// Advertencias que se devuelven al cliente cuando falla un efecto.
const (
	WarnProposalEmail     = "No se pudo enviar el email con la propuesta"
	WarnConfirmationEmail = "No se pudo enviar el email de confirmación"
	WarnAdminNotice       = "No se pudo avisar al administrador por email"
	WarnNotification      = "No se pudo registrar la notificación"
	WarnAutoInvoice       = "No se pudo generar la factura automática"
	WarnWelcomeEmail      = "No se pudo enviar el email de bienvenida"
)

// Outbox acumula efectos best-effort y los despacha en orden.
type Outbox struct {
	effects []Effect
	log     zerolog.Logger
}

func NewOutbox(log zerolog.Logger) *Outbox {
	return &Outbox{log: log}
}

func (o *Outbox) Add(name, warning string, fn func(context.Context) error) {
	o.effects = append(o.effects, Effect{Name: name, Warning: warning, Fn: fn})
}

func (o *Outbox) Len() int {
	return len(o.effects)
}

// Dispatch ejecuta todos los efectos aunque alguno falle y devuelve una advertencia
// por cada fallo.
func (o *Outbox) Dispatch(ctx context.Context) []string {
	var warnings []string
	for _, e := range o.effects {
		if err := e.Fn(ctx); err != nil {
			o.log.Warn().Err(err).Str("effect", e.Name).Msg("⚠️ efecto secundario falló")
			metrics.RecordEffectFailure(e.Name)
			warnings = append(warnings, e.Warning)
		}
	}
	return warnings
}
