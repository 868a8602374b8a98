package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// OverdueMarker lo cumple *database.InvoiceRepository.
type OverdueMarker interface {
	MarkOverdue(ctx context.Context) ([]string, error)
}

// InvoiceOverdueWorker pasa a "overdue" las facturas pendientes ya vencidas.
type InvoiceOverdueWorker struct {
	invoices     OverdueMarker
	tickInterval time.Duration
	log          zerolog.Logger
}

func NewInvoiceOverdueWorker(invoices OverdueMarker, tickInterval time.Duration, log zerolog.Logger) *InvoiceOverdueWorker {
	if tickInterval <= 0 {
		tickInterval = time.Hour
	}
	return &InvoiceOverdueWorker{
		invoices:     invoices,
		tickInterval: tickInterval,
		log:          log,
	}
}

func (w *InvoiceOverdueWorker) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.tickInterval).Msg("🕒 worker de facturas vencidas iniciado")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.markOverdue(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("⚠️ worker de facturas vencidas detenido")
			return
		case <-ticker.C:
			w.markOverdue(ctx)
		}
	}
}

func (w *InvoiceOverdueWorker) markOverdue(ctx context.Context) int {
	numbers, err := w.invoices.MarkOverdue(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("❌ error al marcar facturas vencidas")
		return 0
	}
	for _, n := range numbers {
		w.log.Info().Str("invoice", n).Msg("⏱️ factura vencida")
	}
	if len(numbers) > 0 {
		w.log.Info().Int("count", len(numbers)).Msg("✅ facturas marcadas como overdue")
	}
	return len(numbers)
}
