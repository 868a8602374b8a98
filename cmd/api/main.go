package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/infra/logging"
	"github.com/xavierca1/ligue-crm/internal/infra/realtime"
	"github.com/xavierca1/ligue-crm/internal/infra/worker"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

const version = "1.0.0"

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, !cfg.IsProduction())

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("❌ el servidor terminó con error")
	}
}

func run(cfg config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Base de datos
	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info().Msg("✅ conectado a PostgreSQL")

	if err := database.Migrate(ctx, db, log); err != nil {
		return err
	}

	// 2. Realtime: RabbitMQ si está disponible, si no entrega local
	hub := realtime.NewHub(log)
	var publisher usecase.RealtimePublisher = hub
	var broker handlers.BrokerStatus

	rabbitMQ, err := realtime.NewRabbitMQ(cfg.RabbitMQURL)
	if err != nil {
		log.Warn().Err(err).Msg("⚠️ RabbitMQ no disponible, realtime sólo en esta instancia")
	} else {
		defer rabbitMQ.Close()
		broker = rabbitMQ
		publisher = realtime.NewPublisher(rabbitMQ.Ch, log)

		consumeCh, err := rabbitMQ.Channel()
		if err != nil {
			return err
		}
		relay := realtime.NewRelay(consumeCh, hub, log)
		go func() {
			if err := relay.Start(ctx); err != nil {
				log.Error().Err(err).Msg("❌ relay realtime detenido")
			}
		}()
	}

	// 3. Casos de uso, handlers y workers
	app, err := newApp(cfg, db, publisher, log)
	if err != nil {
		return err
	}

	overdue := worker.NewInvoiceOverdueWorker(app.invoiceRepo, time.Hour, log)
	go overdue.Start(ctx)

	publicLimiter, hunterLimiter := handlers.DefaultLimiters()
	go publicLimiter.Cleanup(ctx, 10*time.Minute)
	go hunterLimiter.Cleanup(ctx, 10*time.Minute)

	routes := app.routes(hub, db, broker)
	routes.PublicLimiter = publicLimiter
	routes.HunterLimiter = hunterLimiter
	routes.AllowedOrigins = cfg.AllowedOrigins
	routes.Log = log

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.NewRouter(routes),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("🔥 Ligue CRM API escuchando")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("🛑 apagando servidor...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
