package main

import (
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/infra/auth"
	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/infra/document"
	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/gemini"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/places"
	"github.com/xavierca1/ligue-crm/internal/infra/mail"
	"github.com/xavierca1/ligue-crm/internal/infra/realtime"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// app reúne los casos de uso ya cableados.
type app struct {
	cfg    config.Config
	tokens *auth.JWTManager
	log    zerolog.Logger

	invoiceRepo *database.InvoiceRepository

	users         *usecase.UserUseCase
	leads         *usecase.LeadUseCase
	proposals     *usecase.ProposalUseCase
	invoices      *usecase.InvoiceUseCase
	hunter        *usecase.HunterUseCase
	commercials   *usecase.CommercialUseCase
	notifications *usecase.NotificationUseCase
	tasks         *usecase.TaskUseCase
	analytics     *usecase.AnalyticsUseCase
	settings      *usecase.SettingsUseCase
}

func newApp(cfg config.Config, db *sql.DB, publisher usecase.RealtimePublisher, log zerolog.Logger) (*app, error) {
	// 1. Repositorios
	userRepo := database.NewUserRepository(db)
	leadRepo := database.NewLeadRepository(db)
	activityRepo := database.NewActivityRepository(db)
	proposalRepo := database.NewProposalRepository(db)
	invoiceRepo := database.NewInvoiceRepository(db)
	hunterRepo := database.NewHunterRepository(db)
	notificationRepo := database.NewNotificationRepository(db)
	commercialRepo := database.NewCommercialRepository(db)
	taskRepo := database.NewTaskRepository(db)
	calendarRepo := database.NewCalendarRepository(db)
	analyticsRepo := database.NewAnalyticsRepository(db)
	settingsRepo := database.NewSettingsRepository(db)

	// 2. Ajustes y adaptadores externos
	settings := config.NewSettingsProvider(settingsRepo, cfg.Defaults, cfg.SettingsTTL, log)
	mailer := mail.NewEmailSender(settings, log)
	renderer := document.NewRenderer("Ligue")
	hasher := auth.NewBcryptHasher()
	tokens := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	placesClient := places.NewClient(settings, places.DefaultBaseURL)

	prompts, err := gemini.LoadPrompts()
	if err != nil {
		return nil, err
	}
	analyzer := gemini.NewAnalyzer(gemini.NewClient(settings), prompts)

	// 3. Casos de uso
	notifications := usecase.NewNotificationUseCase(notificationRepo, publisher, log)
	invoices := usecase.NewInvoiceUseCase(invoiceRepo, leadRepo, mailer, notifications, renderer,
		cfg.FrontendURL, cfg.PublicAPIURL, log)

	return &app{
		cfg:         cfg,
		tokens:      tokens,
		log:         log,
		invoiceRepo: invoiceRepo,

		users: usecase.NewUserUseCase(userRepo, hasher, tokens, mailer, cfg.FrontendURL, log),
		leads: usecase.NewLeadUseCase(leadRepo, activityRepo, commercialRepo, userRepo,
			notifications, renderer, log),
		proposals: usecase.NewProposalUseCase(proposalRepo, leadRepo, activityRepo, userRepo,
			invoices, mailer, notifications, publisher, settings, renderer, cfg.FrontendURL, log),
		invoices:      invoices,
		hunter:        usecase.NewHunterUseCase(hunterRepo, placesClient, analyzer, log),
		commercials:   usecase.NewCommercialUseCase(commercialRepo, hasher, renderer, cfg.FrontendURL, log),
		notifications: notifications,
		tasks:         usecase.NewTaskUseCase(taskRepo, calendarRepo),
		analytics:     usecase.NewAnalyticsUseCase(analyticsRepo, hunterRepo),
		settings:      usecase.NewSettingsUseCase(settingsRepo, settings),
	}, nil
}

// routes construye los handlers HTTP; el llamador completa limitadores y CORS.
func (a *app) routes(hub *realtime.Hub, db *sql.DB, broker handlers.BrokerStatus) handlers.Routes {
	return handlers.Routes{
		Leads:         handlers.NewLeadHandler(a.leads, a.log),
		Proposals:     handlers.NewProposalHandler(a.proposals, a.log),
		Invoices:      handlers.NewInvoiceHandler(a.invoices, a.log),
		Hunter:        handlers.NewHunterHandler(a.hunter, a.cfg.PublicAPIURL, a.log),
		Users:         handlers.NewUserHandler(a.users, a.log),
		Commercials:   handlers.NewCommercialHandler(a.commercials, a.log),
		Notifications: handlers.NewNotificationHandler(a.notifications, a.log),
		Tasks:         handlers.NewTaskHandler(a.tasks, a.log),
		Admin:         handlers.NewAdminHandler(a.analytics, a.settings, a.log),
		Events:        handlers.NewEventsHandler(hub, a.log),
		Health:        handlers.NewHealthHandler(db, broker, version),
		Tokens:        a.tokens,
	}
}
