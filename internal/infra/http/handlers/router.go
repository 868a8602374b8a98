package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
)

// Routes agrupa todo lo que necesita el router.
type Routes struct {
	Leads         *LeadHandler
	Proposals     *ProposalHandler
	Invoices      *InvoiceHandler
	Hunter        *HunterHandler
	Users         *UserHandler
	Commercials   *CommercialHandler
	Notifications *NotificationHandler
	Tasks         *TaskHandler
	Admin         *AdminHandler
	Events        *EventsHandler
	Health        *HealthHandler

	Tokens         middleware.TokenParser
	PublicLimiter  *middleware.RateLimiter
	HunterLimiter  *middleware.RateLimiter
	AllowedOrigins []string
	Log            zerolog.Logger
}

func NewRouter(rt Routes) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(rt.Log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", rt.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// rutas públicas: el token opaco es el único control de acceso
		r.Route("/public", func(r chi.Router) {
			// el píxel va fuera del limitador para no perder aperturas
			r.Get("/invoices/{token}/pixel.gif", rt.Invoices.Pixel)

			r.Group(func(r chi.Router) {
				r.Use(rt.PublicLimiter.Handler)
				r.Post("/leads", rt.Leads.Capture)
				r.Get("/proposals/{token}", rt.Proposals.PublicGet)
				r.Get("/proposals/{token}/pdf", rt.Proposals.PublicPDF)
				r.Post("/proposals/{token}/comments", rt.Proposals.PublicComment)
				r.Post("/proposals/{token}/accept", rt.Proposals.PublicAccept)
				r.Get("/invoices/{token}", rt.Invoices.PublicGet)
				r.Get("/invoices/{token}/pdf", rt.Invoices.PublicPDF)
				r.Get("/demos/{token}", rt.Hunter.PublicDemo)
			})
		})

		r.With(rt.PublicLimiter.Handler).Post("/auth/login", rt.Users.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(rt.Tokens))

			r.Get("/auth/me", rt.Users.Me)
			r.Get("/events", rt.Events.Stream)

			r.Route("/leads", func(r chi.Router) {
				r.Get("/", rt.Leads.List)
				r.Post("/", rt.Leads.Create)
				r.Get("/tags", rt.Leads.Tags)
				r.Get("/export", rt.Leads.Export)
				r.Get("/{id}", rt.Leads.Get)
				r.Put("/{id}", rt.Leads.Update)
				r.Patch("/{id}/status", rt.Leads.UpdateStatus)
				r.Post("/{id}/notes", rt.Leads.AddNote)
				r.Get("/{id}/activities", rt.Leads.Activities)
				r.Delete("/{id}", rt.Leads.Delete)
			})

			r.Route("/proposals", func(r chi.Router) {
				r.Get("/", rt.Proposals.List)
				r.Post("/", rt.Proposals.Create)
				r.Get("/{id}", rt.Proposals.Get)
				r.Delete("/{id}", rt.Proposals.Delete)
				r.Post("/{id}/accept", rt.Proposals.Accept)
				r.Post("/{id}/resend", rt.Proposals.Resend)
				r.Post("/{id}/send", rt.Proposals.Send)
				r.Get("/{id}/pdf", rt.Proposals.PDF)
			})

			r.Route("/invoices", func(r chi.Router) {
				r.Get("/", rt.Invoices.List)
				r.Post("/", rt.Invoices.Create)
				r.Get("/{id}", rt.Invoices.Get)
				r.Post("/{id}/pay", rt.Invoices.MarkPaid)
				r.Post("/{id}/cancel", rt.Invoices.Cancel)
				r.Post("/{id}/send", rt.Invoices.Send)
				r.Get("/{id}/pdf", rt.Invoices.PDF)
				r.Delete("/{id}", rt.Invoices.Delete)
			})

			r.Route("/hunter", func(r chi.Router) {
				r.Get("/access", rt.Hunter.Access)
				r.Get("/stats", rt.Hunter.Stats)
				r.Get("/searches", rt.Hunter.Searches)
				r.Get("/prospects", rt.Hunter.Prospects)
				r.Get("/prospects/{id}", rt.Hunter.Prospect)
				r.Group(func(r chi.Router) {
					r.Use(rt.HunterLimiter.Handler)
					r.Post("/search", rt.Hunter.Search)
					r.Post("/prospects/{id}/analyze", rt.Hunter.Analyze)
					r.Post("/prospects/{id}/deep-analyze", rt.Hunter.DeepAnalyze)
					r.Post("/prospects/{id}/convert", rt.Hunter.Convert)
					r.Post("/prospects/{id}/demo", rt.Hunter.Demo)
				})
				r.With(middleware.RequireRole(entity.RoleAdmin)).Put("/access/{userID}", rt.Hunter.UpdateAccess)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", rt.Notifications.List)
				r.Get("/unread-count", rt.Notifications.UnreadCount)
				r.Post("/read-all", rt.Notifications.MarkAllRead)
				r.Post("/{id}/read", rt.Notifications.MarkRead)
				r.Delete("/{id}", rt.Notifications.Delete)
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", rt.Tasks.ListTasks)
				r.Post("/", rt.Tasks.CreateTask)
				r.Put("/{id}", rt.Tasks.UpdateTask)
				r.Post("/{id}/toggle", rt.Tasks.ToggleTask)
				r.Delete("/{id}", rt.Tasks.DeleteTask)
			})

			r.Route("/calendar", func(r chi.Router) {
				r.Get("/", rt.Tasks.ListEvents)
				r.Post("/", rt.Tasks.CreateEvent)
				r.Put("/{id}", rt.Tasks.UpdateEvent)
				r.Delete("/{id}", rt.Tasks.DeleteEvent)
			})

			r.Get("/analytics/dashboard", rt.Admin.Dashboard)

			r.Route("/commercials", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(entity.RoleCommercial))
					r.Get("/me", rt.Commercials.Me)
					r.Get("/me/stats", rt.Commercials.MyStats)
					r.Get("/me/qr", rt.Commercials.MyQR)
				})
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(entity.RoleAdmin))
					r.Get("/", rt.Commercials.List)
					r.Post("/", rt.Commercials.Create)
					r.Get("/{id}", rt.Commercials.Get)
					r.Put("/{id}", rt.Commercials.Update)
					r.Get("/{id}/stats", rt.Commercials.Stats)
					r.Get("/{id}/qr", rt.Commercials.QR)
					r.Delete("/{id}", rt.Commercials.Delete)
				})
			})

			// administración
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(entity.RoleAdmin))

				r.Route("/users", func(r chi.Router) {
					r.Get("/", rt.Users.List)
					r.Post("/", rt.Users.Create)
					r.Put("/{id}", rt.Users.Update)
					r.Delete("/{id}", rt.Users.Delete)
				})

				r.Get("/settings", rt.Admin.GetSettings)
				r.Put("/settings", rt.Admin.SaveSettings)
			})
		})
	})

	return r
}

// DefaultLimiters son los cupos por IP de las rutas públicas y de Lead Hunter.
func DefaultLimiters() (public, hunter *middleware.RateLimiter) {
	return middleware.NewRateLimiter(30, time.Minute), middleware.NewRateLimiter(20, time.Minute)
}
