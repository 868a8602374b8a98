package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

// ---- repositorios ----

type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	Update(ctx context.Context, id string, patch entity.Patch) error
	Delete(ctx context.Context, id string) error
	CountByRole(ctx context.Context, role string) (int, error)
	FirstAdminID(ctx context.Context) (string, error)
}

type LeadRepository interface {
	Create(ctx context.Context, lead *entity.Lead) error
	FindByID(ctx context.Context, id string) (*entity.Lead, error)
	List(ctx context.Context, f entity.LeadFilter) ([]*entity.Lead, error)
	Update(ctx context.Context, id string, patch entity.Patch) error
	UpdateStatus(ctx context.Context, id, status string, activity *entity.Activity) error
	SetTags(ctx context.Context, id string, tags []string) error
	Delete(ctx context.Context, id string) error
	ListTags(ctx context.Context) ([]entity.Tag, error)
}

type ActivityRepository interface {
	Create(ctx context.Context, a *entity.Activity) error
	ListByLead(ctx context.Context, leadID string) ([]*entity.Activity, error)
}

type ProposalRepository interface {
	Create(ctx context.Context, p *entity.Proposal, activity *entity.Activity) error
	FindByID(ctx context.Context, id string) (*entity.Proposal, error)
	FindByToken(ctx context.Context, token string) (*entity.Proposal, error)
	List(ctx context.Context, leadID string) ([]*entity.Proposal, error)
	MarkViewed(ctx context.Context, token string) (bool, error)
	AddComment(ctx context.Context, c *entity.ProposalComment) error
	ListComments(ctx context.Context, proposalID string) ([]*entity.ProposalComment, error)
	Accept(ctx context.Context, id, signature, signer string, activity *entity.Activity) error
	Delete(ctx context.Context, id string) error
}

type InvoiceRepository interface {
	Create(ctx context.Context, inv *entity.Invoice, activity *entity.Activity) error
	FindByID(ctx context.Context, id string) (*entity.Invoice, error)
	FindByToken(ctx context.Context, token string) (*entity.Invoice, error)
	FindByProposalID(ctx context.Context, proposalID string) (*entity.Invoice, error)
	List(ctx context.Context, status string) ([]*entity.Invoice, error)
	Update(ctx context.Context, id string, patch entity.Patch) error
	MarkViewed(ctx context.Context, token string) error
	TrackOpen(ctx context.Context, token string) error
	Delete(ctx context.Context, id string) error
}

type HunterRepository interface {
	GetAccess(ctx context.Context, userID string) (*entity.HunterAccess, error)
	ResetDailyCounter(ctx context.Context, userID, today string) error
	ConsumeQuota(ctx context.Context, userID string) error
	UpdateAccess(ctx context.Context, userID string, enabled bool, dailyLimit int) error

	CreateSearch(ctx context.Context, s *entity.HunterSearch) error
	SetSearchResults(ctx context.Context, searchID string, count int) error
	ListSearches(ctx context.Context, userID string, limit int) ([]*entity.HunterSearch, error)

	UpsertProspect(ctx context.Context, p *entity.Prospect) error
	FindProspect(ctx context.Context, userID, id string) (*entity.Prospect, error)
	ListProspects(ctx context.Context, userID string, f entity.ProspectFilter) ([]*entity.Prospect, error)
	SaveAnalysis(ctx context.Context, id string, a *entity.Analysis) error
	SaveDeepAnalysis(ctx context.Context, id string, a *entity.DeepAnalysis) error
	ConvertToLead(ctx context.Context, userID, prospectID string, lead *entity.Lead, activity *entity.Activity) error

	CreateDemo(ctx context.Context, d *entity.HunterDemo) error
	FindDemoByToken(ctx context.Context, token string) (*entity.HunterDemo, error)

	IncrementStat(ctx context.Context, userID, stat string) error
	GetStats(ctx context.Context, userID string) (*entity.HunterStats, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*entity.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, userID, id string) error
}

type CommercialRepository interface {
	CreateWithUser(ctx context.Context, u *entity.User, c *entity.Commercial) error
	FindByID(ctx context.Context, id string) (*entity.Commercial, error)
	FindByUserID(ctx context.Context, userID string) (*entity.Commercial, error)
	FindByReferralCode(ctx context.Context, code string) (*entity.Commercial, error)
	List(ctx context.Context) ([]*entity.Commercial, error)
	Update(ctx context.Context, id string, patch entity.Patch) error
	DeleteWithUser(ctx context.Context, id string) error
	Stats(ctx context.Context, id string) (*entity.CommercialStats, error)
}

type TaskRepository interface {
	Create(ctx context.Context, t *entity.Task) error
	FindByID(ctx context.Context, userID, id string) (*entity.Task, error)
	List(ctx context.Context, userID string, includeCompleted bool) ([]*entity.Task, error)
	Update(ctx context.Context, userID, id string, patch entity.Patch) error
	Toggle(ctx context.Context, userID, id string) (bool, error)
	Delete(ctx context.Context, userID, id string) error
}

type CalendarRepository interface {
	Create(ctx context.Context, e *entity.CalendarEvent) error
	FindByID(ctx context.Context, userID, id string) (*entity.CalendarEvent, error)
	ListRange(ctx context.Context, userID string, from, to time.Time) ([]*entity.CalendarEvent, error)
	Update(ctx context.Context, userID, id string, patch entity.Patch) error
	Delete(ctx context.Context, userID, id string) error
}

type AnalyticsRepository interface {
	Dashboard(ctx context.Context) (*entity.Dashboard, error)
}

type SettingsStore interface {
	LoadSettings(ctx context.Context) (map[string]string, error)
	SaveSettings(ctx context.Context, values map[string]string) error
}

// ---- servicios externos ----

// SettingsSource lo cumple *config.SettingsProvider.
type SettingsSource interface {
	Get(ctx context.Context) config.Settings
	Invalidate()
}

type Mailer interface {
	SendProposal(ctx context.Context, to, leadName, title, link string) error
	SendAcceptanceConfirmation(ctx context.Context, to, signerName, title string, total float64) error
	SendAcceptanceNotice(ctx context.Context, to, leadName, title, signerName string, total float64) error
	SendInvoice(ctx context.Context, to, leadName, number string, total float64, dueDate time.Time, link, pixelURL string) error
	SendWelcome(ctx context.Context, to, name, loginURL string) error
}

// RealtimePublisher empuja eventos a los clientes conectados del usuario.
type RealtimePublisher interface {
	Publish(ctx context.Context, userID, event string, payload any) error
}

type PlaceSearcher interface {
	Search(ctx context.Context, query, location string, radius int) ([]entity.Place, error)
}

type ProspectAnalyzer interface {
	Analyze(ctx context.Context, p *entity.Prospect) (*entity.Analysis, error)
	DeepAnalyze(ctx context.Context, p *entity.Prospect) (*entity.DeepAnalysis, error)
	GenerateDemo(ctx context.Context, p *entity.Prospect) (string, error)
}

type DocumentRenderer interface {
	ProposalPDF(p *entity.Proposal) ([]byte, error)
	InvoicePDF(inv *entity.Invoice) ([]byte, error)
	LeadsExcel(leads []*entity.Lead) ([]byte, error)
	QRCode(content string) ([]byte, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenIssuer interface {
	Issue(u *entity.User) (string, time.Time, error)
}

// Notifier lo implementa NotificationUseCase; los demás casos de uso lo usan para avisar.
type Notifier interface {
	Notify(ctx context.Context, userID, kind, title, message, link string) (*entity.Notification, error)
}
