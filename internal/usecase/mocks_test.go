package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

// ---- repositorios ----

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Create(ctx context.Context, u *entity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]*entity.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*entity.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, id string, patch entity.Patch) error {
	return m.Called(ctx, id, patch).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) CountByRole(ctx context.Context, role string) (int, error) {
	args := m.Called(ctx, role)
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) FirstAdminID(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type MockLeadRepository struct{ mock.Mock }

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	return m.Called(ctx, lead).Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) List(ctx context.Context, f entity.LeadFilter) ([]*entity.Lead, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Update(ctx context.Context, id string, patch entity.Patch) error {
	return m.Called(ctx, id, patch).Error(0)
}

func (m *MockLeadRepository) UpdateStatus(ctx context.Context, id, status string, activity *entity.Activity) error {
	return m.Called(ctx, id, status, activity).Error(0)
}

func (m *MockLeadRepository) SetTags(ctx context.Context, id string, tags []string) error {
	return m.Called(ctx, id, tags).Error(0)
}

func (m *MockLeadRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLeadRepository) ListTags(ctx context.Context) ([]entity.Tag, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entity.Tag), args.Error(1)
}

type MockActivityRepository struct{ mock.Mock }

func (m *MockActivityRepository) Create(ctx context.Context, a *entity.Activity) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockActivityRepository) ListByLead(ctx context.Context, leadID string) ([]*entity.Activity, error) {
	args := m.Called(ctx, leadID)
	return args.Get(0).([]*entity.Activity), args.Error(1)
}

type MockProposalRepository struct{ mock.Mock }

func (m *MockProposalRepository) Create(ctx context.Context, p *entity.Proposal, a *entity.Activity) error {
	return m.Called(ctx, p, a).Error(0)
}

func (m *MockProposalRepository) FindByID(ctx context.Context, id string) (*entity.Proposal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Proposal), args.Error(1)
}

func (m *MockProposalRepository) FindByToken(ctx context.Context, token string) (*entity.Proposal, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Proposal), args.Error(1)
}

func (m *MockProposalRepository) List(ctx context.Context, leadID string) ([]*entity.Proposal, error) {
	args := m.Called(ctx, leadID)
	return args.Get(0).([]*entity.Proposal), args.Error(1)
}

func (m *MockProposalRepository) MarkViewed(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

func (m *MockProposalRepository) AddComment(ctx context.Context, c *entity.ProposalComment) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockProposalRepository) ListComments(ctx context.Context, proposalID string) ([]*entity.ProposalComment, error) {
	args := m.Called(ctx, proposalID)
	return args.Get(0).([]*entity.ProposalComment), args.Error(1)
}

func (m *MockProposalRepository) Accept(ctx context.Context, id, signature, signer string, a *entity.Activity) error {
	return m.Called(ctx, id, signature, signer, a).Error(0)
}

func (m *MockProposalRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockInvoiceRepository struct{ mock.Mock }

func (m *MockInvoiceRepository) Create(ctx context.Context, inv *entity.Invoice, a *entity.Activity) error {
	return m.Called(ctx, inv, a).Error(0)
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id string) (*entity.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByToken(ctx context.Context, token string) (*entity.Invoice, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByProposalID(ctx context.Context, proposalID string) (*entity.Invoice, error) {
	args := m.Called(ctx, proposalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) List(ctx context.Context, status string) ([]*entity.Invoice, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]*entity.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Update(ctx context.Context, id string, patch entity.Patch) error {
	return m.Called(ctx, id, patch).Error(0)
}

func (m *MockInvoiceRepository) MarkViewed(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockInvoiceRepository) TrackOpen(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockHunterRepository struct{ mock.Mock }

func (m *MockHunterRepository) GetAccess(ctx context.Context, userID string) (*entity.HunterAccess, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.HunterAccess), args.Error(1)
}

func (m *MockHunterRepository) ResetDailyCounter(ctx context.Context, userID, today string) error {
	return m.Called(ctx, userID, today).Error(0)
}

func (m *MockHunterRepository) ConsumeQuota(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockHunterRepository) UpdateAccess(ctx context.Context, userID string, enabled bool, limit int) error {
	return m.Called(ctx, userID, enabled, limit).Error(0)
}

func (m *MockHunterRepository) CreateSearch(ctx context.Context, s *entity.HunterSearch) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockHunterRepository) SetSearchResults(ctx context.Context, searchID string, count int) error {
	return m.Called(ctx, searchID, count).Error(0)
}

func (m *MockHunterRepository) ListSearches(ctx context.Context, userID string, limit int) ([]*entity.HunterSearch, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]*entity.HunterSearch), args.Error(1)
}

func (m *MockHunterRepository) UpsertProspect(ctx context.Context, p *entity.Prospect) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockHunterRepository) FindProspect(ctx context.Context, userID, id string) (*entity.Prospect, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Prospect), args.Error(1)
}

func (m *MockHunterRepository) ListProspects(ctx context.Context, userID string, f entity.ProspectFilter) ([]*entity.Prospect, error) {
	args := m.Called(ctx, userID, f)
	return args.Get(0).([]*entity.Prospect), args.Error(1)
}

func (m *MockHunterRepository) SaveAnalysis(ctx context.Context, id string, a *entity.Analysis) error {
	return m.Called(ctx, id, a).Error(0)
}

func (m *MockHunterRepository) SaveDeepAnalysis(ctx context.Context, id string, a *entity.DeepAnalysis) error {
	return m.Called(ctx, id, a).Error(0)
}

func (m *MockHunterRepository) ConvertToLead(ctx context.Context, userID, prospectID string, lead *entity.Lead, a *entity.Activity) error {
	return m.Called(ctx, userID, prospectID, lead, a).Error(0)
}

func (m *MockHunterRepository) CreateDemo(ctx context.Context, d *entity.HunterDemo) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockHunterRepository) FindDemoByToken(ctx context.Context, token string) (*entity.HunterDemo, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.HunterDemo), args.Error(1)
}

func (m *MockHunterRepository) IncrementStat(ctx context.Context, userID, stat string) error {
	return m.Called(ctx, userID, stat).Error(0)
}

func (m *MockHunterRepository) GetStats(ctx context.Context, userID string) (*entity.HunterStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.HunterStats), args.Error(1)
}

type MockNotificationRepository struct{ mock.Mock }

func (m *MockNotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNotificationRepository) List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*entity.Notification, error) {
	args := m.Called(ctx, userID, unreadOnly, limit)
	return args.Get(0).([]*entity.Notification), args.Error(1)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) Delete(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

type MockCommercialRepository struct{ mock.Mock }

func (m *MockCommercialRepository) CreateWithUser(ctx context.Context, u *entity.User, c *entity.Commercial) error {
	return m.Called(ctx, u, c).Error(0)
}

func (m *MockCommercialRepository) FindByID(ctx context.Context, id string) (*entity.Commercial, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Commercial), args.Error(1)
}

func (m *MockCommercialRepository) FindByUserID(ctx context.Context, userID string) (*entity.Commercial, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Commercial), args.Error(1)
}

func (m *MockCommercialRepository) FindByReferralCode(ctx context.Context, code string) (*entity.Commercial, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Commercial), args.Error(1)
}

func (m *MockCommercialRepository) List(ctx context.Context) ([]*entity.Commercial, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*entity.Commercial), args.Error(1)
}

func (m *MockCommercialRepository) Update(ctx context.Context, id string, patch entity.Patch) error {
	return m.Called(ctx, id, patch).Error(0)
}

func (m *MockCommercialRepository) DeleteWithUser(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCommercialRepository) Stats(ctx context.Context, id string) (*entity.CommercialStats, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CommercialStats), args.Error(1)
}

type MockSettingsStore struct{ mock.Mock }

func (m *MockSettingsStore) LoadSettings(ctx context.Context) (map[string]string, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockSettingsStore) SaveSettings(ctx context.Context, values map[string]string) error {
	return m.Called(ctx, values).Error(0)
}

// ---- servicios ----

type MockMailer struct{ mock.Mock }

func (m *MockMailer) SendProposal(ctx context.Context, to, leadName, title, link string) error {
	return m.Called(ctx, to, leadName, title, link).Error(0)
}

func (m *MockMailer) SendAcceptanceConfirmation(ctx context.Context, to, signer, title string, total float64) error {
	return m.Called(ctx, to, signer, title, total).Error(0)
}

func (m *MockMailer) SendAcceptanceNotice(ctx context.Context, to, leadName, title, signer string, total float64) error {
	return m.Called(ctx, to, leadName, title, signer, total).Error(0)
}

func (m *MockMailer) SendInvoice(ctx context.Context, to, leadName, number string, total float64, due time.Time, link, pixel string) error {
	return m.Called(ctx, to, leadName, number, total, due, link, pixel).Error(0)
}

func (m *MockMailer) SendWelcome(ctx context.Context, to, name, loginURL string) error {
	return m.Called(ctx, to, name, loginURL).Error(0)
}

type MockRealtime struct{ mock.Mock }

func (m *MockRealtime) Publish(ctx context.Context, userID, event string, payload any) error {
	return m.Called(ctx, userID, event, payload).Error(0)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, userID, kind, title, message, link string) (*entity.Notification, error) {
	args := m.Called(ctx, userID, kind, title, message, link)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Notification), args.Error(1)
}

type MockPlaces struct{ mock.Mock }

func (m *MockPlaces) Search(ctx context.Context, query, location string, radius int) ([]entity.Place, error) {
	args := m.Called(ctx, query, location, radius)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Place), args.Error(1)
}

type MockAnalyzer struct{ mock.Mock }

func (m *MockAnalyzer) Analyze(ctx context.Context, p *entity.Prospect) (*entity.Analysis, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Analysis), args.Error(1)
}

func (m *MockAnalyzer) DeepAnalyze(ctx context.Context, p *entity.Prospect) (*entity.DeepAnalysis, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DeepAnalysis), args.Error(1)
}

func (m *MockAnalyzer) GenerateDemo(ctx context.Context, p *entity.Prospect) (string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.Error(1)
}

type MockDocuments struct{ mock.Mock }

func (m *MockDocuments) ProposalPDF(p *entity.Proposal) ([]byte, error) {
	args := m.Called(p)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockDocuments) InvoicePDF(inv *entity.Invoice) ([]byte, error) {
	args := m.Called(inv)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockDocuments) LeadsExcel(leads []*entity.Lead) ([]byte, error) {
	args := m.Called(leads)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockDocuments) QRCode(content string) ([]byte, error) {
	args := m.Called(content)
	return args.Get(0).([]byte), args.Error(1)
}

type MockInvoicer struct{ mock.Mock }

func (m *MockInvoicer) CreateFromProposal(ctx context.Context, p *entity.Proposal, userID *string) (*entity.Invoice, error) {
	args := m.Called(ctx, p, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Invoice), args.Error(1)
}

var errWrongPassword = errors.New("contraseña incorrecta")

// fakeHasher compara en claro; bcrypt se prueba en su paquete.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hash:" + password, nil }

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hash:"+password {
		return errWrongPassword
	}
	return nil
}

type fakeIssuer struct{}

func (fakeIssuer) Issue(u *entity.User) (string, time.Time, error) {
	return "jwt-" + u.ID, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), nil
}

// staticSettings implementa SettingsSource con valores fijos.
type staticSettings struct {
	s           config.Settings
	invalidated int
}

func (s *staticSettings) Get(context.Context) config.Settings { return s.s }
func (s *staticSettings) Invalidate()                         { s.invalidated++ }
