package handlers

import (
	"context"
	"errors"

	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/auth"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// tokens: "admin-token" y "user-token".
type fakeTokens struct{}

func (fakeTokens) Parse(token string) (*auth.Claims, error) {
	c := &auth.Claims{}
	switch token {
	case "admin-token":
		c.Subject, c.Role = "admin-1", entity.RoleAdmin
	case "user-token":
		c.Subject, c.Role = "user-1", entity.RoleUser
	case "commercial-token":
		c.Subject, c.Role = "com-user-1", entity.RoleCommercial
	default:
		return nil, errors.New("token inválido")
	}
	return c, nil
}

type MockLeadService struct{ mock.Mock }

func (m *MockLeadService) Create(ctx context.Context, in usecase.CreateLeadInput, userID *string) (*entity.Lead, error) {
	args := m.Called(ctx, in, userID)
	lead, _ := args.Get(0).(*entity.Lead)
	return lead, args.Error(1)
}

func (m *MockLeadService) Capture(ctx context.Context, in usecase.CaptureLeadInput) (*entity.Lead, error) {
	args := m.Called(ctx, in)
	lead, _ := args.Get(0).(*entity.Lead)
	return lead, args.Error(1)
}

func (m *MockLeadService) Get(ctx context.Context, id string) (*usecase.LeadDetail, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(*usecase.LeadDetail)
	return d, args.Error(1)
}

func (m *MockLeadService) List(ctx context.Context, f entity.LeadFilter) ([]*entity.Lead, error) {
	args := m.Called(ctx, f)
	list, _ := args.Get(0).([]*entity.Lead)
	return list, args.Error(1)
}

func (m *MockLeadService) Update(ctx context.Context, id string, in usecase.UpdateLeadInput) (*entity.Lead, error) {
	args := m.Called(ctx, id, in)
	lead, _ := args.Get(0).(*entity.Lead)
	return lead, args.Error(1)
}

func (m *MockLeadService) UpdateStatus(ctx context.Context, id, status string, userID *string) (*entity.Lead, error) {
	args := m.Called(ctx, id, status, userID)
	lead, _ := args.Get(0).(*entity.Lead)
	return lead, args.Error(1)
}

func (m *MockLeadService) AddNote(ctx context.Context, id, note string, userID *string) (*entity.Activity, error) {
	args := m.Called(ctx, id, note, userID)
	a, _ := args.Get(0).(*entity.Activity)
	return a, args.Error(1)
}

func (m *MockLeadService) ListActivities(ctx context.Context, id string) ([]*entity.Activity, error) {
	args := m.Called(ctx, id)
	list, _ := args.Get(0).([]*entity.Activity)
	return list, args.Error(1)
}

func (m *MockLeadService) ListTags(ctx context.Context) ([]entity.Tag, error) {
	args := m.Called(ctx)
	tags, _ := args.Get(0).([]entity.Tag)
	return tags, args.Error(1)
}

func (m *MockLeadService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLeadService) ExportExcel(ctx context.Context, f entity.LeadFilter) ([]byte, error) {
	args := m.Called(ctx, f)
	body, _ := args.Get(0).([]byte)
	return body, args.Error(1)
}

type MockProposalService struct{ mock.Mock }

func (m *MockProposalService) Create(ctx context.Context, in usecase.CreateProposalInput, userID *string) (*usecase.ProposalResult, error) {
	args := m.Called(ctx, in, userID)
	res, _ := args.Get(0).(*usecase.ProposalResult)
	return res, args.Error(1)
}

func (m *MockProposalService) Get(ctx context.Context, id string) (*usecase.PublicProposal, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*usecase.PublicProposal)
	return p, args.Error(1)
}

func (m *MockProposalService) List(ctx context.Context, leadID string) ([]*entity.Proposal, error) {
	args := m.Called(ctx, leadID)
	list, _ := args.Get(0).([]*entity.Proposal)
	return list, args.Error(1)
}

func (m *MockProposalService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProposalService) GetByToken(ctx context.Context, token string) (*usecase.PublicProposal, error) {
	args := m.Called(ctx, token)
	p, _ := args.Get(0).(*usecase.PublicProposal)
	return p, args.Error(1)
}

func (m *MockProposalService) Comment(ctx context.Context, token string, in usecase.CommentInput) (*entity.ProposalComment, error) {
	args := m.Called(ctx, token, in)
	c, _ := args.Get(0).(*entity.ProposalComment)
	return c, args.Error(1)
}

func (m *MockProposalService) Accept(ctx context.Context, id string, in usecase.AcceptProposalInput) (*usecase.AcceptResult, error) {
	args := m.Called(ctx, id, in)
	res, _ := args.Get(0).(*usecase.AcceptResult)
	return res, args.Error(1)
}

func (m *MockProposalService) AcceptByToken(ctx context.Context, token string, in usecase.AcceptProposalInput) (*usecase.AcceptResult, error) {
	args := m.Called(ctx, token, in)
	res, _ := args.Get(0).(*usecase.AcceptResult)
	return res, args.Error(1)
}

func (m *MockProposalService) Resend(ctx context.Context, id string, userID *string) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *MockProposalService) SendByEmail(ctx context.Context, id, to string, userID *string) error {
	return m.Called(ctx, id, to, userID).Error(0)
}

func (m *MockProposalService) PDF(ctx context.Context, id string) (*entity.Proposal, []byte, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*entity.Proposal)
	body, _ := args.Get(1).([]byte)
	return p, body, args.Error(2)
}

type MockInvoiceService struct{ mock.Mock }

func (m *MockInvoiceService) Create(ctx context.Context, in usecase.CreateInvoiceInput, userID *string) (*entity.Invoice, error) {
	args := m.Called(ctx, in, userID)
	inv, _ := args.Get(0).(*entity.Invoice)
	return inv, args.Error(1)
}

func (m *MockInvoiceService) Get(ctx context.Context, id string) (*entity.Invoice, error) {
	args := m.Called(ctx, id)
	inv, _ := args.Get(0).(*entity.Invoice)
	return inv, args.Error(1)
}

func (m *MockInvoiceService) List(ctx context.Context, status string) ([]*entity.Invoice, error) {
	args := m.Called(ctx, status)
	list, _ := args.Get(0).([]*entity.Invoice)
	return list, args.Error(1)
}

func (m *MockInvoiceService) GetByToken(ctx context.Context, token string) (*entity.Invoice, error) {
	args := m.Called(ctx, token)
	inv, _ := args.Get(0).(*entity.Invoice)
	return inv, args.Error(1)
}

func (m *MockInvoiceService) MarkPaid(ctx context.Context, id string) (*entity.Invoice, error) {
	args := m.Called(ctx, id)
	inv, _ := args.Get(0).(*entity.Invoice)
	return inv, args.Error(1)
}

func (m *MockInvoiceService) Cancel(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockInvoiceService) Send(ctx context.Context, id, to string) error {
	return m.Called(ctx, id, to).Error(0)
}

func (m *MockInvoiceService) TrackOpen(ctx context.Context, token string) {
	m.Called(ctx, token)
}

func (m *MockInvoiceService) PDF(ctx context.Context, id string) (*entity.Invoice, []byte, error) {
	args := m.Called(ctx, id)
	inv, _ := args.Get(0).(*entity.Invoice)
	body, _ := args.Get(1).([]byte)
	return inv, body, args.Error(2)
}

func (m *MockInvoiceService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockHunterService struct{ mock.Mock }

func (m *MockHunterService) SearchProspects(ctx context.Context, userID string, in usecase.SearchInput) (*usecase.SearchOutput, error) {
	args := m.Called(ctx, userID, in)
	out, _ := args.Get(0).(*usecase.SearchOutput)
	return out, args.Error(1)
}

func (m *MockHunterService) AnalyzeProspect(ctx context.Context, userID, prospectID string) (*entity.Prospect, error) {
	args := m.Called(ctx, userID, prospectID)
	p, _ := args.Get(0).(*entity.Prospect)
	return p, args.Error(1)
}

func (m *MockHunterService) DeepAnalyzeProspect(ctx context.Context, userID, prospectID string) (*entity.Prospect, error) {
	args := m.Called(ctx, userID, prospectID)
	p, _ := args.Get(0).(*entity.Prospect)
	return p, args.Error(1)
}

func (m *MockHunterService) ProcessProspectToLead(ctx context.Context, userID, prospectID string) (*entity.Lead, error) {
	args := m.Called(ctx, userID, prospectID)
	lead, _ := args.Get(0).(*entity.Lead)
	return lead, args.Error(1)
}

func (m *MockHunterService) GenerateDemo(ctx context.Context, userID, prospectID string) (*entity.HunterDemo, error) {
	args := m.Called(ctx, userID, prospectID)
	d, _ := args.Get(0).(*entity.HunterDemo)
	return d, args.Error(1)
}

func (m *MockHunterService) GetDemo(ctx context.Context, token string) (*entity.HunterDemo, error) {
	args := m.Called(ctx, token)
	d, _ := args.Get(0).(*entity.HunterDemo)
	return d, args.Error(1)
}

func (m *MockHunterService) ListSearches(ctx context.Context, userID string, limit int) ([]*entity.HunterSearch, error) {
	args := m.Called(ctx, userID, limit)
	list, _ := args.Get(0).([]*entity.HunterSearch)
	return list, args.Error(1)
}

func (m *MockHunterService) ListProspects(ctx context.Context, userID string, f entity.ProspectFilter) ([]*entity.Prospect, error) {
	args := m.Called(ctx, userID, f)
	list, _ := args.Get(0).([]*entity.Prospect)
	return list, args.Error(1)
}

func (m *MockHunterService) GetProspect(ctx context.Context, userID, id string) (*entity.Prospect, error) {
	args := m.Called(ctx, userID, id)
	p, _ := args.Get(0).(*entity.Prospect)
	return p, args.Error(1)
}

func (m *MockHunterService) Stats(ctx context.Context, userID string) (*entity.HunterStats, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).(*entity.HunterStats)
	return s, args.Error(1)
}

func (m *MockHunterService) Access(ctx context.Context, userID string) (*entity.HunterAccess, error) {
	args := m.Called(ctx, userID)
	a, _ := args.Get(0).(*entity.HunterAccess)
	return a, args.Error(1)
}

func (m *MockHunterService) UpdateAccess(ctx context.Context, userID string, in usecase.HunterAccessInput) error {
	return m.Called(ctx, userID, in).Error(0)
}

type MockUserService struct{ mock.Mock }

func (m *MockUserService) Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*usecase.LoginOutput)
	return out, args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *MockUserService) List(ctx context.Context) ([]*entity.User, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]*entity.User)
	return list, args.Error(1)
}

func (m *MockUserService) Create(ctx context.Context, in usecase.CreateUserInput) (*usecase.UserResult, error) {
	args := m.Called(ctx, in)
	res, _ := args.Get(0).(*usecase.UserResult)
	return res, args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, id string, in usecase.UpdateUserInput) (*entity.User, error) {
	args := m.Called(ctx, id, in)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, actorID, id string) error {
	return m.Called(ctx, actorID, id).Error(0)
}
