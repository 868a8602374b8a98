package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

type proposalDeps struct {
	proposals  *MockProposalRepository
	leads      *MockLeadRepository
	activities *MockActivityRepository
	users      *MockUserRepository
	invoicer   *MockInvoicer
	mailer     *MockMailer
	notifier   *MockNotifier
	realtime   *MockRealtime
	settings   *staticSettings
	docs       *MockDocuments
}

func newProposalUseCase(t *testing.T) (*ProposalUseCase, *proposalDeps) {
	t.Helper()
	d := &proposalDeps{
		proposals:  new(MockProposalRepository),
		leads:      new(MockLeadRepository),
		activities: new(MockActivityRepository),
		users:      new(MockUserRepository),
		invoicer:   new(MockInvoicer),
		mailer:     new(MockMailer),
		notifier:   new(MockNotifier),
		realtime:   new(MockRealtime),
		settings:   &staticSettings{s: config.Settings{AdminEmail: "admin@ligue.app"}},
		docs:       new(MockDocuments),
	}
	uc := NewProposalUseCase(d.proposals, d.leads, d.activities, d.users, d.invoicer, d.mailer,
		d.notifier, d.realtime, d.settings, d.docs, "https://crm.ligue.app/", zerolog.Nop())
	return uc, d
}

func strPtr(s string) *string { return &s }

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var de *DomainError
	require.True(t, errors.As(err, &de), "expected DomainError, got %v", err)
	return de.Code
}

func TestCreateProposalRequiresTitle(t *testing.T) {
	uc, _ := newProposalUseCase(t)

	_, err := uc.Create(context.Background(), CreateProposalInput{LeadID: "lead-1"}, nil)

	assert.Equal(t, CodeValidation, domainCode(t, err))
}

func TestCreateProposalLeadNotFound(t *testing.T) {
	uc, d := newProposalUseCase(t)
	d.leads.On("FindByID", mock.Anything, "missing").Return(nil, entity.ErrNotFound)

	_, err := uc.Create(context.Background(), CreateProposalInput{LeadID: "missing", Title: "Web"}, nil)

	assert.Equal(t, CodeNotFound, domainCode(t, err))
	d.proposals.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateProposalPersistsAndEmailsLink(t *testing.T) {
	uc, d := newProposalUseCase(t)
	lead := &entity.Lead{ID: "lead-1", Name: "Acme", Email: "ana@acme.com"}
	d.leads.On("FindByID", mock.Anything, "lead-1").Return(lead, nil)

	var saved *entity.Proposal
	d.proposals.On("Create", mock.Anything, mock.AnythingOfType("*entity.Proposal"), mock.MatchedBy(func(a *entity.Activity) bool {
		return a.Type == entity.ActivityProposalCreated && a.LeadID == "lead-1"
	})).Run(func(args mock.Arguments) {
		saved = args.Get(1).(*entity.Proposal)
	}).Return(nil)
	d.mailer.On("SendProposal", mock.Anything, "ana@acme.com", "Acme", "Web", mock.MatchedBy(func(link string) bool {
		return strings.HasPrefix(link, "https://crm.ligue.app/propuesta/")
	})).Return(nil)

	items := []entity.ProposalItem{{Description: "Landing", Quantity: 2, UnitPrice: 150}}
	res, err := uc.Create(context.Background(), CreateProposalInput{LeadID: "lead-1", Title: "Web", Items: items}, strPtr("u-1"))

	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	assert.Same(t, saved, res.Proposal)
	assert.Equal(t, entity.ProposalStatusSent, res.Proposal.Status)
	assert.Equal(t, 300.0, res.Proposal.TotalPrice)
	assert.Len(t, res.Proposal.Token, 64)
	d.mailer.AssertCalled(t, "SendProposal", mock.Anything, "ana@acme.com", "Acme", "Web",
		"https://crm.ligue.app/propuesta/"+res.Proposal.Token)
}

func TestCreateProposalEmailFailureIsAWarning(t *testing.T) {
	uc, d := newProposalUseCase(t)
	d.leads.On("FindByID", mock.Anything, "lead-1").Return(&entity.Lead{ID: "lead-1", Email: "a@b.com"}, nil)
	d.proposals.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	d.mailer.On("SendProposal", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("smtp timeout"))

	res, err := uc.Create(context.Background(), CreateProposalInput{LeadID: "lead-1", Title: "Web"}, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{WarnProposalEmail}, res.Warnings)
}

func TestGetByTokenFirstViewIsIdempotent(t *testing.T) {
	uc, d := newProposalUseCase(t)
	token := strings.Repeat("a", 64)
	d.proposals.On("FindByToken", mock.Anything, token).
		Return(&entity.Proposal{ID: "p-1", Token: token, Status: entity.ProposalStatusSent, CreatedBy: strPtr("u-1")}, nil).Once()
	viewedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	d.proposals.On("FindByToken", mock.Anything, token).
		Return(&entity.Proposal{ID: "p-1", Token: token, Status: entity.ProposalStatusViewed, ViewedAt: &viewedAt, CreatedBy: strPtr("u-1")}, nil).Once()
	d.proposals.On("MarkViewed", mock.Anything, token).Return(true, nil).Once()
	d.proposals.On("MarkViewed", mock.Anything, token).Return(false, nil).Once()
	d.proposals.On("ListComments", mock.Anything, "p-1").Return([]*entity.ProposalComment{}, nil)
	d.notifier.On("Notify", mock.Anything, "u-1", entity.NotificationProposalViewed, mock.Anything, mock.Anything, "/propuestas/p-1").
		Return(&entity.Notification{}, nil).Once()
	d.realtime.On("Publish", mock.Anything, "u-1", EventProposalViewed, mock.Anything).Return(nil).Once()

	first, err := uc.GetByToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, entity.ProposalStatusViewed, first.Status)
	assert.NotNil(t, first.ViewedAt)

	second, err := uc.GetByToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, entity.ProposalStatusViewed, second.Status)
	assert.Equal(t, viewedAt, *second.ViewedAt)

	d.notifier.AssertNumberOfCalls(t, "Notify", 1)
	d.realtime.AssertNumberOfCalls(t, "Publish", 1)
}

func TestGetByTokenUnknownToken(t *testing.T) {
	uc, d := newProposalUseCase(t)
	d.proposals.On("FindByToken", mock.Anything, "nope").Return(nil, entity.ErrNotFound)

	_, err := uc.GetByToken(context.Background(), "nope")

	assert.Equal(t, CodeNotFound, domainCode(t, err))
}

func TestAcceptAlreadyAcceptedIsValidationError(t *testing.T) {
	uc, d := newProposalUseCase(t)
	d.proposals.On("Accept", mock.Anything, "p-1", "sig", "Ana", mock.Anything).Return(entity.ErrProposalAlreadyAccepted)

	_, err := uc.Accept(context.Background(), "p-1", AcceptProposalInput{SignatureData: "sig", SignerName: "Ana"})

	assert.Equal(t, CodeValidation, domainCode(t, err))
	assert.ErrorIs(t, err, entity.ErrProposalAlreadyAccepted)
}

func TestAcceptSucceedsWhenSideEffectsFail(t *testing.T) {
	uc, d := newProposalUseCase(t)
	d.settings.s.AutoInvoice = true
	accepted := &entity.Proposal{ID: "p-1", LeadID: "lead-1", Title: "Web", Status: entity.ProposalStatusAccepted,
		TotalPrice: 300, LeadName: "Acme", LeadEmail: "ana@acme.com", CreatedBy: strPtr("u-1")}

	d.proposals.On("Accept", mock.Anything, "p-1", "sig", "Ana", mock.MatchedBy(func(a *entity.Activity) bool {
		return a.Type == entity.ActivityProposalAccepted
	})).Return(nil)
	d.proposals.On("FindByID", mock.Anything, "p-1").Return(accepted, nil)
	d.mailer.On("SendAcceptanceConfirmation", mock.Anything, "ana@acme.com", "Ana", "Web", 300.0).
		Return(errors.New("535 5.7.8 auth failed for crm@ligue.app at 10.0.4.12:587"))
	d.mailer.On("SendAcceptanceNotice", mock.Anything, "admin@ligue.app", "Acme", "Web", "Ana", 300.0).Return(errors.New("smtp down"))
	d.notifier.On("Notify", mock.Anything, "u-1", entity.NotificationProposalAccepted, mock.Anything, mock.Anything, mock.Anything).
		Return(&entity.Notification{}, nil)
	d.realtime.On("Publish", mock.Anything, "u-1", EventProposalAccepted, mock.Anything).Return(nil)
	d.invoicer.On("CreateFromProposal", mock.Anything, accepted, accepted.CreatedBy).
		Return(&entity.Invoice{ID: "inv-1", Number: "FAC-2026-00001"}, nil)

	res, err := uc.Accept(context.Background(), "p-1", AcceptProposalInput{SignatureData: "sig", SignerName: "Ana"})

	require.NoError(t, err)
	assert.Equal(t, entity.ProposalStatusAccepted, res.Proposal.Status)
	require.NotNil(t, res.Invoice)
	assert.Equal(t, "FAC-2026-00001", res.Invoice.Number)
	assert.Equal(t, []string{WarnConfirmationEmail, WarnAdminNotice}, res.Warnings)
	for _, w := range res.Warnings {
		assert.NotContains(t, w, "535")
		assert.NotContains(t, w, "10.0.4.12")
	}
}

func TestAcceptWithoutAutoInvoiceSkipsInvoice(t *testing.T) {
	uc, d := newProposalUseCase(t)
	d.settings.s.AdminEmail = ""
	accepted := &entity.Proposal{ID: "p-1", Status: entity.ProposalStatusAccepted, CreatedBy: strPtr("u-1")}
	d.proposals.On("Accept", mock.Anything, "p-1", "", "Ana", mock.Anything).Return(nil)
	d.proposals.On("FindByID", mock.Anything, "p-1").Return(accepted, nil)
	d.notifier.On("Notify", mock.Anything, "u-1", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&entity.Notification{}, nil)
	d.realtime.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	res, err := uc.Accept(context.Background(), "p-1", AcceptProposalInput{SignerName: "Ana"})

	require.NoError(t, err)
	assert.Nil(t, res.Invoice)
	assert.Empty(t, res.Warnings)
	d.invoicer.AssertNotCalled(t, "CreateFromProposal", mock.Anything, mock.Anything, mock.Anything)
	d.mailer.AssertNotCalled(t, "SendAcceptanceNotice", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResendAlwaysRecordsOneEmailActivity(t *testing.T) {
	tests := []struct {
		name    string
		sendErr error
	}{
		{"send ok", nil},
		{"send fails", errors.New("smtp down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, d := newProposalUseCase(t)
			p := &entity.Proposal{ID: "p-1", LeadID: "lead-1", Title: "Web", Token: "tok", LeadName: "Acme", LeadEmail: "ana@acme.com"}
			d.proposals.On("FindByID", mock.Anything, "p-1").Return(p, nil)
			d.mailer.On("SendProposal", mock.Anything, "ana@acme.com", "Acme", "Web", "https://crm.ligue.app/propuesta/tok").
				Return(tt.sendErr)
			d.activities.On("Create", mock.Anything, mock.MatchedBy(func(a *entity.Activity) bool {
				return a.Type == entity.ActivityEmailSent && a.LeadID == "lead-1"
			})).Return(nil).Once()

			err := uc.Resend(context.Background(), "p-1", strPtr("u-1"))

			if tt.sendErr != nil {
				assert.True(t, IsTechnicalError(err))
			} else {
				assert.NoError(t, err)
			}
			d.activities.AssertNumberOfCalls(t, "Create", 1)
		})
	}
}

func TestSendByEmailRejectsInvalidAddress(t *testing.T) {
	uc, d := newProposalUseCase(t)

	err := uc.SendByEmail(context.Background(), "p-1", "not-an-email", nil)

	assert.Equal(t, CodeValidation, domainCode(t, err))
	d.activities.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCommentNotifiesCreator(t *testing.T) {
	uc, d := newProposalUseCase(t)
	p := &entity.Proposal{ID: "p-1", Title: "Web", LeadName: "Acme", CreatedBy: strPtr("u-1")}
	d.proposals.On("FindByToken", mock.Anything, "tok").Return(p, nil)
	d.proposals.On("AddComment", mock.Anything, mock.MatchedBy(func(c *entity.ProposalComment) bool {
		return c.ProposalID == "p-1" && c.Author == "Acme" && c.Comment == "¿Incluye hosting?"
	})).Return(nil)
	d.notifier.On("Notify", mock.Anything, "u-1", entity.NotificationProposalCommented, mock.Anything, mock.Anything, mock.Anything).
		Return(&entity.Notification{}, nil)
	d.realtime.On("Publish", mock.Anything, "u-1", EventProposalCommented, mock.Anything).Return(nil)

	c, err := uc.Comment(context.Background(), "tok", CommentInput{Comment: " ¿Incluye hosting? "})

	require.NoError(t, err)
	assert.Equal(t, "Acme", c.Author)
	d.notifier.AssertExpectations(t)
}
