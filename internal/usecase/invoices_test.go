package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

func newInvoiceUseCase() (*InvoiceUseCase, *MockInvoiceRepository, *MockLeadRepository, *MockMailer, *MockNotifier) {
	invoices := new(MockInvoiceRepository)
	leads := new(MockLeadRepository)
	mailer := new(MockMailer)
	notifier := new(MockNotifier)
	uc := NewInvoiceUseCase(invoices, leads, mailer, notifier, new(MockDocuments),
		"https://crm.ligue.app", "https://api.ligue.app/", zerolog.Nop())
	return uc, invoices, leads, mailer, notifier
}

func TestCreateFromProposalReturnsExistingInvoice(t *testing.T) {
	uc, invoices, _, _, _ := newInvoiceUseCase()
	existing := &entity.Invoice{ID: "inv-1", Number: "FAC-2026-00007"}
	invoices.On("FindByProposalID", mock.Anything, "p-1").Return(existing, nil)

	inv, err := uc.CreateFromProposal(context.Background(), &entity.Proposal{ID: "p-1"}, nil)

	require.NoError(t, err)
	assert.Same(t, existing, inv)
	invoices.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateFromProposalCopiesItems(t *testing.T) {
	uc, invoices, _, _, notifier := newInvoiceUseCase()
	items := []entity.ProposalItem{{Description: "Landing", Quantity: 1, UnitPrice: 900}}
	p := &entity.Proposal{ID: "p-1", LeadID: "l-1", Title: "Web", Items: items, TotalPrice: 900, LeadName: "Acme"}
	invoices.On("FindByProposalID", mock.Anything, "p-1").Return(nil, entity.ErrNotFound)
	invoices.On("Create", mock.Anything, mock.MatchedBy(func(inv *entity.Invoice) bool {
		return inv.LeadID == "l-1" && inv.ProposalID != nil && *inv.ProposalID == "p-1" && inv.Total == 900
	}), mock.MatchedBy(func(a *entity.Activity) bool {
		return a.Type == entity.ActivityInvoiceCreated && a.LeadID == "l-1"
	})).Return(nil)
	notifier.On("Notify", mock.Anything, "u-1", entity.NotificationInvoiceCreated, mock.Anything, mock.Anything, mock.Anything).
		Return(&entity.Notification{}, nil)

	inv, err := uc.CreateFromProposal(context.Background(), p, strPtr("u-1"))

	require.NoError(t, err)
	assert.Equal(t, items, inv.Items)
	assert.Equal(t, entity.InvoiceStatusPending, inv.Status)
	assert.Equal(t, "Acme", inv.LeadName)
}

func TestCreateFromProposalRaceReturnsWinner(t *testing.T) {
	uc, invoices, _, _, _ := newInvoiceUseCase()
	winner := &entity.Invoice{ID: "inv-9"}
	invoices.On("FindByProposalID", mock.Anything, "p-1").Return(nil, entity.ErrNotFound).Once()
	invoices.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(entity.ErrInvoiceAlreadyExists)
	invoices.On("FindByProposalID", mock.Anything, "p-1").Return(winner, nil).Once()

	inv, err := uc.CreateFromProposal(context.Background(), &entity.Proposal{ID: "p-1", LeadID: "l-1"}, nil)

	require.NoError(t, err)
	assert.Same(t, winner, inv)
}

func TestCreateInvoiceRequiresPositiveTotal(t *testing.T) {
	uc, invoices, leads, _, _ := newInvoiceUseCase()
	leads.On("FindByID", mock.Anything, "l-1").Return(&entity.Lead{ID: "l-1"}, nil)

	_, err := uc.Create(context.Background(), CreateInvoiceInput{LeadID: "l-1"}, nil)

	assert.Equal(t, CodeValidation, domainCode(t, err))
	invoices.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkPaid(t *testing.T) {
	t.Run("vencida", func(t *testing.T) {
		uc, invoices, _, _, _ := newInvoiceUseCase()
		invoices.On("FindByID", mock.Anything, "inv-1").Return(&entity.Invoice{ID: "inv-1", Status: entity.InvoiceStatusOverdue}, nil)
		invoices.On("Update", mock.Anything, "inv-1", mock.MatchedBy(func(p entity.Patch) bool {
			return p["status"] == entity.InvoiceStatusPaid && p["paid_at"] != nil
		})).Return(nil)

		inv, err := uc.MarkPaid(context.Background(), "inv-1")

		require.NoError(t, err)
		assert.Equal(t, entity.InvoiceStatusPaid, inv.Status)
		assert.NotNil(t, inv.PaidAt)
	})

	t.Run("anulada", func(t *testing.T) {
		uc, invoices, _, _, _ := newInvoiceUseCase()
		invoices.On("FindByID", mock.Anything, "inv-1").Return(&entity.Invoice{ID: "inv-1", Status: entity.InvoiceStatusCancelled}, nil)

		_, err := uc.MarkPaid(context.Background(), "inv-1")

		assert.Equal(t, CodeValidation, domainCode(t, err))
	})
}

func TestSendInvoiceIncludesTrackingPixel(t *testing.T) {
	uc, invoices, _, mailer, _ := newInvoiceUseCase()
	due := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	invoices.On("FindByID", mock.Anything, "inv-1").Return(&entity.Invoice{
		ID: "inv-1", Number: "FAC-2026-00001", Token: "tok", Total: 900, DueDate: due,
		LeadName: "Acme", LeadEmail: "ana@acme.com",
	}, nil)
	mailer.On("SendInvoice", mock.Anything, "ana@acme.com", "Acme", "FAC-2026-00001", 900.0, due,
		"https://crm.ligue.app/factura/tok", "https://api.ligue.app/api/public/invoices/tok/pixel.gif").Return(nil)

	require.NoError(t, uc.Send(context.Background(), "inv-1", ""))
	mailer.AssertExpectations(t)
}

func TestGetByTokenMarksFirstView(t *testing.T) {
	uc, invoices, _, _, _ := newInvoiceUseCase()
	invoices.On("FindByToken", mock.Anything, "tok").Return(&entity.Invoice{ID: "inv-1"}, nil)
	invoices.On("MarkViewed", mock.Anything, "tok").Return(nil).Once()

	inv, err := uc.GetByToken(context.Background(), "tok")

	require.NoError(t, err)
	assert.NotNil(t, inv.ViewedAt)
}

func TestTrackOpenSwallowsErrors(t *testing.T) {
	uc, invoices, _, _, _ := newInvoiceUseCase()
	invoices.On("TrackOpen", mock.Anything, "tok").Return(errors.New("db caída"))

	assert.NotPanics(t, func() { uc.TrackOpen(context.Background(), "tok") })
}
