package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	InvoiceStatusPending   = "pending"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

const DefaultInvoiceDueDays = 30

type Invoice struct {
	ID         string         `json:"id"`
	Number     string         `json:"number"`
	LeadID     string         `json:"lead_id"`
	ProposalID *string        `json:"proposal_id,omitempty"`
	Items      []ProposalItem `json:"items"`
	Total      float64        `json:"total"`
	Status     string         `json:"status"`
	Token      string         `json:"token"`
	DueDate    time.Time      `json:"due_date"`
	PaidAt     *time.Time     `json:"paid_at,omitempty"`
	ViewedAt   *time.Time     `json:"viewed_at,omitempty"`
	OpenedAt   *time.Time     `json:"opened_at,omitempty"`
	OpenCount  int            `json:"open_count"`
	CreatedBy  *string        `json:"created_by,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`

	LeadName  string `json:"lead_name,omitempty"`
	LeadEmail string `json:"lead_email,omitempty"`
}

// NewInvoice deja el número vacío: lo asigna el repositorio con la secuencia.
func NewInvoice(leadID string, proposalID *string, items []ProposalItem, total float64, createdBy *string) (*Invoice, error) {
	token, err := NewToken()
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []ProposalItem{}
	}
	now := time.Now()
	return &Invoice{
		ID:         uuid.New().String(),
		LeadID:     leadID,
		ProposalID: proposalID,
		Items:      items,
		Total:      total,
		Status:     InvoiceStatusPending,
		Token:      token,
		DueDate:    now.AddDate(0, 0, DefaultInvoiceDueDays),
		CreatedBy:  createdBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func ValidInvoiceStatus(s string) bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}
