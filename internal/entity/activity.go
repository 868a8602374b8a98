package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActivityEmailSent        = "email_sent"
	ActivityStatusChange     = "status_change"
	ActivityLeadCreated      = "lead_created"
	ActivityProposalCreated  = "proposal_created"
	ActivityProposalAccepted = "proposal_accepted"
	ActivityInvoiceCreated   = "invoice_created"
	ActivityNote             = "note"
)

type Activity struct {
	ID          string    `json:"id"`
	LeadID      string    `json:"lead_id"`
	UserID      *string   `json:"user_id,omitempty"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewActivity(leadID string, userID *string, kind, description string) *Activity {
	return &Activity{
		ID:          uuid.New().String(),
		LeadID:      leadID,
		UserID:      userID,
		Type:        kind,
		Description: description,
		CreatedAt:   time.Now(),
	}
}
