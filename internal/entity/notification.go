package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationProposalViewed    = "proposal_viewed"
	NotificationProposalCommented = "proposal_commented"
	NotificationProposalAccepted  = "proposal_accepted"
	NotificationInvoiceCreated    = "invoice_created"
	NotificationLeadCaptured      = "lead_captured"
)

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Link      string    `json:"link,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func NewNotification(userID, kind, title, message, link string) *Notification {
	return &Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      kind,
		Title:     title,
		Message:   message,
		Link:      link,
		CreatedAt: time.Now(),
	}
}
