package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	ProposalStatusSent      = "sent"
	ProposalStatusViewed    = "viewed"
	ProposalStatusCommented = "commented"
	ProposalStatusAccepted  = "accepted"
)

type ProposalItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

func (i ProposalItem) Subtotal() float64 {
	return i.Quantity * i.UnitPrice
}

type Proposal struct {
	ID            string         `json:"id"`
	LeadID        string         `json:"lead_id"`
	Title         string         `json:"title"`
	Description   string         `json:"description,omitempty"`
	Items         []ProposalItem `json:"items"`
	TotalPrice    float64        `json:"total_price"`
	Token         string         `json:"token"`
	Status        string         `json:"status"`
	ViewedAt      *time.Time     `json:"viewed_at,omitempty"`
	AcceptedAt    *time.Time     `json:"accepted_at,omitempty"`
	SignatureData *string        `json:"signature_data,omitempty"`
	SignerName    *string        `json:"signer_name,omitempty"`
	CreatedBy     *string        `json:"created_by,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`

	// Sólo lectura, viene del JOIN con leads.
	LeadName  string `json:"lead_name,omitempty"`
	LeadEmail string `json:"lead_email,omitempty"`
}

// NewProposal crea la propuesta en estado sent con un token nuevo. Si totalPrice es 0
// se calcula a partir de los ítems.
func NewProposal(leadID, title, description string, items []ProposalItem, totalPrice float64, createdBy *string) (*Proposal, error) {
	token, err := NewToken()
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []ProposalItem{}
	}
	if totalPrice == 0 {
		for _, it := range items {
			totalPrice += it.Subtotal()
		}
	}
	now := time.Now()
	return &Proposal{
		ID:          uuid.New().String(),
		LeadID:      leadID,
		Title:       title,
		Description: description,
		Items:       items,
		TotalPrice:  totalPrice,
		Token:       token,
		Status:      ProposalStatusSent,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

type ProposalComment struct {
	ID         string    `json:"id"`
	ProposalID string    `json:"proposal_id"`
	Author     string    `json:"author"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}
