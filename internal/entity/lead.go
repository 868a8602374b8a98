package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	LeadStatusNew          = "new"
	LeadStatusContacted    = "contacted"
	LeadStatusQualified    = "qualified"
	LeadStatusProposalSent = "proposal_sent"
	LeadStatusWon          = "won"
	LeadStatusLost         = "lost"
)

const (
	LeadSourceManual     = "manual"
	LeadSourceReferral   = "referral"
	LeadSourceWeb        = "web"
	LeadSourceLeadHunter = "lead_hunter"
)

type Lead struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Company      string    `json:"company,omitempty"`
	Source       string    `json:"source"`
	Status       string    `json:"status"`
	Notes        string    `json:"notes,omitempty"`
	CommercialID *string   `json:"commercial_id,omitempty"`
	CreatedBy    *string   `json:"created_by,omitempty"`
	Tags         []string  `json:"tags"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewLead(name, email, phone, company, source string) *Lead {
	if source == "" {
		source = LeadSourceManual
	}
	return &Lead{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Phone:     phone,
		Company:   company,
		Source:    source,
		Status:    LeadStatusNew,
		Tags:      []string{},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func ValidLeadStatus(s string) bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified,
		LeadStatusProposalSent, LeadStatusWon, LeadStatusLost:
		return true
	}
	return false
}

type LeadFilter struct {
	Status       string
	CommercialID string
	Search       string
	Limit        int
	Offset       int
}

type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

const LeadHunterTag = "Lead Hunter"
