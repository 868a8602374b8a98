package usecase

import (
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// ---- leads ----

type CreateLeadInput struct {
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	Company      string   `json:"company"`
	Source       string   `json:"source"`
	Notes        string   `json:"notes"`
	CommercialID *string  `json:"commercial_id"`
	Tags         []string `json:"tags"`
}

// UpdateLeadInput sólo escribe los campos presentes en el JSON.
type UpdateLeadInput struct {
	Name         *string   `json:"name"`
	Email        *string   `json:"email"`
	Phone        *string   `json:"phone"`
	Company      *string   `json:"company"`
	Source       *string   `json:"source"`
	Notes        *string   `json:"notes"`
	CommercialID *string   `json:"commercial_id"`
	Tags         *[]string `json:"tags"`
}

type CaptureLeadInput struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Company      string `json:"company"`
	Message      string `json:"message"`
	ReferralCode string `json:"referral_code"`
}

type LeadDetail struct {
	*entity.Lead
	Activities []*entity.Activity `json:"activities"`
}

// ---- propuestas ----

type CreateProposalInput struct {
	LeadID      string                `json:"lead_id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Items       []entity.ProposalItem `json:"items"`
	TotalPrice  float64               `json:"total_price"`
}

type AcceptProposalInput struct {
	SignatureData string `json:"signature_data"`
	SignerName    string `json:"signer_name"`
}

type CommentInput struct {
	Author  string `json:"author"`
	Comment string `json:"comment"`
}

type ProposalResult struct {
	Proposal *entity.Proposal `json:"proposal"`
	Warnings []string         `json:"warnings,omitempty"`
}

type AcceptResult struct {
	Proposal *entity.Proposal `json:"proposal"`
	Invoice  *entity.Invoice  `json:"invoice,omitempty"`
	Warnings []string         `json:"warnings,omitempty"`
}

type PublicProposal struct {
	*entity.Proposal
	Comments []*entity.ProposalComment `json:"comments"`
}

// ---- facturas ----

type CreateInvoiceInput struct {
	LeadID  string                `json:"lead_id"`
	Items   []entity.ProposalItem `json:"items"`
	Total   float64               `json:"total"`
	DueDate *time.Time            `json:"due_date"`
}

// ---- usuarios ----

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginOutput struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *entity.User `json:"user"`
}

type CreateUserInput struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Role         string `json:"role"`
	HunterAccess bool   `json:"hunter_access"`
}

type UpdateUserInput struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	Password     *string `json:"password"`
	Role         *string `json:"role"`
	HunterAccess *bool   `json:"hunter_access"`
}

type UserResult struct {
	User     *entity.User `json:"user"`
	Warnings []string     `json:"warnings,omitempty"`
}

// ---- comerciales ----

type CreateCommercialInput struct {
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Password       string  `json:"password"`
	Phone          string  `json:"phone"`
	CommissionRate float64 `json:"commission_rate"`
}

type UpdateCommercialInput struct {
	Phone          *string  `json:"phone"`
	CommissionRate *float64 `json:"commission_rate"`
	Active         *bool    `json:"active"`
}

// ---- lead hunter ----

type SearchInput struct {
	Query    string `json:"query"`
	Location string `json:"location"`
	Radius   int    `json:"radius"`
}

type SearchOutput struct {
	Search    *entity.HunterSearch `json:"search"`
	Prospects []*entity.Prospect   `json:"prospects"`
	Remaining int                  `json:"remaining"`
}

type HunterAccessInput struct {
	Enabled    bool `json:"enabled"`
	DailyLimit int  `json:"daily_limit"`
}

// ---- tareas / calendario ----

type TaskInput struct {
	LeadID      *string    `json:"lead_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

type UpdateTaskInput struct {
	LeadID      *string    `json:"lead_id"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Completed   *bool      `json:"completed"`
}

type EventInput struct {
	LeadID      *string   `json:"lead_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
}

type UpdateEventInput struct {
	LeadID      *string    `json:"lead_id"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	StartAt     *time.Time `json:"start_at"`
	EndAt       *time.Time `json:"end_at"`
}
