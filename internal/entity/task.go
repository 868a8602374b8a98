package entity

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	LeadID      *string    `json:"lead_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func NewTask(userID string, leadID *string, title, description string, due *time.Time) *Task {
	now := time.Now()
	return &Task{
		ID:          uuid.New().String(),
		UserID:      userID,
		LeadID:      leadID,
		Title:       title,
		Description: description,
		DueDate:     due,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

type CalendarEvent struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	LeadID      *string   `json:"lead_id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	Location    string    `json:"location,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewCalendarEvent(userID string, leadID *string, title, description, location string, start, end time.Time) *CalendarEvent {
	now := time.Now()
	return &CalendarEvent{
		ID:          uuid.New().String(),
		UserID:      userID,
		LeadID:      leadID,
		Title:       title,
		Description: description,
		Location:    location,
		StartAt:     start,
		EndAt:       end,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

type Dashboard struct {
	LeadsByStatus     map[string]int `json:"leads_by_status"`
	TotalLeads        int            `json:"total_leads"`
	ProposalsSent     int            `json:"proposals_sent"`
	ProposalsViewed   int            `json:"proposals_viewed"`
	ProposalsAccepted int            `json:"proposals_accepted"`
	ConversionRate    float64        `json:"conversion_rate"`
	RevenuePaid       float64        `json:"revenue_paid"`
	RevenuePending    float64        `json:"revenue_pending"`
	Hunter            *HunterStats   `json:"hunter,omitempty"`
}
