package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	ProspectStatusNew       = "new"
	ProspectStatusAnalyzed  = "analyzed"
	ProspectStatusProcessed = "processed"
)

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Place es un resultado crudo del buscador de lugares.
type Place struct {
	PlaceID      string  `json:"place_id"`
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	Phone        string  `json:"phone"`
	Website      string  `json:"website"`
	Rating       float64 `json:"rating"`
	ReviewsCount int     `json:"reviews_count"`
	Category     string  `json:"category"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	MapsURL      string  `json:"maps_url"`
}

type Prospect struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	SearchID     string          `json:"search_id"`
	PlaceID      string          `json:"place_id"`
	Name         string          `json:"name"`
	Address      string          `json:"address"`
	Phone        string          `json:"phone"`
	Website      string          `json:"website"`
	Rating       float64         `json:"rating"`
	ReviewsCount int             `json:"reviews_count"`
	Category     string          `json:"category"`
	Latitude     float64         `json:"latitude"`
	Longitude    float64         `json:"longitude"`
	MapsURL      string          `json:"maps_url"`
	Status       string          `json:"status"`
	AIAnalysis   json.RawMessage `json:"ai_analysis,omitempty"`
	AITags       []string        `json:"ai_tags"`
	AIPriority   string          `json:"ai_priority,omitempty"`
	AIMessage    string          `json:"ai_message,omitempty"`
	DeepAnalysis json.RawMessage `json:"deep_analysis,omitempty"`
	Processed    bool            `json:"processed"`
	LeadID       *string         `json:"lead_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func NewProspect(userID, searchID string, p Place) *Prospect {
	now := time.Now()
	return &Prospect{
		ID:           uuid.New().String(),
		UserID:       userID,
		SearchID:     searchID,
		PlaceID:      p.PlaceID,
		Name:         p.Name,
		Address:      p.Address,
		Phone:        p.Phone,
		Website:      p.Website,
		Rating:       p.Rating,
		ReviewsCount: p.ReviewsCount,
		Category:     p.Category,
		Latitude:     p.Latitude,
		Longitude:    p.Longitude,
		MapsURL:      p.MapsURL,
		Status:       ProspectStatusNew,
		AITags:       []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Analysis es la salida estructurada del análisis rápido.
type Analysis struct {
	Summary          string   `json:"summary"`
	Tags             []string `json:"tags"`
	Priority         string   `json:"priority"`
	Score            int      `json:"score"`
	SuggestedMessage string   `json:"suggested_message"`
}

type DeepAnalysis struct {
	Summary             string   `json:"summary"`
	Strengths           []string `json:"strengths"`
	Weaknesses          []string `json:"weaknesses"`
	Opportunities       []string `json:"opportunities"`
	RecommendedServices []string `json:"recommended_services"`
	Approach            string   `json:"approach"`
}

type HunterSearch struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Query        string    `json:"query"`
	Location     string    `json:"location"`
	Radius       int       `json:"radius"`
	ResultsCount int       `json:"results_count"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewHunterSearch(userID, query, location string, radius int) *HunterSearch {
	return &HunterSearch{
		ID:        uuid.New().String(),
		UserID:    userID,
		Query:     query,
		Location:  location,
		Radius:    radius,
		CreatedAt: time.Now(),
	}
}

type HunterDemo struct {
	ID         string    `json:"id"`
	ProspectID string    `json:"prospect_id"`
	UserID     string    `json:"user_id"`
	Token      string    `json:"token"`
	HTML       string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

type HunterStats struct {
	UserID         string    `json:"user_id"`
	Searches       int       `json:"searches"`
	Analyses       int       `json:"analyses"`
	DeepAnalyses   int       `json:"deep_analyses"`
	LeadsCreated   int       `json:"leads_created"`
	DemosGenerated int       `json:"demos_generated"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Columnas de hunter_usage_stats que se pueden incrementar.
const (
	StatSearches       = "searches"
	StatAnalyses       = "analyses"
	StatDeepAnalyses   = "deep_analyses"
	StatLeadsCreated   = "leads_created"
	StatDemosGenerated = "demos_generated"
)

type ProspectFilter struct {
	SearchID string
	Status   string
	Limit    int
	Offset   int
}
