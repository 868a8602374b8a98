package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin      = "admin"
	RoleUser       = "user"
	RoleCommercial = "commercial"
)

const DefaultHunterDailyLimit = 50

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	HunterAccess bool      `json:"hunter_access"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewUser(name, email, passwordHash, role string) *User {
	if role == "" {
		role = RoleUser
	}
	return &User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleUser, RoleCommercial:
		return true
	}
	return false
}

// HunterAccess son los campos de cuota de Lead Hunter guardados en users.
type HunterAccess struct {
	UserID         string `json:"user_id"`
	Enabled        bool   `json:"enabled"`
	DailyLimit     int    `json:"daily_limit"`
	ProspectsToday int    `json:"prospects_today"`
	LastResetDate  string `json:"last_reset_date"` // YYYY-MM-DD
}

func (a HunterAccess) Remaining() int {
	if r := a.DailyLimit - a.ProspectsToday; r > 0 {
		return r
	}
	return 0
}
