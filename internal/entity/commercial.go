package entity

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/google/uuid"
)

type Commercial struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	ReferralCode   string    `json:"referral_code"`
	QRCode         string    `json:"qr_code,omitempty"` // data:image/png;base64,...
	Phone          string    `json:"phone,omitempty"`
	CommissionRate float64   `json:"commission_rate"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`

	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type CommercialStats struct {
	CommercialID string  `json:"commercial_id"`
	TotalLeads   int     `json:"total_leads"`
	WonLeads     int     `json:"won_leads"`
	Conversion   float64 `json:"conversion_rate"`
}

const referralAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func NewCommercial(userID, phone string, commissionRate float64) (*Commercial, error) {
	code, err := NewReferralCode()
	if err != nil {
		return nil, err
	}
	return &Commercial{
		ID:             uuid.New().String(),
		UserID:         userID,
		ReferralCode:   code,
		Phone:          phone,
		CommissionRate: commissionRate,
		Active:         true,
		CreatedAt:      time.Now(),
	}, nil
}

// NewReferralCode genera códigos tipo COM-7KX9QA sin caracteres ambiguos.
func NewReferralCode() (string, error) {
	b := make([]byte, 6)
	size := big.NewInt(int64(len(referralAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", err
		}
		b[i] = referralAlphabet[n.Int64()]
	}
	return "COM-" + string(b), nil
}
