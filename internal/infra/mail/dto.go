package mail

import (
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type ProposalEmailData struct {
	LeadName string
	Title    string
	Link     string
}

type AcceptanceEmailData struct {
	LeadName   string
	SignerName string
	Title      string
	Total      string
}

type InvoiceEmailData struct {
	LeadName string
	Number   string
	Total    string
	DueDate  string
	Link     string
	PixelURL string
}

type WelcomeEmailData struct {
	Name     string
	LoginURL string
}

type message struct {
	to      string
	subject string
	body    string
}

func formatMoney(v float64) string {
	return entity.FormatAmount(v) + " €"
}

func formatDate(t time.Time) string {
	return t.Format("02/01/2006")
}
