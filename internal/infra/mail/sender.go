package mail

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/rs/zerolog"
	"github.com/xavierca1/ligue-crm/internal/config"
	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// ErrNotConfigured se devuelve cuando no hay servidor SMTP en los ajustes.
var ErrNotConfigured = errors.New("SMTP no configurado")

type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SettingsSource entrega la configuración SMTP vigente en cada envío.
type SettingsSource interface {
	Get(ctx context.Context) config.Settings
}

// EmailSender arma los correos del CRM. El dialer se crea por envío para que un
// cambio de credenciales en ajustes se aplique sin reiniciar.
type EmailSender struct {
	Settings  SettingsSource
	NewDialer func(s config.Settings) Dialer
	log       zerolog.Logger
}

func NewEmailSender(settings SettingsSource, log zerolog.Logger) *EmailSender {
	return &EmailSender{
		Settings: settings,
		NewDialer: func(s config.Settings) Dialer {
			return gomail.NewDialer(s.SMTPHost, s.SMTPPort, s.SMTPUser, s.SMTPPass)
		},
		log: log,
	}
}

func (s *EmailSender) SendProposal(ctx context.Context, to, leadName, title, link string) error {
	msg, err := render(to, fmt.Sprintf("Tu propuesta: %s", title), "proposal.html", ProposalEmailData{
		LeadName: leadName,
		Title:    title,
		Link:     link,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, msg)
}

func (s *EmailSender) SendAcceptanceConfirmation(ctx context.Context, to, signerName, title string, total float64) error {
	msg, err := render(to, fmt.Sprintf("Confirmación de aceptación: %s", title), "acceptance_confirmation.html", AcceptanceEmailData{
		SignerName: signerName,
		Title:      title,
		Total:      formatMoney(total),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, msg)
}

func (s *EmailSender) SendAcceptanceNotice(ctx context.Context, to, leadName, title, signerName string, total float64) error {
	msg, err := render(to, fmt.Sprintf("✅ %s aceptó la propuesta \"%s\"", leadName, title), "acceptance_notice.html", AcceptanceEmailData{
		LeadName:   leadName,
		SignerName: signerName,
		Title:      title,
		Total:      formatMoney(total),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, msg)
}

func (s *EmailSender) SendInvoice(ctx context.Context, to, leadName, number string, total float64, dueDate time.Time, link, pixelURL string) error {
	msg, err := render(to, fmt.Sprintf("Factura %s", number), "invoice.html", InvoiceEmailData{
		LeadName: leadName,
		Number:   number,
		Total:    formatMoney(total),
		DueDate:  formatDate(dueDate),
		Link:     link,
		PixelURL: pixelURL,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, msg)
}

func (s *EmailSender) SendWelcome(ctx context.Context, to, name, loginURL string) error {
	msg, err := render(to, fmt.Sprintf("Bienvenido al CRM, %s", name), "welcome.html", WelcomeEmailData{
		Name:     name,
		LoginURL: loginURL,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, msg)
}

func render(to, subject, tmpl string, data any) (*message, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, tmpl, data); err != nil {
		return nil, fmt.Errorf("error al procesar la plantilla %s: %w", tmpl, err)
	}
	return &message{to: to, subject: subject, body: body.String()}, nil
}

func (s *EmailSender) send(ctx context.Context, msg *message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cfg := s.Settings.Get(ctx)
	if cfg.SMTPHost == "" {
		return ErrNotConfigured
	}

	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", msg.to)
	m.SetHeader("Subject", msg.subject)
	m.SetBody("text/html", msg.body)

	if err := s.NewDialer(cfg).DialAndSend(m); err != nil {
		return fmt.Errorf("error al enviar email SMTP: %w", err)
	}
	s.log.Info().Str("to", msg.to).Str("subject", msg.subject).Msg("📧 email enviado")
	return nil
}
