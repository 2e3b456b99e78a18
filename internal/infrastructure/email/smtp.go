package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/Solicitudes-api/internal/application/reminder"
	"github.com/jhoicas/Solicitudes-api/pkg/config"
)

var _ reminder.Mailer = (*SMTPMailer)(nil)

// SMTPMailer envía recordatorios vía gomail.
type SMTPMailer struct {
	cfg    config.SMTPConfig
	dialer *gomail.Dialer
}

// NewSMTPMailer construye el mailer con la configuración SMTP.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// SendReminder gomail no acepta contexto; se respeta una cancelación previa al envío.
func (s *SMTPMailer) SendReminder(ctx context.Context, msg reminder.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r := render(msg, s.cfg.BaseURL)

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.FromAddress, s.cfg.FromName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", r.Subject)
	m.SetBody("text/plain", r.Plain)
	m.AddAlternative("text/html", r.HTML)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send reminder to %s: %w", msg.To, err)
	}
	return nil
}
