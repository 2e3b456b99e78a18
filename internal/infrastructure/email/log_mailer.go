package email

import (
	"context"

	"github.com/jhoicas/Solicitudes-api/internal/application/reminder"
	"github.com/jhoicas/Solicitudes-api/pkg/logger"
)

var _ reminder.Mailer = (*LogMailer)(nil)

// LogMailer registra el recordatorio sin enviarlo (desarrollo, SMTP sin configurar).
type LogMailer struct {
	baseURL string
	log     *logger.Logger
}

// NewLogMailer construye el mailer de log.
func NewLogMailer(baseURL string, log *logger.Logger) *LogMailer {
	return &LogMailer{baseURL: baseURL, log: log.Named("mailer")}
}

// SendReminder escribe asunto y destinatario en el log.
func (m *LogMailer) SendReminder(_ context.Context, msg reminder.Message) error {
	r := render(msg, m.baseURL)
	m.log.Info().
		Str("to", msg.To).
		Str("subject", r.Subject).
		Int("items", len(msg.Items)).
		Msg("recordatorio (SMTP deshabilitado)")
	return nil
}
