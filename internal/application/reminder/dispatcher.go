// Package reminder implementa el job diario de recordatorios con idempotencia por destinatario y día.
package reminder

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/Solicitudes-api/internal/application/dto"
	"github.com/jhoicas/Solicitudes-api/internal/domain"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
	"github.com/jhoicas/Solicitudes-api/pkg/logger"
	"github.com/jhoicas/Solicitudes-api/pkg/metrics"
)

const dateLayout = "2006-01-02"

// Message recordatorio para un destinatario con todos sus ítems que vencen mañana.
type Message struct {
	To         string
	Name       string
	TargetDate time.Time
	Items      []entity.DueItem
}

// Mailer entrega el recordatorio (SMTP o log).
type Mailer interface {
	SendReminder(ctx context.Context, msg Message) error
}

// Dispatcher job daily_reminders. No mantiene estado en memoria: la idempotencia vive en cron_logs.
type Dispatcher struct {
	items  repository.DueItemRepository
	ledger repository.CronLogRepository
	mailer Mailer
	loc    *time.Location
	now    func() time.Time
	log    *logger.Logger
}

// NewDispatcher construye el job. loc nil = UTC.
func NewDispatcher(items repository.DueItemRepository, ledger repository.CronLogRepository, mailer Mailer, loc *time.Location, log *logger.Logger) *Dispatcher {
	if loc == nil {
		loc = time.UTC
	}
	return &Dispatcher{items: items, ledger: ledger, mailer: mailer, loc: loc, now: time.Now, log: log.Named("reminder")}
}

// WithClock reemplaza el reloj (tests).
func (d *Dispatcher) WithClock(now func() time.Time) *Dispatcher {
	d.now = now
	return d
}

// Dates jobDate (hoy en la zona configurada) y targetDate (mañana), como fechas a medianoche UTC.
func (d *Dispatcher) Dates() (jobDate, targetDate time.Time) {
	local := d.now().In(d.loc)
	jobDate = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	return jobDate, jobDate.AddDate(0, 0, 1)
}

type recipient struct {
	email string
	name  string
	items []entity.DueItem
}

// Run ejecuta el job. Solo devuelve error si no se pudo consultar los ítems;
// los fallos por destinatario se cuentan en EmailsFailed.
func (d *Dispatcher) Run(ctx context.Context) (*dto.ReminderStats, error) {
	jobDate, targetDate := d.Dates()
	stats := &dto.ReminderStats{JobDate: jobDate.Format(dateLayout), TargetDate: targetDate.Format(dateLayout)}

	due, err := d.items.FindDueItems(ctx, targetDate)
	if err != nil {
		d.log.Error().Err(err).Str("target_date", stats.TargetDate).Msg("consulta de ítems por vencer")
		return nil, domain.ErrUpstream
	}

	recipients, requests := group(due)
	stats.RequestsProcessed = requests

	for _, r := range recipients {
		switch d.deliver(ctx, jobDate, targetDate, r) {
		case resultSent:
			stats.EmailsSent++
		case resultSkipped:
			stats.EmailsSkipped++
		default:
			stats.EmailsFailed++
		}
	}

	d.log.Info().
		Str("job_date", stats.JobDate).
		Int("sent", stats.EmailsSent).
		Int("skipped", stats.EmailsSkipped).
		Int("failed", stats.EmailsFailed).
		Int("requests", stats.RequestsProcessed).
		Msg("job de recordatorios finalizado")
	return stats, nil
}

type result int

const (
	resultSent result = iota
	resultSkipped
	resultFailed
)

// deliver reserva el testigo (insert único) antes de enviar; si el envío falla, libera la reserva.
func (d *Dispatcher) deliver(ctx context.Context, jobDate, targetDate time.Time, r recipient) result {
	log := d.log.With().Str("recipient", r.email).Str("job_date", jobDate.Format(dateLayout)).Logger()

	exists, err := d.ledger.Exists(ctx, entity.JobDailyReminders, jobDate, r.email, entity.EmailTypeReminder)
	if err != nil {
		log.Error().Err(err).Msg("consulta de cron_logs")
		metrics.ReminderEmails.WithLabelValues("failed").Inc()
		return resultFailed
	}
	if exists {
		metrics.ReminderEmails.WithLabelValues("skipped").Inc()
		return resultSkipped
	}

	entry := &entity.CronLogEntry{
		JobName:   entity.JobDailyReminders,
		JobDate:   jobDate,
		Recipient: r.email,
		EmailType: entity.EmailTypeReminder,
		CreatedAt: d.now(),
	}
	if err := d.ledger.Insert(ctx, entry); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			// Otra ejecución concurrente ganó la reserva.
			metrics.ReminderEmails.WithLabelValues("skipped").Inc()
			return resultSkipped
		}
		log.Error().Err(err).Msg("reserva en cron_logs")
		metrics.ReminderEmails.WithLabelValues("failed").Inc()
		return resultFailed
	}

	msg := Message{To: r.email, Name: r.name, TargetDate: targetDate, Items: r.items}
	if err := d.mailer.SendReminder(ctx, msg); err != nil {
		log.Error().Err(err).Int("items", len(r.items)).Msg("envío de recordatorio")
		if derr := d.ledger.Delete(ctx, entity.JobDailyReminders, jobDate, r.email, entity.EmailTypeReminder); derr != nil {
			log.Error().Err(derr).Msg("no se pudo liberar la reserva; no se reintentará hoy")
		}
		metrics.ReminderEmails.WithLabelValues("failed").Inc()
		return resultFailed
	}

	log.Info().Int("items", len(r.items)).Msg("recordatorio enviado")
	metrics.ReminderEmails.WithLabelValues("sent").Inc()
	return resultSent
}

// group agrupa por email (normalizado en minúsculas) en orden determinista y cuenta solicitudes distintas.
func group(due []entity.DueItem) ([]recipient, int) {
	byEmail := map[string]*recipient{}
	requests := map[string]struct{}{}
	for _, it := range due {
		email := strings.ToLower(strings.TrimSpace(it.AssigneeEmail))
		if email == "" || it.RequestStatus.IsTerminal() {
			continue
		}
		requests[it.RequestID] = struct{}{}
		r, ok := byEmail[email]
		if !ok {
			r = &recipient{email: email, name: it.AssigneeName}
			byEmail[email] = r
		}
		r.items = append(r.items, it)
	}
	out := make([]recipient, 0, len(byEmail))
	for _, r := range byEmail {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].email < out[j].email })
	return out, len(requests)
}
