package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Solicitudes-api/internal/domain"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
)

var _ repository.CronLogRepository = (*CronLogRepo)(nil)

// CronLogRepo libro de idempotencia de los jobs (cron_logs).
type CronLogRepo struct {
	q Querier
}

// NewCronLogRepository construye el adaptador.
func NewCronLogRepository(q Querier) *CronLogRepo {
	return &CronLogRepo{q: q}
}

// Exists informa si ya hay testigo para la clave.
func (r *CronLogRepo) Exists(ctx context.Context, jobName string, jobDate time.Time, recipient, emailType string) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM cron_logs
			WHERE job_name = $1 AND job_date = $2 AND recipient = $3 AND email_type = $4
		)`, jobName, jobDate, recipient, emailType).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("exists cron log: %w", err)
	}
	return ok, nil
}

// Insert reserva la clave; la restricción única decide entre ejecuciones concurrentes.
func (r *CronLogRepo) Insert(ctx context.Context, e *entity.CronLogEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	tag, err := r.q.Exec(ctx, `
		INSERT INTO cron_logs (id, job_name, job_date, recipient, email_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT ON CONSTRAINT uq_cron_logs_delivery DO NOTHING`,
		e.ID, e.JobName, e.JobDate, e.Recipient, e.EmailType, e.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert cron log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDuplicate
	}
	return nil
}

// Delete libera la reserva de un envío fallido.
func (r *CronLogRepo) Delete(ctx context.Context, jobName string, jobDate time.Time, recipient, emailType string) error {
	_, err := r.q.Exec(ctx, `
		DELETE FROM cron_logs
		WHERE job_name = $1 AND job_date = $2 AND recipient = $3 AND email_type = $4`,
		jobName, jobDate, recipient, emailType)
	if err != nil {
		return fmt.Errorf("delete cron log: %w", err)
	}
	return nil
}
