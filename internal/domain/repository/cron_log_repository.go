package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
)

// CronLogRepository libro de idempotencia de jobs programados.
type CronLogRepository interface {
	Exists(ctx context.Context, jobName string, jobDate time.Time, recipient, emailType string) (bool, error)
	// Insert devuelve domain.ErrDuplicate si la clave ya existe (restricción única).
	Insert(ctx context.Context, entry *entity.CronLogEntry) error
	// Delete libera una reserva cuyo envío falló.
	Delete(ctx context.Context, jobName string, jobDate time.Time, recipient, emailType string) error
}

// DueItemRepository consulta de ítems que vencen en una fecha.
type DueItemRepository interface {
	// FindDueItems ítems con RequiredAt = date cuya solicitud no es terminal y tiene responsable.
	FindDueItems(ctx context.Context, date time.Time) ([]entity.DueItem, error)
}
