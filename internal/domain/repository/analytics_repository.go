package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
)

// AnalyticsRepository consultas read-only de resumen sobre solicitudes.
// El filtro trae el alcance de visibilidad del actor (entity.RequestFilter sin Status).
type AnalyticsRepository interface {
	// CountByStatus conteo de solicitudes por estado dentro del alcance.
	CountByStatus(ctx context.Context, f entity.RequestFilter) (map[entity.Status]int, error)
	// CountOverdueItems ítems con RequiredAt < before cuya solicitud sigue abierta (no DRAFT ni terminal).
	CountOverdueItems(ctx context.Context, f entity.RequestFilter, before time.Time) (int, error)
}
