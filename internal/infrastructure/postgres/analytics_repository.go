package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de resumen; reutiliza el alcance de filterClause.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// CountByStatus GROUP BY status sobre el alcance.
func (r *AnalyticsRepo) CountByStatus(ctx context.Context, f entity.RequestFilter) (map[entity.Status]int, error) {
	f.Status = nil
	where, args := filterClause(f)
	rows, err := r.q.Query(ctx, `SELECT status, count(*) FROM requests `+where+` GROUP BY status`, args...)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	out := map[entity.Status]int{}
	for rows.Next() {
		var (
			st string
			n  int
		)
		if err := rows.Scan(&st, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		out[entity.Status(st)] = n
	}
	return out, rows.Err()
}

// CountOverdueItems ítems vencidos de solicitudes abiertas dentro del alcance.
// Las columnas de filterClause no existen en request_items, así que resuelven a requests.
func (r *AnalyticsRepo) CountOverdueItems(ctx context.Context, f entity.RequestFilter, before time.Time) (int, error) {
	f.Status = nil
	where, args := filterClause(f)
	args = append(args, before)
	cond := fmt.Sprintf(`i.required_at < $%d AND status NOT IN ('DRAFT', 'DONE', 'CANCELLED')`, len(args))
	if where == "" {
		where = "WHERE " + cond
	} else {
		where += " AND " + cond
	}
	query := `
		SELECT count(*) FROM request_items i
		JOIN requests rq ON rq.id = i.request_id ` + where
	var n int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count overdue items: %w", err)
	}
	return n, nil
}
