package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
)

var _ repository.RequestLogRepository = (*RequestLogRepo)(nil)

// RequestLogRepo bitácora append-only: solo INSERT y SELECT.
type RequestLogRepo struct {
	q Querier
}

// NewRequestLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRequestLogRepository(q Querier) *RequestLogRepo {
	return &RequestLogRepo{q: q}
}

// Append agrega una entrada.
func (r *RequestLogRepo) Append(ctx context.Context, e *entity.RequestLog) error {
	meta := e.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	query := `
		INSERT INTO request_logs (id, request_id, action, old_status, new_status, actor_id, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, e.ID, e.RequestID, e.Action, statusArg(e.OldStatus), statusArg(e.NewStatus),
		e.ActorID, meta, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert request log: %w", err)
	}
	return nil
}

// ListByRequest timeline en orden cronológico.
func (r *RequestLogRepo) ListByRequest(ctx context.Context, requestID string) ([]*entity.RequestLog, error) {
	query := `
		SELECT id, request_id, action, old_status, new_status, actor_id, metadata, created_at
		FROM request_logs WHERE request_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, requestID)
	if err != nil {
		return nil, fmt.Errorf("list request logs: %w", err)
	}
	defer rows.Close()

	var list []*entity.RequestLog
	for rows.Next() {
		var (
			l        entity.RequestLog
			from, to *string
		)
		if err := rows.Scan(&l.ID, &l.RequestID, &l.Action, &from, &to, &l.ActorID, &l.Metadata, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan request log: %w", err)
		}
		l.OldStatus = statusFrom(from)
		l.NewStatus = statusFrom(to)
		list = append(list, &l)
	}
	return list, rows.Err()
}

func statusArg(s *entity.Status) *string {
	if s == nil {
		return nil
	}
	v := s.String()
	return &v
}

func statusFrom(s *string) *entity.Status {
	if s == nil {
		return nil
	}
	st := entity.Status(*s)
	return &st
}
