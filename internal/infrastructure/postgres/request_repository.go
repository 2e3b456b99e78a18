package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Solicitudes-api/internal/domain"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
)

var _ repository.RequestRepository = (*RequestRepo)(nil)

const requestColumns = `id, request_number, status, priority, created_by, assignee_id, unit_id, reason,
	completion_note, cancel_reason, submitted_at, completed_at, cancelled_at, created_at, updated_at`

// RequestRepo implementación de RequestRepository sobre PostgreSQL (usable con pool o tx).
type RequestRepo struct {
	q Querier
}

// NewRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRequestRepository(q Querier) *RequestRepo {
	return &RequestRepo{q: q}
}

// Create inserta la solicitud; request_number lo asigna la secuencia.
func (r *RequestRepo) Create(ctx context.Context, req *entity.Request) error {
	query := `
		INSERT INTO requests (id, status, priority, created_by, assignee_id, unit_id, reason,
			completion_note, cancel_reason, submitted_at, completed_at, cancelled_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING request_number`
	err := r.q.QueryRow(ctx, query,
		req.ID, req.Status.String(), string(req.Priority), req.CreatedBy, req.AssigneeID, req.UnitID, req.Reason,
		req.CompletionNote, req.CancelReason, req.SubmittedAt, req.CompletedAt, req.CancelledAt,
		req.CreatedAt, req.UpdatedAt,
	).Scan(&req.Number)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud; (nil, nil) si no existe.
func (r *RequestRepo) GetByID(ctx context.Context, id string) (*entity.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1`
	req, err := scanRequest(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get request: %w", err)
	}
	return req, nil
}

// UpdateDraft actualiza razón y prioridad solo si sigue en DRAFT.
func (r *RequestRepo) UpdateDraft(ctx context.Context, req *entity.Request) (bool, error) {
	query := `
		UPDATE requests SET reason = $2, priority = $3, updated_at = $4
		WHERE id = $1 AND status = 'DRAFT'`
	tag, err := r.q.Exec(ctx, query, req.ID, req.Reason, string(req.Priority), req.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("update draft: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateStatus update condicional sobre el estado persistido (compare-and-set).
func (r *RequestRepo) UpdateStatus(ctx context.Context, req *entity.Request, expected entity.Status) (bool, error) {
	query := `
		UPDATE requests SET
			status = $2, assignee_id = $3, completion_note = $4, cancel_reason = $5,
			submitted_at = $6, completed_at = $7, cancelled_at = $8, updated_at = $9
		WHERE id = $1 AND status = $10`
	tag, err := r.q.Exec(ctx, query,
		req.ID, req.Status.String(), req.AssigneeID, req.CompletionNote, req.CancelReason,
		req.SubmittedAt, req.CompletedAt, req.CancelledAt, req.UpdatedAt, expected.String(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, domain.NewValidationError("assignee_id", "usuario inexistente")
		}
		return false, fmt.Errorf("update request status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// DeleteDraft borra el borrador; ítems y comentarios caen por ON DELETE CASCADE.
func (r *RequestRepo) DeleteDraft(ctx context.Context, id string) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM requests WHERE id = $1 AND status = 'DRAFT'`, id)
	if err != nil {
		return false, fmt.Errorf("delete draft: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// List solicitudes del alcance, más recientes primero.
func (r *RequestRepo) List(ctx context.Context, f entity.RequestFilter) ([]*entity.Request, error) {
	where, args := filterClause(f)
	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM requests %s ORDER BY request_number DESC LIMIT $%d OFFSET $%d`,
		requestColumns, where, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	var list []*entity.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		list = append(list, req)
	}
	return list, rows.Err()
}

// Count total del alcance (para paginación).
func (r *RequestRepo) Count(ctx context.Context, f entity.RequestFilter) (int, error) {
	where, args := filterClause(f)
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM requests `+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count requests: %w", err)
	}
	return n, nil
}

// filterClause alcance en OR (creador, unidad, responsable) y filtro de estado en AND.
func filterClause(f entity.RequestFilter) (string, []any) {
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	var conds []string
	if !f.AllUnits {
		var scope []string
		if f.CreatedBy != "" {
			scope = append(scope, "created_by = "+arg(f.CreatedBy))
		}
		if f.UnitID != "" {
			scope = append(scope, "unit_id = "+arg(f.UnitID))
		}
		if f.AssigneeID != "" {
			scope = append(scope, "assignee_id = "+arg(f.AssigneeID))
		}
		if len(scope) == 0 {
			return "WHERE FALSE", nil
		}
		conds = append(conds, "("+strings.Join(scope, " OR ")+")")
	}
	if f.Status != nil {
		conds = append(conds, "status = "+arg(string(*f.Status)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func scanRequest(row pgx.Row) (*entity.Request, error) {
	var req entity.Request
	err := row.Scan(
		&req.ID, &req.Number, &req.Status, &req.Priority, &req.CreatedBy, &req.AssigneeID, &req.UnitID,
		&req.Reason, &req.CompletionNote, &req.CancelReason, &req.SubmittedAt, &req.CompletedAt,
		&req.CancelledAt, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}
