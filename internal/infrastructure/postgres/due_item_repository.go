package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
)

var _ repository.DueItemRepository = (*DueItemRepo)(nil)

// DueItemRepo consulta de lectura para el job de recordatorios.
type DueItemRepo struct {
	q Querier
}

// NewDueItemRepository construye el adaptador.
func NewDueItemRepository(q Querier) *DueItemRepo {
	return &DueItemRepo{q: q}
}

// FindDueItems ítems con required_at = date de solicitudes no terminales con responsable activo.
func (r *DueItemRepo) FindDueItems(ctx context.Context, date time.Time) ([]entity.DueItem, error) {
	query := `
		SELECT i.id, i.name, i.quantity, i.unit_of_count, i.required_at,
			rq.id, rq.request_number, rq.status,
			u.id, u.email, u.name
		FROM request_items i
		JOIN requests rq ON rq.id = i.request_id
		JOIN users u ON u.id = rq.assignee_id
		WHERE i.required_at = $1
			AND rq.status NOT IN ('DRAFT', 'DONE', 'CANCELLED')
			AND u.active
		ORDER BY u.email, rq.request_number, i.name`
	rows, err := r.q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("find due items: %w", err)
	}
	defer rows.Close()

	var list []entity.DueItem
	for rows.Next() {
		var d entity.DueItem
		if err := rows.Scan(&d.ItemID, &d.ItemName, &d.Quantity, &d.UnitOfCount, &d.RequiredAt,
			&d.RequestID, &d.RequestNumber, &d.RequestStatus,
			&d.AssigneeID, &d.AssigneeEmail, &d.AssigneeName); err != nil {
			return nil, fmt.Errorf("scan due item: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}
