package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
)

var _ repository.RequestItemRepository = (*RequestItemRepo)(nil)

// RequestItemRepo ítems de solicitud sobre PostgreSQL.
type RequestItemRepo struct {
	q Querier
}

// NewRequestItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRequestItemRepository(q Querier) *RequestItemRepo {
	return &RequestItemRepo{q: q}
}

const upsertItem = `
	INSERT INTO request_items (id, request_id, name, category, quantity, unit_of_count, required_at,
		reference_link, notes, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name, category = EXCLUDED.category, quantity = EXCLUDED.quantity,
		unit_of_count = EXCLUDED.unit_of_count, required_at = EXCLUDED.required_at,
		reference_link = EXCLUDED.reference_link, notes = EXCLUDED.notes, updated_at = EXCLUDED.updated_at
	WHERE request_items.request_id = EXCLUDED.request_id`

// CreateBatch inserta los ítems en un solo round-trip.
func (r *RequestItemRepo) CreateBatch(ctx context.Context, items []*entity.RequestItem) error {
	return r.sendItems(ctx, items)
}

// ReplaceAll borra los ítems que ya no vienen y hace upsert del resto.
func (r *RequestItemRepo) ReplaceAll(ctx context.Context, requestID string, items []*entity.RequestItem) error {
	keep := make([]string, 0, len(items))
	for _, it := range items {
		keep = append(keep, it.ID)
	}
	_, err := r.q.Exec(ctx,
		`DELETE FROM request_items WHERE request_id = $1 AND NOT (id = ANY($2::uuid[]))`,
		requestID, keep)
	if err != nil {
		return fmt.Errorf("delete request items: %w", err)
	}
	return r.sendItems(ctx, items)
}

func (r *RequestItemRepo) sendItems(ctx context.Context, items []*entity.RequestItem) error {
	if len(items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(upsertItem,
			it.ID, it.RequestID, it.Name, it.Category, it.Quantity, it.UnitOfCount, it.RequiredAt,
			it.ReferenceLink, it.Notes, it.CreatedAt, it.UpdatedAt)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range items {
		tag, err := br.Exec()
		if err != nil {
			return fmt.Errorf("upsert request item: %w", err)
		}
		if tag.RowsAffected() != 1 {
			// El ID existe pero pertenece a otra solicitud.
			return fmt.Errorf("upsert request item: id ajeno a la solicitud")
		}
	}
	return br.Close()
}

// ListByRequest ítems en orden de creación.
func (r *RequestItemRepo) ListByRequest(ctx context.Context, requestID string) ([]*entity.RequestItem, error) {
	query := `
		SELECT id, request_id, name, category, quantity, unit_of_count, required_at,
			reference_link, notes, created_at, updated_at
		FROM request_items WHERE request_id = $1 ORDER BY created_at, name`
	rows, err := r.q.Query(ctx, query, requestID)
	if err != nil {
		return nil, fmt.Errorf("list request items: %w", err)
	}
	defer rows.Close()

	var list []*entity.RequestItem
	for rows.Next() {
		var it entity.RequestItem
		if err := rows.Scan(&it.ID, &it.RequestID, &it.Name, &it.Category, &it.Quantity, &it.UnitOfCount,
			&it.RequiredAt, &it.ReferenceLink, &it.Notes, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan request item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}
