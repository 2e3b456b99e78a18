package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
)

var _ repository.CommentRepository = (*CommentRepo)(nil)

// CommentRepo comentarios sobre PostgreSQL.
type CommentRepo struct {
	q Querier
}

// NewCommentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCommentRepository(q Querier) *CommentRepo {
	return &CommentRepo{q: q}
}

// Create persiste un comentario.
func (r *CommentRepo) Create(ctx context.Context, c *entity.Comment) error {
	query := `
		INSERT INTO request_comments (id, request_id, author_id, content, is_internal, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.q.Exec(ctx, query, c.ID, c.RequestID, c.AuthorID, c.Content, c.IsInternal, c.CreatedAt); err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

// ListByRequest comentarios en orden cronológico; includeInternal=false oculta los internos.
func (r *CommentRepo) ListByRequest(ctx context.Context, requestID string, includeInternal bool) ([]*entity.Comment, error) {
	query := `
		SELECT id, request_id, author_id, content, is_internal, created_at
		FROM request_comments
		WHERE request_id = $1 AND ($2 OR NOT is_internal)
		ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, requestID, includeInternal)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var list []*entity.Comment
	for rows.Next() {
		var c entity.Comment
		if err := rows.Scan(&c.ID, &c.RequestID, &c.AuthorID, &c.Content, &c.IsInternal, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
