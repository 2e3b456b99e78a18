package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
)

var _ repository.RateLimitRepository = (*RateLimitRepo)(nil)

// RateLimitRepo contador de ventana fija en rate_limit_counters.
type RateLimitRepo struct {
	q Querier
}

// NewRateLimitRepository construye el adaptador.
func NewRateLimitRepository(q Querier) *RateLimitRepo {
	return &RateLimitRepo{q: q}
}

// IncrementIfBelow una sola sentencia: inserta la ventana o incrementa solo si count < limit.
// Sin fila devuelta = límite alcanzado; count nunca supera limit.
func (r *RateLimitRepo) IncrementIfBelow(ctx context.Context, userID, action string, windowStart time.Time, limit int) (int, bool, error) {
	var count int
	err := r.q.QueryRow(ctx, `
		INSERT INTO rate_limit_counters (user_id, action, window_start, count)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (user_id, action, window_start)
		DO UPDATE SET count = rate_limit_counters.count + 1
		WHERE rate_limit_counters.count < $4
		RETURNING count`, userID, action, windowStart, limit).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return limit, false, nil
		}
		return 0, false, fmt.Errorf("increment rate limit: %w", err)
	}
	return count, true, nil
}

// PurgeBefore borra ventanas vencidas (usa idx_rate_limit_counters_window).
func (r *RateLimitRepo) PurgeBefore(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM rate_limit_counters WHERE window_start < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("purge rate limit: %w", err)
	}
	return tag.RowsAffected(), nil
}
