package ratelimit

import (
	"context"
	"time"

	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
)

var _ Store = (*CounterStore)(nil)

// CounterStore adapta un RateLimitRepository (tabla rate_limit_counters) a Store de ventana fija.
type CounterStore struct {
	repo repository.RateLimitRepository
}

// NewCounterStore construye el store sobre el repositorio.
func NewCounterStore(repo repository.RateLimitRepository) *CounterStore {
	return &CounterStore{repo: repo}
}

// CheckAndIncrement delega la atomicidad en IncrementIfBelow.
func (s *CounterStore) CheckAndIncrement(ctx context.Context, userID, action string, limit int, window time.Duration, now time.Time) (Decision, error) {
	start := WindowStart(now, window)
	count, allowed, err := s.repo.IncrementIfBelow(ctx, userID, action, start, limit)
	if err != nil {
		return Decision{}, err
	}
	return Decision{Allowed: allowed, CurrentCount: count, ResetAt: start.Add(window)}, nil
}
