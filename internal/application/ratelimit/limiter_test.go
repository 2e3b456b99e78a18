package ratelimit_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Solicitudes-api/internal/application/ratelimit"
	"github.com/jhoicas/Solicitudes-api/internal/domain"
	"github.com/jhoicas/Solicitudes-api/pkg/logger"
)

// memCounters emula la sentencia condicional de rate_limit_counters.
type memCounters struct {
	mu     sync.Mutex
	counts map[counterKey]int
	err    error
}

type counterKey struct {
	userID, action string
	start          time.Time
}

func newMemCounters() *memCounters { return &memCounters{counts: map[counterKey]int{}} }

func (m *memCounters) IncrementIfBelow(_ context.Context, userID, action string, windowStart time.Time, limit int) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, false, m.err
	}
	key := counterKey{userID, action, windowStart.UTC()}
	if m.counts[key] >= limit {
		return m.counts[key], false, nil
	}
	m.counts[key]++
	return m.counts[key], true, nil
}

func (m *memCounters) PurgeBefore(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	var n int64
	for k := range m.counts {
		if k.start.Before(before) {
			delete(m.counts, k)
			n++
		}
	}
	return n, nil
}

func (m *memCounters) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.counts)
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newLimiter(repo *memCounters, c *clock) *ratelimit.Limiter {
	return ratelimit.NewLimiter(ratelimit.NewCounterStore(repo), ratelimit.DefaultPolicy, logger.Nop(), ratelimit.WithClock(c.now))
}

func TestCheckAndIncrement_CincoPermitidosSextoDenegado(t *testing.T) {
	c := &clock{t: time.Date(2026, 10, 14, 9, 30, 10, 0, time.UTC)}
	l := newLimiter(newMemCounters(), c)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		d := l.CheckAndIncrement(ctx, "user-1", "create_request", 5, 1)
		require.True(t, d.Allowed, "llamada %d debe permitirse", i)
		assert.Equal(t, i, d.CurrentCount)
		assert.Equal(t, time.Date(2026, 10, 14, 9, 31, 0, 0, time.UTC), d.ResetAt)
		c.t = c.t.Add(5 * time.Second)
	}

	d := l.CheckAndIncrement(ctx, "user-1", "create_request", 5, 1)
	assert.False(t, d.Allowed, "la sexta llamada en la ventana debe denegarse")
	assert.Equal(t, 5, d.CurrentCount, "el conteo nunca supera el límite")

	c.t = d.ResetAt
	d = l.CheckAndIncrement(ctx, "user-1", "create_request", 5, 1)
	assert.True(t, d.Allowed, "después de resetAt hay cupo nuevo")
	assert.Equal(t, 1, d.CurrentCount)
}

func TestAllow_DevuelveRateLimitedConResetAt(t *testing.T) {
	c := &clock{t: time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)}
	l := newLimiter(newMemCounters(), c)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, l.Allow(ctx, "user-1", "add_comment"))
	}
	err := l.Allow(ctx, "user-1", "add_comment")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRateLimited)

	var rl *domain.RateLimitedError
	require.True(t, errors.As(err, &rl))
	assert.Equal(t, "add_comment", rl.Action)
	assert.Equal(t, 60*time.Second, rl.RetryAfter(c.t))

	// Otra acción y otro usuario tienen contadores independientes.
	assert.NoError(t, l.Allow(ctx, "user-1", "create_request"))
	assert.NoError(t, l.Allow(ctx, "user-2", "add_comment"))
}

func TestAllow_FailOpenAnteErrorDelStore(t *testing.T) {
	repo := newMemCounters()
	repo.err = errors.New("conexión rechazada")
	l := newLimiter(repo, &clock{t: time.Now()})

	for i := 0; i < 20; i++ {
		assert.NoError(t, l.Allow(context.Background(), "user-1", "create_request"))
	}
	d := l.CheckAndIncrement(context.Background(), "user-1", "create_request", 5, 1)
	assert.True(t, d.Allowed)
	assert.True(t, d.ResetAt.IsZero())
}

func TestAllow_StoreNuloEsFailOpen(t *testing.T) {
	l := ratelimit.NewLimiter(nil, ratelimit.DefaultPolicy, logger.Nop())
	assert.NoError(t, l.Allow(context.Background(), "user-1", "create_request"))
}

func TestAllow_ConcurrenteNoAdmiteMasDelLimite(t *testing.T) {
	l := newLimiter(newMemCounters(), &clock{t: time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)})

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow(context.Background(), "user-1", "create_request") == nil {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(5), allowed.Load())
}

func TestPolicyFor_Override(t *testing.T) {
	l := ratelimit.NewLimiter(nil, ratelimit.Policy{}, logger.Nop(),
		ratelimit.WithActionPolicy("add_comment", ratelimit.Policy{Limit: 20, Window: time.Minute}))

	assert.Equal(t, ratelimit.DefaultPolicy, l.PolicyFor("create_request"), "política inválida cae en la de defecto")
	assert.Equal(t, 20, l.PolicyFor("add_comment").Limit)
}

func TestWindowStart(t *testing.T) {
	now := time.Date(2026, 10, 14, 9, 30, 59, 999, time.UTC)
	assert.Equal(t, time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC), ratelimit.WindowStart(now, time.Minute))
	assert.Equal(t, time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC), ratelimit.WindowStart(now, time.Hour))
}
