// Package cache adaptadores sobre Redis (go-redis v9).
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Solicitudes-api/internal/application/ratelimit"
)

var _ ratelimit.Store = (*RateLimitStore)(nil)

// checkAndIncrScript incrementa solo si el contador de la ventana está por debajo del límite.
// Devuelve {admitido (0|1), conteo}.
var checkAndIncrScript = redis.NewScript(`
	local current = tonumber(redis.call('GET', KEYS[1]) or '0')
	local limit = tonumber(ARGV[1])
	if current >= limit then
		return {0, current}
	end
	current = redis.call('INCR', KEYS[1])
	if current == 1 then
		redis.call('PEXPIRE', KEYS[1], ARGV[2])
	end
	return {1, current}
`)

// RateLimitStore contador de ventana fija en Redis; la clave incluye el inicio de la ventana.
type RateLimitStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRateLimitStore construye el store. prefix vacío = "rl".
func NewRateLimitStore(client redis.UniversalClient, prefix string) *RateLimitStore {
	if prefix == "" {
		prefix = "rl"
	}
	return &RateLimitStore{client: client, prefix: prefix}
}

// NewClient abre y verifica la conexión.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func (s *RateLimitStore) key(userID, action string, windowStart time.Time) string {
	return fmt.Sprintf("%s:%s:%s:%d", s.prefix, userID, action, windowStart.Unix())
}

// CheckAndIncrement consume un cupo de la ventana que contiene now.
func (s *RateLimitStore) CheckAndIncrement(ctx context.Context, userID, action string, limit int, window time.Duration, now time.Time) (ratelimit.Decision, error) {
	start := ratelimit.WindowStart(now, window)
	reset := start.Add(window)
	// TTL hasta el fin de la ventana más un margen para relojes desfasados.
	ttl := reset.Sub(now) + time.Second

	res, err := checkAndIncrScript.Run(ctx, s.client, []string{s.key(userID, action, start)}, limit, ttl.Milliseconds()).Int64Slice()
	if err != nil {
		return ratelimit.Decision{}, fmt.Errorf("rate limit script: %w", err)
	}
	if len(res) != 2 {
		return ratelimit.Decision{}, fmt.Errorf("rate limit script: respuesta inesperada %v", res)
	}
	return ratelimit.Decision{Allowed: res[0] == 1, CurrentCount: int(res[1]), ResetAt: reset}, nil
}
