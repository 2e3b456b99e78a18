// Package ratelimit acota la frecuencia de acciones por (usuario, acción) con ventanas fijas.
//
// Política ante fallos: fail-open. Si el store del contador falla, la acción se permite,
// se registra un warning y se incrementa solicitudes_rate_limit_decisions_total{result="fail_open"}.
// Se prioriza la disponibilidad sobre el cumplimiento estricto del límite.
package ratelimit

import (
	"context"
	"time"

	"github.com/jhoicas/Solicitudes-api/internal/domain"
	"github.com/jhoicas/Solicitudes-api/pkg/logger"
	"github.com/jhoicas/Solicitudes-api/pkg/metrics"
)

// Decision resultado de CheckAndIncrement.
type Decision struct {
	Allowed      bool
	CurrentCount int
	ResetAt      time.Time // cero si el store falló (fail-open)
}

// Store verifica e incrementa el contador en una sola operación atómica contra el estado compartido.
type Store interface {
	CheckAndIncrement(ctx context.Context, userID, action string, limit int, window time.Duration, now time.Time) (Decision, error)
}

// Policy límite de acciones por ventana.
type Policy struct {
	Limit  int
	Window time.Duration
}

// DefaultPolicy 5 acciones por minuto.
var DefaultPolicy = Policy{Limit: 5, Window: time.Minute}

// WindowStart inicio de la ventana fija que contiene now.
func WindowStart(now time.Time, window time.Duration) time.Time {
	return now.UTC().Truncate(window)
}

// Limiter aplica la política por acción sobre un Store.
type Limiter struct {
	store     Store
	def       Policy
	overrides map[string]Policy
	now       func() time.Time
	log       *logger.Logger
}

// Option configura el Limiter.
type Option func(*Limiter)

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// WithActionPolicy fija una política distinta para una acción.
func WithActionPolicy(action string, p Policy) Option {
	return func(l *Limiter) { l.overrides[action] = p }
}

// NewLimiter construye el limiter. Una política inválida se reemplaza por DefaultPolicy.
func NewLimiter(store Store, def Policy, log *logger.Logger, opts ...Option) *Limiter {
	if def.Limit <= 0 || def.Window <= 0 {
		def = DefaultPolicy
	}
	l := &Limiter{
		store:     store,
		def:       def,
		overrides: map[string]Policy{},
		now:       time.Now,
		log:       log.Named("ratelimit"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// PolicyFor política efectiva de una acción.
func (l *Limiter) PolicyFor(action string) Policy {
	if p, ok := l.overrides[action]; ok && p.Limit > 0 && p.Window > 0 {
		return p
	}
	return l.def
}

// MaxWindow ventana más larga entre la política por defecto y las de cada acción.
func (l *Limiter) MaxWindow() time.Duration {
	w := l.def.Window
	for _, p := range l.overrides {
		if p.Window > w {
			w = p.Window
		}
	}
	return w
}

// CheckAndIncrement consume un cupo de la ventana actual. Nunca devuelve error:
// ante fallo del store responde Allowed=true (fail-open).
func (l *Limiter) CheckAndIncrement(ctx context.Context, userID, action string, limit int, windowMinutes int) Decision {
	return l.check(ctx, userID, action, Policy{Limit: limit, Window: time.Duration(windowMinutes) * time.Minute})
}

// Allow aplica la política de la acción; devuelve *domain.RateLimitedError si no hay cupo.
func (l *Limiter) Allow(ctx context.Context, userID, action string) error {
	d := l.check(ctx, userID, action, l.PolicyFor(action))
	if d.Allowed {
		return nil
	}
	return &domain.RateLimitedError{Action: action, ResetAt: d.ResetAt}
}

func (l *Limiter) check(ctx context.Context, userID, action string, p Policy) Decision {
	if p.Limit <= 0 || p.Window <= 0 {
		p = l.def
	}
	if l.store == nil {
		metrics.RateLimitDecisions.WithLabelValues(action, "fail_open").Inc()
		return Decision{Allowed: true}
	}
	d, err := l.store.CheckAndIncrement(ctx, userID, action, p.Limit, p.Window, l.now())
	if err != nil {
		l.log.Warn().Err(err).
			Str("user_id", userID).
			Str("action", action).
			Msg("rate limiter no disponible, se permite la acción (fail-open)")
		metrics.RateLimitDecisions.WithLabelValues(action, "fail_open").Inc()
		return Decision{Allowed: true}
	}
	if !d.Allowed {
		l.log.Info().
			Str("user_id", userID).
			Str("action", action).
			Int("count", d.CurrentCount).
			Time("reset_at", d.ResetAt).
			Msg("límite de acciones alcanzado")
		metrics.RateLimitDecisions.WithLabelValues(action, "denied").Inc()
		return d
	}
	metrics.RateLimitDecisions.WithLabelValues(action, "allowed").Inc()
	return d
}
