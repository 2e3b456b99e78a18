package ratelimit

import (
	"context"
	"time"

	"github.com/jhoicas/Solicitudes-api/pkg/logger"
)

// Purger borra contadores de ventanas ya cerradas.
type Purger interface {
	PurgeBefore(ctx context.Context, before time.Time) (int64, error)
}

// Janitor purga periódicamente las ventanas vencidas de rate_limit_counters.
// Redis no lo necesita: cada clave expira con su ventana.
type Janitor struct {
	purger Purger
	retain time.Duration
	now    func() time.Time
	log    *logger.Logger
}

// NewJanitor retain debe cubrir la ventana más larga en uso (ver Limiter.MaxWindow).
func NewJanitor(purger Purger, retain time.Duration, log *logger.Logger) *Janitor {
	if retain <= 0 {
		retain = DefaultPolicy.Window
	}
	return &Janitor{purger: purger, retain: retain, now: time.Now, log: log.Named("ratelimit_janitor")}
}

// WithClock reemplaza el reloj (tests).
func (j *Janitor) WithClock(now func() time.Time) *Janitor {
	j.now = now
	return j
}

// Sweep borra las ventanas que empezaron antes de now-retain; ninguna de ellas sigue abierta.
func (j *Janitor) Sweep(ctx context.Context) (int64, error) {
	before := j.now().UTC().Add(-j.retain)
	n, err := j.purger.PurgeBefore(ctx, before)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		j.log.Debug().Int64("deleted", n).Time("before", before).Msg("ventanas vencidas purgadas")
	}
	return n, nil
}

// Start lanza la goroutine de purga cada interval hasta que ctx se cancele.
func (j *Janitor) Start(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := j.Sweep(ctx); err != nil && ctx.Err() == nil {
					j.log.Warn().Err(err).Msg("purga de rate limit falló")
				}
			}
		}
	}()
}
