package repository

import (
	"context"
	"time"
)

// RateLimitRepository contador atómico por (usuario, acción, ventana).
type RateLimitRepository interface {
	// IncrementIfBelow incrementa el contador de la ventana solo si count < limit,
	// en una sola operación atómica. Devuelve el conteo resultante y si se admitió.
	IncrementIfBelow(ctx context.Context, userID, action string, windowStart time.Time, limit int) (count int, allowed bool, err error)
	// PurgeBefore borra las ventanas que empezaron antes de before; devuelve cuántas.
	PurgeBefore(ctx context.Context, before time.Time) (int64, error)
}
