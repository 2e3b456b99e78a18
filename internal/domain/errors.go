package domain

import (
	"errors"
	"fmt"
	"time"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrIllegalTransition = errors.New("transición de estado no permitida")
	ErrRateLimited       = errors.New("demasiadas solicitudes")
	ErrUpstream          = errors.New("servicio no disponible temporalmente, intente más tarde")
)

// ValidationError error de validación a nivel de campo. errors.Is(err, ErrInvalidInput) es true.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError construye un error de validación para un campo.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// IllegalTransitionError la transición pedida no está en la tabla o el actor no puede ejecutarla.
// From es el estado persistido al momento de la escritura.
type IllegalTransitionError struct {
	From   string
	To     string
	Reason string
}

func (e *IllegalTransitionError) Error() string {
	msg := fmt.Sprintf("no se puede pasar de %s a %s", e.From, e.To)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *IllegalTransitionError) Unwrap() error { return ErrIllegalTransition }

// RateLimitedError el actor superó el límite de la ventana actual.
type RateLimitedError struct {
	Action  string
	ResetAt time.Time
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("%s: límite alcanzado para %s", ErrRateLimited.Error(), e.Action)
}

func (e *RateLimitedError) Unwrap() error { return ErrRateLimited }

// RetryAfter devuelve la espera hasta ResetAt (mínimo un segundo).
func (e *RateLimitedError) RetryAfter(now time.Time) time.Duration {
	d := e.ResetAt.Sub(now)
	if d < time.Second {
		return time.Second
	}
	return d.Round(time.Second)
}

var taxonomy = []error{
	ErrNotFound, ErrUserNotFound, ErrInvalidInput, ErrDuplicate, ErrUnauthorized,
	ErrForbidden, ErrConflict, ErrIllegalTransition, ErrRateLimited, ErrUpstream,
}

// IsDomainError informa si err pertenece a la taxonomía de dominio (se puede exponer tal cual).
func IsDomainError(err error) bool {
	for _, t := range taxonomy {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}
