package http

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Solicitudes-api/internal/application/dto"
	"github.com/jhoicas/Solicitudes-api/internal/domain"
	"github.com/jhoicas/Solicitudes-api/pkg/logger"
)

// writeError traduce un error de dominio a status HTTP y sobre {success:false, code, error}.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	var (
		ve *domain.ValidationError
		it *domain.IllegalTransitionError
		rl *domain.RateLimitedError
	)
	switch {
	case errors.As(err, &ve):
		body := dto.Fail("VALIDATION", ve.Error())
		body.Field = ve.Field
		return c.Status(fiber.StatusBadRequest).JSON(body)
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("INVALID_INPUT", err.Error()))
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("UNAUTHORIZED", err.Error()))
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.Fail("FORBIDDEN", err.Error()))
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.Fail("NOT_FOUND", err.Error()))
	case errors.As(err, &it):
		return c.Status(fiber.StatusConflict).JSON(dto.Fail("ILLEGAL_TRANSITION", it.Error()))
	case errors.Is(err, domain.ErrIllegalTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.Fail("ILLEGAL_TRANSITION", err.Error()))
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.Fail("CONFLICT", err.Error()))
	case errors.As(err, &rl):
		wait := rl.RetryAfter(time.Now())
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(wait.Seconds())))
		msg := fmt.Sprintf("demasiadas solicitudes, intente de nuevo en %s", humanWait(wait))
		return c.Status(fiber.StatusTooManyRequests).JSON(dto.Fail("RATE_LIMITED", msg))
	case errors.Is(err, domain.ErrRateLimited):
		return c.Status(fiber.StatusTooManyRequests).JSON(dto.Fail("RATE_LIMITED", err.Error()))
	case errors.Is(err, domain.ErrUpstream):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.Fail("UPSTREAM", err.Error()))
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("error no clasificado")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("INTERNAL", "error interno"))
}

// humanWait "N segundo(s)" por debajo de un minuto, si no "N minuto(s)" redondeado hacia arriba.
func humanWait(d time.Duration) string {
	if d < time.Minute {
		s := int(math.Ceil(d.Seconds()))
		if s <= 1 {
			return "1 segundo"
		}
		return fmt.Sprintf("%d segundos", s)
	}
	m := int(math.Ceil(d.Minutes()))
	if m == 1 {
		return "1 minuto"
	}
	return fmt.Sprintf("%d minutos", m)
}

// badBody respuesta para un cuerpo JSON que no se pudo decodificar.
func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("INVALID_BODY", "cuerpo inválido"))
}
