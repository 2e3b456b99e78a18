package http

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Solicitudes-api/internal/application/dto"
	"github.com/jhoicas/Solicitudes-api/pkg/logger"
)

// ReminderRunner ejecuta el job de recordatorios; lo implementa *reminder.Dispatcher.
type ReminderRunner interface {
	Run(ctx context.Context) (*dto.ReminderStats, error)
}

// ReminderHandler GET /reminders, disparado por el cron externo.
type ReminderHandler struct {
	runner ReminderRunner
	secret string
	log    *logger.Logger
}

// NewReminderHandler construye el handler. secret vacío rechaza toda invocación.
func NewReminderHandler(runner ReminderRunner, secret string, log *logger.Logger) *ReminderHandler {
	return &ReminderHandler{runner: runner, secret: secret, log: log.Named("http.reminders")}
}

func (h *ReminderHandler) authorized(c *fiber.Ctx) bool {
	if h.secret == "" {
		return false
	}
	tok, ok := bearerToken(c)
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(tok), []byte(h.secret)) == 1
}

// Run godoc
// @Summary      Ejecutar recordatorios diarios
// @Tags         cron
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ReminderRunResponse
// @Failure      401  {object}  dto.ActionResponse
// @Failure      503  {object}  dto.ActionResponse
// @Router       /reminders [get]
func (h *ReminderHandler) Run(c *fiber.Ctx) error {
	if !h.authorized(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("UNAUTHORIZED", "no autorizado"))
	}
	stats, err := h.runner.Run(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	h.log.Info().
		Str("job_date", stats.JobDate).
		Int("sent", stats.EmailsSent).
		Int("skipped", stats.EmailsSkipped).
		Int("failed", stats.EmailsFailed).
		Msg("recordatorios ejecutados")
	return c.JSON(dto.ReminderRunResponse{
		Success: true,
		Message: fmt.Sprintf("recordatorios procesados: %d enviados, %d omitidos, %d fallidos",
			stats.EmailsSent, stats.EmailsSkipped, stats.EmailsFailed),
		Stats: *stats,
	})
}
