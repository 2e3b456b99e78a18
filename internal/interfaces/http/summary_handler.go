package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Solicitudes-api/internal/application/dto"
	"github.com/jhoicas/Solicitudes-api/internal/domain/permission"
	"github.com/jhoicas/Solicitudes-api/pkg/logger"
)

// SummaryService resumen del tablero; lo implementa *analytics.SummaryUseCase.
type SummaryService interface {
	GetSummary(ctx context.Context, a permission.Actor) (*dto.RequestSummaryResponse, error)
}

// SummaryHandler GET /api/requests/summary.
type SummaryHandler struct {
	svc SummaryService
	log *logger.Logger
}

// NewSummaryHandler construye el handler.
func NewSummaryHandler(svc SummaryService, log *logger.Logger) *SummaryHandler {
	return &SummaryHandler{svc: svc, log: log.Named("http.summary")}
}

// Get godoc
// @Summary      Resumen de solicitudes visibles
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ActionResponse
// @Router       /api/requests/summary [get]
func (h *SummaryHandler) Get(c *fiber.Ctx) error {
	out, err := h.svc.GetSummary(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.OK(out))
}
