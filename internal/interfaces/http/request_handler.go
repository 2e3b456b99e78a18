package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Solicitudes-api/internal/application/dto"
	"github.com/jhoicas/Solicitudes-api/internal/domain/permission"
	"github.com/jhoicas/Solicitudes-api/pkg/logger"
)

// RequestService operaciones de solicitudes; lo implementa *requests.UseCase.
type RequestService interface {
	Create(ctx context.Context, a permission.Actor, in dto.CreateRequestRequest) (*dto.RequestResponse, error)
	Update(ctx context.Context, a permission.Actor, id string, in dto.UpdateRequestRequest) (*dto.RequestResponse, error)
	Delete(ctx context.Context, a permission.Actor, id string) error
	Submit(ctx context.Context, a permission.Actor, id string) (*dto.RequestResponse, error)
	Assign(ctx context.Context, a permission.Actor, id string, in dto.AssignRequestRequest) (*dto.RequestResponse, error)
	Reassign(ctx context.Context, a permission.Actor, id string, in dto.AssignRequestRequest) (*dto.RequestResponse, error)
	UpdateStatus(ctx context.Context, a permission.Actor, id string, in dto.UpdateStatusRequest) (*dto.RequestResponse, error)
	Cancel(ctx context.Context, a permission.Actor, id string, in dto.CancelRequestRequest) (*dto.RequestResponse, error)
	AddComment(ctx context.Context, a permission.Actor, id string, in dto.AddCommentRequest) (*dto.CommentResponse, error)
	Get(ctx context.Context, a permission.Actor, id string) (*dto.RequestDetailResponse, error)
	List(ctx context.Context, a permission.Actor, q dto.ListRequestsQuery) (*dto.RequestListResponse, error)
}

// RequestHandler maneja las peticiones HTTP de solicitudes (protegido).
type RequestHandler struct {
	svc RequestService
	log *logger.Logger
}

// NewRequestHandler construye el handler.
func NewRequestHandler(svc RequestService, log *logger.Logger) *RequestHandler {
	return &RequestHandler{svc: svc, log: log.Named("http.requests")}
}

// reply 200/201 con el sobre de éxito, o el error mapeado.
func (h *RequestHandler) reply(c *fiber.Ctx, status int, data any, err error) error {
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(status).JSON(dto.OK(data))
}

// Create godoc
// @Summary      Crear solicitud (borrador)
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRequestRequest  true  "Motivo, prioridad e ítems"
// @Success      201   {object}  dto.ActionResponse
// @Failure      400   {object}  dto.ActionResponse
// @Failure      429   {object}  dto.ActionResponse
// @Router       /api/requests [post]
func (h *RequestHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.Create(c.UserContext(), GetActor(c), in)
	return h.reply(c, fiber.StatusCreated, out, err)
}

// List godoc
// @Summary      Listar solicitudes visibles
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Filtro de estado"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.ActionResponse
// @Router       /api/requests [get]
func (h *RequestHandler) List(c *fiber.Ctx) error {
	var q dto.ListRequestsQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("INVALID_QUERY", "parámetros inválidos"))
	}
	out, err := h.svc.List(c.UserContext(), GetActor(c), q)
	return h.reply(c, fiber.StatusOK, out, err)
}

// Get godoc
// @Summary      Detalle de solicitud
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.ActionResponse
// @Failure      404  {object}  dto.ActionResponse
// @Router       /api/requests/{id} [get]
func (h *RequestHandler) Get(c *fiber.Ctx) error {
	out, err := h.svc.Get(c.UserContext(), GetActor(c), c.Params("id"))
	return h.reply(c, fiber.StatusOK, out, err)
}

// Update godoc
// @Summary      Editar borrador
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la solicitud"
// @Param        body  body  dto.UpdateRequestRequest  true  "Motivo, prioridad e ítems"
// @Success      200   {object}  dto.ActionResponse
// @Failure      409   {object}  dto.ActionResponse
// @Router       /api/requests/{id} [put]
func (h *RequestHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.Update(c.UserContext(), GetActor(c), c.Params("id"), in)
	return h.reply(c, fiber.StatusOK, out, err)
}

// Delete godoc
// @Summary      Eliminar borrador
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.ActionResponse
// @Router       /api/requests/{id} [delete]
func (h *RequestHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	err := h.svc.Delete(c.UserContext(), GetActor(c), id)
	return h.reply(c, fiber.StatusOK, fiber.Map{"id": id}, err)
}

// Submit godoc
// @Summary      Enviar borrador (DRAFT -> NEW)
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.ActionResponse
// @Router       /api/requests/{id}/submit [post]
func (h *RequestHandler) Submit(c *fiber.Ctx) error {
	out, err := h.svc.Submit(c.UserContext(), GetActor(c), c.Params("id"))
	return h.reply(c, fiber.StatusOK, out, err)
}

// Assign godoc
// @Summary      Asignar responsable (NEW -> ASSIGNED)
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la solicitud"
// @Param        body  body  dto.AssignRequestRequest  true  "Responsable"
// @Success      200   {object}  dto.ActionResponse
// @Router       /api/requests/{id}/assign [post]
func (h *RequestHandler) Assign(c *fiber.Ctx) error {
	var in dto.AssignRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.Assign(c.UserContext(), GetActor(c), c.Params("id"), in)
	return h.reply(c, fiber.StatusOK, out, err)
}

// Reassign godoc
// @Summary      Cambiar responsable
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la solicitud"
// @Param        body  body  dto.AssignRequestRequest  true  "Nuevo responsable"
// @Success      200   {object}  dto.ActionResponse
// @Router       /api/requests/{id}/reassign [post]
func (h *RequestHandler) Reassign(c *fiber.Ctx) error {
	var in dto.AssignRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.Reassign(c.UserContext(), GetActor(c), c.Params("id"), in)
	return h.reply(c, fiber.StatusOK, out, err)
}

// UpdateStatus godoc
// @Summary      Cambiar estado
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la solicitud"
// @Param        body  body  dto.UpdateStatusRequest  true  "Estado destino y nota"
// @Success      200   {object}  dto.ActionResponse
// @Failure      409   {object}  dto.ActionResponse
// @Router       /api/requests/{id}/status [patch]
func (h *RequestHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.UpdateStatus(c.UserContext(), GetActor(c), c.Params("id"), in)
	return h.reply(c, fiber.StatusOK, out, err)
}

// Cancel godoc
// @Summary      Cancelar solicitud
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la solicitud"
// @Param        body  body  dto.CancelRequestRequest  false "Motivo"
// @Success      200   {object}  dto.ActionResponse
// @Router       /api/requests/{id}/cancel [post]
func (h *RequestHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelRequestRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.svc.Cancel(c.UserContext(), GetActor(c), c.Params("id"), in)
	return h.reply(c, fiber.StatusOK, out, err)
}

// AddComment godoc
// @Summary      Comentar solicitud
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la solicitud"
// @Param        body  body  dto.AddCommentRequest  true  "Contenido"
// @Success      201   {object}  dto.ActionResponse
// @Router       /api/requests/{id}/comments [post]
func (h *RequestHandler) AddComment(c *fiber.Ctx) error {
	var in dto.AddCommentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.AddComment(c.UserContext(), GetActor(c), c.Params("id"), in)
	return h.reply(c, fiber.StatusCreated, out, err)
}
