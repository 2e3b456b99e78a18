package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Solicitudes-api/internal/application/dto"
	"github.com/jhoicas/Solicitudes-api/internal/domain/permission"
	"github.com/jhoicas/Solicitudes-api/pkg/logger"
)

// UserService administración de usuarios; lo implementa *usecase.UserUseCase.
type UserService interface {
	ActorResolver
	List(ctx context.Context, a permission.Actor, q dto.ListUsersQuery) (*dto.UserListResponse, error)
	SetRoles(ctx context.Context, a permission.Actor, userID string, in dto.SetRolesRequest) (*dto.UserResponse, error)
}

// UserHandler maneja /api/users.
type UserHandler struct {
	svc UserService
	log *logger.Logger
}

// NewUserHandler construye el handler.
func NewUserHandler(svc UserService, log *logger.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: log.Named("http.users")}
}

// Me godoc
// @Summary      Actor autenticado
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ActionResponse
// @Router       /api/users/me [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	a := GetActor(c)
	roles := make([]string, 0, len(a.Roles))
	for _, r := range a.Roles {
		roles = append(roles, r.String())
	}
	return c.JSON(dto.OK(fiber.Map{
		"id":      a.UserID,
		"email":   a.Email,
		"name":    a.Name,
		"unit_id": a.UnitID,
		"roles":   roles,
	}))
}

// List godoc
// @Summary      Listar usuarios activos
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.ActionResponse
// @Failure      403     {object}  dto.ActionResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	var q dto.ListUsersQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("INVALID_QUERY", "parámetros inválidos"))
	}
	out, err := h.svc.List(c.UserContext(), GetActor(c), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.OK(out))
}

// SetRoles godoc
// @Summary      Reemplazar roles de un usuario
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID del usuario"
// @Param        body  body  dto.SetRolesRequest  true  "Roles"
// @Success      200   {object}  dto.ActionResponse
// @Failure      403   {object}  dto.ActionResponse
// @Router       /api/users/{id}/roles [put]
func (h *UserHandler) SetRoles(c *fiber.Ctx) error {
	var in dto.SetRolesRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.SetRoles(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.OK(out))
}
