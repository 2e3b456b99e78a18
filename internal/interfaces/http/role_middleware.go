package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Solicitudes-api/internal/application/dto"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/permission"
)

// RequireAnyRole corta con 403 si el actor no tiene ninguno de los roles indicados.
// Debe usarse DESPUÉS de AuthMiddleware; sin actor responde 401.
// Los casos de uso vuelven a verificar el permiso fino.
func RequireAnyRole(roles ...entity.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a := GetActor(c)
		if a.UserID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("UNAUTHORIZED", "actor no encontrado en el contexto"))
		}
		if permission.HasAnyRole(a, roles...) {
			return c.Next()
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.Fail("FORBIDDEN", "rol insuficiente para este recurso"))
	}
}
