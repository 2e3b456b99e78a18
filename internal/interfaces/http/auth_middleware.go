package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Solicitudes-api/internal/application/dto"
	"github.com/jhoicas/Solicitudes-api/internal/domain/permission"
	"github.com/jhoicas/Solicitudes-api/pkg/jwt"
	"github.com/jhoicas/Solicitudes-api/pkg/logger"
)

// LocalActor clave de Locals para el actor resuelto.
const LocalActor = "actor"

// ActorResolver carga el actor (roles incluidos) a partir de la identidad del token.
// Lo implementa *usecase.UserUseCase.
type ActorResolver interface {
	ResolveActor(ctx context.Context, subject, email string) (permission.Actor, error)
}

// AuthMiddleware valida el Bearer Token JWT, resuelve el actor contra el store y lo deja en c.Locals.
func AuthMiddleware(jwtSecret string, resolver ActorResolver, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("MISSING_TOKEN", "Authorization: Bearer <token> requerido"))
		}
		subject, email, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("INVALID_TOKEN", "token inválido o expirado"))
		}
		actor, err := resolver.ResolveActor(c.UserContext(), subject, email)
		if err != nil {
			return writeError(c, log, err)
		}
		c.Locals(LocalActor, actor)
		return c.Next()
	}
}

// bearerToken extrae el token de "Authorization: Bearer <token>".
func bearerToken(c *fiber.Ctx) (string, bool) {
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	tok := strings.TrimSpace(parts[1])
	return tok, tok != ""
}

// GetActor devuelve el actor del contexto (después del middleware de auth); vacío si no hay.
func GetActor(c *fiber.Ctx) permission.Actor {
	a, _ := c.Locals(LocalActor).(permission.Actor)
	return a
}
