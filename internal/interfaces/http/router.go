package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/pkg/logger"
)

// Pinger verifica la conexión al store (lo implementa *pgxpool.Pool).
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Requests   RequestService
	Users      UserService
	Reminders  ReminderRunner
	Summary    SummaryService // opcional
	DB         Pinger         // opcional
	JWTSecret  string
	CronSecret string
	AppName    string
	Log        *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	app.Get("/health", healthHandler(deps.AppName, deps.DB))

	// Cron (bearer compartido, no JWT)
	reminderHandler := NewReminderHandler(deps.Reminders, deps.CronSecret, log)
	app.Get("/reminders", reminderHandler.Run)

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.Users, log))

	requests := api.Group("/requests")
	requestHandler := NewRequestHandler(deps.Requests, log)
	requests.Post("/", requestHandler.Create)
	requests.Get("/", requestHandler.List)
	if deps.Summary != nil {
		requests.Get("/summary", NewSummaryHandler(deps.Summary, log).Get)
	}
	requests.Get("/:id", requestHandler.Get)
	requests.Put("/:id", requestHandler.Update)
	requests.Delete("/:id", requestHandler.Delete)
	requests.Post("/:id/submit", requestHandler.Submit)
	requests.Post("/:id/assign", requestHandler.Assign)
	requests.Post("/:id/reassign", requestHandler.Reassign)
	requests.Patch("/:id/status", requestHandler.UpdateStatus)
	requests.Post("/:id/cancel", requestHandler.Cancel)
	requests.Post("/:id/comments", requestHandler.AddComment)

	users := api.Group("/users")
	userHandler := NewUserHandler(deps.Users, log)
	users.Get("/me", userHandler.Me)
	users.Get("/", RequireAnyRole(entity.RoleAdmin, entity.RoleManager), userHandler.List)
	users.Put("/:id/roles", RequireAnyRole(entity.RoleAdmin), userHandler.SetRoles)
}

func healthHandler(service string, db Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": service, "db": "down"})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": service})
	}
}
