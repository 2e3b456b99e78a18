package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/Solicitudes-api/internal/application/analytics"
	"github.com/jhoicas/Solicitudes-api/internal/application/ratelimit"
	"github.com/jhoicas/Solicitudes-api/internal/application/reminder"
	"github.com/jhoicas/Solicitudes-api/internal/application/requests"
	"github.com/jhoicas/Solicitudes-api/internal/application/usecase"
	"github.com/jhoicas/Solicitudes-api/internal/infrastructure/cache"
	"github.com/jhoicas/Solicitudes-api/internal/infrastructure/email"
	"github.com/jhoicas/Solicitudes-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Solicitudes-api/internal/interfaces/http"
	"github.com/jhoicas/Solicitudes-api/pkg/config"
	"github.com/jhoicas/Solicitudes-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, postgres.ResolvedDSN(cfg.DB), postgres.MigrateUp, log); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	requestRepo := postgres.NewRequestRepository(pool)
	itemRepo := postgres.NewRequestItemRepository(pool)
	commentRepo := postgres.NewCommentRepository(pool)
	logRepo := postgres.NewRequestLogRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Rate limiter: contador en PostgreSQL o Redis, fail-open ante fallos del store.
	var (
		store    ratelimit.Store
		counters *postgres.RateLimitRepo
	)
	switch cfg.RateLimit.Backend {
	case "redis":
		rdb, err := cache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		store = cache.NewRateLimitStore(rdb, cfg.App.Name+":rl")
	default:
		counters = postgres.NewRateLimitRepository(pool)
		store = ratelimit.NewCounterStore(counters)
	}
	limiter := ratelimit.NewLimiter(store, ratelimit.Policy{
		Limit:  cfg.RateLimit.Limit,
		Window: time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute,
	}, log)

	bgCtx, stopBackground := context.WithCancel(ctx)
	defer stopBackground()
	if counters != nil && cfg.RateLimit.PurgeMinutes > 0 {
		ratelimit.NewJanitor(counters, limiter.MaxWindow(), log).
			Start(bgCtx, time.Duration(cfg.RateLimit.PurgeMinutes)*time.Minute)
	}

	userUC := usecase.NewUserUseCase(userRepo, limiter, cfg.Auth.AllowedDomains, log)
	requestUC := requests.NewUseCase(txRunner, requestRepo, itemRepo, commentRepo, logRepo, userRepo, limiter, log)

	loc, err := time.LoadLocation(cfg.Cron.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Cron.Timezone).Msg("CRON_TIMEZONE inválido")
	}
	var mailer reminder.Mailer
	if cfg.SMTP.Enabled() {
		mailer = email.NewSMTPMailer(cfg.SMTP)
	} else {
		log.Warn().Msg("SMTP_HOST vacío: los recordatorios solo se registran en el log")
		mailer = email.NewLogMailer(cfg.SMTP.BaseURL, log)
	}
	dispatcher := reminder.NewDispatcher(
		postgres.NewDueItemRepository(pool),
		postgres.NewCronLogRepository(pool),
		mailer, loc, log,
	)
	summaryUC := analytics.NewSummaryUseCase(postgres.NewAnalyticsRepository(pool), loc, log)
	if cfg.Cron.Secret == "" {
		log.Warn().Msg("CRON_SECRET vacío: /reminders rechazará toda invocación")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	prom := fiberprometheus.New(cfg.App.Name)
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Solicitudes API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Requests:   requestUC,
		Users:      userUC,
		Reminders:  dispatcher,
		Summary:    summaryUC,
		DB:         pool,
		JWTSecret:  cfg.JWT.Secret,
		CronSecret: cfg.Cron.Secret,
		AppName:    cfg.App.Name,
		Log:        log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stopBackground()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
