// migrate aplica las migraciones embebidas.
//
// Uso: go run ./cmd/migrate [up|down|status]   (por defecto: up)
package main

import (
	"context"
	"os"

	"github.com/jhoicas/Solicitudes-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Solicitudes-api/pkg/config"
	"github.com/jhoicas/Solicitudes-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	command := postgres.MigrateUp
	if len(os.Args) > 1 {
		command = os.Args[1]
	}
	if err := postgres.Migrate(context.Background(), postgres.ResolvedDSN(cfg.DB), command, log); err != nil {
		log.Error().Err(err).Str("command", command).Msg("migraciones")
		os.Exit(1)
	}
}
