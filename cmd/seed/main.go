// seed carga usuarios y unidades desde un CSV (email,name,unit,roles) exportado por RR. HH.
// roles separados por "|", p. ej. "staff|manager". La unidad se crea si no existe.
//
// Uso: go run ./cmd/seed [-latin1] [ruta/usuarios.csv]
// Por defecto busca usuarios.csv en el directorio actual.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Solicitudes-api/pkg/config"
	"github.com/jhoicas/Solicitudes-api/pkg/logger"
)

type row struct {
	Email string
	Name  string
	Unit  string
	Roles []entity.Role
}

func main() {
	latin1 := flag.Bool("latin1", false, "el CSV viene en ISO-8859-1 (Excel)")
	flag.Parse()
	csvPath := "usuarios.csv"
	if flag.NArg() > 0 {
		csvPath = flag.Arg(0)
	}

	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	var in io.Reader = f
	if *latin1 {
		in = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	}
	rows, err := parse(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	units := postgres.NewUnitRepository(pool)
	users := postgres.NewUserRepository(pool)
	unitIDs := map[string]string{}

	for _, r := range rows {
		u := &entity.User{
			ID:        uuid.New().String(),
			Email:     r.Email,
			Name:      r.Name,
			Active:    true,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if r.Unit != "" {
			id, ok := unitIDs[r.Unit]
			if !ok {
				if id, err = units.Ensure(ctx, r.Unit); err != nil {
					log.Fatal().Err(err).Str("unit", r.Unit).Msg("unidad")
				}
				unitIDs[r.Unit] = id
			}
			u.UnitID = &id
		}
		id, err := users.UpsertByEmail(ctx, u)
		if err != nil {
			log.Fatal().Err(err).Str("email", r.Email).Msg("usuario")
		}
		if err := users.SetRoles(ctx, id, r.Roles); err != nil {
			log.Fatal().Err(err).Str("email", r.Email).Msg("roles")
		}
	}
	log.Info().Int("users", len(rows)).Int("units", len(unitIDs)).Str("file", csvPath).Msg("carga completada")
}

// parse lee el CSV con encabezado email,name,unit,roles. Filas sin roles reciben "user".
func parse(r io.Reader) ([]row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = 4

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("encabezado: %w", err)
	}
	if strings.ToLower(strings.TrimPrefix(header[0], "\ufeff")) != "email" {
		return nil, fmt.Errorf("encabezado inesperado: %v (email,name,unit,roles)", header)
	}

	var out []row
	seen := map[string]bool{}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		email := strings.ToLower(strings.TrimSpace(rec[0]))
		if email == "" || !strings.Contains(email, "@") {
			return nil, fmt.Errorf("línea %d: email inválido %q", line, rec[0])
		}
		if seen[email] {
			return nil, fmt.Errorf("línea %d: email repetido %s", line, email)
		}
		seen[email] = true

		var names []string
		for _, n := range strings.Split(rec[3], "|") {
			if n = strings.TrimSpace(n); n != "" {
				if _, ok := entity.ParseRole(n); !ok {
					return nil, fmt.Errorf("línea %d: rol desconocido %q", line, n)
				}
				names = append(names, n)
			}
		}
		roles := entity.ParseRoles(names)
		if len(roles) == 0 {
			roles = []entity.Role{entity.RoleUser}
		}
		out = append(out, row{Email: email, Name: strings.TrimSpace(rec[1]), Unit: strings.TrimSpace(rec[2]), Roles: roles})
	}
	return out, nil
}
