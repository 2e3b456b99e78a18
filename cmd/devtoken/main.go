// devtoken emite un JWT de desarrollo firmado con JWT_SECRET.
//
// Uso: go run ./cmd/devtoken -user <uuid> -email ana@empresa.co [-minutes 60]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jhoicas/Solicitudes-api/pkg/config"
	"github.com/jhoicas/Solicitudes-api/pkg/jwt"
)

func main() {
	userID := flag.String("user", "", "id del usuario (uuid); vacío = uno nuevo")
	email := flag.String("email", "", "email del usuario")
	minutes := flag.Int("minutes", 0, "vigencia en minutos (por defecto JWT_EXPIRATION_MINUTES)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if cfg.App.Env == "production" {
		fmt.Fprintln(os.Stderr, "devtoken no se usa en production")
		os.Exit(1)
	}
	if *userID == "" {
		*userID = uuid.New().String()
	}
	if *minutes <= 0 {
		*minutes = cfg.JWT.Expiration
	}

	tok, err := jwt.Generate(cfg.JWT.Secret, *userID, *email, cfg.JWT.Issuer, *minutes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
