package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// UnitRepo unidades organizacionales (solo alta por nombre; la administración es externa).
type UnitRepo struct {
	q Querier
}

// NewUnitRepository construye el adaptador.
func NewUnitRepository(q Querier) *UnitRepo {
	return &UnitRepo{q: q}
}

// Ensure devuelve el id de la unidad con ese nombre, creándola si no existe.
func (r *UnitRepo) Ensure(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("ensure unit: nombre vacío")
	}
	var id string
	err := r.q.QueryRow(ctx, `
		INSERT INTO units (id, name) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`, uuid.New().String(), name).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("ensure unit: %w", err)
	}
	return id, nil
}
