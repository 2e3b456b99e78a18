package repository

import (
	"context"

	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los Get* devuelven (nil, nil) si el usuario no existe.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetBySubject busca por sujeto del token: coincide con ExternalID o con ID.
	GetBySubject(ctx context.Context, subject string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// LinkSubject fija ExternalID si aún no tiene uno; false si ya estaba vinculado.
	LinkSubject(ctx context.Context, userID, subject string) (bool, error)
	// Create inserta el usuario con sus roles; domain.ErrDuplicate si el id o email ya existen.
	Create(ctx context.Context, u *entity.User) error
	// ListByUnit lista usuarios activos; unitID vacío = todas las unidades.
	ListByUnit(ctx context.Context, unitID string, limit, offset int) ([]*entity.User, error)
	// SetRoles reemplaza el conjunto de roles del usuario.
	SetRoles(ctx context.Context, userID string, roles []entity.Role) error
}
