package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Solicitudes-api/internal/domain"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// userSelect usuario con sus roles agregados (user_roles -> roles).
const userSelect = `
	SELECT u.id, u.external_id, u.email, u.name, u.phone, u.unit_id, u.active, u.created_at, u.updated_at,
		COALESCE(array_agg(r.name ORDER BY r.id) FILTER (WHERE r.name IS NOT NULL), '{}') AS roles
	FROM users u
	LEFT JOIN user_roles ur ON ur.user_id = u.id
	LEFT JOIN roles r ON r.id = ur.role_id`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// GetByID obtiene un usuario con sus roles; (nil, nil) si no existe.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, `WHERE u.id = $1`, id)
}

// GetBySubject usuario cuyo external_id o id coincide con el sujeto del token.
func (r *UserRepo) GetBySubject(ctx context.Context, subject string) (*entity.User, error) {
	return r.getOne(ctx, `WHERE u.external_id = $1 OR u.id::text = $1`, subject)
}

// GetByEmail usuario por email (ya normalizado en minúsculas).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, `WHERE u.email = $1`, email)
}

func (r *UserRepo) getOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, userSelect+` `+where+` GROUP BY u.id LIMIT 1`, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// LinkSubject vincula el sujeto del proveedor a un usuario sin vínculo previo.
func (r *UserRepo) LinkSubject(ctx context.Context, userID, subject string) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE users SET external_id = $2, updated_at = now()
		WHERE id = $1 AND external_id IS NULL`, userID, subject)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("link user subject: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Create inserta el usuario y sus roles en una sola sentencia.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	query := `
		WITH nu AS (
			INSERT INTO users (id, email, name, phone, unit_id, active, created_at, updated_at, external_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $10)
			RETURNING id
		)
		INSERT INTO user_roles (user_id, role_id)
		SELECT nu.id, roles.id FROM nu, roles WHERE roles.name = ANY($9)`
	_, err := r.q.Exec(ctx, query,
		u.ID, u.Email, u.Name, u.Phone, u.UnitID, u.Active, u.CreatedAt, u.UpdatedAt, roleNames(u.Roles), u.ExternalID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// UpsertByEmail alta o actualización por email (carga de usuarios); devuelve el id persistido.
func (r *UserRepo) UpsertByEmail(ctx context.Context, u *entity.User) (string, error) {
	var id string
	err := r.q.QueryRow(ctx, `
		INSERT INTO users (id, email, name, phone, unit_id, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (email) DO UPDATE SET
			name = EXCLUDED.name, phone = EXCLUDED.phone, unit_id = EXCLUDED.unit_id,
			active = EXCLUDED.active, updated_at = EXCLUDED.updated_at
		RETURNING id`,
		u.ID, u.Email, u.Name, u.Phone, u.UnitID, u.Active, u.CreatedAt, u.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("upsert user: %w", err)
	}
	return id, nil
}

// ListByUnit usuarios activos; unitID vacío = todas las unidades.
func (r *UserRepo) ListByUnit(ctx context.Context, unitID string, limit, offset int) ([]*entity.User, error) {
	query := userSelect + `
		WHERE u.active AND ($1 = '' OR u.unit_id::text = $1)
		GROUP BY u.id
		ORDER BY u.name, u.email
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, unitID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// SetRoles reemplaza el conjunto de roles dentro de una tx (o savepoint si ya hay una).
func (r *UserRepo) SetRoles(ctx context.Context, userID string, roles []entity.Role) error {
	return pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE users SET updated_at = now() WHERE id = $1`, userID)
		if err != nil {
			return fmt.Errorf("touch user: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrUserNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("delete user roles: %w", err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO user_roles (user_id, role_id)
			SELECT $1, id FROM roles WHERE name = ANY($2)`, userID, roleNames(roles))
		if err != nil {
			return fmt.Errorf("insert user roles: %w", err)
		}
		return nil
	})
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		u     entity.User
		roles []string
	)
	if err := row.Scan(&u.ID, &u.ExternalID, &u.Email, &u.Name, &u.Phone, &u.UnitID, &u.Active, &u.CreatedAt, &u.UpdatedAt, &roles); err != nil {
		return nil, err
	}
	u.Roles = entity.ParseRoles(roles)
	return &u, nil
}

func roleNames(roles []entity.Role) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, r.String())
	}
	return out
}
