package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Solicitudes-api/internal/application/dto"
	"github.com/jhoicas/Solicitudes-api/internal/domain"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/permission"
	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
	"github.com/jhoicas/Solicitudes-api/pkg/logger"
)

// ActionSetRoles acción sometida a rate limit.
const ActionSetRoles = "set_roles"

// RateLimiter cuota por (usuario, acción).
type RateLimiter interface {
	Allow(ctx context.Context, userID, action string) error
}

// UserUseCase resolución del actor y administración de roles.
type UserUseCase struct {
	repo           repository.UserRepository
	limiter        RateLimiter
	allowedDomains []string
	log            *logger.Logger
	now            func() time.Time
}

// NewUserUseCase construye el caso de uso. allowedDomains habilita el alta en el primer acceso.
func NewUserUseCase(repo repository.UserRepository, limiter RateLimiter, allowedDomains []string, log *logger.Logger) *UserUseCase {
	return &UserUseCase{
		repo:           repo,
		limiter:        limiter,
		allowedDomains: allowedDomains,
		log:            log.Named("users"),
		now:            time.Now,
	}
}

// ResolveActor carga el usuario del token con sus roles. El sujeto se busca por external_id o id;
// si no existe, un usuario precargado con el mismo email queda vinculado al sujeto y, si tampoco
// existe, se da de alta con rol user cuando el dominio del email está permitido. Un usuario
// inactivo queda sin acceso.
func (uc *UserUseCase) ResolveActor(ctx context.Context, subject, email string) (permission.Actor, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return permission.Actor{}, domain.ErrUnauthorized
	}
	u, err := uc.repo.GetBySubject(ctx, subject)
	if err != nil {
		return permission.Actor{}, uc.fail(err, "get_user")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if u == nil && email != "" {
		u, err = uc.link(ctx, subject, email)
		if err != nil {
			return permission.Actor{}, err
		}
	}
	if u == nil {
		u, err = uc.provision(ctx, subject, email)
		if err != nil {
			return permission.Actor{}, err
		}
	}
	if !u.Active {
		return permission.Actor{}, domain.ErrForbidden
	}
	return permission.ActorFromUser(u), nil
}

// link vincula el sujeto a un usuario existente con ese email; (nil, nil) si no hay ninguno.
// Un email ya vinculado a otro sujeto no se adopta.
func (uc *UserUseCase) link(ctx context.Context, subject, email string) (*entity.User, error) {
	u, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, uc.fail(err, "get_user_by_email")
	}
	if u == nil {
		return nil, nil
	}
	if u.ExternalID != nil {
		uc.log.Warn().Str("user_id", u.ID).Str("subject", subject).Msg("email vinculado a otro sujeto")
		return nil, domain.ErrUnauthorized
	}
	ok, err := uc.repo.LinkSubject(ctx, u.ID, subject)
	if err != nil {
		return nil, uc.fail(err, "link_subject")
	}
	if !ok {
		// Vínculo concurrente: vale solo si fue con este mismo sujeto.
		u, err = uc.repo.GetBySubject(ctx, subject)
		if err != nil {
			return nil, uc.fail(err, "get_user")
		}
		if u == nil {
			return nil, domain.ErrUnauthorized
		}
		return u, nil
	}
	u.ExternalID = &subject
	uc.log.Info().Str("user_id", u.ID).Str("subject", subject).Msg("identidad vinculada")
	return u, nil
}

func (uc *UserUseCase) provision(ctx context.Context, subject, email string) (*entity.User, error) {
	if !uc.domainAllowed(email) {
		return nil, domain.ErrUnauthorized
	}
	now := uc.now()
	u := &entity.User{
		ID:        subject,
		Email:     email,
		Name:      email,
		Roles:     []entity.Role{entity.RoleUser},
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := uuid.Parse(subject); err != nil {
		u.ID = uuid.New().String()
		u.ExternalID = &subject
	}
	if err := uc.repo.Create(ctx, u); err != nil {
		if !errors.Is(err, domain.ErrDuplicate) {
			return nil, uc.fail(err, "create_user")
		}
		// Alta concurrente del mismo usuario.
		u, err = uc.repo.GetBySubject(ctx, subject)
		if err != nil {
			return nil, uc.fail(err, "get_user")
		}
		if u == nil {
			return nil, domain.ErrUnauthorized
		}
		return u, nil
	}
	uc.log.Info().Str("user_id", u.ID).Str("email", email).Msg("usuario dado de alta")
	return u, nil
}

func (uc *UserUseCase) domainAllowed(email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	d := email[at+1:]
	for _, allowed := range uc.allowedDomains {
		if d == allowed {
			return true
		}
	}
	return false
}

// List usuarios activos: admin ve todos, manager solo su unidad.
func (uc *UserUseCase) List(ctx context.Context, a permission.Actor, q dto.ListUsersQuery) (*dto.UserListResponse, error) {
	if a.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	if !permission.CanListUsers(a) {
		return nil, domain.ErrForbidden
	}
	q.DefaultPage()
	out := &dto.UserListResponse{
		Users: []dto.UserResponse{},
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}
	unit := ""
	if !permission.IsAdmin(a) {
		if a.UnitID == "" {
			return out, nil
		}
		unit = a.UnitID
	}
	users, err := uc.repo.ListByUnit(ctx, unit, q.Limit, q.Offset)
	if err != nil {
		return nil, uc.fail(err, "list_users")
	}
	for _, u := range users {
		out.Users = append(out.Users, *entityToUserResponse(u))
	}
	return out, nil
}

// SetRoles reemplaza los roles de un usuario (solo admin). Un admin no puede quitarse su propio rol admin.
func (uc *UserUseCase) SetRoles(ctx context.Context, a permission.Actor, userID string, in dto.SetRolesRequest) (*dto.UserResponse, error) {
	if a.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	if uc.limiter != nil {
		if err := uc.limiter.Allow(ctx, a.UserID, ActionSetRoles); err != nil {
			return nil, err
		}
	}
	if !permission.CanManageUsers(a) {
		return nil, domain.ErrForbidden
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	roles := make([]entity.Role, 0, len(in.Roles))
	seen := map[entity.Role]bool{}
	for i, name := range in.Roles {
		r, ok := entity.ParseRole(name)
		if !ok {
			return nil, domain.NewValidationError(fmt.Sprintf("roles[%d]", i), "rol desconocido")
		}
		if !seen[r] {
			seen[r] = true
			roles = append(roles, r)
		}
	}
	if userID == a.UserID && !seen[entity.RoleAdmin] {
		return nil, domain.ErrConflict
	}

	if _, err := uuid.Parse(userID); err != nil {
		return nil, domain.ErrNotFound
	}
	u, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, uc.fail(err, "get_user")
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.repo.SetRoles(ctx, userID, roles); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, uc.fail(err, "set_roles")
	}
	u.Roles = roles
	u.UpdatedAt = uc.now()

	uc.log.Info().Str("actor_id", a.UserID).Str("user_id", userID).Strs("roles", roleNames(roles)).Msg("roles actualizados")
	return entityToUserResponse(u), nil
}

func (uc *UserUseCase) fail(err error, op string) error {
	if domain.IsDomainError(err) {
		return err
	}
	uc.log.Error().Err(err).Str("op", op).Msg("error de almacenamiento")
	return domain.ErrUpstream
}

func roleNames(roles []entity.Role) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, r.String())
	}
	return out
}

func entityToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Phone:     u.Phone,
		UnitID:    u.UnitID,
		Roles:     roleNames(u.Roles),
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
