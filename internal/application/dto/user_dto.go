package dto

import "time"

// UserResponse salida de un usuario.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	UnitID    *string   `json:"unit_id,omitempty"`
	Roles     []string  `json:"roles"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetRolesRequest body para PUT /api/users/:id/roles (reemplaza el conjunto).
type SetRolesRequest struct {
	Roles []string `json:"roles" validate:"required,min=1,max=4,dive,required"`
}

// ListUsersQuery filtros de GET /api/users.
type ListUsersQuery struct {
	PageRequest
}

// UserListResponse listado paginado.
type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Page  PageResponse   `json:"page"`
}
