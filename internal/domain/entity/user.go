package entity

import (
	"strings"
	"time"
)

// Role rol de negocio. Solo estos cuatro participan en la lógica de permisos.
type Role string

// Roles válidos para User.
const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
	RoleUser    Role = "user"
)

// IsValid informa si el rol es uno de los roles conocidos.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStaff, RoleUser:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// ParseRole normaliza un nombre de rol; ok=false si no es un rol conocido.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.IsValid()
}

// ParseRoles convierte nombres de rol en roles conocidos, descartando desconocidos y duplicados.
func ParseRoles(names []string) []Role {
	seen := make(map[Role]struct{}, len(names))
	out := make([]Role, 0, len(names))
	for _, n := range names {
		r, ok := ParseRole(n)
		if !ok {
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

// User representa un usuario autenticado; se da de alta en su primer acceso si el dominio del email está permitido.
type User struct {
	ID         string
	ExternalID *string // sujeto del proveedor de identidad cuando difiere de ID
	Email      string
	Name       string
	Phone      string
	UnitID     *string // unidad organizacional, puede ser nula
	Roles      []Role
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HasRole informa si el usuario tiene el rol indicado.
func (u *User) HasRole(role Role) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Unit unidad organizacional que acota la visibilidad de los managers.
type Unit struct {
	ID   string
	Name string
}
