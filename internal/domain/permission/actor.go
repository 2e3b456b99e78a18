// Package permission contiene los predicados puros de autorización sobre solicitudes.
// Todas las funciones son totales: actor o recurso inválido => deny.
package permission

import "github.com/jhoicas/Solicitudes-api/internal/domain/entity"

// Actor contexto explícito del usuario autenticado que ejecuta una operación.
type Actor struct {
	UserID string
	Email  string
	Name   string
	UnitID string // vacío si no pertenece a una unidad
	Roles  []entity.Role
}

// ActorFromUser construye el actor a partir del usuario persistido.
func ActorFromUser(u *entity.User) Actor {
	if u == nil {
		return Actor{}
	}
	a := Actor{UserID: u.ID, Email: u.Email, Name: u.Name, Roles: append([]entity.Role(nil), u.Roles...)}
	if u.UnitID != nil {
		a.UnitID = *u.UnitID
	}
	return a
}

func (a Actor) valid() bool {
	return a.UserID != ""
}

// has ignora roles fuera del enum.
func (a Actor) has(role entity.Role) bool {
	if !a.valid() {
		return false
	}
	for _, r := range a.Roles {
		if r == role && r.IsValid() {
			return true
		}
	}
	return false
}

// Capabilities resumen de las capacidades globales del actor.
type Capabilities struct {
	AllRequests     bool // admin
	UnitRequests    bool // manager
	AssignedWork    bool // staff
	CreateRequests  bool
	InternalComment bool
	ManageUsers     bool
}

// capabilitiesFor switch exhaustivo sobre el enum de roles.
func capabilitiesFor(role entity.Role) Capabilities {
	switch role {
	case entity.RoleAdmin:
		return Capabilities{AllRequests: true, UnitRequests: true, AssignedWork: true, CreateRequests: true, InternalComment: true, ManageUsers: true}
	case entity.RoleManager:
		return Capabilities{UnitRequests: true, CreateRequests: true, InternalComment: true}
	case entity.RoleStaff:
		return Capabilities{AssignedWork: true, CreateRequests: true, InternalComment: true}
	case entity.RoleUser:
		return Capabilities{CreateRequests: true}
	default:
		return Capabilities{}
	}
}

// CapabilitiesOf une las capacidades de todos los roles válidos del actor.
func CapabilitiesOf(a Actor) Capabilities {
	var c Capabilities
	if !a.valid() {
		return c
	}
	for _, r := range a.Roles {
		rc := capabilitiesFor(r)
		c.AllRequests = c.AllRequests || rc.AllRequests
		c.UnitRequests = c.UnitRequests || rc.UnitRequests
		c.AssignedWork = c.AssignedWork || rc.AssignedWork
		c.CreateRequests = c.CreateRequests || rc.CreateRequests
		c.InternalComment = c.InternalComment || rc.InternalComment
		c.ManageUsers = c.ManageUsers || rc.ManageUsers
	}
	return c
}
