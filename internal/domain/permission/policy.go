package permission

import (
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/workflow"
)

// IsAdmin informa si el actor tiene rol admin.
func IsAdmin(a Actor) bool { return a.has(entity.RoleAdmin) }

// IsManager informa si el actor tiene rol manager.
func IsManager(a Actor) bool { return a.has(entity.RoleManager) }

// IsStaff informa si el actor tiene rol staff.
func IsStaff(a Actor) bool { return a.has(entity.RoleStaff) }

// HasAnyRole informa si el actor tiene al menos uno de los roles.
func HasAnyRole(a Actor, roles ...entity.Role) bool {
	for _, r := range roles {
		if a.has(r) {
			return true
		}
	}
	return false
}

// managesUnitOf manager cuya unidad coincide con la snapshot de la solicitud.
func managesUnitOf(a Actor, req *entity.Request) bool {
	if !IsManager(a) || a.UnitID == "" || req.UnitID == nil {
		return false
	}
	return *req.UnitID == a.UnitID
}

func isOwner(a Actor, req *entity.Request) bool {
	return a.valid() && req.IsOwnedBy(a.UserID)
}

func isAssignedStaff(a Actor, req *entity.Request) bool {
	return IsStaff(a) && req.IsAssignedTo(a.UserID)
}

func snapshotOK(req *entity.Request) bool {
	return req != nil && req.ID != "" && req.Status.IsValid()
}

// CanCreateRequest cualquier actor con un rol conocido.
func CanCreateRequest(a Actor) bool {
	return CapabilitiesOf(a).CreateRequests
}

// CanViewRequest admin, dueño, manager de la unidad o staff asignado.
func CanViewRequest(a Actor, req *entity.Request) bool {
	if !a.valid() || !snapshotOK(req) {
		return false
	}
	if !HasAnyRole(a, entity.RoleAdmin, entity.RoleManager, entity.RoleStaff, entity.RoleUser) {
		return false
	}
	return IsAdmin(a) || isOwner(a, req) || managesUnitOf(a, req) || isAssignedStaff(a, req)
}

// CanEditRequest solo en DRAFT, dueño o admin.
func CanEditRequest(a Actor, req *entity.Request) bool {
	if !CanViewRequest(a, req) || req.Status != entity.StatusDraft {
		return false
	}
	return isOwner(a, req) || IsAdmin(a)
}

// CanSubmitRequest DRAFT -> NEW, dueño o admin.
func CanSubmitRequest(a Actor, req *entity.Request) bool {
	return CanEditRequest(a, req)
}

// CanDeleteRequest los borradores se eliminan en lugar de cancelarse.
func CanDeleteRequest(a Actor, req *entity.Request) bool {
	return CanEditRequest(a, req)
}

// CanCancelRequest estado con arista a CANCELLED; dueño, manager de la unidad o admin.
func CanCancelRequest(a Actor, req *entity.Request) bool {
	if !CanViewRequest(a, req) || !workflow.CanTransition(req.Status, entity.StatusCancelled) {
		return false
	}
	return isOwner(a, req) || managesUnitOf(a, req) || IsAdmin(a)
}

// CanAssignRequest solicitud NEW; manager de la unidad o admin.
func CanAssignRequest(a Actor, req *entity.Request) bool {
	if !snapshotOK(req) || req.Status != entity.StatusNew {
		return false
	}
	return IsAdmin(a) || managesUnitOf(a, req)
}

// CanReassignRequest cambio de responsable sin cambiar el estado, solo en ASSIGNED o NEED_INFO.
func CanReassignRequest(a Actor, req *entity.Request) bool {
	if !snapshotOK(req) || !req.HasAssignee() {
		return false
	}
	if req.Status != entity.StatusAssigned && req.Status != entity.StatusNeedInfo {
		return false
	}
	return IsAdmin(a) || managesUnitOf(a, req)
}

// CanChangeStatus arista legal y capacidad del actor para esa arista concreta.
func CanChangeStatus(a Actor, req *entity.Request, from, to entity.Status) bool {
	if !snapshotOK(req) || req.Status != from || !workflow.CanTransition(from, to) {
		return false
	}
	switch {
	case from == entity.StatusDraft && to == entity.StatusNew:
		return CanSubmitRequest(a, req)
	case from == entity.StatusNew && to == entity.StatusAssigned:
		return CanAssignRequest(a, req)
	case to == entity.StatusCancelled:
		return CanCancelRequest(a, req)
	case workflow.IsWorkEdge(from, to):
		if to == entity.StatusInProgress && !req.HasAssignee() {
			return false
		}
		return IsAdmin(a) || managesUnitOf(a, req) || isAssignedStaff(a, req)
	}
	return false
}

// CanComment cualquiera con acceso de lectura.
func CanComment(a Actor, req *entity.Request) bool {
	return CanViewRequest(a, req)
}

// CanViewInternalComments staff, manager o admin.
func CanViewInternalComments(a Actor) bool {
	return CapabilitiesOf(a).InternalComment
}

// CanCreateInternalComment staff, manager o admin con acceso a la solicitud.
func CanCreateInternalComment(a Actor, req *entity.Request) bool {
	return CanComment(a, req) && CanViewInternalComments(a)
}

// CanManageUsers administración de usuarios y roles.
func CanManageUsers(a Actor) bool {
	return CapabilitiesOf(a).ManageUsers
}

// CanListUsers admin o manager (para elegir responsables).
func CanListUsers(a Actor) bool {
	return IsAdmin(a) || IsManager(a)
}

// Scope alcance de listado según los roles del actor.
func Scope(a Actor) entity.RequestFilter {
	if !HasAnyRole(a, entity.RoleAdmin, entity.RoleManager, entity.RoleStaff, entity.RoleUser) {
		return entity.RequestFilter{}
	}
	f := entity.RequestFilter{CreatedBy: a.UserID}
	if IsAdmin(a) {
		return entity.RequestFilter{AllUnits: true}
	}
	if IsManager(a) && a.UnitID != "" {
		f.UnitID = a.UnitID
	}
	if IsStaff(a) {
		f.AssigneeID = a.UserID
	}
	return f
}
