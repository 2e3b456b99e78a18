package entity

import (
	"fmt"
	"strings"
	"time"
)

// Status estado del ciclo de vida de una solicitud. El enum fijo es la única fuente
// de verdad para la máquina de estados.
type Status string

const (
	StatusDraft      Status = "DRAFT"
	StatusNew        Status = "NEW"
	StatusAssigned   Status = "ASSIGNED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusNeedInfo   Status = "NEED_INFO"
	StatusDone       Status = "DONE"
	StatusCancelled  Status = "CANCELLED"
)

// AllStatuses en orden del ciclo de vida.
var AllStatuses = []Status{
	StatusDraft, StatusNew, StatusAssigned, StatusInProgress, StatusNeedInfo, StatusDone, StatusCancelled,
}

func (s Status) String() string { return string(s) }

// IsValid informa si el estado pertenece al enum.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusNew, StatusAssigned, StatusInProgress, StatusNeedInfo, StatusDone, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal DONE y CANCELLED no tienen transiciones salientes.
func (s Status) IsTerminal() bool {
	return s == StatusDone || s == StatusCancelled
}

// ParseStatus acepta el nombre del estado sin distinguir mayúsculas.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("estado inválido: %q", s)
	}
	return st, nil
}

// Priority prioridad de la solicitud.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityNormal Priority = "NORMAL"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// IsValid informa si la prioridad es conocida.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// ParsePriority vacío equivale a NORMAL.
func ParsePriority(s string) (Priority, error) {
	if strings.TrimSpace(s) == "" {
		return PriorityNormal, nil
	}
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("prioridad inválida: %q", s)
	}
	return p, nil
}

// Request solicitud de trabajo o equipamiento.
type Request struct {
	ID             string
	Number         int64 // secuencial, solo para mostrar
	Status         Status
	Priority       Priority
	CreatedBy      string  // dueño, inmutable
	AssigneeID     *string // lo fija un manager o admin
	UnitID         *string // unidad del creador al momento de crear
	Reason         string
	CompletionNote *string
	CancelReason   *string
	SubmittedAt    *time.Time
	CompletedAt    *time.Time
	CancelledAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsOwnedBy informa si userID es el creador.
func (r *Request) IsOwnedBy(userID string) bool {
	return r != nil && userID != "" && r.CreatedBy == userID
}

// IsAssignedTo informa si userID es el responsable asignado.
func (r *Request) IsAssignedTo(userID string) bool {
	return r != nil && userID != "" && r.AssigneeID != nil && *r.AssigneeID == userID
}

// HasAssignee informa si la solicitud tiene responsable.
func (r *Request) HasAssignee() bool {
	return r != nil && r.AssigneeID != nil && *r.AssigneeID != ""
}

// Clone copia superficial con punteros duplicados, para mutar sin tocar el snapshot leído.
func (r *Request) Clone() *Request {
	if r == nil {
		return nil
	}
	c := *r
	c.AssigneeID = cloneString(r.AssigneeID)
	c.UnitID = cloneString(r.UnitID)
	c.CompletionNote = cloneString(r.CompletionNote)
	c.CancelReason = cloneString(r.CancelReason)
	c.SubmittedAt = cloneTime(r.SubmittedAt)
	c.CompletedAt = cloneTime(r.CompletedAt)
	c.CancelledAt = cloneTime(r.CancelledAt)
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// RequestFilter filtros para listar solicitudes visibles.
type RequestFilter struct {
	// Alcance de visibilidad: AllUnits solo para admin; CreatedBy, UnitID y
	// AssigneeID se combinan con OR. Sin criterios no se devuelve nada.
	AllUnits   bool
	UnitID     string
	CreatedBy  string
	AssigneeID string
	Status     *Status
	Limit      int
	Offset     int
}
