// Package workflow define las transiciones legales del ciclo de vida de una solicitud
// (servicio de dominio, independiente del actor).
package workflow

import (
	"strings"

	"github.com/jhoicas/Solicitudes-api/internal/domain"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"golang.org/x/text/unicode/norm"
)

type edge struct {
	from entity.Status
	to   entity.Status
}

// transitions tabla de aristas legales -> acción registrada en request_logs.
var transitions = map[edge]string{
	{entity.StatusDraft, entity.StatusNew}:            entity.LogActionSubmitted,
	{entity.StatusNew, entity.StatusAssigned}:         entity.LogActionAssigned,
	{entity.StatusNew, entity.StatusCancelled}:        entity.LogActionCancelled,
	{entity.StatusAssigned, entity.StatusInProgress}:  entity.LogActionStarted,
	{entity.StatusAssigned, entity.StatusCancelled}:   entity.LogActionCancelled,
	{entity.StatusInProgress, entity.StatusNeedInfo}:  entity.LogActionInfoRequested,
	{entity.StatusInProgress, entity.StatusDone}:      entity.LogActionCompleted,
	{entity.StatusInProgress, entity.StatusCancelled}: entity.LogActionCancelled,
	{entity.StatusNeedInfo, entity.StatusInProgress}:  entity.LogActionResumed,
	{entity.StatusNeedInfo, entity.StatusCancelled}:   entity.LogActionCancelled,
}

// Meta datos que acompañan una transición.
type Meta struct {
	Note   string // obligatoria para NEED_INFO
	Reason string // opcional para CANCELLED
}

// CanTransition informa si from -> to está en la tabla.
func CanTransition(from, to entity.Status) bool {
	_, ok := transitions[edge{from, to}]
	return ok
}

// ActionFor devuelve la acción de log para la arista; ok=false si no es legal.
func ActionFor(from, to entity.Status) (string, bool) {
	a, ok := transitions[edge{from, to}]
	return a, ok
}

// Targets devuelve los estados alcanzables desde from, en orden del ciclo de vida.
func Targets(from entity.Status) []entity.Status {
	var out []entity.Status
	for _, to := range entity.AllStatuses {
		if CanTransition(from, to) {
			out = append(out, to)
		}
	}
	return out
}

// IsWorkEdge aristas que ejecuta quien trabaja la solicitud (staff asignado, manager, admin).
func IsWorkEdge(from, to entity.Status) bool {
	switch (edge{from, to}) {
	case edge{entity.StatusAssigned, entity.StatusInProgress},
		edge{entity.StatusInProgress, entity.StatusNeedInfo},
		edge{entity.StatusInProgress, entity.StatusDone},
		edge{entity.StatusNeedInfo, entity.StatusInProgress}:
		return true
	}
	return false
}

// Validate comprueba la legalidad de la arista y los datos obligatorios.
// Devuelve *domain.IllegalTransitionError o *domain.ValidationError.
func Validate(from, to entity.Status, meta Meta) error {
	if !from.IsValid() || !to.IsValid() {
		return &domain.IllegalTransitionError{From: from.String(), To: to.String(), Reason: "estado desconocido"}
	}
	if from.IsTerminal() {
		return &domain.IllegalTransitionError{From: from.String(), To: to.String(), Reason: "estado terminal"}
	}
	if !CanTransition(from, to) {
		return &domain.IllegalTransitionError{From: from.String(), To: to.String()}
	}
	if to == entity.StatusNeedInfo && NormalizeText(meta.Note) == "" {
		return domain.NewValidationError("note", "la nota es obligatoria para solicitar información")
	}
	return nil
}

// NormalizeText aplica NFC y recorta espacios; se usa antes de medir longitudes.
func NormalizeText(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}
