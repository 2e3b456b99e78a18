// Package analytics resumen de solicitudes para el tablero.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Solicitudes-api/internal/application/dto"
	"github.com/jhoicas/Solicitudes-api/internal/domain"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/permission"
	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
	"github.com/jhoicas/Solicitudes-api/pkg/logger"
)

// SummaryUseCase genera el resumen de solicitudes visibles para el actor.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
type SummaryUseCase struct {
	repo repository.AnalyticsRepository
	loc  *time.Location
	log  *logger.Logger
	now  func() time.Time
}

// NewSummaryUseCase construye el caso de uso. loc define el "hoy" de los vencimientos; nil = UTC.
func NewSummaryUseCase(repo repository.AnalyticsRepository, loc *time.Location, log *logger.Logger) *SummaryUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &SummaryUseCase{repo: repo, loc: loc, log: log.Named("analytics"), now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *SummaryUseCase) WithClock(now func() time.Time) *SummaryUseCase {
	uc.now = now
	return uc
}

// GetSummary dos consultas en paralelo:
//  1. CountByStatus(alcance)             → ByStatus + Open
//  2. CountOverdueItems(alcance, hoy)    → OverdueItems
func (uc *SummaryUseCase) GetSummary(ctx context.Context, a permission.Actor) (*dto.RequestSummaryResponse, error) {
	if a.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	local := uc.now().In(uc.loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)

	out := &dto.RequestSummaryResponse{ByStatus: map[string]int{}, DateLabel: dayLabel(local)}
	for _, st := range entity.AllStatuses {
		out.ByStatus[st.String()] = 0
	}
	scope := permission.Scope(a)
	if !scope.AllUnits && scope.CreatedBy == "" && scope.UnitID == "" && scope.AssigneeID == "" {
		return out, nil
	}

	type countsResult struct {
		counts map[entity.Status]int
		err    error
	}
	type overdueResult struct {
		n   int
		err error
	}
	countsCh := make(chan countsResult, 1)
	overdueCh := make(chan overdueResult, 1)

	go func() {
		c, err := uc.repo.CountByStatus(ctx, scope)
		countsCh <- countsResult{c, err}
	}()
	go func() {
		n, err := uc.repo.CountOverdueItems(ctx, scope, today)
		overdueCh <- overdueResult{n, err}
	}()

	counts := <-countsCh
	overdue := <-overdueCh

	if counts.err != nil {
		return nil, uc.fail(counts.err, "count_by_status")
	}
	if overdue.err != nil {
		return nil, uc.fail(overdue.err, "count_overdue_items")
	}

	for st, n := range counts.counts {
		if !st.IsValid() {
			continue
		}
		out.ByStatus[st.String()] = n
		if st != entity.StatusDraft && !st.IsTerminal() {
			out.Open += n
		}
	}
	out.OverdueItems = overdue.n
	return out, nil
}

func (uc *SummaryUseCase) fail(err error, op string) error {
	uc.log.Error().Err(err).Str("op", op).Msg("resumen de solicitudes")
	return domain.ErrUpstream
}

// dayLabel devuelve una etiqueta legible del día, ej: "10 de Marzo 2026".
func dayLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%d de %s %d", t.Day(), months[t.Month()-1], t.Year())
}
