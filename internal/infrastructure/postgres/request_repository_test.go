package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
)

func TestFilterClause_AlcanceEnOR(t *testing.T) {
	where, args := filterClause(entity.RequestFilter{CreatedBy: "u1", UnitID: "unit", AssigneeID: "u1"})
	assert.Equal(t, "WHERE (created_by = $1 OR unit_id = $2 OR assignee_id = $3)", where)
	assert.Equal(t, []any{"u1", "unit", "u1"}, args)
}

func TestFilterClause_EstadoEnAND(t *testing.T) {
	st := entity.StatusNew
	where, args := filterClause(entity.RequestFilter{CreatedBy: "u1", Status: &st})
	assert.Equal(t, "WHERE (created_by = $1) AND status = $2", where)
	assert.Equal(t, []any{"u1", "NEW"}, args)
}

func TestFilterClause_TodasLasUnidades(t *testing.T) {
	where, args := filterClause(entity.RequestFilter{AllUnits: true, CreatedBy: "ignorado"})
	assert.Empty(t, where)
	assert.Empty(t, args)

	st := entity.StatusDone
	where, args = filterClause(entity.RequestFilter{AllUnits: true, Status: &st})
	assert.Equal(t, "WHERE status = $1", where)
	assert.Equal(t, []any{"DONE"}, args)
}

func TestFilterClause_SinAlcanceNoDevuelveNada(t *testing.T) {
	where, args := filterClause(entity.RequestFilter{})
	assert.Equal(t, "WHERE FALSE", where)
	assert.Nil(t, args)
}
