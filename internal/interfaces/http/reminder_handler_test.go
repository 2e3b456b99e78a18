package http_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Solicitudes-api/internal/domain"
	apphttp "github.com/jhoicas/Solicitudes-api/internal/interfaces/http"
	"github.com/jhoicas/Solicitudes-api/pkg/logger"
)

func TestReminderHandler_SecretoCorrecto(t *testing.T) {
	f := newFixture(t)
	resp, out := f.do(t, http.MethodGet, "/reminders", "Bearer "+testCronSecret, "")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, out["success"])
	stats := out["stats"].(map[string]any)
	assert.EqualValues(t, 2, stats["emailsSent"])
	assert.EqualValues(t, 1, stats["emailsSkipped"])
	assert.EqualValues(t, 0, stats["emailsFailed"])
	assert.EqualValues(t, 3, stats["requestsProcessed"])
	assert.Equal(t, 1, f.runner.calls)
}

func TestReminderHandler_SinAutorizacionNoProcesa(t *testing.T) {
	f := newFixture(t)
	for _, auth := range []string{"", "Bearer otro", "Basic " + testCronSecret, bearer(t, adminID)} {
		resp, _ := f.do(t, http.MethodGet, "/reminders", auth, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, auth)
	}
	assert.Equal(t, 0, f.runner.calls)
}

func TestReminderHandler_SecretoVacioRechazaTodo(t *testing.T) {
	runner := &stubRunner{}
	app := fiber.New()
	app.Get("/reminders", apphttp.NewReminderHandler(runner, "", logger.Nop()).Run)

	f := &fixture{app: app}
	resp, _ := f.do(t, http.MethodGet, "/reminders", "Bearer ", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 0, runner.calls)
}

func TestReminderHandler_FalloDeConsulta503(t *testing.T) {
	f := newFixture(t)
	f.runner.err = domain.ErrUpstream
	resp, out := f.do(t, http.MethodGet, "/reminders", "Bearer "+testCronSecret, "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, false, out["success"])
}

func TestHealth_SinDB(t *testing.T) {
	f := newFixture(t)
	resp, out := f.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", out["status"])
}
