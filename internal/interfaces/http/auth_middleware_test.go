package http_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Solicitudes-api/internal/domain"
	pkgjwt "github.com/jhoicas/Solicitudes-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinToken401(t *testing.T) {
	f := newFixture(t)
	resp, body := f.do(t, http.MethodGet, "/api/requests", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "MISSING_TOKEN", body["code"])
}

func TestAuthMiddleware_FormatoInvalido401(t *testing.T) {
	f := newFixture(t)
	resp, body := f.do(t, http.MethodGet, "/api/requests", "Token abc", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", body["code"])
}

func TestAuthMiddleware_FirmaIncorrecta401(t *testing.T) {
	f := newFixture(t)
	tok, err := pkgjwt.Generate("otro-secreto", adminID, "admin@empresa.co", testIssuer, testExpMin)
	assert.NoError(t, err)
	resp, body := f.do(t, http.MethodGet, "/api/requests", "Bearer "+tok, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", body["code"])
}

func TestAuthMiddleware_UsuarioDesconocido401(t *testing.T) {
	f := newFixture(t)
	resp, _ := f.do(t, http.MethodGet, "/api/requests", bearer(t, ghostID), "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_UsuarioInactivo403(t *testing.T) {
	f := newFixture(t)
	f.users.err = domain.ErrForbidden
	resp, body := f.do(t, http.MethodGet, "/api/requests", bearer(t, userID), "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", body["code"])
}

func TestAuthMiddleware_StoreCaido503(t *testing.T) {
	f := newFixture(t)
	f.users.err = domain.ErrUpstream
	resp, _ := f.do(t, http.MethodGet, "/api/requests", bearer(t, userID), "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestAuthMiddleware_ActorLlegaAlHandler(t *testing.T) {
	f := newFixture(t)
	resp, body := f.do(t, http.MethodGet, "/api/requests", bearer(t, mgrID), "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, mgrID, f.requests.actor.UserID)
	assert.Equal(t, "unit-1", f.requests.actor.UnitID)
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireAnyRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireAnyRole_UserNoListaUsuarios(t *testing.T) {
	f := newFixture(t)
	resp, body := f.do(t, http.MethodGet, "/api/users", bearer(t, userID), "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", body["code"])
}

func TestRequireAnyRole_ManagerListaUsuarios(t *testing.T) {
	f := newFixture(t)
	resp, _ := f.do(t, http.MethodGet, "/api/users?limit=5", bearer(t, mgrID), "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireAnyRole_SoloAdminCambiaRoles(t *testing.T) {
	f := newFixture(t)
	resp, _ := f.do(t, http.MethodPut, "/api/users/"+userID+"/roles", bearer(t, mgrID), `{"roles":["staff"]}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := f.do(t, http.MethodPut, "/api/users/"+userID+"/roles", bearer(t, adminID), `{"roles":["staff"]}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, []any{"staff"}, data["roles"])
}

func TestUsersMe_DevuelveActor(t *testing.T) {
	f := newFixture(t)
	resp, body := f.do(t, http.MethodGet, "/api/users/me", bearer(t, adminID), "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, adminID, data["id"])
	assert.Equal(t, []any{"admin"}, data["roles"])
}
