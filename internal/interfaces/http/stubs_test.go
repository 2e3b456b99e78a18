package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Solicitudes-api/internal/application/dto"
	"github.com/jhoicas/Solicitudes-api/internal/domain"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/permission"
	apphttp "github.com/jhoicas/Solicitudes-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Solicitudes-api/pkg/jwt"
	"github.com/jhoicas/Solicitudes-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret  = "test-secret-key-for-unit-tests"
	testCronSecret = "cron-secret"
	testIssuer     = "solicitudes-test"
	testExpMin     = 60

	adminID = "00000000-0000-4000-8000-000000000001"
	mgrID   = "00000000-0000-4000-8000-000000000002"
	userID  = "00000000-0000-4000-8000-000000000003"
	ghostID = "00000000-0000-4000-8000-000000000009"
)

// stubUsers resuelve actores desde un mapa fijo.
type stubUsers struct {
	actors map[string]permission.Actor
	err    error
}

func newStubUsers() *stubUsers {
	return &stubUsers{actors: map[string]permission.Actor{
		adminID: {UserID: adminID, Email: "admin@empresa.co", Roles: []entity.Role{entity.RoleAdmin}},
		mgrID:   {UserID: mgrID, Email: "mgr@empresa.co", UnitID: "unit-1", Roles: []entity.Role{entity.RoleManager}},
		userID:  {UserID: userID, Email: "user@empresa.co", Roles: []entity.Role{entity.RoleUser}},
	}}
}

func (s *stubUsers) ResolveActor(_ context.Context, id, _ string) (permission.Actor, error) {
	if s.err != nil {
		return permission.Actor{}, s.err
	}
	a, ok := s.actors[id]
	if !ok {
		return permission.Actor{}, domain.ErrUnauthorized
	}
	return a, nil
}

func (s *stubUsers) List(_ context.Context, _ permission.Actor, q dto.ListUsersQuery) (*dto.UserListResponse, error) {
	return &dto.UserListResponse{Users: []dto.UserResponse{}, Page: dto.PageResponse{Limit: q.Limit, Offset: q.Offset}}, nil
}

func (s *stubUsers) SetRoles(_ context.Context, _ permission.Actor, id string, in dto.SetRolesRequest) (*dto.UserResponse, error) {
	return &dto.UserResponse{ID: id, Roles: in.Roles}, nil
}

// stubRequests devuelve err si está fijado y registra el último actor e id recibidos.
type stubRequests struct {
	mu      sync.Mutex
	err     error
	actor   permission.Actor
	id      string
	created dto.CreateRequestRequest
	query   dto.ListRequestsQuery
}

func (s *stubRequests) record(a permission.Actor, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actor, s.id = a, id
	return s.err
}

func (s *stubRequests) response(id string) *dto.RequestResponse {
	return &dto.RequestResponse{ID: id, Status: entity.StatusDraft.String()}
}

func (s *stubRequests) Create(_ context.Context, a permission.Actor, in dto.CreateRequestRequest) (*dto.RequestResponse, error) {
	s.mu.Lock()
	s.created = in
	s.mu.Unlock()
	if err := s.record(a, ""); err != nil {
		return nil, err
	}
	return s.response("nueva"), nil
}

func (s *stubRequests) Update(_ context.Context, a permission.Actor, id string, _ dto.UpdateRequestRequest) (*dto.RequestResponse, error) {
	if err := s.record(a, id); err != nil {
		return nil, err
	}
	return s.response(id), nil
}

func (s *stubRequests) Delete(_ context.Context, a permission.Actor, id string) error {
	return s.record(a, id)
}

func (s *stubRequests) Submit(_ context.Context, a permission.Actor, id string) (*dto.RequestResponse, error) {
	if err := s.record(a, id); err != nil {
		return nil, err
	}
	return s.response(id), nil
}

func (s *stubRequests) Assign(_ context.Context, a permission.Actor, id string, _ dto.AssignRequestRequest) (*dto.RequestResponse, error) {
	if err := s.record(a, id); err != nil {
		return nil, err
	}
	return s.response(id), nil
}

func (s *stubRequests) Reassign(_ context.Context, a permission.Actor, id string, _ dto.AssignRequestRequest) (*dto.RequestResponse, error) {
	if err := s.record(a, id); err != nil {
		return nil, err
	}
	return s.response(id), nil
}

func (s *stubRequests) UpdateStatus(_ context.Context, a permission.Actor, id string, _ dto.UpdateStatusRequest) (*dto.RequestResponse, error) {
	if err := s.record(a, id); err != nil {
		return nil, err
	}
	return s.response(id), nil
}

func (s *stubRequests) Cancel(_ context.Context, a permission.Actor, id string, _ dto.CancelRequestRequest) (*dto.RequestResponse, error) {
	if err := s.record(a, id); err != nil {
		return nil, err
	}
	return s.response(id), nil
}

func (s *stubRequests) AddComment(_ context.Context, a permission.Actor, id string, in dto.AddCommentRequest) (*dto.CommentResponse, error) {
	if err := s.record(a, id); err != nil {
		return nil, err
	}
	return &dto.CommentResponse{ID: "c1", AuthorID: a.UserID, Content: in.Content}, nil
}

func (s *stubRequests) Get(_ context.Context, a permission.Actor, id string) (*dto.RequestDetailResponse, error) {
	if err := s.record(a, id); err != nil {
		return nil, err
	}
	return &dto.RequestDetailResponse{Request: *s.response(id)}, nil
}

func (s *stubRequests) List(_ context.Context, a permission.Actor, q dto.ListRequestsQuery) (*dto.RequestListResponse, error) {
	s.mu.Lock()
	s.query = q
	s.mu.Unlock()
	if err := s.record(a, ""); err != nil {
		return nil, err
	}
	return &dto.RequestListResponse{Requests: []dto.RequestResponse{}}, nil
}

// stubRunner cuenta ejecuciones del job.
type stubRunner struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (r *stubRunner) Run(_ context.Context) (*dto.ReminderStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return &dto.ReminderStats{JobDate: "2026-03-10", TargetDate: "2026-03-11", EmailsSent: 2, EmailsSkipped: 1, RequestsProcessed: 3}, nil
}

// stubSummary resumen fijo.
type stubSummary struct{}

func (stubSummary) GetSummary(_ context.Context, a permission.Actor) (*dto.RequestSummaryResponse, error) {
	return &dto.RequestSummaryResponse{ByStatus: map[string]int{"NEW": 1}, Open: 1, DateLabel: a.UserID}, nil
}

type fixture struct {
	app      *fiber.App
	users    *stubUsers
	requests *stubRequests
	runner   *stubRunner
}

// newFixture app Fiber con el router completo sobre stubs.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{users: newStubUsers(), requests: &stubRequests{}, runner: &stubRunner{}}
	f.app = fiber.New()
	apphttp.Router(f.app, apphttp.RouterDeps{
		Requests:   f.requests,
		Users:      f.users,
		Reminders:  f.runner,
		Summary:    stubSummary{},
		JWTSecret:  testJWTSecret,
		CronSecret: testCronSecret,
		AppName:    "solicitudes-test",
		Log:        logger.Nop(),
	})
	return f
}

// bearer genera un JWT válido para el usuario.
func bearer(t *testing.T, id string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, id, "x@empresa.co", testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// do lanza la petición y decodifica el sobre de respuesta.
func (f *fixture) do(t *testing.T, method, path, auth, body string) (*http.Response, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp, out
}
