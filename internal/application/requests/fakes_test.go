package requests_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/Solicitudes-api/internal/domain"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
)

// memStore store en memoria con transacciones por snapshot: si fn falla se restaura todo.
type memStore struct {
	mu       sync.Mutex
	txMu     sync.Mutex
	requests map[string]*entity.Request
	items    map[string][]*entity.RequestItem
	comments map[string][]*entity.Comment
	logs     []*entity.RequestLog
	users    map[string]*entity.User
	seq      int64

	appendErr    error
	beforeUpdate func()
}

func newMemStore() *memStore {
	return &memStore{
		requests: map[string]*entity.Request{},
		items:    map[string][]*entity.RequestItem{},
		comments: map[string][]*entity.Comment{},
		users:    map[string]*entity.User{},
	}
}

type snapshot struct {
	requests map[string]*entity.Request
	items    map[string][]*entity.RequestItem
	comments map[string][]*entity.Comment
	logs     []*entity.RequestLog
	seq      int64
}

func (s *memStore) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{
		requests: make(map[string]*entity.Request, len(s.requests)),
		items:    make(map[string][]*entity.RequestItem, len(s.items)),
		comments: make(map[string][]*entity.Comment, len(s.comments)),
		logs:     append([]*entity.RequestLog(nil), s.logs...),
		seq:      s.seq,
	}
	for k, v := range s.requests {
		snap.requests[k] = v.Clone()
	}
	for k, v := range s.items {
		snap.items[k] = append([]*entity.RequestItem(nil), v...)
	}
	for k, v := range s.comments {
		snap.comments[k] = append([]*entity.Comment(nil), v...)
	}
	return snap
}

func (s *memStore) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests, s.items, s.comments, s.logs, s.seq = snap.requests, snap.items, snap.comments, snap.logs, snap.seq
}

// Run implementa requests.TxRunner.
func (s *memStore) Run(ctx context.Context, fn func(
	reqRepo repository.RequestRepository,
	itemRepo repository.RequestItemRepository,
	commentRepo repository.CommentRepository,
	logRepo repository.RequestLogRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	snap := s.snapshot()
	if err := fn(reqRepo{s}, itemRepo{s}, commentRepo{s}, logRepo{s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *memStore) addUser(u *entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *memStore) request(id string) *entity.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[id].Clone()
}

func (s *memStore) logsFor(id string) []*entity.RequestLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.RequestLog
	for _, l := range s.logs {
		if l.RequestID == id {
			out = append(out, l)
		}
	}
	return out
}

// ─── RequestRepository ───────────────────────────────────────────────────────

type reqRepo struct{ s *memStore }

func (r reqRepo) Create(_ context.Context, req *entity.Request) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.requests[req.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.seq++
	req.Number = r.s.seq
	r.s.requests[req.ID] = req.Clone()
	return nil
}

func (r reqRepo) GetByID(_ context.Context, id string) (*entity.Request, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.requests[id].Clone(), nil
}

func (r reqRepo) UpdateDraft(_ context.Context, req *entity.Request) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.requests[req.ID]
	if !ok || cur.Status != entity.StatusDraft {
		return false, nil
	}
	cur.Reason, cur.Priority, cur.UpdatedAt = req.Reason, req.Priority, req.UpdatedAt
	return true, nil
}

func (r reqRepo) UpdateStatus(_ context.Context, req *entity.Request, expected entity.Status) (bool, error) {
	if r.s.beforeUpdate != nil {
		r.s.beforeUpdate()
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.requests[req.ID]
	if !ok || cur.Status != expected {
		return false, nil
	}
	next := req.Clone()
	next.Number = cur.Number
	r.s.requests[req.ID] = next
	return true, nil
}

func (r reqRepo) DeleteDraft(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.requests[id]
	if !ok || cur.Status != entity.StatusDraft {
		return false, nil
	}
	delete(r.s.requests, id)
	delete(r.s.items, id)
	delete(r.s.comments, id)
	return true, nil
}

func matches(f entity.RequestFilter, req *entity.Request) bool {
	if f.Status != nil && req.Status != *f.Status {
		return false
	}
	if f.AllUnits {
		return true
	}
	return (f.CreatedBy != "" && req.CreatedBy == f.CreatedBy) ||
		(f.UnitID != "" && req.UnitID != nil && *req.UnitID == f.UnitID) ||
		(f.AssigneeID != "" && req.IsAssignedTo(f.AssigneeID))
}

func (r reqRepo) filtered(f entity.RequestFilter) []*entity.Request {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Request
	for _, req := range r.s.requests {
		if matches(f, req) {
			out = append(out, req.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number > out[j].Number })
	return out
}

func (r reqRepo) List(_ context.Context, f entity.RequestFilter) ([]*entity.Request, error) {
	out := r.filtered(f)
	if f.Offset >= len(out) {
		return nil, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r reqRepo) Count(_ context.Context, f entity.RequestFilter) (int, error) {
	return len(r.filtered(f)), nil
}

// ─── Ítems, comentarios, bitácora ────────────────────────────────────────────

type itemRepo struct{ s *memStore }

func (r itemRepo) CreateBatch(_ context.Context, items []*entity.RequestItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, it := range items {
		c := *it
		r.s.items[it.RequestID] = append(r.s.items[it.RequestID], &c)
	}
	return nil
}

func (r itemRepo) ReplaceAll(_ context.Context, requestID string, items []*entity.RequestItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	next := make([]*entity.RequestItem, 0, len(items))
	for _, it := range items {
		c := *it
		next = append(next, &c)
	}
	r.s.items[requestID] = next
	return nil
}

func (r itemRepo) ListByRequest(_ context.Context, requestID string) ([]*entity.RequestItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]*entity.RequestItem(nil), r.s.items[requestID]...), nil
}

type commentRepo struct{ s *memStore }

func (r commentRepo) Create(_ context.Context, c *entity.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *c
	r.s.comments[c.RequestID] = append(r.s.comments[c.RequestID], &cp)
	return nil
}

func (r commentRepo) ListByRequest(_ context.Context, requestID string, includeInternal bool) ([]*entity.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Comment
	for _, c := range r.s.comments[requestID] {
		if c.IsInternal && !includeInternal {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

type logRepo struct{ s *memStore }

func (r logRepo) Append(_ context.Context, e *entity.RequestLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.appendErr != nil {
		return r.s.appendErr
	}
	cp := *e
	r.s.logs = append(r.s.logs, &cp)
	return nil
}

func (r logRepo) ListByRequest(_ context.Context, requestID string) ([]*entity.RequestLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.RequestLog
	for _, l := range r.s.logs {
		if l.RequestID == requestID {
			out = append(out, l)
		}
	}
	return out, nil
}

// ─── Usuarios ────────────────────────────────────────────────────────────────

type userRepo struct{ s *memStore }

func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (r userRepo) GetBySubject(ctx context.Context, subject string) (*entity.User, error) {
	return r.GetByID(ctx, subject)
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r userRepo) LinkSubject(_ context.Context, _, _ string) (bool, error) {
	return false, nil
}

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; ok {
		return domain.ErrDuplicate
	}
	c := *u
	r.s.users[u.ID] = &c
	return nil
}

func (r userRepo) ListByUnit(_ context.Context, unitID string, limit, offset int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.User
	for _, u := range r.s.users {
		if unitID == "" || (u.UnitID != nil && *u.UnitID == unitID) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r userRepo) SetRoles(_ context.Context, userID string, roles []entity.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Roles = roles
	return nil
}

// ─── Rate limiter ────────────────────────────────────────────────────────────

type stubLimiter struct {
	mu    sync.Mutex
	deny  map[string]bool
	calls []string
}

func (l *stubLimiter) Allow(_ context.Context, _ string, action string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, action)
	if l.deny[action] {
		return &domain.RateLimitedError{Action: action, ResetAt: time.Now().Add(time.Minute)}
	}
	return nil
}
