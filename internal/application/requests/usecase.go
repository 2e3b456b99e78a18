// Package requests orquesta las operaciones sobre solicitudes: rate limit, validación,
// permisos, transición y persistencia transaccional junto con su entrada de bitácora.
// Solo errores de la taxonomía de dominio cruzan este límite.
package requests

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Solicitudes-api/internal/application/dto"
	"github.com/jhoicas/Solicitudes-api/internal/domain"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/permission"
	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
	"github.com/jhoicas/Solicitudes-api/internal/domain/workflow"
	"github.com/jhoicas/Solicitudes-api/pkg/logger"
	"github.com/jhoicas/Solicitudes-api/pkg/metrics"
)

// UseCase casos de uso de solicitudes. Sin estado propio; la consistencia vive en el store.
type UseCase struct {
	tx       TxRunner
	requests repository.RequestRepository
	items    repository.RequestItemRepository
	comments repository.CommentRepository
	logs     repository.RequestLogRepository
	users    repository.UserRepository
	limiter  RateLimiter
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso. Los repositorios sueltos se usan para lecturas;
// las escrituras pasan siempre por tx.
func NewUseCase(
	tx TxRunner,
	requests repository.RequestRepository,
	items repository.RequestItemRepository,
	comments repository.CommentRepository,
	logs repository.RequestLogRepository,
	users repository.UserRepository,
	limiter RateLimiter,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		tx:       tx,
		requests: requests,
		items:    items,
		comments: comments,
		logs:     logs,
		users:    users,
		limiter:  limiter,
		log:      log.Named("requests"),
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// ─── Creación y edición de borradores ────────────────────────────────────────

// Create crea una solicitud en DRAFT con sus ítems en una sola transacción.
func (uc *UseCase) Create(ctx context.Context, a permission.Actor, in dto.CreateRequestRequest) (*dto.RequestResponse, error) {
	if err := uc.begin(ctx, a, ActionCreate); err != nil {
		return nil, err
	}
	if !permission.CanCreateRequest(a) {
		return nil, domain.ErrForbidden
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	reason, err := normalizeReason(in.Reason)
	if err != nil {
		return nil, err
	}
	priority, err := entity.ParsePriority(in.Priority)
	if err != nil {
		return nil, domain.NewValidationError("priority", "prioridad desconocida")
	}

	now := uc.now()
	req := &entity.Request{
		ID:        uuid.New().String(),
		Status:    entity.StatusDraft,
		Priority:  priority,
		CreatedBy: a.UserID,
		UnitID:    strPtr(a.UnitID),
		Reason:    reason,
		CreatedAt: now,
		UpdatedAt: now,
	}
	items, err := buildItems(req.ID, in.Items, false, now)
	if err != nil {
		return nil, err
	}

	err = uc.tx.Run(ctx, func(
		reqRepo repository.RequestRepository,
		itemRepo repository.RequestItemRepository,
		_ repository.CommentRepository,
		logRepo repository.RequestLogRepository,
	) error {
		if err := reqRepo.Create(ctx, req); err != nil {
			return err
		}
		if err := itemRepo.CreateBatch(ctx, items); err != nil {
			return err
		}
		return logRepo.Append(ctx, newLog(req.ID, entity.LogActionCreated, nil, statusPtr(entity.StatusDraft), a.UserID,
			map[string]any{"items": len(items)}, now))
	})
	if err != nil {
		return nil, uc.fail(err, ActionCreate, req.ID)
	}

	uc.log.Info().Str("request_id", req.ID).Int64("number", req.Number).Str("actor_id", a.UserID).Msg("solicitud creada")
	return toRequestResponse(req), nil
}

// Update reemplaza razón, prioridad e ítems de un borrador.
func (uc *UseCase) Update(ctx context.Context, a permission.Actor, id string, in dto.UpdateRequestRequest) (*dto.RequestResponse, error) {
	if err := uc.begin(ctx, a, ActionUpdate); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	reason, err := normalizeReason(in.Reason)
	if err != nil {
		return nil, err
	}
	priority, err := entity.ParsePriority(in.Priority)
	if err != nil {
		return nil, domain.NewValidationError("priority", "prioridad desconocida")
	}

	req, err := uc.load(ctx, a, id)
	if err != nil {
		return nil, err
	}
	if req.Status != entity.StatusDraft {
		return nil, domain.ErrConflict
	}
	if !permission.CanEditRequest(a, req) {
		return nil, domain.ErrForbidden
	}

	existing, err := uc.items.ListByRequest(ctx, req.ID)
	if err != nil {
		return nil, uc.fail(err, ActionUpdate, req.ID)
	}
	if err := checkItemIDs(existing, in.Items); err != nil {
		return nil, err
	}

	now := uc.now()
	items, err := buildItems(req.ID, in.Items, true, now)
	if err != nil {
		return nil, err
	}
	next := req.Clone()
	next.Reason = reason
	next.Priority = priority
	next.UpdatedAt = now

	err = uc.tx.Run(ctx, func(
		reqRepo repository.RequestRepository,
		itemRepo repository.RequestItemRepository,
		_ repository.CommentRepository,
		logRepo repository.RequestLogRepository,
	) error {
		ok, err := reqRepo.UpdateDraft(ctx, next)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrConflict
		}
		if err := itemRepo.ReplaceAll(ctx, req.ID, items); err != nil {
			return err
		}
		return logRepo.Append(ctx, newLog(req.ID, entity.LogActionUpdated, nil, nil, a.UserID,
			map[string]any{"items": len(items)}, now))
	})
	if err != nil {
		return nil, uc.fail(err, ActionUpdate, req.ID)
	}
	return toRequestResponse(next), nil
}

// checkItemIDs los IDs enviados deben pertenecer a la solicitud y no repetirse.
func checkItemIDs(existing []*entity.RequestItem, in []dto.RequestItemInput) error {
	known := make(map[string]bool, len(existing))
	for _, it := range existing {
		known[it.ID] = true
	}
	seen := map[string]bool{}
	for i, it := range in {
		if it.ID == "" {
			continue
		}
		if !known[it.ID] || seen[it.ID] {
			return domain.NewValidationError(itemField(i, "id"), "el ítem no pertenece a la solicitud")
		}
		seen[it.ID] = true
	}
	return nil
}

// Delete elimina un borrador propio. Los borradores no se cancelan.
func (uc *UseCase) Delete(ctx context.Context, a permission.Actor, id string) error {
	if err := uc.begin(ctx, a, ActionDelete); err != nil {
		return err
	}
	req, err := uc.load(ctx, a, id)
	if err != nil {
		return err
	}
	if req.Status != entity.StatusDraft {
		return domain.ErrConflict
	}
	if !permission.CanDeleteRequest(a, req) {
		return domain.ErrForbidden
	}

	now := uc.now()
	err = uc.tx.Run(ctx, func(
		reqRepo repository.RequestRepository,
		_ repository.RequestItemRepository,
		_ repository.CommentRepository,
		logRepo repository.RequestLogRepository,
	) error {
		ok, err := reqRepo.DeleteDraft(ctx, req.ID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrConflict
		}
		return logRepo.Append(ctx, newLog(req.ID, entity.LogActionDeleted, statusPtr(entity.StatusDraft), nil, a.UserID,
			map[string]any{"request_number": req.Number}, now))
	})
	if err != nil {
		return uc.fail(err, ActionDelete, req.ID)
	}
	uc.log.Info().Str("request_id", req.ID).Str("actor_id", a.UserID).Msg("borrador eliminado")
	return nil
}

// ─── Transiciones ────────────────────────────────────────────────────────────

// Submit DRAFT -> NEW.
func (uc *UseCase) Submit(ctx context.Context, a permission.Actor, id string) (*dto.RequestResponse, error) {
	if err := uc.begin(ctx, a, ActionSubmit); err != nil {
		return nil, err
	}
	req, err := uc.load(ctx, a, id)
	if err != nil {
		return nil, err
	}
	if req.Status != entity.StatusDraft {
		return nil, &domain.IllegalTransitionError{From: req.Status.String(), To: entity.StatusNew.String()}
	}
	if !permission.CanSubmitRequest(a, req) {
		return nil, domain.ErrForbidden
	}
	return uc.transition(ctx, a, req, entity.StatusNew, nil, func(next *entity.Request, now time.Time) {
		next.SubmittedAt = timePtr(now)
	})
}

// Assign NEW -> ASSIGNED fijando el responsable.
func (uc *UseCase) Assign(ctx context.Context, a permission.Actor, id string, in dto.AssignRequestRequest) (*dto.RequestResponse, error) {
	if err := uc.begin(ctx, a, ActionAssign); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	req, err := uc.load(ctx, a, id)
	if err != nil {
		return nil, err
	}
	if req.Status != entity.StatusNew {
		return nil, &domain.IllegalTransitionError{From: req.Status.String(), To: entity.StatusAssigned.String()}
	}
	if !permission.CanAssignRequest(a, req) {
		return nil, domain.ErrForbidden
	}
	u, err := uc.checkAssignee(ctx, in.AssigneeID)
	if err != nil {
		return nil, err
	}
	assignee := in.AssigneeID
	meta := map[string]any{"assignee_id": assignee, "assignee_name": u.Name}
	return uc.transition(ctx, a, req, entity.StatusAssigned, meta,
		func(next *entity.Request, _ time.Time) {
			next.AssigneeID = &assignee
		})
}

// Reassign cambia el responsable sin cambiar el estado (solo ASSIGNED o NEED_INFO).
func (uc *UseCase) Reassign(ctx context.Context, a permission.Actor, id string, in dto.AssignRequestRequest) (*dto.RequestResponse, error) {
	if err := uc.begin(ctx, a, ActionReassign); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	req, err := uc.load(ctx, a, id)
	if err != nil {
		return nil, err
	}
	if req.Status != entity.StatusAssigned && req.Status != entity.StatusNeedInfo {
		return nil, &domain.IllegalTransitionError{
			From:   req.Status.String(),
			To:     req.Status.String(),
			Reason: "solo se reasigna en ASSIGNED o NEED_INFO",
		}
	}
	if !permission.CanReassignRequest(a, req) {
		return nil, domain.ErrForbidden
	}
	if req.IsAssignedTo(in.AssigneeID) {
		return nil, domain.NewValidationError("assignee_id", "ya es el responsable de la solicitud")
	}
	u, err := uc.checkAssignee(ctx, in.AssigneeID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	assignee := in.AssigneeID
	next := req.Clone()
	next.AssigneeID = &assignee
	next.UpdatedAt = now
	meta := map[string]any{"to_assignee": assignee, "to_assignee_name": u.Name}
	if req.AssigneeID != nil {
		meta["from_assignee"] = *req.AssigneeID
	}

	err = uc.tx.Run(ctx, func(
		reqRepo repository.RequestRepository,
		_ repository.RequestItemRepository,
		_ repository.CommentRepository,
		logRepo repository.RequestLogRepository,
	) error {
		ok, err := reqRepo.UpdateStatus(ctx, next, req.Status)
		if err != nil {
			return err
		}
		if !ok {
			return staleWrite(ctx, reqRepo, req.ID, req.Status)
		}
		return logRepo.Append(ctx, newLog(req.ID, entity.LogActionReassigned, nil, nil, a.UserID, meta, now))
	})
	if err != nil {
		return nil, uc.fail(err, ActionReassign, req.ID)
	}
	uc.log.Info().Str("request_id", req.ID).Str("actor_id", a.UserID).Str("assignee_id", assignee).Msg("solicitud reasignada")
	return toRequestResponse(next), nil
}

// UpdateStatus transición genérica. ASSIGNED se alcanza solo vía Assign.
// Una arista legal que el rol del actor no puede ejecutar también es IllegalTransition.
func (uc *UseCase) UpdateStatus(ctx context.Context, a permission.Actor, id string, in dto.UpdateStatusRequest) (*dto.RequestResponse, error) {
	if err := uc.begin(ctx, a, ActionUpdateStatus); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	to, err := entity.ParseStatus(in.Status)
	if err != nil {
		return nil, domain.NewValidationError("status", "estado desconocido")
	}
	if to == entity.StatusAssigned {
		return nil, domain.NewValidationError("status", "use la asignación para pasar a ASSIGNED")
	}

	req, err := uc.load(ctx, a, id)
	if err != nil {
		return nil, err
	}
	note := workflow.NormalizeText(in.Note)
	if err := workflow.Validate(req.Status, to, workflow.Meta{Note: note, Reason: note}); err != nil {
		return nil, err
	}
	if !permission.CanChangeStatus(a, req, req.Status, to) {
		return nil, &domain.IllegalTransitionError{
			From:   req.Status.String(),
			To:     to.String(),
			Reason: "su rol no permite esta transición",
		}
	}

	var meta map[string]any
	if note != "" {
		meta = map[string]any{"note": note}
	}
	return uc.transition(ctx, a, req, to, meta, func(next *entity.Request, now time.Time) {
		switch to {
		case entity.StatusNew:
			next.SubmittedAt = timePtr(now)
		case entity.StatusDone:
			next.CompletedAt = timePtr(now)
			next.CompletionNote = strPtr(note)
		case entity.StatusCancelled:
			next.CancelledAt = timePtr(now)
			next.CancelReason = strPtr(note)
		}
	})
}

// Cancel cualquier estado no terminal con arista a CANCELLED.
func (uc *UseCase) Cancel(ctx context.Context, a permission.Actor, id string, in dto.CancelRequestRequest) (*dto.RequestResponse, error) {
	if err := uc.begin(ctx, a, ActionCancel); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	req, err := uc.load(ctx, a, id)
	if err != nil {
		return nil, err
	}
	if req.Status == entity.StatusDraft {
		return nil, &domain.IllegalTransitionError{
			From:   req.Status.String(),
			To:     entity.StatusCancelled.String(),
			Reason: "los borradores se eliminan",
		}
	}
	reason := workflow.NormalizeText(in.Reason)
	if err := workflow.Validate(req.Status, entity.StatusCancelled, workflow.Meta{Reason: reason}); err != nil {
		return nil, err
	}
	if !permission.CanCancelRequest(a, req) {
		return nil, domain.ErrForbidden
	}

	var meta map[string]any
	if reason != "" {
		meta = map[string]any{"reason": reason}
	}
	return uc.transition(ctx, a, req, entity.StatusCancelled, meta, func(next *entity.Request, now time.Time) {
		next.CancelledAt = timePtr(now)
		next.CancelReason = strPtr(reason)
	})
}

// transition persiste req -> to con concurrencia optimista y escribe la bitácora en la misma tx.
func (uc *UseCase) transition(
	ctx context.Context,
	a permission.Actor,
	req *entity.Request,
	to entity.Status,
	meta map[string]any,
	mutate func(next *entity.Request, now time.Time),
) (*dto.RequestResponse, error) {
	from := req.Status
	action, ok := workflow.ActionFor(from, to)
	if !ok {
		return nil, &domain.IllegalTransitionError{From: from.String(), To: to.String()}
	}

	now := uc.now()
	next := req.Clone()
	next.Status = to
	next.UpdatedAt = now
	if mutate != nil {
		mutate(next, now)
	}

	err := uc.tx.Run(ctx, func(
		reqRepo repository.RequestRepository,
		_ repository.RequestItemRepository,
		_ repository.CommentRepository,
		logRepo repository.RequestLogRepository,
	) error {
		ok, err := reqRepo.UpdateStatus(ctx, next, from)
		if err != nil {
			return err
		}
		if !ok {
			return staleWrite(ctx, reqRepo, req.ID, to)
		}
		return logRepo.Append(ctx, newLog(req.ID, action, statusPtr(from), statusPtr(to), a.UserID, meta, now))
	})
	if err != nil {
		return nil, uc.fail(err, action, req.ID)
	}

	metrics.StatusTransitions.WithLabelValues(from.String(), to.String()).Inc()
	uc.log.Info().
		Str("request_id", req.ID).
		Str("actor_id", a.UserID).
		Str("from", from.String()).
		Str("to", to.String()).
		Msg("transición de estado")
	return toRequestResponse(next), nil
}

// staleWrite otra escritura cambió el estado entre la lectura y el update condicional.
func staleWrite(ctx context.Context, reqRepo repository.RequestRepository, id string, to entity.Status) error {
	cur, err := reqRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if cur == nil {
		return domain.ErrNotFound
	}
	return &domain.IllegalTransitionError{
		From:   cur.Status.String(),
		To:     to.String(),
		Reason: "la solicitud fue modificada por otra operación",
	}
}

// checkAssignee el responsable debe existir, estar activo y poder trabajar solicitudes.
func (uc *UseCase) checkAssignee(ctx context.Context, userID string) (*entity.User, error) {
	u, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, uc.fail(err, "get_assignee", "")
	}
	if u == nil || !u.Active || !(u.HasRole(entity.RoleStaff) || u.HasRole(entity.RoleManager) || u.HasRole(entity.RoleAdmin)) {
		return nil, domain.NewValidationError("assignee_id", "debe ser un usuario activo con rol staff, manager o admin")
	}
	return u, nil
}

// ─── Comentarios ─────────────────────────────────────────────────────────────

// AddComment agrega un comentario; los internos requieren rol staff, manager o admin.
func (uc *UseCase) AddComment(ctx context.Context, a permission.Actor, id string, in dto.AddCommentRequest) (*dto.CommentResponse, error) {
	if err := uc.begin(ctx, a, ActionComment); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	content := workflow.NormalizeText(in.Content)
	if content == "" {
		return nil, domain.NewValidationError("content", "es obligatorio")
	}
	req, err := uc.load(ctx, a, id)
	if err != nil {
		return nil, err
	}
	if !permission.CanComment(a, req) {
		return nil, domain.ErrForbidden
	}
	if in.IsInternal && !permission.CanCreateInternalComment(a, req) {
		return nil, domain.ErrForbidden
	}

	now := uc.now()
	c := &entity.Comment{
		ID:         uuid.New().String(),
		RequestID:  req.ID,
		AuthorID:   a.UserID,
		Content:    content,
		IsInternal: in.IsInternal,
		CreatedAt:  now,
	}
	err = uc.tx.Run(ctx, func(
		_ repository.RequestRepository,
		_ repository.RequestItemRepository,
		commentRepo repository.CommentRepository,
		logRepo repository.RequestLogRepository,
	) error {
		if err := commentRepo.Create(ctx, c); err != nil {
			return err
		}
		return logRepo.Append(ctx, newLog(req.ID, entity.LogActionCommented, nil, nil, a.UserID,
			map[string]any{"comment_id": c.ID, "is_internal": c.IsInternal}, now))
	})
	if err != nil {
		return nil, uc.fail(err, ActionComment, req.ID)
	}
	out := toCommentResponse(c)
	return &out, nil
}

// ─── Lecturas ────────────────────────────────────────────────────────────────

// Get detalle con ítems, comentarios visibles para el actor, timeline y permisos.
func (uc *UseCase) Get(ctx context.Context, a permission.Actor, id string) (*dto.RequestDetailResponse, error) {
	if a.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	req, err := uc.load(ctx, a, id)
	if err != nil {
		return nil, err
	}
	items, err := uc.items.ListByRequest(ctx, req.ID)
	if err != nil {
		return nil, uc.fail(err, "get_items", req.ID)
	}
	internal := permission.CanViewInternalComments(a)
	comments, err := uc.comments.ListByRequest(ctx, req.ID, internal)
	if err != nil {
		return nil, uc.fail(err, "get_comments", req.ID)
	}
	logs, err := uc.logs.ListByRequest(ctx, req.ID)
	if err != nil {
		return nil, uc.fail(err, "get_logs", req.ID)
	}

	out := &dto.RequestDetailResponse{
		Request:     *toRequestResponse(req),
		Items:       toItemResponses(items),
		Comments:    make([]dto.CommentResponse, 0, len(comments)),
		Timeline:    make([]dto.RequestLogResponse, 0, len(logs)),
		Permissions: permissionsFor(a, req),
	}
	for _, c := range comments {
		if c.IsInternal && !internal {
			continue
		}
		out.Comments = append(out.Comments, toCommentResponse(c))
	}
	for _, l := range logs {
		// Un comentario interno tampoco se delata en el timeline.
		if !internal && l.Action == entity.LogActionCommented && l.Metadata["is_internal"] == true {
			continue
		}
		out.Timeline = append(out.Timeline, toLogResponse(l))
	}
	return out, nil
}

// List solicitudes visibles para el actor, paginadas y con filtro opcional de estado.
func (uc *UseCase) List(ctx context.Context, a permission.Actor, q dto.ListRequestsQuery) (*dto.RequestListResponse, error) {
	if a.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	q.DefaultPage()
	filter := permission.Scope(a)
	if q.Status != "" {
		st, err := entity.ParseStatus(q.Status)
		if err != nil {
			return nil, domain.NewValidationError("status", "estado desconocido")
		}
		filter.Status = &st
	}
	filter.Limit = q.Limit
	filter.Offset = q.Offset

	out := &dto.RequestListResponse{
		Requests: []dto.RequestResponse{},
		Page:     dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}
	if !filter.AllUnits && filter.CreatedBy == "" && filter.UnitID == "" && filter.AssigneeID == "" {
		return out, nil
	}

	list, err := uc.requests.List(ctx, filter)
	if err != nil {
		return nil, uc.fail(err, "list", "")
	}
	total, err := uc.requests.Count(ctx, filter)
	if err != nil {
		return nil, uc.fail(err, "count", "")
	}
	for _, r := range list {
		out.Requests = append(out.Requests, *toRequestResponse(r))
	}
	out.Page.Total = total
	return out, nil
}

// permissionsFor acciones disponibles para el actor sobre la solicitud.
func permissionsFor(a permission.Actor, req *entity.Request) dto.RequestPermissions {
	p := dto.RequestPermissions{
		CanEdit:            permission.CanEditRequest(a, req),
		CanSubmit:          permission.CanSubmitRequest(a, req),
		CanDelete:          permission.CanDeleteRequest(a, req),
		CanAssign:          permission.CanAssignRequest(a, req),
		CanReassign:        permission.CanReassignRequest(a, req),
		CanCancel:          permission.CanCancelRequest(a, req),
		CanComment:         permission.CanComment(a, req),
		CanCommentInternal: permission.CanCreateInternalComment(a, req),
		AllowedStatuses:    []string{},
	}
	for _, to := range workflow.Targets(req.Status) {
		if to == entity.StatusAssigned {
			continue
		}
		if permission.CanChangeStatus(a, req, req.Status, to) {
			p.AllowedStatuses = append(p.AllowedStatuses, to.String())
		}
	}
	return p
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// begin identidad y cuota antes de cualquier otra comprobación.
func (uc *UseCase) begin(ctx context.Context, a permission.Actor, action string) error {
	if a.UserID == "" {
		return domain.ErrUnauthorized
	}
	if uc.limiter == nil {
		return nil
	}
	return uc.limiter.Allow(ctx, a.UserID, action)
}

// load inexistente y no visible colapsan en ErrNotFound.
func (uc *UseCase) load(ctx context.Context, a permission.Actor, id string) (*entity.Request, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	req, err := uc.requests.GetByID(ctx, id)
	if err != nil {
		return nil, uc.fail(err, "get", id)
	}
	if req == nil || !permission.CanViewRequest(a, req) {
		return nil, domain.ErrNotFound
	}
	return req, nil
}

// fail deja pasar errores de dominio; el resto se registra y se normaliza a ErrUpstream.
func (uc *UseCase) fail(err error, op, requestID string) error {
	if domain.IsDomainError(err) {
		return err
	}
	uc.log.Error().Err(err).Str("op", op).Str("request_id", requestID).Msg("error de almacenamiento")
	return domain.ErrUpstream
}

func newLog(requestID, action string, from, to *entity.Status, actorID string, meta map[string]any, now time.Time) *entity.RequestLog {
	return &entity.RequestLog{
		ID:        uuid.New().String(),
		RequestID: requestID,
		Action:    action,
		OldStatus: from,
		NewStatus: to,
		ActorID:   actorID,
		Metadata:  meta,
		CreatedAt: now,
	}
}
