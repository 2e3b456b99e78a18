package requests

import (
	"context"

	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción de BD con repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; ninguna escritura parcial queda visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		reqRepo repository.RequestRepository,
		itemRepo repository.RequestItemRepository,
		commentRepo repository.CommentRepository,
		logRepo repository.RequestLogRepository,
	) error) error
}

// RateLimiter cuota por (usuario, acción). Devuelve *domain.RateLimitedError al superar el límite.
type RateLimiter interface {
	Allow(ctx context.Context, userID, action string) error
}

// Acciones sometidas a rate limit.
const (
	ActionCreate       = "create_request"
	ActionUpdate       = "update_request"
	ActionSubmit       = "submit_request"
	ActionAssign       = "assign_request"
	ActionReassign     = "reassign_request"
	ActionUpdateStatus = "update_status"
	ActionCancel       = "cancel_request"
	ActionComment      = "add_comment"
	ActionDelete       = "delete_request"
)
