package repository

import (
	"context"

	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
)

// RequestRepository puerto de persistencia para Request. Usable con pool o dentro de una tx.
type RequestRepository interface {
	// Create inserta la solicitud y completa Number con el secuencial asignado.
	Create(ctx context.Context, req *entity.Request) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Request, error)
	// UpdateDraft actualiza razón y prioridad solo si la solicitud sigue en DRAFT.
	UpdateDraft(ctx context.Context, req *entity.Request) (bool, error)
	// UpdateStatus persiste estado, responsable, notas y fechas solo si el estado
	// persistido es expected (concurrencia optimista). false = otra escritura ganó.
	UpdateStatus(ctx context.Context, req *entity.Request, expected entity.Status) (bool, error)
	// DeleteDraft elimina la solicitud (ítems y comentarios en cascada) solo si sigue en DRAFT.
	// La bitácora no se borra.
	DeleteDraft(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, filter entity.RequestFilter) ([]*entity.Request, error)
	Count(ctx context.Context, filter entity.RequestFilter) (int, error)
}

// RequestItemRepository puerto para los ítems de una solicitud.
type RequestItemRepository interface {
	CreateBatch(ctx context.Context, items []*entity.RequestItem) error
	// ReplaceAll deja exactamente items como conjunto de la solicitud
	// (actualiza los existentes por ID, inserta los nuevos y borra el resto).
	ReplaceAll(ctx context.Context, requestID string, items []*entity.RequestItem) error
	ListByRequest(ctx context.Context, requestID string) ([]*entity.RequestItem, error)
}

// CommentRepository puerto para comentarios.
type CommentRepository interface {
	Create(ctx context.Context, c *entity.Comment) error
	ListByRequest(ctx context.Context, requestID string, includeInternal bool) ([]*entity.Comment, error)
}

// RequestLogRepository puerto append-only para la bitácora de una solicitud.
type RequestLogRepository interface {
	Append(ctx context.Context, entry *entity.RequestLog) error
	ListByRequest(ctx context.Context, requestID string) ([]*entity.RequestLog, error)
}
