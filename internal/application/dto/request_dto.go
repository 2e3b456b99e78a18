package dto

import "time"

// RequestItemInput línea de una solicitud. ID vacío = ítem nuevo (solo en actualización se usa ID).
type RequestItemInput struct {
	ID            string `json:"id,omitempty" validate:"omitempty,uuid"`
	Name          string `json:"name" validate:"required,max=200"`
	Category      string `json:"category,omitempty" validate:"max=100"`
	Quantity      int    `json:"quantity" validate:"min=1,max=100000"`
	UnitOfCount   string `json:"unit_of_count,omitempty" validate:"max=30"`
	RequiredAt    string `json:"required_at,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ReferenceLink string `json:"reference_link,omitempty" validate:"omitempty,url,max=500"`
	Notes         string `json:"notes,omitempty" validate:"max=1000"`
}

// CreateRequestRequest body para POST /api/requests. La longitud de reason (10-1000) se
// valida en el caso de uso después de normalizar el texto.
type CreateRequestRequest struct {
	Reason   string             `json:"reason" validate:"required"`
	Priority string             `json:"priority,omitempty" validate:"omitempty,oneof=LOW NORMAL HIGH URGENT low normal high urgent"`
	Items    []RequestItemInput `json:"items" validate:"required,min=1,max=50,dive"`
}

// UpdateRequestRequest body para PUT /api/requests/:id; reemplaza el conjunto de ítems.
type UpdateRequestRequest struct {
	Reason   string             `json:"reason" validate:"required"`
	Priority string             `json:"priority,omitempty" validate:"omitempty,oneof=LOW NORMAL HIGH URGENT low normal high urgent"`
	Items    []RequestItemInput `json:"items" validate:"required,min=1,max=50,dive"`
}

// AssignRequestRequest body para POST /api/requests/:id/assign y /reassign.
type AssignRequestRequest struct {
	AssigneeID string `json:"assignee_id" validate:"required,uuid"`
}

// UpdateStatusRequest body para PATCH /api/requests/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Note   string `json:"note,omitempty" validate:"max=2000"`
}

// CancelRequestRequest body para POST /api/requests/:id/cancel.
type CancelRequestRequest struct {
	Reason string `json:"reason,omitempty" validate:"max=1000"`
}

// AddCommentRequest body para POST /api/requests/:id/comments.
type AddCommentRequest struct {
	Content    string `json:"content" validate:"required,max=5000"`
	IsInternal bool   `json:"is_internal"`
}

// ListRequestsQuery filtros de GET /api/requests.
type ListRequestsQuery struct {
	Status string `query:"status"`
	PageRequest
}

// RequestResponse salida de una solicitud.
type RequestResponse struct {
	ID             string     `json:"id"`
	Number         int64      `json:"request_number"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	CreatedBy      string     `json:"created_by"`
	AssigneeID     *string    `json:"assignee_id,omitempty"`
	UnitID         *string    `json:"unit_id,omitempty"`
	Reason         string     `json:"reason"`
	CompletionNote *string    `json:"completion_note,omitempty"`
	CancelReason   *string    `json:"cancel_reason,omitempty"`
	SubmittedAt    *time.Time `json:"submitted_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// RequestItemResponse salida de un ítem.
type RequestItemResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Category      string  `json:"category,omitempty"`
	Quantity      int     `json:"quantity"`
	UnitOfCount   string  `json:"unit_of_count,omitempty"`
	RequiredAt    *string `json:"required_at,omitempty"` // YYYY-MM-DD
	ReferenceLink string  `json:"reference_link,omitempty"`
	Notes         string  `json:"notes,omitempty"`
}

// CommentResponse salida de un comentario.
type CommentResponse struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"author_id"`
	Content    string    `json:"content"`
	IsInternal bool      `json:"is_internal"`
	CreatedAt  time.Time `json:"created_at"`
}

// RequestLogResponse entrada del timeline.
type RequestLogResponse struct {
	ID        string         `json:"id"`
	Action    string         `json:"action"`
	OldStatus *string        `json:"old_status,omitempty"`
	NewStatus *string        `json:"new_status,omitempty"`
	ActorID   string         `json:"actor_id"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// RequestPermissions qué puede hacer el actor sobre la solicitud (para la UI).
type RequestPermissions struct {
	CanEdit            bool     `json:"can_edit"`
	CanSubmit          bool     `json:"can_submit"`
	CanDelete          bool     `json:"can_delete"`
	CanAssign          bool     `json:"can_assign"`
	CanReassign        bool     `json:"can_reassign"`
	CanCancel          bool     `json:"can_cancel"`
	CanComment         bool     `json:"can_comment"`
	CanCommentInternal bool     `json:"can_comment_internal"`
	AllowedStatuses    []string `json:"allowed_statuses"`
}

// RequestDetailResponse solicitud con ítems, comentarios visibles y timeline.
type RequestDetailResponse struct {
	Request     RequestResponse       `json:"request"`
	Items       []RequestItemResponse `json:"items"`
	Comments    []CommentResponse     `json:"comments"`
	Timeline    []RequestLogResponse  `json:"timeline"`
	Permissions RequestPermissions    `json:"permissions"`
}

// RequestListResponse listado paginado.
type RequestListResponse struct {
	Requests []RequestResponse `json:"requests"`
	Page     PageResponse      `json:"page"`
}
