package requests

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jhoicas/Solicitudes-api/internal/application/dto"
	"github.com/jhoicas/Solicitudes-api/internal/domain"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/workflow"
)

const (
	dateLayout     = "2006-01-02"
	reasonMinRunes = 10
	reasonMaxRunes = 1000
)

// normalizeReason NFC + trim y longitud en runas.
func normalizeReason(raw string) (string, error) {
	reason := workflow.NormalizeText(raw)
	n := utf8.RuneCountInString(reason)
	if n < reasonMinRunes || n > reasonMaxRunes {
		return "", domain.NewValidationError("reason", fmt.Sprintf("debe tener entre %d y %d caracteres", reasonMinRunes, reasonMaxRunes))
	}
	return reason, nil
}

// buildItems convierte la entrada en entidades; keepIDs conserva los IDs enviados (actualización).
func buildItems(requestID string, in []dto.RequestItemInput, keepIDs bool, now time.Time) ([]*entity.RequestItem, error) {
	items := make([]*entity.RequestItem, 0, len(in))
	for i, it := range in {
		name := workflow.NormalizeText(it.Name)
		if name == "" {
			return nil, domain.NewValidationError(itemField(i, "name"), "es obligatorio")
		}
		item := &entity.RequestItem{
			ID:            uuid.New().String(),
			RequestID:     requestID,
			Name:          name,
			Category:      workflow.NormalizeText(it.Category),
			Quantity:      it.Quantity,
			UnitOfCount:   workflow.NormalizeText(it.UnitOfCount),
			ReferenceLink: workflow.NormalizeText(it.ReferenceLink),
			Notes:         workflow.NormalizeText(it.Notes),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if keepIDs && it.ID != "" {
			item.ID = it.ID
		}
		if it.RequiredAt != "" {
			d, err := time.Parse(dateLayout, it.RequiredAt)
			if err != nil {
				return nil, domain.NewValidationError(itemField(i, "required_at"), "debe tener formato AAAA-MM-DD")
			}
			item.RequiredAt = &d
		}
		items = append(items, item)
	}
	return items, nil
}

func itemField(i int, name string) string {
	return fmt.Sprintf("items[%d].%s", i, name)
}

func toRequestResponse(r *entity.Request) *dto.RequestResponse {
	if r == nil {
		return nil
	}
	return &dto.RequestResponse{
		ID:             r.ID,
		Number:         r.Number,
		Status:         r.Status.String(),
		Priority:       string(r.Priority),
		CreatedBy:      r.CreatedBy,
		AssigneeID:     r.AssigneeID,
		UnitID:         r.UnitID,
		Reason:         r.Reason,
		CompletionNote: r.CompletionNote,
		CancelReason:   r.CancelReason,
		SubmittedAt:    r.SubmittedAt,
		CompletedAt:    r.CompletedAt,
		CancelledAt:    r.CancelledAt,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func toItemResponses(items []*entity.RequestItem) []dto.RequestItemResponse {
	out := make([]dto.RequestItemResponse, 0, len(items))
	for _, it := range items {
		r := dto.RequestItemResponse{
			ID:            it.ID,
			Name:          it.Name,
			Category:      it.Category,
			Quantity:      it.Quantity,
			UnitOfCount:   it.UnitOfCount,
			ReferenceLink: it.ReferenceLink,
			Notes:         it.Notes,
		}
		if it.RequiredAt != nil {
			s := it.RequiredAt.Format(dateLayout)
			r.RequiredAt = &s
		}
		out = append(out, r)
	}
	return out
}

func toCommentResponse(c *entity.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:         c.ID,
		AuthorID:   c.AuthorID,
		Content:    c.Content,
		IsInternal: c.IsInternal,
		CreatedAt:  c.CreatedAt,
	}
}

func toLogResponse(l *entity.RequestLog) dto.RequestLogResponse {
	r := dto.RequestLogResponse{
		ID:        l.ID,
		Action:    l.Action,
		ActorID:   l.ActorID,
		Metadata:  l.Metadata,
		CreatedAt: l.CreatedAt,
	}
	if l.OldStatus != nil {
		s := l.OldStatus.String()
		r.OldStatus = &s
	}
	if l.NewStatus != nil {
		s := l.NewStatus.String()
		r.NewStatus = &s
	}
	return r
}

func statusPtr(s entity.Status) *entity.Status { return &s }

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func timePtr(t time.Time) *time.Time { return &t }
