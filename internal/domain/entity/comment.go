package entity

import "time"

// Comment comentario sobre una solicitud. Los internos solo los ven staff, manager y admin.
type Comment struct {
	ID         string
	RequestID  string
	AuthorID   string
	Content    string
	IsInternal bool
	CreatedAt  time.Time
}
