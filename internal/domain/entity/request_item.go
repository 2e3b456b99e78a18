package entity

import "time"

// RequestItem línea de una solicitud; se elimina junto con su solicitud.
type RequestItem struct {
	ID            string
	RequestID     string
	Name          string
	Category      string
	Quantity      int // >= 1
	UnitOfCount   string
	RequiredAt    *time.Time // solo fecha
	ReferenceLink string
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DueItem modelo de lectura para recordatorios: ítem con datos de la solicitud y del responsable.
type DueItem struct {
	ItemID        string
	ItemName      string
	Quantity      int
	UnitOfCount   string
	RequiredAt    time.Time
	RequestID     string
	RequestNumber int64
	RequestStatus Status
	AssigneeID    string
	AssigneeEmail string
	AssigneeName  string
}
