package dto

// RequestSummaryResponse resumen del tablero: conteos por estado en el alcance del actor.
type RequestSummaryResponse struct {
	ByStatus     map[string]int `json:"by_status"`
	Open         int            `json:"open"`
	OverdueItems int            `json:"overdue_items"`
	DateLabel    string         `json:"date_label"`
}
