package dto

// ReminderStats conteos del job de recordatorios.
type ReminderStats struct {
	JobDate           string `json:"jobDate"`
	TargetDate        string `json:"targetDate"`
	EmailsSent        int    `json:"emailsSent"`
	EmailsSkipped     int    `json:"emailsSkipped"`
	EmailsFailed      int    `json:"emailsFailed"`
	RequestsProcessed int    `json:"requestsProcessed"`
}

// ReminderRunResponse cuerpo de GET /reminders.
type ReminderRunResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Stats   ReminderStats `json:"stats"`
}
