package entity

import "time"

// Valores usados por el job de recordatorios.
const (
	JobDailyReminders = "daily_reminders"
	EmailTypeReminder = "reminder"
)

// CronLogEntry testigo de idempotencia: su existencia prueba que el envío ya ocurrió.
// Clave única (JobName, JobDate, Recipient, EmailType).
type CronLogEntry struct {
	ID        string
	JobName   string
	JobDate   time.Time
	Recipient string
	EmailType string
	CreatedAt time.Time
}
