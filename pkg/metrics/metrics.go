// Package metrics contadores Prometheus del núcleo de solicitudes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RateLimitDecisions decisiones del rate limiter por acción y resultado (allowed, denied, fail_open).
	RateLimitDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "solicitudes_rate_limit_decisions_total",
		Help: "Decisiones del rate limiter por acción y resultado",
	}, []string{"action", "result"})

	// ReminderEmails correos del job de recordatorios por resultado (sent, skipped, failed).
	ReminderEmails = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "solicitudes_reminder_emails_total",
		Help: "Correos de recordatorio por resultado",
	}, []string{"result"})

	// StatusTransitions transiciones de estado ejecutadas.
	StatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "solicitudes_status_transitions_total",
		Help: "Transiciones de estado confirmadas",
	}, []string{"from", "to"})
)
