package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RemindersScheduled tracks reminders handed to the notification store
	RemindersScheduled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reminder_engine_scheduled_total",
			Help: "Total number of reminders scheduled with the notification store",
		},
		[]string{"category"},
	)

	// RemindersCancelled tracks app-owned reminders cancelled
	RemindersCancelled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reminder_engine_cancelled_total",
			Help: "Total number of app-owned reminders cancelled",
		},
		[]string{"category"},
	)

	// RemindersDropped tracks reminders never handed to the store
	RemindersDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reminder_engine_dropped_total",
			Help: "Total number of reminders dropped before scheduling",
		},
		[]string{"category", "reason"},
	)

	// QuietHoursShifts tracks fire times moved out of the quiet window
	QuietHoursShifts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reminder_engine_quiet_hours_shift_total",
			Help: "Total number of fire times shifted to the quiet-hours end",
		},
	)

	// GateDecisions tracks delivery-gate outcomes
	GateDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reminder_engine_gate_decisions_total",
			Help: "Total delivery-gate decisions by outcome",
		},
		[]string{"outcome"},
	)

	// OwnedNotifications tracks the current registry size
	OwnedNotifications = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reminder_engine_owned_notifications",
			Help: "Current number of app-owned notification IDs",
		},
		[]string{"user_id"},
	)

	// RateLimitExceeded tracks throttled API requests
	RateLimitExceeded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reminder_engine_rate_limit_exceeded_total",
			Help: "Total number of rate-limited requests",
		},
		[]string{"user_id"},
	)

	// StoreErrors tracks failed calls into the notification store
	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reminder_engine_store_errors_total",
			Help: "Total number of failed notification-store operations",
		},
		[]string{"operation"},
	)
)
