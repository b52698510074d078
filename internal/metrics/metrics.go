// Package metrics holds the domain counters exported on /metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	CompletionsToggled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habit_completions_toggled_total",
			Help: "Habit completion toggles that changed state",
		},
		[]string{"direction"},
	)
	PointsAwarded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "points_awarded_total",
			Help: "XP points awarded to users",
		},
	)
	LevelUps = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "level_ups_total",
			Help: "Levels gained across all users",
		},
	)
	GoalsCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goals_completed_total",
			Help: "Goals that crossed their target",
		},
		[]string{"criteria"},
	)
	PushesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_notifications_total",
			Help: "Push notifications handed to the provider",
		},
		[]string{"kind", "result"},
	)
	LiveClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "live_sync_clients",
			Help: "Connected live-sync websocket clients",
		},
	)
)

func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		CompletionsToggled,
		PointsAwarded,
		LevelUps,
		GoalsCompleted,
		PushesSent,
		LiveClients,
	)
}
