package telemetry

import (
	"sync"

	"github.com/lcalzada-xor/fleetdash/internal/core/domain"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RobotsByStatus tracks the current number of robots per status
	RobotsByStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "fleetdash",
			Name:      "robots",
			Help:      "Number of robots per derived status in the last published snapshot",
		},
		[]string{"status"},
	)

	// FleetVersion is the version of the last published snapshot
	FleetVersion = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "fleetdash",
			Name:      "fleet_version",
			Help:      "Version of the last published fleet snapshot",
		},
	)

	// BatteryPercentage observes robot battery levels at each publish
	BatteryPercentage = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "fleetdash",
			Name:      "robot_battery_percentage",
			Help:      "Distribution of robot battery levels",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		},
	)

	// TicksTotal counts periodic activities by kind (poll, sample, refresh)
	TicksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fleetdash",
			Name:      "ticks_total",
			Help:      "Total number of periodic ticks executed",
		},
		[]string{"kind"},
	)

	// SinkErrors counts failures of downstream consumers (archive, mqtt)
	SinkErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fleetdash",
			Name:      "sink_errors_total",
			Help:      "Total number of errors returned by snapshot or sample sinks",
		},
		[]string{"sink"},
	)

	// WebSocketClients is the number of connected dashboard clients
	WebSocketClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "fleetdash",
			Name:      "websocket_clients",
			Help:      "Number of connected WebSocket clients",
		},
	)

	// Ensure metrics are only registered once
	once sync.Once
)

// InitMetrics registers all metrics with the global Prometheus registry
// This function is idempotent and can be called multiple times safely
func InitMetrics() {
	once.Do(func() {
		prometheus.DefaultRegisterer.Register(RobotsByStatus)
		prometheus.DefaultRegisterer.Register(FleetVersion)
		prometheus.DefaultRegisterer.Register(BatteryPercentage)
		prometheus.DefaultRegisterer.Register(TicksTotal)
		prometheus.DefaultRegisterer.Register(SinkErrors)
		prometheus.DefaultRegisterer.Register(WebSocketClients)
	})
}

// RecordSnapshot updates the fleet gauges from a published snapshot.
func RecordSnapshot(s domain.Snapshot) {
	for status, n := range s.CountByStatus() {
		RobotsByStatus.WithLabelValues(string(status)).Set(float64(n))
	}
	FleetVersion.Set(float64(s.Version))
	for _, r := range s.Robots {
		BatteryPercentage.Observe(r.BatteryPercentage)
	}
}
