package domain

import (
	"math"
	"time"

	"github.com/lcalzada-xor/fleetdash/internal/geo"
)

// Status is the derived connectivity/battery classification of a robot.
type Status string

const (
	StatusOnline     Status = "online"
	StatusOffline    Status = "offline"
	StatusLowBattery Status = "low-battery"
)

// DefaultLowBatteryThreshold is the battery percentage under which an
// online robot is reported as low-battery.
const DefaultLowBatteryThreshold = 20.0

// Statuses lists every status in display order.
var Statuses = []Status{StatusOnline, StatusOffline, StatusLowBattery}

// Classify derives the status of a robot using the default threshold.
func Classify(isOnline bool, batteryPercentage float64) Status {
	return ClassifyWithThreshold(isOnline, batteryPercentage, DefaultLowBatteryThreshold)
}

// ClassifyWithThreshold derives the status of a robot.
// Connectivity dominates battery: an offline robot is offline whatever its charge.
func ClassifyWithThreshold(isOnline bool, batteryPercentage, threshold float64) Status {
	if !isOnline {
		return StatusOffline
	}
	if batteryPercentage < threshold {
		return StatusLowBattery
	}
	return StatusOnline
}

// Telemetry is one raw reading of a robot.
type Telemetry struct {
	IsOnline          bool
	BatteryPercentage float64
	CPUUsage          float64
	RAMUsage          float64
	Location          geo.Location
	At                time.Time
}

// Robot is a monitored robot as exposed to consumers.
type Robot struct {
	ID                string       `json:"id"`
	IsOnline          bool         `json:"isOnline"`
	BatteryPercentage float64      `json:"batteryPercentage"`
	CPUUsage          float64      `json:"cpuUsage"`
	RAMUsage          float64      `json:"ramUsage"`
	LastUpdated       time.Time    `json:"lastUpdated"`
	Location          geo.Location `json:"location"`
	Status            Status       `json:"status"`
}

// NewRobot builds a robot from its first reading.
func NewRobot(id string, t Telemetry, lowBatteryThreshold float64) Robot {
	r := Robot{ID: id}
	r.Apply(t, lowBatteryThreshold)
	return r
}

// Apply overwrites the raw fields with t and re-derives Status in the same step.
// It is the only way raw fields change after creation.
func (r *Robot) Apply(t Telemetry, lowBatteryThreshold float64) {
	r.IsOnline = t.IsOnline
	r.BatteryPercentage = ClampPercentage(t.BatteryPercentage)
	r.CPUUsage = ClampPercentage(t.CPUUsage)
	r.RAMUsage = ClampPercentage(t.RAMUsage)
	r.Location = t.Location
	r.LastUpdated = t.At
	r.Status = ClassifyWithThreshold(r.IsOnline, r.BatteryPercentage, lowBatteryThreshold)
}

// ClampPercentage bounds v to [0,100].
func ClampPercentage(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(100, v))
}
