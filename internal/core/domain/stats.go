package domain

import (
	"time"
)

// FleetSummary is an aggregated view of a snapshot, as shown on the dashboard cards.
type FleetSummary struct {
	// Summary Metrics
	Total          int `json:"total"`
	Online         int `json:"online"`
	Offline        int `json:"offline"`
	LowBattery     int `json:"lowBattery"`
	CriticalAlerts int `json:"criticalAlerts"` // offline + low-battery

	// Share of the fleet per status, in percent.
	OnlinePercent     float64 `json:"onlinePercent"`
	OfflinePercent    float64 `json:"offlinePercent"`
	LowBatteryPercent float64 `json:"lowBatteryPercent"`

	// Metadata
	Version     uint64    `json:"version"`
	LastUpdated time.Time `json:"updatedAt"`
	Stale       bool      `json:"stale"` // no publish within the expected period
}

// Summarize computes the summary of a snapshot.
func Summarize(s Snapshot) FleetSummary {
	counts := s.CountByStatus()
	sum := FleetSummary{
		Total:       s.Len(),
		Online:      counts[StatusOnline],
		Offline:     counts[StatusOffline],
		LowBattery:  counts[StatusLowBattery],
		Version:     s.Version,
		LastUpdated: s.TakenAt,
	}
	sum.CriticalAlerts = sum.Offline + sum.LowBattery
	sum.OnlinePercent = percentOf(sum.Online, sum.Total)
	sum.OfflinePercent = percentOf(sum.Offline, sum.Total)
	sum.LowBatteryPercent = percentOf(sum.LowBattery, sum.Total)
	return sum
}

// IsStale returns true if the summary hasn't been updated within the given TTL.
func (s *FleetSummary) IsStale(ttl time.Duration) bool {
	return time.Since(s.LastUpdated) > ttl
}

func percentOf(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
