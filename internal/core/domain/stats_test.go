package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	now := time.Now()
	snap := NewSnapshot(3, now, []Robot{
		{ID: "a", Status: StatusOnline},
		{ID: "b", Status: StatusOnline},
		{ID: "c", Status: StatusOffline},
		{ID: "d", Status: StatusLowBattery},
	})

	sum := Summarize(snap)
	assert.Equal(t, 4, sum.Total)
	assert.Equal(t, 2, sum.Online)
	assert.Equal(t, 1, sum.Offline)
	assert.Equal(t, 1, sum.LowBattery)
	assert.Equal(t, 2, sum.CriticalAlerts)
	assert.InDelta(t, 50.0, sum.OnlinePercent, 1e-9)
	assert.InDelta(t, 25.0, sum.OfflinePercent, 1e-9)
	assert.InDelta(t, 25.0, sum.LowBatteryPercent, 1e-9)
	assert.Equal(t, uint64(3), sum.Version)
	assert.Equal(t, now, sum.LastUpdated)
}

func TestSummarize_EmptyFleet(t *testing.T) {
	sum := Summarize(Snapshot{})
	assert.Equal(t, 0, sum.Total)
	assert.Zero(t, sum.OnlinePercent)
	assert.Zero(t, sum.CriticalAlerts)
}

func TestNewSample_StatsCounts(t *testing.T) {
	at := time.Date(2024, 5, 1, 13, 7, 9, 0, time.Local)
	robots := []Robot{
		{Status: StatusOnline},
		{Status: StatusOffline},
		{Status: StatusOffline},
		{Status: StatusLowBattery},
	}

	s := NewSample(robots, at)
	assert.Equal(t, "07:09", s.Time)
	assert.Equal(t, "13:07:09", s.ChartLabel())
	assert.Equal(t, 1, s.Online)
	assert.Equal(t, 2, s.Offline)
	assert.Equal(t, 1, s.LowBattery)
	assert.Equal(t, len(robots), s.Total())

	empty := NewSample(nil, at)
	assert.Equal(t, 0, empty.Total())
}

func TestNewSnapshot_DoesNotAliasAndFind(t *testing.T) {
	robots := []Robot{{ID: "a", Status: StatusOnline}}
	snap := NewSnapshot(1, time.Now(), robots)
	robots[0].Status = StatusOffline

	assert.Equal(t, StatusOnline, snap.Robots[0].Status)

	r, ok := snap.Find("a")
	assert.True(t, ok)
	assert.Equal(t, "a", r.ID)
	_, ok = snap.Find("missing")
	assert.False(t, ok)
}

func TestFleetSummary_IsStale(t *testing.T) {
	sum := FleetSummary{LastUpdated: time.Now()}
	assert.False(t, sum.IsStale(time.Second))

	sum.LastUpdated = time.Now().Add(-2 * time.Second)
	assert.True(t, sum.IsStale(time.Second))
}
