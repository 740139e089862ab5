package selector

import (
	"testing"
	"time"

	"github.com/lcalzada-xor/fleetdash/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func fleetSnapshot(version uint64) domain.Snapshot {
	return domain.NewSnapshot(version, time.Now(), []domain.Robot{
		{ID: "a", Status: domain.StatusOnline},
		{ID: "b", Status: domain.StatusOffline},
		{ID: "c", Status: domain.StatusLowBattery},
		{ID: "d", Status: domain.StatusOnline},
		{ID: "e", Status: domain.StatusOffline},
	})
}

func ids(robots []domain.Robot) []string {
	out := make([]string, 0, len(robots))
	for _, r := range robots {
		out = append(out, r.ID)
	}
	return out
}

func TestApply(t *testing.T) {
	snap := fleetSnapshot(1)

	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids(Apply(snap.Robots, domain.FilterAll)))
	assert.Equal(t, []string{"a", "d"}, ids(Apply(snap.Robots, domain.FilterOnline)))
	assert.Equal(t, []string{"b", "e"}, ids(Apply(snap.Robots, domain.FilterOffline)))
	assert.Equal(t, []string{"c"}, ids(Apply(snap.Robots, domain.FilterLowBattery)))
}

func TestApply_PartitionsFleet(t *testing.T) {
	snap := fleetSnapshot(1)
	total := len(Apply(snap.Robots, domain.FilterOnline)) +
		len(Apply(snap.Robots, domain.FilterOffline)) +
		len(Apply(snap.Robots, domain.FilterLowBattery))

	assert.Equal(t, len(Apply(snap.Robots, domain.FilterAll)), total)
}

func TestApply_OnlyMatchingStatus(t *testing.T) {
	snap := fleetSnapshot(1)
	for _, f := range []domain.Filter{domain.FilterOnline, domain.FilterOffline, domain.FilterLowBattery} {
		for _, r := range Apply(snap.Robots, f) {
			assert.Equal(t, domain.Status(f), r.Status)
		}
	}
}

func TestApply_EmptyFleet(t *testing.T) {
	assert.Empty(t, Apply(nil, domain.FilterAll))
}

func TestSelector_Memoizes(t *testing.T) {
	s := New()
	snap := fleetSnapshot(1)

	first := s.Select(snap, domain.FilterOnline)
	second := s.Select(snap, domain.FilterOnline)
	assert.Equal(t, 1, s.Recomputations())
	assert.Equal(t, first, second)

	// new filter recomputes
	s.Select(snap, domain.FilterOffline)
	assert.Equal(t, 2, s.Recomputations())

	// switching back to a cached filter does not
	s.Select(snap, domain.FilterOnline)
	assert.Equal(t, 2, s.Recomputations())

	// new fleet version recomputes
	s.Select(fleetSnapshot(2), domain.FilterOnline)
	assert.Equal(t, 3, s.Recomputations())
}
