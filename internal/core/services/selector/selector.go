package selector

import (
	"sync"

	"github.com/lcalzada-xor/fleetdash/internal/core/domain"
)

// Apply returns the robots matching f, preserving their order.
// FilterAll returns a copy of the whole fleet.
func Apply(robots []domain.Robot, f domain.Filter) []domain.Robot {
	out := make([]domain.Robot, 0, len(robots))
	for _, r := range robots {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

type entry struct {
	version uint64
	robots  []domain.Robot
}

// Selector memoizes Apply per filter. A filter's result is recomputed only
// when the snapshot version differs from the one it was computed for.
// Returned slices are shared between callers and must not be modified.
type Selector struct {
	mu             sync.Mutex
	cache          map[domain.Filter]entry
	recomputations int
}

// New creates an empty selector.
func New() *Selector {
	return &Selector{
		cache: make(map[domain.Filter]entry),
	}
}

// Select returns the robots of snap matching f.
func (s *Selector) Select(snap domain.Snapshot, f domain.Filter) []domain.Robot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.cache[f]; ok && e.version == snap.Version {
		return e.robots
	}

	robots := Apply(snap.Robots, f)
	s.cache[f] = entry{version: snap.Version, robots: robots}
	s.recomputations++
	return robots
}

// Recomputations returns how many times a result had to be recomputed.
func (s *Selector) Recomputations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recomputations
}
