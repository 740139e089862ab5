package domain

import (
	"time"
)

// Snapshot is an immutable, versioned copy of the whole fleet.
// Version increases by one on every fleet update.
type Snapshot struct {
	Version uint64    `json:"version"`
	TakenAt time.Time `json:"takenAt"`
	Robots  []Robot   `json:"robots"`
}

// NewSnapshot copies robots so the snapshot never aliases the owner's state.
func NewSnapshot(version uint64, takenAt time.Time, robots []Robot) Snapshot {
	cp := make([]Robot, len(robots))
	copy(cp, robots)
	return Snapshot{
		Version: version,
		TakenAt: takenAt,
		Robots:  cp,
	}
}

// Len returns the fleet size captured by the snapshot.
func (s Snapshot) Len() int {
	return len(s.Robots)
}

// Find looks a robot up by ID.
func (s Snapshot) Find(id string) (Robot, bool) {
	for _, r := range s.Robots {
		if r.ID == id {
			return r, true
		}
	}
	return Robot{}, false
}

// CountByStatus returns the number of robots in each status.
// Every status is present in the result, zero when absent.
func (s Snapshot) CountByStatus() map[Status]int {
	counts := make(map[Status]int, len(Statuses))
	for _, st := range Statuses {
		counts[st] = 0
	}
	for _, r := range s.Robots {
		counts[r.Status]++
	}
	return counts
}
