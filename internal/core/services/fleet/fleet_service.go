package fleet

import (
	"fmt"
	"sync"
	"time"

	"github.com/lcalzada-xor/fleetdash/internal/core/domain"
	"github.com/lcalzada-xor/fleetdash/internal/core/ports"
)

// DefaultFleetSize is the number of robots created when none is configured.
const DefaultFleetSize = 10

// FleetService owns the canonical fleet. It is the only writer; every reader
// gets a copy through Snapshot.
type FleetService struct {
	generator ports.RobotGenerator
	now       func() time.Time

	mu      sync.RWMutex
	robots  []domain.Robot
	version uint64
	takenAt time.Time
}

// NewFleetService creates the fleet once with size robots.
func NewFleetService(generator ports.RobotGenerator, size int) *FleetService {
	if size < 0 {
		size = 0
	}
	robots := make([]domain.Robot, 0, size)
	for i := 0; i < size; i++ {
		robots = append(robots, generator.GenerateRobot())
	}

	s := &FleetService{
		generator: generator,
		now:       time.Now,
		robots:    robots,
		version:   1,
	}
	s.takenAt = s.now()
	return s
}

// Snapshot returns a copy of the current fleet.
func (s *FleetService) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.NewSnapshot(s.version, s.takenAt, s.robots)
}

// Tick updates every robot and swaps the whole fleet in one step.
func (s *FleetService) Tick() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.Robot, len(s.robots))
	for i, r := range s.robots {
		next[i] = s.generator.UpdateRobot(r)
	}

	s.robots = next
	s.version++
	s.takenAt = s.now()
	return domain.NewSnapshot(s.version, s.takenAt, s.robots)
}

// Robot looks a robot up by ID.
func (s *FleetService) Robot(id string) (domain.Robot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.robots {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.Robot{}, fmt.Errorf("%w: %s", domain.ErrRobotNotFound, id)
}

// Size returns the fixed fleet cardinality.
func (s *FleetService) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.robots)
}

// Ensure interface compliance
var _ ports.FleetUpdater = (*FleetService)(nil)
