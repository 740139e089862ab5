package ports

import (
	"context"
	"time"

	"github.com/lcalzada-xor/fleetdash/internal/core/domain"
)

// RobotGenerator produces and evolves synthetic robot records.
type RobotGenerator interface {
	// GenerateRobot creates a brand new robot with a fresh ID.
	GenerateRobot() domain.Robot
	// UpdateRobot returns the next state of r. The ID never changes.
	UpdateRobot(r domain.Robot) domain.Robot
}

// SnapshotReader is the read-only accessor shared by every consumer of the fleet.
type SnapshotReader interface {
	Snapshot() domain.Snapshot
}

// FleetUpdater owns the fleet and advances it one tick at a time.
type FleetUpdater interface {
	SnapshotReader
	// Tick updates every robot and returns the resulting snapshot.
	Tick() domain.Snapshot
}

// SnapshotSource publishes whole snapshots to subscribers.
type SnapshotSource interface {
	SnapshotReader
	// Subscribe returns a channel receiving every published snapshot and an
	// idempotent cancel function that closes it.
	Subscribe(buffer int) (<-chan domain.Snapshot, func())
}

// SampleSink receives every time-series sample taken by the aggregator.
// Implementations must not block.
type SampleSink interface {
	RecordSample(ctx context.Context, sample domain.Sample)
}

// DashboardService is the facade used by the transport adapters.
type DashboardService interface {
	Snapshot() domain.Snapshot
	Robots(filter domain.Filter) []domain.Robot
	Robot(id string) (domain.Robot, error)
	Summary() domain.FleetSummary
	Timeline() []domain.Sample
	History(ctx context.Context, since time.Time, limit int) ([]domain.Sample, error)
	Refresh()
}
