package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/lcalzada-xor/fleetdash/internal/core/domain"
	"github.com/lcalzada-xor/fleetdash/internal/core/ports"
	"github.com/lcalzada-xor/fleetdash/internal/core/services/selector"
	"github.com/lcalzada-xor/fleetdash/internal/core/services/timeseries"
	"github.com/lcalzada-xor/fleetdash/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// Refresher triggers an off-schedule fleet update.
type Refresher interface {
	Refresh()
}

// DashboardService composes the published fleet, the filter selector, the
// rolling window and the archive into the view served to clients.
type DashboardService struct {
	source    ports.SnapshotReader
	refresher Refresher
	selector  *selector.Selector
	window    *timeseries.Window
	archive   ports.SampleArchive
}

// NewDashboardService wires the facade. archive may be nil.
func NewDashboardService(source ports.SnapshotReader, refresher Refresher, window *timeseries.Window, archive ports.SampleArchive) *DashboardService {
	return &DashboardService{
		source:    source,
		refresher: refresher,
		selector:  selector.New(),
		window:    window,
		archive:   archive,
	}
}

// Snapshot returns the last published snapshot.
func (s *DashboardService) Snapshot() domain.Snapshot {
	return s.source.Snapshot()
}

// Robots returns the published robots matching filter, in fleet order.
func (s *DashboardService) Robots(filter domain.Filter) []domain.Robot {
	return s.selector.Select(s.source.Snapshot(), filter)
}

// Robot returns one robot of the published snapshot.
func (s *DashboardService) Robot(id string) (domain.Robot, error) {
	r, ok := s.source.Snapshot().Find(id)
	if !ok {
		return domain.Robot{}, fmt.Errorf("%w: %s", domain.ErrRobotNotFound, id)
	}
	return r, nil
}

// Summary aggregates the published snapshot.
func (s *DashboardService) Summary() domain.FleetSummary {
	return domain.Summarize(s.source.Snapshot())
}

// Timeline returns the rolling window, oldest first.
func (s *DashboardService) Timeline() []domain.Sample {
	return s.window.Samples()
}

// History returns archived samples. Without an archive the rolling window is used.
func (s *DashboardService) History(ctx context.Context, since time.Time, limit int) ([]domain.Sample, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "dashboard.History")
	defer span.End()
	span.SetAttributes(
		attribute.Int("history.limit", limit),
		attribute.Bool("history.archived", s.archive != nil),
	)

	if s.archive == nil {
		return trimHistory(s.window.Samples(), since, limit), nil
	}
	samples, err := s.archive.ListSamples(ctx, since, limit)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list archived samples: %w", err)
	}
	return samples, nil
}

// Refresh requests an immediate fleet update.
func (s *DashboardService) Refresh() {
	s.refresher.Refresh()
}

func trimHistory(samples []domain.Sample, since time.Time, limit int) []domain.Sample {
	out := make([]domain.Sample, 0, len(samples))
	for _, smp := range samples {
		if since.IsZero() || !smp.Timestamp.Before(since) {
			out = append(out, smp)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// Ensure interface compliance
var _ ports.DashboardService = (*DashboardService)(nil)
