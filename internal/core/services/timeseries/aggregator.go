package timeseries

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lcalzada-xor/fleetdash/internal/core/domain"
	"github.com/lcalzada-xor/fleetdash/internal/core/ports"
	"github.com/lcalzada-xor/fleetdash/internal/telemetry"
)

// DefaultInterval is the sampling period.
const DefaultInterval = 15 * time.Second

// Count builds the sample of robots at the given instant.
func Count(robots []domain.Robot, at time.Time) domain.Sample {
	return domain.NewSample(robots, at)
}

// Aggregator samples the published fleet on its own schedule, independent of
// the fleet update period, and feeds the rolling window and the sinks.
type Aggregator struct {
	reader   ports.SnapshotReader
	window   *Window
	interval time.Duration
	now      func() time.Time

	mu      sync.Mutex
	sinks   []ports.SampleSink
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewAggregator creates an aggregator reading from reader.
// A non-positive interval uses DefaultInterval.
func NewAggregator(reader ports.SnapshotReader, window *Window, interval time.Duration, sinks ...ports.SampleSink) *Aggregator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if window == nil {
		window = NewWindow(DefaultCapacity)
	}
	return &Aggregator{
		reader:   reader,
		window:   window,
		interval: interval,
		now:      time.Now,
		sinks:    sinks,
	}
}

// AddSink registers another sample consumer.
func (a *Aggregator) AddSink(sink ports.SampleSink) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sinks = append(a.sinks, sink)
}

// Window returns the rolling window fed by the aggregator.
func (a *Aggregator) Window() *Window {
	return a.window
}

// Start takes a first sample right away, then one per interval until Stop
// is called or ctx is cancelled. Calling Start twice is a no-op.
func (a *Aggregator) Start(ctx context.Context) {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return
	}
	loopCtx, cancel := context.WithCancel(ctx)
	a.running = true
	a.cancel = cancel
	a.done = make(chan struct{})
	done := a.done
	a.mu.Unlock()

	a.sample(loopCtx)

	go a.loop(loopCtx, done)
}

// Stop cancels sampling and waits for the loop to exit. No sample is
// appended once Stop returns. It is safe to call more than once.
func (a *Aggregator) Stop() {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return
	}
	a.running = false
	cancel, done := a.cancel, a.done
	a.mu.Unlock()

	cancel()
	<-done
}

// exited marks the aggregator stopped when its loop ends on context
// cancellation, so a later Start runs again.
func (a *Aggregator) exited(done chan struct{}) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.done == done {
		a.running = false
	}
}

func (a *Aggregator) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer a.exited(done)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.sample(ctx)
		}
	}
}

func (a *Aggregator) sample(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	snap := a.reader.Snapshot()
	s := Count(snap.Robots, a.now())
	a.window.Append(s)
	telemetry.TicksTotal.WithLabelValues("sample").Inc()

	a.mu.Lock()
	sinks := make([]ports.SampleSink, len(a.sinks))
	copy(sinks, a.sinks)
	a.mu.Unlock()

	for _, sink := range sinks {
		sink.RecordSample(ctx, s)
	}

	slog.Debug("Fleet sample taken", "time", s.Time, "online", s.Online, "offline", s.Offline, "low_battery", s.LowBattery)
}
