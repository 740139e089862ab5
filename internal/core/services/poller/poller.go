package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lcalzada-xor/fleetdash/internal/core/domain"
	"github.com/lcalzada-xor/fleetdash/internal/core/ports"
	"github.com/lcalzada-xor/fleetdash/internal/telemetry"
)

// DefaultInterval is the fleet update period.
const DefaultInterval = 5 * time.Second

// Poller advances the fleet on a fixed period and publishes every resulting
// snapshot as a whole to its subscribers.
type Poller struct {
	fleet    ports.FleetUpdater
	interval time.Duration

	mu      sync.Mutex
	subs    map[int]chan domain.Snapshot
	nextSub int
	latest  domain.Snapshot
	running bool
	cancel  context.CancelFunc
	done    chan struct{}

	refresh chan struct{}
}

// NewPoller creates a poller over fleet. A non-positive interval uses DefaultInterval.
func NewPoller(fleet ports.FleetUpdater, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		fleet:    fleet,
		interval: interval,
		subs:     make(map[int]chan domain.Snapshot),
		refresh:  make(chan struct{}, 1),
	}
}

// Start publishes the current fleet immediately, then ticks in the background
// until Stop is called or ctx is cancelled. Calling Start twice is a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	loopCtx, cancel := context.WithCancel(ctx)
	p.running = true
	p.cancel = cancel
	p.done = make(chan struct{})
	done := p.done
	p.mu.Unlock()

	// drop refresh requests made before the poller was running
	select {
	case <-p.refresh:
	default:
	}

	p.publish(loopCtx, p.fleet.Snapshot())

	go p.loop(loopCtx, done)
}

// Stop cancels the periodic updates and waits for the loop to exit.
// Nothing is published once Stop returns. It is safe to call more than once.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	cancel, done := p.cancel, p.done
	p.mu.Unlock()

	cancel()
	<-done
}

// Refresh requests an immediate off-schedule update. It never blocks;
// requests made while one is pending are coalesced.
func (p *Poller) Refresh() {
	select {
	case p.refresh <- struct{}{}:
	default:
	}
}

// Snapshot returns the last published snapshot (empty before Start).
func (p *Poller) Snapshot() domain.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.latest
}

// Subscribe registers a subscriber. Each channel holds at most buffer
// snapshots; when it is full the oldest pending snapshot is dropped so the
// subscriber always catches up to the latest one.
func (p *Poller) Subscribe(buffer int) (<-chan domain.Snapshot, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan domain.Snapshot, buffer)

	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = ch
	p.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subs, id)
			p.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// exited marks the poller stopped when its loop ends on context
// cancellation, so a later Start runs again.
func (p *Poller) exited(done chan struct{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done == done {
		p.running = false
	}
}

func (p *Poller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer p.exited(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			telemetry.TicksTotal.WithLabelValues("poll").Inc()
			p.publish(ctx, p.fleet.Tick())
		case <-p.refresh:
			telemetry.TicksTotal.WithLabelValues("refresh").Inc()
			p.publish(ctx, p.fleet.Tick())
		}
	}
}

func (p *Poller) publish(ctx context.Context, snap domain.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if ctx.Err() != nil {
		return
	}

	p.latest = snap
	for _, ch := range p.subs {
		deliverLatest(ch, snap)
	}
	telemetry.RecordSnapshot(snap)
	slog.Debug("Fleet snapshot published", "version", snap.Version, "robots", snap.Len(), "subscribers", len(p.subs))
}

// deliverLatest sends snap without blocking, evicting the oldest pending value if needed.
func deliverLatest(ch chan domain.Snapshot, snap domain.Snapshot) {
	for {
		select {
		case ch <- snap:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Ensure interface compliance
var _ ports.SnapshotSource = (*Poller)(nil)
