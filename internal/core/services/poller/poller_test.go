package poller

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lcalzada-xor/fleetdash/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFleet is a FleetUpdater whose version is the number of ticks + 1.
type fakeFleet struct {
	mu    sync.Mutex
	ticks int
	size  int
}

func (f *fakeFleet) snapshotLocked() domain.Snapshot {
	robots := make([]domain.Robot, f.size)
	for i := range robots {
		robots[i] = domain.Robot{ID: "r", Status: domain.StatusOnline}
	}
	return domain.NewSnapshot(uint64(f.ticks+1), time.Now(), robots)
}

func (f *fakeFleet) Snapshot() domain.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *fakeFleet) Tick() domain.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ticks++
	return f.snapshotLocked()
}

func (f *fakeFleet) Ticks() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ticks
}

func TestPoller_PublishesInitialSnapshotImmediately(t *testing.T) {
	fleet := &fakeFleet{size: 10}
	p := NewPoller(fleet, time.Hour)

	ch, cancel := p.Subscribe(1)
	defer cancel()

	p.Start(context.Background())
	defer p.Stop()

	select {
	case snap := <-ch:
		assert.Equal(t, uint64(1), snap.Version)
		assert.Len(t, snap.Robots, 10)
	case <-time.After(time.Second):
		t.Fatal("initial snapshot not published")
	}
	assert.Equal(t, 0, fleet.Ticks())
	assert.Equal(t, uint64(1), p.Snapshot().Version)
}

func TestPoller_TicksPeriodically(t *testing.T) {
	fleet := &fakeFleet{size: 3}
	p := NewPoller(fleet, 10*time.Millisecond)

	p.Start(context.Background())
	defer p.Stop()

	assert.Eventually(t, func() bool {
		return p.Snapshot().Version >= 4
	}, 2*time.Second, 5*time.Millisecond)
}

func TestPoller_NoPublishAfterStop(t *testing.T) {
	fleet := &fakeFleet{size: 3}
	p := NewPoller(fleet, 5*time.Millisecond)

	ch, cancel := p.Subscribe(64)
	defer cancel()

	p.Start(context.Background())
	assert.Eventually(t, func() bool { return fleet.Ticks() >= 2 }, 2*time.Second, time.Millisecond)
	p.Stop()

	ticks := fleet.Ticks()
	version := p.Snapshot().Version
	pending := len(ch)

	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, ticks, fleet.Ticks())
	assert.Equal(t, version, p.Snapshot().Version)
	assert.Equal(t, pending, len(ch))
}

func TestPoller_StopIsIdempotent(t *testing.T) {
	p := NewPoller(&fakeFleet{}, time.Hour)

	assert.NotPanics(t, func() {
		p.Stop() // before Start
		p.Start(context.Background())
		p.Stop()
		p.Stop()
	})
}

func TestPoller_StartTwiceIsNoop(t *testing.T) {
	fleet := &fakeFleet{size: 1}
	p := NewPoller(fleet, time.Hour)

	ch, cancel := p.Subscribe(4)
	defer cancel()

	p.Start(context.Background())
	p.Start(context.Background())
	defer p.Stop()

	assert.Len(t, ch, 1)
}

func TestPoller_ContextCancellationStopsLoop(t *testing.T) {
	fleet := &fakeFleet{size: 1}
	p := NewPoller(fleet, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)
	assert.Eventually(t, func() bool { return fleet.Ticks() >= 1 }, 2*time.Second, time.Millisecond)
	cancel()

	// loop exits on its own; give it a moment then make sure ticking stopped
	time.Sleep(20 * time.Millisecond)
	ticks := fleet.Ticks()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, ticks, fleet.Ticks())

	p.Stop()
}

func TestPoller_RestartsAfterContextCancellation(t *testing.T) {
	fleet := &fakeFleet{size: 1}
	p := NewPoller(fleet, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)
	cancel()
	require.Eventually(t, func() bool {
		p.mu.Lock()
		defer p.mu.Unlock()
		return !p.running
	}, 2*time.Second, time.Millisecond)

	ticks := fleet.Ticks()
	p.Start(context.Background())
	defer p.Stop()
	assert.Eventually(t, func() bool { return fleet.Ticks() > ticks }, 2*time.Second, time.Millisecond)
}

func TestPoller_Refresh(t *testing.T) {
	fleet := &fakeFleet{size: 2}
	p := NewPoller(fleet, time.Hour)

	p.Refresh() // ignored: not running yet
	p.Start(context.Background())
	defer p.Stop()
	assert.Equal(t, 0, fleet.Ticks())

	p.Refresh()
	assert.Eventually(t, func() bool {
		return p.Snapshot().Version == 2
	}, 2*time.Second, time.Millisecond)
	assert.Equal(t, 1, fleet.Ticks())
}

func TestPoller_SlowSubscriberGetsLatest(t *testing.T) {
	fleet := &fakeFleet{size: 1}
	p := NewPoller(fleet, 2*time.Millisecond)

	ch, cancel := p.Subscribe(1)
	defer cancel()

	p.Start(context.Background())
	assert.Eventually(t, func() bool { return fleet.Ticks() >= 5 }, 2*time.Second, time.Millisecond)
	p.Stop()

	require.Len(t, ch, 1)
	snap := <-ch
	assert.Equal(t, p.Snapshot().Version, snap.Version)
}

func TestPoller_UnsubscribeClosesChannel(t *testing.T) {
	p := NewPoller(&fakeFleet{size: 1}, time.Hour)

	ch, cancel := p.Subscribe(1)
	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)

	// publishing after an unsubscribe must not panic
	p.Start(context.Background())
	p.Stop()
}
