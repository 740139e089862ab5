package persistence

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lcalzada-xor/fleetdash/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

// MockArchive implements ports.SampleArchive for testing
type MockArchive struct {
	Saved   []domain.Sample
	Batches int
	Err     error
	mu      sync.Mutex
}

func (m *MockArchive) SaveSample(ctx context.Context, s domain.Sample) error {
	return m.SaveSamplesBatch(ctx, []domain.Sample{s})
}

func (m *MockArchive) SaveSamplesBatch(ctx context.Context, samples []domain.Sample) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Batches++
	if m.Err != nil {
		return m.Err
	}
	m.Saved = append(m.Saved, samples...)
	return nil
}

func (m *MockArchive) ListSamples(ctx context.Context, since time.Time, limit int) ([]domain.Sample, error) {
	return nil, nil
}

func (m *MockArchive) Close() error { return nil }

func (m *MockArchive) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Saved)
}

func TestPersistenceManager_FlushesOnBatchSize(t *testing.T) {
	archive := &MockArchive{}
	pm := NewPersistenceManager(archive, 100)
	pm.batchSize = 3
	pm.interval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pm.Start(ctx)

	for i := 0; i < 3; i++ {
		pm.RecordSample(ctx, domain.Sample{Online: i})
	}

	assert.Eventually(t, func() bool { return archive.count() == 3 }, time.Second, 5*time.Millisecond)
}

func TestPersistenceManager_FlushesOnInterval(t *testing.T) {
	archive := &MockArchive{}
	pm := NewPersistenceManager(archive, 100)
	pm.interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pm.Start(ctx)

	pm.RecordSample(ctx, domain.Sample{Online: 1})
	assert.Eventually(t, func() bool { return archive.count() == 1 }, time.Second, 5*time.Millisecond)
}

func TestPersistenceManager_FlushesOnShutdown(t *testing.T) {
	archive := &MockArchive{}
	pm := NewPersistenceManager(archive, 100)
	pm.interval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	pm.Start(ctx)

	pm.RecordSample(ctx, domain.Sample{Online: 1})
	pm.RecordSample(ctx, domain.Sample{Online: 2})
	cancel()
	pm.Wait()

	assert.Equal(t, 2, archive.count())
}

func TestPersistenceManager_NoArchive(t *testing.T) {
	pm := NewPersistenceManager(nil, 1)

	ctx, cancel := context.WithCancel(context.Background())
	pm.Start(ctx)
	pm.RecordSample(ctx, domain.Sample{Online: 1})
	pm.RecordSample(ctx, domain.Sample{Online: 2})
	assert.Empty(t, pm.persistChan)
	cancel()
	pm.Wait()
}

func TestPersistenceManager_QueueFullDrops(t *testing.T) {
	pm := NewPersistenceManager(&MockArchive{}, 1)

	assert.NotPanics(t, func() {
		pm.RecordSample(context.Background(), domain.Sample{})
		pm.RecordSample(context.Background(), domain.Sample{})
	})
	assert.Len(t, pm.persistChan, 1)
}

func TestPersistenceManager_ErrorsDoNotStopLoop(t *testing.T) {
	archive := &MockArchive{Err: errors.New("disk full")}
	pm := NewPersistenceManager(archive, 100)
	pm.batchSize = 1

	ctx, cancel := context.WithCancel(context.Background())
	pm.Start(ctx)
	pm.RecordSample(ctx, domain.Sample{})
	pm.RecordSample(ctx, domain.Sample{})
	assert.Eventually(t, func() bool {
		archive.mu.Lock()
		defer archive.mu.Unlock()
		return archive.Batches >= 2
	}, time.Second, 5*time.Millisecond)
	cancel()
	pm.Wait()
}
