package persistence

import (
	"context"
	"log/slog"
	"time"

	"github.com/lcalzada-xor/fleetdash/internal/core/domain"
	"github.com/lcalzada-xor/fleetdash/internal/core/ports"
	"github.com/lcalzada-xor/fleetdash/internal/telemetry"
)

// PersistenceManager handles background batch writing of samples to the archive.
// It implements ports.SampleSink so the aggregator never waits on storage.
type PersistenceManager struct {
	storage     ports.SampleArchive
	persistChan chan domain.Sample
	batchSize   int
	interval    time.Duration
	done        chan struct{}
}

// NewPersistenceManager creates a new manager.
func NewPersistenceManager(storage ports.SampleArchive, bufferSize int) *PersistenceManager {
	return &PersistenceManager{
		storage:     storage,
		persistChan: make(chan domain.Sample, bufferSize),
		batchSize:   16,
		interval:    5 * time.Second,
	}
}

// RecordSample queues a sample for persistence.
// Samples are dropped when the queue is full.
func (p *PersistenceManager) RecordSample(_ context.Context, sample domain.Sample) {
	if p.storage == nil {
		return
	}
	select {
	case p.persistChan <- sample:
	default:
		telemetry.SinkErrors.WithLabelValues("archive_queue_full").Inc()
	}
}

// Start begins the persistence loop. Pending samples are flushed when ctx ends.
func (p *PersistenceManager) Start(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	buffer := make([]domain.Sample, 0, p.batchSize)
	p.done = make(chan struct{})

	go func() {
		defer close(p.done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				buffer = p.drain(buffer)
				p.flushBuffer(context.Background(), buffer)
				return
			case s := <-p.persistChan:
				buffer = append(buffer, s)
				if len(buffer) >= p.batchSize {
					p.flushBuffer(ctx, buffer)
					buffer = buffer[:0]
				}
			case <-ticker.C:
				if len(buffer) > 0 {
					p.flushBuffer(ctx, buffer)
					buffer = buffer[:0]
				}
			}
		}
	}()
}

// Wait blocks until the loop started by Start has flushed and exited.
func (p *PersistenceManager) Wait() {
	if p.done != nil {
		<-p.done
	}
}

func (p *PersistenceManager) drain(buffer []domain.Sample) []domain.Sample {
	for {
		select {
		case s := <-p.persistChan:
			buffer = append(buffer, s)
		default:
			return buffer
		}
	}
}

func (p *PersistenceManager) flushBuffer(ctx context.Context, buffer []domain.Sample) {
	if len(buffer) == 0 || p.storage == nil {
		return
	}
	batch := make([]domain.Sample, len(buffer))
	copy(batch, buffer)
	if err := p.storage.SaveSamplesBatch(ctx, batch); err != nil {
		telemetry.SinkErrors.WithLabelValues("archive").Inc()
		slog.Error("Failed to batch save samples", "count", len(batch), "error", err)
	}
}

// Ensure interface compliance
var _ ports.SampleSink = (*PersistenceManager)(nil)
