package ports

import (
	"context"
	"time"

	"github.com/lcalzada-xor/fleetdash/internal/core/domain"
)

// SampleArchive defines the behavior for sample persistence.
type SampleArchive interface {
	// SaveSample stores a single sample.
	SaveSample(ctx context.Context, sample domain.Sample) error
	// SaveSamplesBatch stores several samples in one transaction.
	SaveSamplesBatch(ctx context.Context, samples []domain.Sample) error

	// ListSamples returns samples taken at or after since, oldest first.
	// A non-positive limit means no limit; otherwise the newest limit samples are kept.
	ListSamples(ctx context.Context, since time.Time, limit int) ([]domain.Sample, error)

	// Close closes the storage connection.
	Close() error
}
