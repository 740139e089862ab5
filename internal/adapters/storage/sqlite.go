package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/lcalzada-xor/fleetdash/internal/core/domain"
	"github.com/lcalzada-xor/fleetdash/internal/core/ports"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

// MemoryDSN keeps the archive in process memory; nothing outlives the process.
const MemoryDSN = ":memory:"

// SQLiteArchive implements ports.SampleArchive using GORM and SQLite.
type SQLiteArchive struct {
	db *gorm.DB
}

// SampleModel is the GORM model for time-series samples.
type SampleModel struct {
	ID         uint      `gorm:"primaryKey"`
	Label      string    // mm:ss
	Timestamp  time.Time `gorm:"index"`
	Online     int
	Offline    int
	LowBattery int
}

// NewSQLiteArchive opens the database and migrates the schema.
func NewSQLiteArchive(dsn string) (*SQLiteArchive, error) {
	if dsn == "" {
		dsn = MemoryDSN
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, fmt.Errorf("failed to install tracing plugin: %w", err)
	}

	// A single connection keeps one shared in-memory database.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&SampleModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate archive: %w", err)
	}

	return &SQLiteArchive{db: db}, nil
}

// SaveSample stores a single sample.
func (a *SQLiteArchive) SaveSample(ctx context.Context, s domain.Sample) error {
	model := toModel(s)
	return a.db.WithContext(ctx).Create(&model).Error
}

// SaveSamplesBatch saves multiple samples in a single transaction.
func (a *SQLiteArchive) SaveSamplesBatch(ctx context.Context, samples []domain.Sample) error {
	if len(samples) == 0 {
		return nil
	}

	models := make([]SampleModel, len(samples))
	for i, s := range samples {
		models[i] = toModel(s)
	}

	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(models, 100).Error
	})
}

// ListSamples returns the samples taken at or after since, oldest first.
func (a *SQLiteArchive) ListSamples(ctx context.Context, since time.Time, limit int) ([]domain.Sample, error) {
	query := a.db.WithContext(ctx).Order("timestamp DESC").Order("id DESC")
	if !since.IsZero() {
		query = query.Where("timestamp >= ?", since)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []SampleModel
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	samples := make([]domain.Sample, len(models))
	for i, m := range models {
		samples[len(models)-1-i] = toDomain(m)
	}
	return samples, nil
}

// Count returns the number of archived samples.
func (a *SQLiteArchive) Count(ctx context.Context) (int64, error) {
	var n int64
	err := a.db.WithContext(ctx).Model(&SampleModel{}).Count(&n).Error
	return n, err
}

func (a *SQLiteArchive) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ensure interface compliance
var _ ports.SampleArchive = (*SQLiteArchive)(nil)
