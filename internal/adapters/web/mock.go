package web

import (
	"context"
	"time"

	"github.com/lcalzada-xor/fleetdash/internal/core/domain"
	"github.com/lcalzada-xor/fleetdash/internal/core/ports"
	"github.com/stretchr/testify/mock"
)

// MockDashboardService is a mock of ports.DashboardService
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Snapshot() domain.Snapshot {
	args := m.Called()
	return args.Get(0).(domain.Snapshot)
}

func (m *MockDashboardService) Robots(filter domain.Filter) []domain.Robot {
	args := m.Called(filter)
	return args.Get(0).([]domain.Robot)
}

func (m *MockDashboardService) Robot(id string) (domain.Robot, error) {
	args := m.Called(id)
	return args.Get(0).(domain.Robot), args.Error(1)
}

func (m *MockDashboardService) Summary() domain.FleetSummary {
	args := m.Called()
	return args.Get(0).(domain.FleetSummary)
}

func (m *MockDashboardService) Timeline() []domain.Sample {
	args := m.Called()
	return args.Get(0).([]domain.Sample)
}

func (m *MockDashboardService) History(ctx context.Context, since time.Time, limit int) ([]domain.Sample, error) {
	args := m.Called(ctx, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Sample), args.Error(1)
}

func (m *MockDashboardService) Refresh() {
	m.Called()
}

// MockReportExporter is a mock of handlers.ReportExporter
type MockReportExporter struct {
	mock.Mock
}

func (m *MockReportExporter) ExportFleetReport(summary domain.FleetSummary, robots []domain.Robot, samples []domain.Sample) ([]byte, error) {
	args := m.Called(summary, robots, samples)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

var _ ports.DashboardService = (*MockDashboardService)(nil)
