package handlers_test

import (
	"encoding/csv"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lcalzada-xor/fleetdash/internal/adapters/web"
	"github.com/lcalzada-xor/fleetdash/internal/adapters/web/handlers"
	"github.com/lcalzada-xor/fleetdash/internal/config"
	"github.com/lcalzada-xor/fleetdash/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func reportSnapshot() domain.Snapshot {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return domain.NewSnapshot(3, at, []domain.Robot{
		{ID: robotID, IsOnline: true, BatteryPercentage: 90, Status: domain.StatusOnline, LastUpdated: at},
		{ID: "b", IsOnline: true, BatteryPercentage: 10, Status: domain.StatusLowBattery, LastUpdated: at},
	})
}

func TestReportHandler_PDF(t *testing.T) {
	svc := new(web.MockDashboardService)
	svc.On("Snapshot").Return(reportSnapshot())
	svc.On("Timeline").Return([]domain.Sample{})

	exporter := new(web.MockReportExporter)
	exporter.On("ExportFleetReport", mock.MatchedBy(func(s domain.FleetSummary) bool {
		return s.Total == 2 && s.LowBattery == 1
	}), mock.Anything, mock.Anything).Return([]byte("%PDF-1.3"), nil)

	h := handlers.NewReportHandler(svc, exporter)
	rec := httptest.NewRecorder()
	h.HandlePDFReport(rec, httptest.NewRequest(http.MethodGet, "/api/report.pdf", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "fleet_report_")
	assert.Equal(t, "%PDF-1.3", rec.Body.String())
	exporter.AssertExpectations(t)
}

func TestReportHandler_PDFFailure(t *testing.T) {
	svc := new(web.MockDashboardService)
	svc.On("Snapshot").Return(reportSnapshot())
	svc.On("Timeline").Return([]domain.Sample{})

	exporter := new(web.MockReportExporter)
	exporter.On("ExportFleetReport", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("font missing"))

	h := handlers.NewReportHandler(svc, exporter)
	rec := httptest.NewRecorder()
	h.HandlePDFReport(rec, httptest.NewRequest(http.MethodGet, "/api/report.pdf", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestReportHandler_HTML(t *testing.T) {
	svc := new(web.MockDashboardService)
	svc.On("Snapshot").Return(reportSnapshot())
	svc.On("Timeline").Return([]domain.Sample{{Time: "00:15", Timestamp: time.Date(2024, 5, 1, 10, 0, 15, 0, time.UTC), Online: 1, LowBattery: 1}})

	h := handlers.NewReportHandler(svc, nil)
	rec := httptest.NewRecorder()
	h.HandleHTMLReport(rec, httptest.NewRequest(http.MethodGet, "/api/report", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Fleet Status Report")
	assert.Contains(t, body, robotID)
	assert.Contains(t, body, "10:00:15")
}

func TestExportHandler(t *testing.T) {
	t.Run("Robots CSV", func(t *testing.T) {
		svc := new(web.MockDashboardService)
		svc.On("Robots", domain.FilterOnline).Return(reportSnapshot().Robots[:1])
		h := handlers.NewExportHandler(svc)

		rec := httptest.NewRecorder()
		h.HandleExport(rec, httptest.NewRequest(http.MethodGet, "/api/export?format=csv&filter=online", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
		rows, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("Samples JSON", func(t *testing.T) {
		svc := new(web.MockDashboardService)
		svc.On("Timeline").Return([]domain.Sample{{Time: "00:15", Online: 3}})
		h := handlers.NewExportHandler(svc)

		rec := httptest.NewRecorder()
		h.HandleExport(rec, httptest.NewRequest(http.MethodGet, "/api/export?type=samples", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"online": 3`)
	})

	t.Run("Unknown format", func(t *testing.T) {
		h := handlers.NewExportHandler(new(web.MockDashboardService))
		rec := httptest.NewRecorder()
		h.HandleExport(rec, httptest.NewRequest(http.MethodGet, "/api/export?format=xml", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestConfigHandler(t *testing.T) {
	cfg := &config.Config{
		FleetSize:                  10,
		UpdateInterval:             5 * time.Second,
		SampleInterval:             15 * time.Second,
		WindowCapacity:             8,
		LowBatteryThreshold:        20,
		OnlineRetentionProbability: 0.9,
		InitialOnlineProbability:   0.8,
	}
	h := handlers.NewConfigHandler(cfg)

	rec := httptest.NewRecorder()
	h.HandleGetConfig(rec, httptest.NewRequest(http.MethodGet, "/api/config", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"updateIntervalMs":5000`)
	assert.Contains(t, body, `"sampleIntervalMs":15000`)
	assert.Contains(t, body, `"windowCapacity":8`)
	assert.Contains(t, body, `"mqttEnabled":false`)
}
