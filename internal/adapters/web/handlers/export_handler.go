package handlers

import (
	"log/slog"
	"net/http"

	"github.com/lcalzada-xor/fleetdash/internal/core/domain"
	"github.com/lcalzada-xor/fleetdash/internal/core/ports"
	"github.com/lcalzada-xor/fleetdash/internal/core/services/export"
)

// ExportHandler handles data export
type ExportHandler struct {
	Service ports.DashboardService
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(service ports.DashboardService) *ExportHandler {
	return &ExportHandler{
		Service: service,
	}
}

// HandleExport exports robots or the timeline as JSON or CSV.
// Query: format=json|csv, type=robots|samples, filter=<robot filter>.
func (h *ExportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	format := q.Get("format")
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "csv" {
		http.Error(w, "Unsupported format", http.StatusBadRequest)
		return
	}

	dataType := q.Get("type")
	if dataType == "" {
		dataType = "robots"
	}

	switch dataType {
	case "samples":
		h.exportSamples(w, h.Service.Timeline(), format)
	case "robots":
		filter, err := domain.ParseFilter(q.Get("filter"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.exportRobots(w, h.Service.Robots(filter), format)
	default:
		http.Error(w, "Unsupported export type", http.StatusBadRequest)
	}
}

func (h *ExportHandler) exportRobots(w http.ResponseWriter, robots []domain.Robot, format string) {
	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=fleet_robots.csv")
		if err := export.ExportCSV(w, robots); err != nil {
			slog.Error("CSV export error", "error", err)
		}
	default:
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", "attachment; filename=fleet_robots.json")
		if err := export.ExportJSON(w, robots); err != nil {
			slog.Error("JSON export error", "error", err)
		}
	}
}

func (h *ExportHandler) exportSamples(w http.ResponseWriter, samples []domain.Sample, format string) {
	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=fleet_timeline.csv")
		if err := export.ExportSamplesCSV(w, samples); err != nil {
			slog.Error("CSV export error", "error", err)
		}
	default:
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", "attachment; filename=fleet_timeline.json")
		if err := export.ExportSamplesJSON(w, samples); err != nil {
			slog.Error("JSON export error", "error", err)
		}
	}
}
