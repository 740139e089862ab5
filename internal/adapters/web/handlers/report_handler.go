package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/lcalzada-xor/fleetdash/internal/adapters/web/templates"
	"github.com/lcalzada-xor/fleetdash/internal/core/domain"
	"github.com/lcalzada-xor/fleetdash/internal/core/ports"
)

// ReportExporter renders a fleet report document.
type ReportExporter interface {
	ExportFleetReport(summary domain.FleetSummary, robots []domain.Robot, samples []domain.Sample) ([]byte, error)
}

// ReportHandler handles report generation
type ReportHandler struct {
	Service     ports.DashboardService
	PDFExporter ReportExporter
	now         func() time.Time
	tmpl        *template.Template
}

type reportData struct {
	GeneratedAt time.Time
	Summary     domain.FleetSummary
	Robots      []domain.Robot
	Samples     []domain.Sample
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(service ports.DashboardService, pdf ReportExporter) *ReportHandler {
	return &ReportHandler{
		Service:     service,
		PDFExporter: pdf,
		now:         time.Now,
		tmpl:        template.Must(template.New("report").Parse(templates.FleetReportHTML)),
	}
}

// HandlePDFReport serves the fleet report as a PDF download.
func (h *ReportHandler) HandlePDFReport(w http.ResponseWriter, r *http.Request) {
	if h.PDFExporter == nil {
		http.Error(w, "PDF export not configured", http.StatusServiceUnavailable)
		return
	}

	data := h.collect()
	pdf, err := h.PDFExporter.ExportFleetReport(data.Summary, data.Robots, data.Samples)
	if err != nil {
		slog.Error("pdf report failed", "error", err)
		http.Error(w, "Failed to generate report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.filename("pdf")))
	w.Write(pdf)
}

// HandleHTMLReport renders the fleet report as a standalone HTML page.
func (h *ReportHandler) HandleHTMLReport(w http.ResponseWriter, r *http.Request) {
	// Render into a buffer so template errors still produce a clean 500.
	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, h.collect()); err != nil {
		slog.Error("html report failed", "error", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", h.filename("html")))
	w.Write(buf.Bytes())
}

func (h *ReportHandler) collect() reportData {
	snap := h.Service.Snapshot()
	return reportData{
		GeneratedAt: h.now(),
		Summary:     domain.Summarize(snap),
		Robots:      snap.Robots,
		Samples:     h.Service.Timeline(),
	}
}

func (h *ReportHandler) filename(ext string) string {
	return fmt.Sprintf("fleet_report_%s.%s", h.now().Format("20060102_150405"), ext)
}
