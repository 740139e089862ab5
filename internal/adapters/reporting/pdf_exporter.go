package reporting

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/lcalzada-xor/fleetdash/internal/core/domain"
)

// maxTimelineRows bounds the timeline section to the most recent samples.
const maxTimelineRows = 48

// PDFExporter exports reports to PDF format
type PDFExporter struct {
	Title string
	now   func() time.Time
}

// NewPDFExporter creates a new PDF exporter instance
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{
		Title: "Robot Fleet Status Report",
		now:   time.Now,
	}
}

// ExportFleetReport renders the summary, the robot table and the timeline.
func (e *PDFExporter) ExportFleetReport(summary domain.FleetSummary, robots []domain.Robot, samples []domain.Sample) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	e.addHeader(pdf, summary)
	e.addSummary(pdf, summary)
	e.addRobots(pdf, robots)
	e.addTimeline(pdf, samples)
	e.addFooter(pdf, summary)

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) addHeader(pdf *gofpdf.Fpdf, summary domain.FleetSummary) {
	pdf.SetFont("Arial", "B", 22)
	pdf.SetTextColor(0, 51, 102) // Dark blue
	pdf.CellFormat(0, 14, e.Title, "", 1, "L", false, 0, "")
	pdf.Ln(1)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", e.now().Format("2006-01-02 15:04:05")), "", 1, "L", false, 0, "")
	if !summary.LastUpdated.IsZero() {
		pdf.CellFormat(0, 6, fmt.Sprintf("Snapshot v%d taken %s", summary.Version, summary.LastUpdated.Format("15:04:05")), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)
}

func (e *PDFExporter) sectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func (e *PDFExporter) addSummary(pdf *gofpdf.Fpdf, summary domain.FleetSummary) {
	e.sectionTitle(pdf, "Fleet Overview")

	stats := []struct {
		label string
		value string
		color []int
	}{
		{"Total Robots", fmt.Sprintf("%d", summary.Total), []int{0, 102, 204}},
		{"Critical Alerts", fmt.Sprintf("%d", summary.CriticalAlerts), []int{220, 53, 69}},
		{"Online", fmt.Sprintf("%d (%.0f%%)", summary.Online, summary.OnlinePercent), statusColor(domain.StatusOnline)},
		{"Offline", fmt.Sprintf("%d (%.0f%%)", summary.Offline, summary.OfflinePercent), statusColor(domain.StatusOffline)},
		{"Low Battery", fmt.Sprintf("%d (%.0f%%)", summary.LowBattery, summary.LowBatteryPercent), statusColor(domain.StatusLowBattery)},
	}

	// Two columns
	colWidth := 85.0
	for i, stat := range stats {
		x := 20.0
		if i%2 == 1 {
			x = 105.0
		}
		pdf.SetXY(x, pdf.GetY())

		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(50, 7, stat.label+":", "", 0, "L", false, 0, "")

		pdf.SetFont("Arial", "B", 11)
		pdf.SetTextColor(stat.color[0], stat.color[1], stat.color[2])
		pdf.CellFormat(colWidth-50, 7, stat.value, "", 0, "R", false, 0, "")

		if i%2 == 1 || i == len(stats)-1 {
			pdf.Ln(7)
		}
	}
	pdf.Ln(8)
}

func (e *PDFExporter) addRobots(pdf *gofpdf.Fpdf, robots []domain.Robot) {
	e.sectionTitle(pdf, "Robots")

	if len(robots) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 7, "No robots in the fleet", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	header := func() {
		pdf.SetFillColor(240, 240, 240)
		pdf.SetFont("Arial", "B", 9)
		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(62, 8, "ID", "1", 0, "L", true, 0, "")
		pdf.CellFormat(24, 8, "Status", "1", 0, "C", true, 0, "")
		pdf.CellFormat(18, 8, "Battery", "1", 0, "C", true, 0, "")
		pdf.CellFormat(15, 8, "CPU", "1", 0, "C", true, 0, "")
		pdf.CellFormat(15, 8, "RAM", "1", 0, "C", true, 0, "")
		pdf.CellFormat(46, 8, "Location", "1", 1, "C", true, 0, "")
	}
	header()

	pdf.SetFont("Arial", "", 8)
	for _, r := range robots {
		if pdf.GetY() > 265 {
			pdf.AddPage()
			header()
			pdf.SetFont("Arial", "", 8)
		}

		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(62, 7, r.ID, "1", 0, "L", false, 0, "")

		c := statusColor(r.Status)
		pdf.SetTextColor(c[0], c[1], c[2])
		pdf.CellFormat(24, 7, string(r.Status), "1", 0, "C", false, 0, "")

		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(18, 7, fmt.Sprintf("%.0f%%", r.BatteryPercentage), "1", 0, "C", false, 0, "")
		pdf.CellFormat(15, 7, fmt.Sprintf("%.0f%%", r.CPUUsage), "1", 0, "C", false, 0, "")
		pdf.CellFormat(15, 7, fmt.Sprintf("%.0f%%", r.RAMUsage), "1", 0, "C", false, 0, "")
		pdf.CellFormat(46, 7, fmt.Sprintf("%.4f, %.4f", r.Location.Latitude, r.Location.Longitude), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(8)
}

func (e *PDFExporter) addTimeline(pdf *gofpdf.Fpdf, samples []domain.Sample) {
	e.sectionTitle(pdf, "Status Timeline")

	if len(samples) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 7, "No samples collected yet", "", 1, "L", false, 0, "")
		return
	}
	if len(samples) > maxTimelineRows {
		samples = samples[len(samples)-maxTimelineRows:]
	}

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 9)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(40, 8, "Time", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 8, "Online", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 8, "Offline", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 8, "Low Battery", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, s := range samples {
		label := s.Time
		if !s.Timestamp.IsZero() {
			label = s.ChartLabel()
		}
		pdf.CellFormat(40, 7, label, "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%d", s.Online), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%d", s.Offline), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%d", s.LowBattery), "1", 1, "C", false, 0, "")
	}
}

func (e *PDFExporter) addFooter(pdf *gofpdf.Fpdf, summary domain.FleetSummary) {
	pdf.Ln(6)
	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.Ln(3)

	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated by fleetdash | Snapshot version %d", summary.Version), "", 1, "C", false, 0, "")
}

// statusColor returns the RGB color used for a status
func statusColor(s domain.Status) []int {
	switch s {
	case domain.StatusOnline:
		return []int{52, 199, 89} // Green
	case domain.StatusLowBattery:
		return []int{255, 149, 0} // Orange
	default:
		return []int{220, 53, 69} // Red
	}
}
