package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/lcalzada-xor/fleetdash/internal/core/domain"
)

// ExportJSON writes robots as a JSON array
func ExportJSON(w io.Writer, robots []domain.Robot) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(robots)
}

// ExportCSV writes robots as CSV with headers
func ExportCSV(w io.Writer, robots []domain.Robot) error {
	writer := csv.NewWriter(w)

	headers := []string{
		"ID", "Status", "IsOnline",
		"BatteryPercentage", "CPUUsage", "RAMUsage",
		"Latitude", "Longitude", "LastUpdated",
	}
	if err := writer.Write(headers); err != nil {
		return err
	}

	for _, r := range robots {
		row := []string{
			r.ID,
			string(r.Status),
			strconv.FormatBool(r.IsOnline),
			fmt.Sprintf("%.1f", r.BatteryPercentage),
			fmt.Sprintf("%.1f", r.CPUUsage),
			fmt.Sprintf("%.1f", r.RAMUsage),
			fmt.Sprintf("%.6f", r.Location.Latitude),
			fmt.Sprintf("%.6f", r.Location.Longitude),
			r.LastUpdated.Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// ExportSamplesJSON writes time-series samples as a JSON array
func ExportSamplesJSON(w io.Writer, samples []domain.Sample) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(samples)
}

// ExportSamplesCSV writes time-series samples as CSV
func ExportSamplesCSV(w io.Writer, samples []domain.Sample) error {
	writer := csv.NewWriter(w)

	headers := []string{"Time", "Timestamp", "Online", "Offline", "LowBattery"}
	if err := writer.Write(headers); err != nil {
		return err
	}

	for _, s := range samples {
		row := []string{
			s.Time,
			s.Timestamp.Format(time.RFC3339),
			strconv.Itoa(s.Online),
			strconv.Itoa(s.Offline),
			strconv.Itoa(s.LowBattery),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
