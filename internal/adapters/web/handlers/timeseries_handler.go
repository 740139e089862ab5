package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/lcalzada-xor/fleetdash/internal/core/domain"
	"github.com/lcalzada-xor/fleetdash/internal/core/ports"
)

// maxHistoryLimit caps a single history page.
const maxHistoryLimit = 1000

// TimeseriesHandler serves the rolling window and the sample archive.
type TimeseriesHandler struct {
	Service ports.DashboardService
}

// NewTimeseriesHandler creates a new TimeseriesHandler
func NewTimeseriesHandler(service ports.DashboardService) *TimeseriesHandler {
	return &TimeseriesHandler{
		Service: service,
	}
}

// HandleTimeline returns the rolling window, oldest first.
func (h *TimeseriesHandler) HandleTimeline(w http.ResponseWriter, r *http.Request) {
	samples := h.Service.Timeline()
	if samples == nil {
		samples = []domain.Sample{}
	}
	writeJSON(w, http.StatusOK, samples)
}

// HandleHistory returns archived samples filtered by ?since=<RFC3339>&limit=<n>.
func (h *TimeseriesHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var since time.Time
	if raw := q.Get("since"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			http.Error(w, "Invalid since, expected RFC3339", http.StatusBadRequest)
			return
		}
		since = t
	}

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	if limit == 0 || limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	samples, err := h.Service.History(r.Context(), since, limit)
	if err != nil {
		slog.Error("history query failed", "error", err)
		http.Error(w, "Failed to load history", http.StatusInternalServerError)
		return
	}
	if samples == nil {
		samples = []domain.Sample{}
	}
	writeJSON(w, http.StatusOK, samples)
}
