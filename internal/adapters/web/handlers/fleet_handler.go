package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/lcalzada-xor/fleetdash/internal/core/domain"
	"github.com/lcalzada-xor/fleetdash/internal/core/ports"
)

// FleetHandler serves the robot list, single robots and the summary cards.
type FleetHandler struct {
	Service ports.DashboardService
	// StaleAfter flags the summary as stale when the last publish is older.
	// Zero disables the check.
	StaleAfter time.Duration
}

// NewFleetHandler creates a new FleetHandler
func NewFleetHandler(service ports.DashboardService) *FleetHandler {
	return &FleetHandler{
		Service: service,
	}
}

// HandleListRobots returns the published robots narrowed by ?filter=.
func (h *FleetHandler) HandleListRobots(w http.ResponseWriter, r *http.Request) {
	filter, err := domain.ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	robots := h.Service.Robots(filter)
	if robots == nil {
		robots = []domain.Robot{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"filter": filter,
		"count":  len(robots),
		"robots": robots,
	})
}

// HandleGetRobot returns one robot by ID
func (h *FleetHandler) HandleGetRobot(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !domain.IsValidRobotID(id) {
		http.Error(w, domain.ErrInvalidID.Error(), http.StatusBadRequest)
		return
	}

	robot, err := h.Service.Robot(id)
	if errors.Is(err, domain.ErrRobotNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to load robot", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, robot)
}

// HandleSummary returns the aggregated counts of the published snapshot.
func (h *FleetHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	summary := h.Service.Summary()
	if h.StaleAfter > 0 {
		summary.Stale = summary.IsStale(h.StaleAfter)
	}
	writeJSON(w, http.StatusOK, summary)
}

// HandleRefresh asks the poller for an off-schedule update.
func (h *FleetHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	h.Service.Refresh()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "refresh_requested"})
}
