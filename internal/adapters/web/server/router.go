package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/lcalzada-xor/fleetdash/internal/adapters/web/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(s *Server) http.Handler {
	r := mux.NewRouter()

	// Rate limiters
	refreshLimiter := middleware.NewRateLimiter(10, 1*time.Minute) // 10 forced updates per minute
	reportLimiter := middleware.NewRateLimiter(5, 1*time.Minute)   // 5 PDF renders per minute

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/robots", s.FleetHandler.HandleListRobots).Methods(http.MethodGet)
	api.HandleFunc("/robots/{id}", s.FleetHandler.HandleGetRobot).Methods(http.MethodGet)
	api.HandleFunc("/summary", s.FleetHandler.HandleSummary).Methods(http.MethodGet)
	api.Handle("/refresh", middleware.RateLimitMiddleware(refreshLimiter)(http.HandlerFunc(s.FleetHandler.HandleRefresh))).Methods(http.MethodPost)

	api.HandleFunc("/timeseries", s.TimeseriesHandler.HandleTimeline).Methods(http.MethodGet)
	api.HandleFunc("/timeseries/history", s.TimeseriesHandler.HandleHistory).Methods(http.MethodGet)

	api.HandleFunc("/config", s.ConfigHandler.HandleGetConfig).Methods(http.MethodGet)
	api.HandleFunc("/export", s.ExportHandler.HandleExport).Methods(http.MethodGet)

	// Reports
	api.Handle("/report.pdf", middleware.RateLimitMiddleware(reportLimiter)(http.HandlerFunc(s.ReportHandler.HandlePDFReport))).Methods(http.MethodGet)
	api.HandleFunc("/report", s.ReportHandler.HandleHTMLReport).Methods(http.MethodGet)

	if s.WSManager != nil {
		r.HandleFunc("/ws", s.WSManager.HandleWebSocket)
	}

	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	return r
}
