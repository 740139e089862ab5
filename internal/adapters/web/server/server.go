package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/lcalzada-xor/fleetdash/internal/adapters/web/handlers"
	"github.com/lcalzada-xor/fleetdash/internal/adapters/web/websocket"
	"github.com/lcalzada-xor/fleetdash/internal/config"
	"github.com/lcalzada-xor/fleetdash/internal/core/ports"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const shutdownTimeout = 5 * time.Second

// Server handles HTTP and WebSocket connections.
type Server struct {
	Addr    string
	Service ports.DashboardService

	WSManager         *websocket.WSManager
	FleetHandler      *handlers.FleetHandler
	TimeseriesHandler *handlers.TimeseriesHandler
	ConfigHandler     *handlers.ConfigHandler
	ReportHandler     *handlers.ReportHandler
	ExportHandler     *handlers.ExportHandler

	srv *http.Server
}

// NewServer creates a new web server.
func NewServer(cfg *config.Config, service ports.DashboardService, wsManager *websocket.WSManager, pdf handlers.ReportExporter) *Server {
	fleetHandler := handlers.NewFleetHandler(service)
	// Two missed updates mean the poller is no longer publishing.
	fleetHandler.StaleAfter = 2 * cfg.UpdateInterval

	return &Server{
		Addr:    cfg.Addr,
		Service: service,

		WSManager:         wsManager,
		FleetHandler:      fleetHandler,
		TimeseriesHandler: handlers.NewTimeseriesHandler(service),
		ConfigHandler:     handlers.NewConfigHandler(cfg),
		ReportHandler:     handlers.NewReportHandler(service, pdf),
		ExportHandler:     handlers.NewExportHandler(service),
	}
}

// Handler returns the instrumented router.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(SetupRoutes(s), "fleetdash-http")
}

// Run starts the WebSocket broadcaster and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run over an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if s.WSManager != nil {
		s.WSManager.Start(ctx)
	}

	s.srv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful Shutdown implementation
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		slog.Info("Web server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Web server shutdown error", "error", err)
		}
	}()

	slog.Info("Web server listening", "addr", ln.Addr().String())
	if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-shutdownDone
	return nil
}
