package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"

	grpcserver "github.com/lcalzada-xor/fleetdash/internal/adapters/grpc"
	"github.com/lcalzada-xor/fleetdash/internal/adapters/mqtt"
	"github.com/lcalzada-xor/fleetdash/internal/adapters/reporting"
	"github.com/lcalzada-xor/fleetdash/internal/adapters/storage"
	webserver "github.com/lcalzada-xor/fleetdash/internal/adapters/web/server"
	"github.com/lcalzada-xor/fleetdash/internal/adapters/web/websocket"
	"github.com/lcalzada-xor/fleetdash/internal/config"
	"github.com/lcalzada-xor/fleetdash/internal/core/ports"
	"github.com/lcalzada-xor/fleetdash/internal/core/services/dashboard"
	"github.com/lcalzada-xor/fleetdash/internal/core/services/fleet"
	"github.com/lcalzada-xor/fleetdash/internal/core/services/persistence"
	"github.com/lcalzada-xor/fleetdash/internal/core/services/poller"
	"github.com/lcalzada-xor/fleetdash/internal/core/services/timeseries"
	"github.com/lcalzada-xor/fleetdash/internal/mock"
	"github.com/lcalzada-xor/fleetdash/internal/telemetry"
)

// archiveQueueSize bounds samples waiting for the archive writer.
const archiveQueueSize = 256

// Application holds the core components of the application.
// It acts as the Facade for the entire system, orchestrating services and infrastructure.
type Application struct {
	Config *config.Config

	Archive            *storage.SQLiteArchive
	PersistenceManager *persistence.PersistenceManager
	Fleet              *fleet.FleetService
	Poller             *poller.Poller
	Aggregator         *timeseries.Aggregator
	Dashboard          *dashboard.DashboardService

	WebServer     *webserver.Server
	GrpcServer    *grpc.Server
	GrpcHealth    *health.Server
	MQTTPublisher *mqtt.Publisher
}

// New creates a new Application instance and bootstraps its components.
func New(cfg *config.Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{
		Config: cfg,
	}

	if err := app.bootstrap(); err != nil {
		return nil, fmt.Errorf("application bootstrap failed: %w", err)
	}

	return app, nil
}

// bootstrap orchestrates the initialization sequence.
func (app *Application) bootstrap() error {
	// 1. Foundation & Infrastructure
	telemetry.InitMetrics()

	if err := app.initStorage(); err != nil {
		return err
	}

	// 2. Domain Services
	app.initFleet()

	// 3. Servers & Integration
	return app.initServers()
}

func (app *Application) initStorage() error {
	if app.Config.DBPath == "" {
		slog.Info("Sample archive disabled")
		return nil
	}

	archive, err := storage.NewSQLiteArchive(app.Config.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open sample archive: %w", err)
	}
	app.Archive = archive
	app.PersistenceManager = persistence.NewPersistenceManager(archive, archiveQueueSize)
	slog.Info("Sample archive ready", "dsn", app.Config.DBPath)
	return nil
}

func (app *Application) initFleet() {
	cfg := app.Config

	genCfg := mock.DefaultGeneratorConfig(cfg.Latitude, cfg.Longitude)
	genCfg.InitialOnlineProbability = cfg.InitialOnlineProbability
	genCfg.OnlineRetentionProbability = cfg.OnlineRetentionProbability
	genCfg.LowBatteryThreshold = cfg.LowBatteryThreshold
	genCfg.Seed = cfg.Seed

	app.Fleet = fleet.NewFleetService(mock.NewDataGenerator(genCfg), cfg.FleetSize)
	app.Poller = poller.NewPoller(app.Fleet, cfg.UpdateInterval)

	// The aggregator samples what clients see, not the generator's private state.
	window := timeseries.NewWindow(cfg.WindowCapacity)
	app.Aggregator = timeseries.NewAggregator(app.Poller, window, cfg.SampleInterval)
	if app.PersistenceManager != nil {
		app.Aggregator.AddSink(app.PersistenceManager)
	}

	var archive ports.SampleArchive
	if app.Archive != nil {
		archive = app.Archive
	}
	app.Dashboard = dashboard.NewDashboardService(app.Poller, app.Poller, window, archive)
}

func (app *Application) initServers() error {
	wsManager := websocket.NewWSManager(app.Poller, app.Aggregator.Window(), app.Config.WSOrigins...)
	app.Aggregator.AddSink(wsManager)

	app.WebServer = webserver.NewServer(app.Config, app.Dashboard, wsManager, reporting.NewPDFExporter())
	app.GrpcServer, app.GrpcHealth = grpcserver.NewGrpcServer(app.Dashboard, app.Poller)

	if app.Config.MQTTBroker != "" {
		pub, err := mqtt.NewPublisher(mqtt.Config{
			BrokerURL: app.Config.MQTTBroker,
			ClientID:  app.Config.MQTTClientID,
			TopicRoot: app.Config.MQTTTopicRoot,
		}, app.Poller)
		if err != nil {
			return err
		}
		app.MQTTPublisher = pub
		app.Aggregator.AddSink(pub)
	}
	return nil
}

// Run starts the application components and manages their execution lifecycle.
func (app *Application) Run(ctx context.Context) error {
	slog.Info("Starting fleetdash components...",
		"robots", app.Config.FleetSize,
		"update_interval", app.Config.UpdateInterval,
		"sample_interval", app.Config.SampleInterval,
	)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// 1. Auxiliary Loops
	if app.PersistenceManager != nil {
		app.PersistenceManager.Start(runCtx)
	}

	// 2. Periodic activities. The poller publishes before the aggregator
	// takes its first sample.
	app.Poller.Start(runCtx)
	app.Aggregator.Start(runCtx)

	// 3. Servers & Integration
	errChan := make(chan error, 3)

	go func() {
		if err := app.WebServer.Run(runCtx); err != nil {
			errChan <- fmt.Errorf("web server error: %w", err)
		}
	}()

	go func() {
		addr := fmt.Sprintf(":%d", app.Config.GRPCPort)
		if err := grpcserver.Serve(runCtx, app.GrpcServer, app.GrpcHealth, addr); err != nil {
			errChan <- fmt.Errorf("grpc server error: %w", err)
		}
	}()

	if app.MQTTPublisher != nil {
		if err := app.MQTTPublisher.Start(runCtx); err != nil {
			errChan <- fmt.Errorf("mqtt publisher error: %w", err)
		}
	}

	slog.Info("fleetdash ready. Press Ctrl+C to terminate.", "addr", app.Config.Addr, "grpc_port", app.Config.GRPCPort)

	var runErr error
	select {
	case <-ctx.Done():
		slog.Info("Termination signal received")
	case runErr = <-errChan:
		slog.Error("Component failed, shutting down", "error", runErr)
	}

	// Producers stop first so no sample is in flight when the sinks' loops drain.
	app.Aggregator.Stop()
	app.Poller.Stop()
	cancel()
	if err := app.cleanup(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func (app *Application) cleanup() error {
	slog.Info("Cleaning up resources...")

	// No-ops after Run; kept for callers that never started it.
	app.Aggregator.Stop()
	app.Poller.Stop()

	if app.MQTTPublisher != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		app.MQTTPublisher.Stop(ctx)
		cancel()
	}

	if app.PersistenceManager != nil {
		app.PersistenceManager.Wait()
	}
	if app.Archive != nil {
		if err := app.Archive.Close(); err != nil {
			return fmt.Errorf("failed to close archive: %w", err)
		}
	}
	return nil
}
