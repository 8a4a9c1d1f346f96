// Package plannerservice assembles and runs the weekly planner HTTP service.
package plannerservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/planora/weekplanner/internal/ai"
	"github.com/planora/weekplanner/internal/api"
	"github.com/planora/weekplanner/internal/auth"
	"github.com/planora/weekplanner/internal/backup"
	"github.com/planora/weekplanner/internal/config"
	"github.com/planora/weekplanner/internal/events"
	"github.com/planora/weekplanner/internal/health"
	"github.com/planora/weekplanner/internal/platform/logger"
	"github.com/planora/weekplanner/internal/services"
	"github.com/planora/weekplanner/internal/store"
	"github.com/planora/weekplanner/internal/store/postgres"
	"github.com/planora/weekplanner/internal/store/sqlite"
	"github.com/planora/weekplanner/internal/timeslot"
)

// Run starts the planner service HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("planner-service")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Str("ai_base_url", cfg.AIBaseURL).
		Str("ai_model", cfg.AIModel).
		Msg("Planner service starting")

	// Create cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := newServerContext()
	defer stop()

	st, err := newStore(cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Store adapter unavailable")
		return err
	}

	aiClient := ai.NewClient(cfg.AIBaseURL, cfg.AIAPIKey, cfg.AIModel, log)
	bus := events.NewBus(cfg.EventBufferSize)

	// Start health checkers and bind service health. The AI provider feeds
	// its own endpoint but never gates service health: planning works
	// without generation.
	aiChecker, svcHealth := startHealthCheckers(ctx, cfg, log, st, aiClient)

	router := buildRouter(cfg, log, st, aiClient, bus, svcHealth.IsHealthy, aiChecker.IsHealthy)

	// Block startup until the store reports healthy; fail fast otherwise
	if err := waitUntilHealthy(ctx, cfg, svcHealth); err != nil {
		log.Error().Stack().Err(err).Msg("startup health check failed")
		return err
	}

	// HTTP server and serve
	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

	// Graceful shutdown on context cancel or server error
	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// newStore opens the configured database driver.
func newStore(cfg *config.Config, log zerolog.Logger) (store.Store, error) {
	switch cfg.DBDriver {
	case "postgres":
		db, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		log.Info().Msg("using postgres store")
		return postgres.NewWithDB(db), nil
	case "sqlite":
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("using sqlite store")
		return sqlite.NewWithDB(db), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER: %s", cfg.DBDriver)
	}
}

// buildRouter wires HTTP routes to handlers.
func buildRouter(cfg *config.Config, log zerolog.Logger, st store.Store, aiClient *ai.Client,
	bus *events.Bus, serviceHealth, aiHealth func() bool) http.Handler {

	var authorizer auth.Authorizer
	if cfg.AuthEnabled {
		authorizer = auth.NewAuthorizerFactory(cfg).CreateAuthorizer()
	}

	return api.NewRouter(api.RouterDeps{
		Appointments:  services.NewAppointmentService(st, bus, timeslot.DefaultGrid(), log),
		Tasks:         services.NewTaskService(st, aiClient, bus, log),
		Metrics:       services.NewMetricService(st, bus),
		Overviews:     services.NewOverviewService(st, aiClient, bus, log),
		Backup:        backup.NewService(st, log),
		ServiceHealth: serviceHealth,
		AIHealth:      aiHealth,
		Authorizer:    authorizer,
	})
}

// startHealthCheckers starts component checkers and the service-level aggregator.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger,
	st store.Store, aiClient *ai.Client) (*ai.ProviderHealthChecker, *health.ServiceHealthChecker) {

	probeTimeout := time.Duration(cfg.HealthProbeTimeoutSeconds) * time.Second
	interval := time.Duration(cfg.HealthIntervalSeconds) * time.Second

	storeChecker := store.NewStoreHealthChecker(st, log, probeTimeout)
	go storeChecker.Start(ctx, interval)

	aiChecker := ai.NewProviderHealthChecker(aiClient, log, probeTimeout)
	go aiChecker.Start(ctx, interval)

	svcHealth := health.NewServiceHealthChecker(log, storeChecker)
	go svcHealth.Start(ctx, interval)
	return aiChecker, svcHealth
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// calculateStartupHealthTimeout returns the startup health timeout in seconds,
// calculated as interval*2 with a minimum of 60 seconds.
func calculateStartupHealthTimeout(healthIntervalSeconds int) int {
	timeout := healthIntervalSeconds * 2
	if timeout < 60 {
		return 60
	}
	return timeout
}

// waitUntilHealthy blocks until service health is healthy or the startup window expires.
func waitUntilHealthy(ctx context.Context, cfg *config.Config, svcHealth *health.ServiceHealthChecker) error {
	// Allow extra time for health checkers to complete their first probe cycle
	// Health checkers start as unhealthy and need time to run their first check
	timeoutSeconds := calculateStartupHealthTimeout(cfg.HealthIntervalSeconds)
	deadline := time.Now().Add(time.Duration(timeoutSeconds) * time.Second)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		if svcHealth.IsHealthy() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("startup aborted: dependencies not healthy within %d seconds", timeoutSeconds)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// newServerContext returns a cancellable context that is cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
