package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/mrkaiser4314/papayas-api/internal/adapters/cooldownrepository"
	"github.com/mrkaiser4314/papayas-api/internal/adapters/database"
	"github.com/mrkaiser4314/papayas-api/internal/adapters/playerrepository"
	"github.com/mrkaiser4314/papayas-api/internal/adapters/resultrepository"
	"github.com/mrkaiser4314/papayas-api/internal/app"
	"github.com/mrkaiser4314/papayas-api/internal/config"
	"github.com/mrkaiser4314/papayas-api/internal/logging"
	"github.com/mrkaiser4314/papayas-api/internal/ports"
	"github.com/mrkaiser4314/papayas-api/internal/reporting"
	"github.com/mrkaiser4314/papayas-api/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "golang.org/x/crypto/x509roots/fallback"
)

const serviceName = "papayas-api"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	instanceID := uuid.New().String()
	logger := slog.New(
		logging.NewTracingLogHandler(slog.NewJSONHandler(os.Stdout, nil)),
	).With("instanceID", instanceID)

	fail := func(msg string, args ...any) {
		logger.Error(msg, args...)
		os.Exit(1)
	}

	if err := config.LoadDotEnv(".env"); err != nil {
		fail("Failed to load .env file", "error", err.Error())
	}

	config, err := config.ConfigFromEnv()
	if err != nil {
		fail("Failed to load config", "error", err.Error())
	}
	logger.Info("Loaded config", "config", config.NonSensitiveString())

	if config.OTelEnabled() {
		shutdownOTel, err := telemetry.SetupOTelSDK(ctx, serviceName)
		if err != nil {
			fail("Failed to initialize OpenTelemetry", "error", err.Error())
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownOTel(shutdownCtx); err != nil {
				logger.Error("Failed to shut down OpenTelemetry", "error", err.Error())
			}
		}()
		logger.Info("Initialized OpenTelemetry")
	}

	sentryMiddleware, flush, err := reporting.NewSentryMiddlewareOrMock(config)
	if err != nil {
		fail("Failed to initialize Sentry", "error", err.Error())
	}
	defer flush()
	logger.Info("Initialized Sentry middleware")

	logger.Info("Initializing database connection")
	db, err := database.NewPostgresDatabase(config.DatabaseURL())
	if err != nil {
		fail("Failed to initialize database", "error", err.Error())
	}
	defer db.Close()
	logger.Info("Initialized database connection")

	repositorySchemaName := database.GetSchemaName(!config.IsProduction())

	err = database.NewDatabaseMigrator(db, logger.With("component", "migrator")).Migrate(ctx, repositorySchemaName)
	if err != nil {
		fail("Failed to migrate database", "error", err.Error())
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if err := database.RegisterPoolMetrics(registry, db); err != nil {
		fail("Failed to register database metrics", "error", err.Error())
	}

	playerRepo := playerrepository.NewPostgres(db, repositorySchemaName, time.Now)
	resultRepo := resultrepository.NewPostgres(db, repositorySchemaName)
	cooldownRepo := cooldownrepository.NewPostgres(db, repositorySchemaName, time.Now)
	logger.Info("Initialized repositories")

	allowedOrigins, err := ports.NewDomainSuffixes(config.AllowedOrigins()...)
	if err != nil {
		fail("Failed to initialize allowed origins", "error", err.Error())
	}

	storeTimeout := config.StoreTimeout()

	getRankings := app.BuildGetRankings(playerRepo, storeTimeout)
	getPlayer := app.BuildGetPlayer(playerRepo, storeTimeout)
	getStats := app.BuildGetStats(playerRepo, resultRepo, storeTimeout)
	checkHealth := app.BuildCheckHealth(resultRepo, storeTimeout)

	sweepExpiredCooldowns := app.BuildSweepExpiredCooldowns(cooldownRepo, storeTimeout)
	runCooldownSweeper := app.BuildRunCooldownSweeper(sweepExpiredCooldowns)

	mux := http.NewServeMux()

	mux.HandleFunc(
		"GET /{$}",
		ports.MakeIndexHandler(
			allowedOrigins,
			logger.With("port", "index"),
			sentryMiddleware,
		),
	)

	mux.HandleFunc(
		"GET /health",
		ports.MakeHealthHandler(
			checkHealth,
			allowedOrigins,
			logger.With("port", "health"),
			sentryMiddleware,
		),
	)

	mux.HandleFunc(
		"OPTIONS /api/rankings/{mode}",
		ports.BuildCORSHandler(allowedOrigins),
	)
	mux.HandleFunc(
		"GET /api/rankings/{mode}",
		ports.MakeGetRankingsHandler(
			getRankings,
			allowedOrigins,
			logger.With("port", "rankings"),
			sentryMiddleware,
		),
	)

	mux.HandleFunc(
		"OPTIONS /api/player/{id}",
		ports.BuildCORSHandler(allowedOrigins),
	)
	mux.HandleFunc(
		"GET /api/player/{id}",
		ports.MakeGetPlayerHandler(
			getPlayer,
			allowedOrigins,
			logger.With("port", "player"),
			sentryMiddleware,
		),
	)

	mux.HandleFunc(
		"OPTIONS /api/stats",
		ports.BuildCORSHandler(allowedOrigins),
	)
	mux.HandleFunc(
		"GET /api/stats",
		ports.MakeGetStatsHandler(
			getStats,
			allowedOrigins,
			logger.With("port", "stats"),
			sentryMiddleware,
		),
	)

	mux.HandleFunc(
		"GET /metrics",
		ports.MakePrometheusHandler(registry, logger.With("port", "metrics")),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", config.Port()),
		Handler:           otelhttp.NewHandler(mux, serviceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go runCooldownSweeper(
		logging.AddToContext(ctx, logger),
		config.CooldownSweepInterval(),
	)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Init complete", "port", config.Port())
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			fail("Server error", "error", err.Error())
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown failed", "error", err.Error())
		} else {
			logger.Info("Server shutdown")
		}
	}
}
