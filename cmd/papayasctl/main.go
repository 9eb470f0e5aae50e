package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/mrkaiser4314/papayas-api/internal/adapters/cooldownrepository"
	"github.com/mrkaiser4314/papayas-api/internal/adapters/database"
	"github.com/mrkaiser4314/papayas-api/internal/adapters/playerrepository"
	"github.com/mrkaiser4314/papayas-api/internal/adapters/resultrepository"
	"github.com/mrkaiser4314/papayas-api/internal/app"
	"github.com/mrkaiser4314/papayas-api/internal/config"
	"github.com/mrkaiser4314/papayas-api/internal/logging"
)

// openServices connects to the configured database and builds every write path use case
func openServices(ctx context.Context) (*services, func(), error) {
	logger := logging.FromContext(ctx)

	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	conf, err := config.ConfigFromEnv()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger.Debug("Loaded config", "config", conf.NonSensitiveString())

	db, err := database.NewPostgresDatabase(conf.DatabaseURL())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			logger.Warn("Failed to close database", "error", err.Error())
		}
	}

	schema := database.GetSchemaName(!conf.IsProduction())
	storeTimeout := conf.StoreTimeout()

	playerRepo := playerrepository.NewPostgres(db, schema, time.Now)
	resultRepo := resultrepository.NewPostgres(db, schema)
	cooldownRepo := cooldownrepository.NewPostgres(db, schema, time.Now)

	migrator := database.NewDatabaseMigrator(db, logger.With("component", "migrator"))

	return &services{
		recordResult:          app.BuildRecordResult(playerRepo, cooldownRepo, storeTimeout),
		setCooldown:           app.BuildSetCooldown(cooldownRepo, storeTimeout),
		getActiveCooldowns:    app.BuildGetActiveCooldowns(cooldownRepo, storeTimeout),
		getPlayerCooldowns:    app.BuildGetPlayerCooldowns(cooldownRepo, storeTimeout),
		sweepExpiredCooldowns: app.BuildSweepExpiredCooldowns(cooldownRepo, storeTimeout),
		deleteTesterResults:   app.BuildDeleteTesterResults(resultRepo, storeTimeout),
		listResults:           app.BuildListResults(resultRepo, storeTimeout),
		getTesterStats:        app.BuildGetTesterStats(resultRepo, storeTimeout),
		getPlayer:             app.BuildGetPlayer(playerRepo, storeTimeout),
		updatePlayerProfile:   app.BuildUpdatePlayerProfile(playerRepo, storeTimeout),
		migrate: func(ctx context.Context) error {
			return migrator.Migrate(ctx, schema)
		},
	}, closeDB, nil
}

func main() {
	logger := slog.New(charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
		Prefix:          "papayasctl",
	}))

	ctx := logging.AddToContext(context.Background(), logger)

	rootCmd := newRootCmd(openServices)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error("Command failed", "error", err.Error())
		os.Exit(1)
	}
}
