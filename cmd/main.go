package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/moonlabs/moon-agent-backend/internal/data/db"
	"github.com/moonlabs/moon-agent-backend/internal/data/repos/preferences"
	"github.com/moonlabs/moon-agent-backend/internal/data/repos/reports"
	"github.com/moonlabs/moon-agent-backend/internal/data/repos/rollups"
	"github.com/moonlabs/moon-agent-backend/internal/handlers"
	"github.com/moonlabs/moon-agent-backend/internal/platform/envutil"
	"github.com/moonlabs/moon-agent-backend/internal/platform/logger"
	"github.com/moonlabs/moon-agent-backend/internal/scheduler"
	"github.com/moonlabs/moon-agent-backend/internal/server"
	"github.com/moonlabs/moon-agent-backend/internal/services"
)

func main() {
	// Logger
	logMode := envutil.String("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Config
	intervalMinutes := envutil.Int("REPORT_INTERVAL_MINUTES", 1440)
	reportCfg := services.ReportConfig{
		TrailingWindowDays: envutil.Int("REPORT_TRAILING_WINDOW_DAYS", 30),
		TopPerformerLimit:  envutil.Int("REPORT_TOP_PERFORMER_LIMIT", 10),
	}

	// Postgres
	log.Info("Connecting to Postgres...")
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()
	if err := db.AutoMigrateAll(thePG); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}

	// Repos
	log.Info("Setting up repos...")
	rollupRepo := rollups.NewRollupRepo(thePG, log)
	reportRepo := reports.NewReportRepo(thePG, log)
	preferenceRepo := preferences.NewPreferenceRepo(thePG, log)

	// Services
	log.Info("Setting up services...")
	reportService := services.NewReportService(thePG, log, rollupRepo, reportRepo, reportCfg)
	targetCheckService := services.NewTargetCheckService(log, rollupRepo, preferenceRepo)

	// Scheduler
	log.Info("Setting up report scheduler...")
	reportScheduler, err := scheduler.New(log, time.Duration(intervalMinutes)*time.Minute, func(ctx context.Context) error {
		_, err := reportService.TryGenerateDaily(ctx)
		return err
	})
	if err != nil {
		log.Error("Scheduler init failed", "error", err)
		os.Exit(1)
	}
	if err := reportScheduler.Start(); err != nil {
		log.Error("Scheduler start failed", "error", err)
		os.Exit(1)
	}
	defer reportScheduler.Stop()

	// Handlers
	log.Info("Setting up handlers...")
	reportHandler := handlers.NewReportHandler(reportService)
	targetHandler := handlers.NewTargetHandler(targetCheckService)

	// Router
	router := server.NewRouter(server.RouterConfig{
		ReportHandler: reportHandler,
		TargetHandler: targetHandler,
	})

	port := envutil.String("PORT", "8081")
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
