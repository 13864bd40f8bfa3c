package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/moonlabs/moon-agent-backend/internal/data/db"
	"github.com/moonlabs/moon-agent-backend/internal/data/repos/reports"
	types "github.com/moonlabs/moon-agent-backend/internal/domain"
	"github.com/moonlabs/moon-agent-backend/internal/platform/envutil"
	"github.com/moonlabs/moon-agent-backend/internal/platform/logger"
	"github.com/moonlabs/moon-agent-backend/internal/platform/warehouse"
	"github.com/moonlabs/moon-agent-backend/internal/services"
)

// One-shot warehouse publisher: reads the most recent report snapshot and
// upserts it into the analytics warehouse, then exits. Scheduling is
// external (cron, ECS scheduled task), so a failed run is simply retried on
// the next invocation.
func main() {
	var reportType string
	flag.StringVar(&reportType, "report-type", types.ReportTypeDaily, "report type to sync")
	flag.Parse()

	logMode := envutil.String("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Connecting to Postgres...")
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}

	log.Info("Connecting to warehouse...")
	warehouseClient, err := warehouse.NewRedshiftClient(log)
	if err != nil {
		log.Error("Warehouse init failed", "error", err)
		os.Exit(1)
	}
	defer warehouseClient.Close()

	reportRepo := reports.NewReportRepo(postgresService.DB(), log)
	syncService := services.NewWarehouseSyncService(log, reportRepo, warehouseClient)

	outcome, err := syncService.Sync(context.Background(), reportType)
	if err != nil {
		log.Error("Warehouse sync failed", "failed_stage", outcome.FailedStage, "error", err)
		os.Exit(1)
	}
	if !outcome.Published {
		log.Info("Nothing to sync")
		return
	}
	log.Info("Warehouse sync complete", "report_id", outcome.ReportID)
}
