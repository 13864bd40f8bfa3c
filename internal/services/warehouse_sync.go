package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/moonlabs/moon-agent-backend/internal/data/repos/reports"
	types "github.com/moonlabs/moon-agent-backend/internal/domain"
	"github.com/moonlabs/moon-agent-backend/internal/platform/logger"
	"github.com/moonlabs/moon-agent-backend/internal/platform/warehouse"
)

// SyncStage labels where a publish attempt stopped.
type SyncStage string

const (
	StageIdle         SyncStage = "idle"
	StageFetching     SyncStage = "fetching"
	StageTransforming SyncStage = "transforming"
	StageWriting      SyncStage = "writing"
	StageDone         SyncStage = "done"
	StageFailed       SyncStage = "failed"
)

// SyncOutcome describes one publisher invocation. Published=false with
// Stage=done is the legitimate empty-store no-op.
type SyncOutcome struct {
	Stage       SyncStage `json:"stage"`
	FailedStage SyncStage `json:"failed_stage,omitempty"`
	Published   bool      `json:"published"`
	ReportID    int64     `json:"report_id,omitempty"`
}

// WarehouseSyncService replicates the most recent report snapshot of a type
// into the analytics warehouse. Each invocation reads exactly one document;
// the write is idempotent at the source identifier, and a failed write leaves
// the source untouched so an external retry can pick it up again.
type WarehouseSyncService interface {
	Sync(ctx context.Context, reportType string) (*SyncOutcome, error)
}

type warehouseSyncService struct {
	log     *logger.Logger
	reports reports.ReportRepo
	client  warehouse.Client
}

func NewWarehouseSyncService(
	baseLog *logger.Logger,
	reportRepo reports.ReportRepo,
	client warehouse.Client,
) WarehouseSyncService {
	return &warehouseSyncService{
		log:     baseLog.With("service", "WarehouseSyncService"),
		reports: reportRepo,
		client:  client,
	}
}

func (s *warehouseSyncService) Sync(ctx context.Context, reportType string) (*SyncOutcome, error) {
	runID := uuid.New()
	runLog := s.log.With("run_id", runID, "report_type", reportType)
	outcome := &SyncOutcome{Stage: StageIdle}

	outcome.Stage = StageFetching
	report, err := s.reports.MostRecent(ctx, nil, reportType)
	if err != nil {
		outcome.Stage = StageFailed
		outcome.FailedStage = StageFetching
		return outcome, fmt.Errorf("fetch latest report: %w", err)
	}
	if report == nil {
		runLog.Info("No report to sync")
		outcome.Stage = StageDone
		return outcome, nil
	}
	runLog = runLog.With("report_id", report.ID)

	outcome.Stage = StageTransforming
	row, err := transformReport(report)
	if err != nil {
		outcome.Stage = StageFailed
		outcome.FailedStage = StageTransforming
		return outcome, fmt.Errorf("encode report payload: %w", err)
	}

	outcome.Stage = StageWriting
	if err := s.client.UpsertReport(ctx, row); err != nil {
		outcome.Stage = StageFailed
		outcome.FailedStage = StageWriting
		runLog.Error("Warehouse write failed", "error", err)
		return outcome, fmt.Errorf("write warehouse row: %w", err)
	}

	outcome.Stage = StageDone
	outcome.Published = true
	outcome.ReportID = report.ID
	runLog.Info("Report synced to warehouse")
	return outcome, nil
}

// transformReport flattens a stored snapshot into the warehouse row shape.
// The payload stays the jsonb bytes written at assembly time, so decimals
// keep their fixed-point encoding end to end.
func transformReport(report *types.PerformanceReport) (warehouse.ReportRow, error) {
	if len(report.Data) == 0 {
		return warehouse.ReportRow{}, fmt.Errorf("report %d has no section payload", report.ID)
	}
	if !json.Valid(report.Data) {
		return warehouse.ReportRow{}, fmt.Errorf("report %d payload is not valid JSON", report.ID)
	}
	return warehouse.ReportRow{
		ID:          report.ID,
		ReportDate:  report.ReportDate,
		Frequency:   report.ReportType,
		Payload:     json.RawMessage(report.Data),
		GeneratedAt: report.GeneratedAt,
	}, nil
}
