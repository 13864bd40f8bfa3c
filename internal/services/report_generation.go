package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/moonlabs/moon-agent-backend/internal/data/repos/reports"
	"github.com/moonlabs/moon-agent-backend/internal/data/repos/rollups"
	types "github.com/moonlabs/moon-agent-backend/internal/domain"
	pkgerrors "github.com/moonlabs/moon-agent-backend/internal/pkg/errors"
	"github.com/moonlabs/moon-agent-backend/internal/platform/logger"
)

// ReportService runs the assembly cycle: the four rollups against one frozen
// asOf boundary, one assembled snapshot, one append into the report store.
// A single guard serializes cycles; GenerateDaily queues behind a running
// cycle, TryGenerateDaily skips instead.
type ReportService interface {
	GenerateDaily(ctx context.Context) (*types.PerformanceReport, error)
	TryGenerateDaily(ctx context.Context) (*types.PerformanceReport, error)
	Latest(ctx context.Context, reportType string, limit int) ([]*types.PerformanceReport, error)
}

type ReportConfig struct {
	TrailingWindowDays int
	TopPerformerLimit  int
}

func (c ReportConfig) withDefaults() ReportConfig {
	if c.TrailingWindowDays <= 0 {
		c.TrailingWindowDays = 30
	}
	if c.TopPerformerLimit <= 0 {
		c.TopPerformerLimit = 10
	}
	return c
}

type reportService struct {
	db      *gorm.DB
	log     *logger.Logger
	rollups rollups.RollupRepo
	reports reports.ReportRepo
	cfg     ReportConfig

	mu  sync.Mutex
	now func() time.Time
}

func NewReportService(
	db *gorm.DB,
	baseLog *logger.Logger,
	rollupRepo rollups.RollupRepo,
	reportRepo reports.ReportRepo,
	cfg ReportConfig,
) ReportService {
	return &reportService{
		db:      db,
		log:     baseLog.With("service", "ReportService"),
		rollups: rollupRepo,
		reports: reportRepo,
		cfg:     cfg.withDefaults(),
		now:     time.Now,
	}
}

func (s *reportService) GenerateDaily(ctx context.Context) (*types.PerformanceReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generate(ctx)
}

func (s *reportService) TryGenerateDaily(ctx context.Context) (*types.PerformanceReport, error) {
	if !s.mu.TryLock() {
		return nil, pkgerrors.ErrRunInProgress
	}
	defer s.mu.Unlock()
	return s.generate(ctx)
}

func (s *reportService) generate(ctx context.Context) (*types.PerformanceReport, error) {
	runID := uuid.New()
	asOf := s.now()
	runLog := s.log.With("run_id", runID, "as_of", asOf)
	runLog.Info("Generating daily report...")

	var report *types.PerformanceReport
	var sections types.ReportSections
	err := s.transact(ctx, func(tx *gorm.DB) error {
		topPerformers, err := s.rollups.TopPerformers(ctx, tx, asOf, s.cfg.TrailingWindowDays, s.cfg.TopPerformerLimit)
		if err != nil {
			return fmt.Errorf("aggregate top performers: %w", err)
		}
		productPerformance, err := s.rollups.ProductPerformance(ctx, tx, asOf, s.cfg.TrailingWindowDays)
		if err != nil {
			return fmt.Errorf("aggregate product performance: %w", err)
		}
		targetAchievements, err := s.rollups.TargetAchievements(ctx, tx, asOf)
		if err != nil {
			return fmt.Errorf("aggregate target achievements: %w", err)
		}
		branchPerformance, err := s.rollups.BranchPerformance(ctx, tx, asOf)
		if err != nil {
			return fmt.Errorf("aggregate branch performance: %w", err)
		}

		sections = assembleSections(asOf, topPerformers, productPerformance, targetAchievements, branchPerformance)
		data, err := sections.Encode()
		if err != nil {
			return fmt.Errorf("encode report payload: %w", err)
		}

		report = &types.PerformanceReport{
			ReportDate:  time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, asOf.Location()),
			ReportType:  types.ReportTypeDaily,
			Data:        data,
			GeneratedAt: asOf,
		}
		if _, err := s.reports.Append(ctx, tx, report); err != nil {
			return fmt.Errorf("store report: %w", err)
		}
		return nil
	})
	if err != nil {
		runLog.Error("Daily report generation failed", "error", err)
		return nil, err
	}

	runLog.Info("Daily report generated",
		"report_id", report.ID,
		"top_performers", len(sections.TopPerformers),
		"products", len(sections.ProductPerformance),
		"target_achievements", len(sections.TargetAchievements),
		"branches", len(sections.BranchPerformance),
	)
	return report, nil
}

// transact runs fn inside one store transaction so every rollup reads the
// same snapshot; a nil db (service tests with fakes) degrades to a plain
// call with no tx.
func (s *reportService) transact(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s.db == nil {
		return fn(nil)
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

// assembleSections normalizes rollup output into the stored document shape.
// Achieved is recomputed here from the totals next to it; the SQL-computed
// flag is advisory only.
func assembleSections(
	asOf time.Time,
	topPerformers []types.TopPerformer,
	productPerformance []types.ProductPerformance,
	targetAchievements []types.TargetAchievement,
	branchPerformance []types.BranchPerformance,
) types.ReportSections {
	if topPerformers == nil {
		topPerformers = []types.TopPerformer{}
	}
	if productPerformance == nil {
		productPerformance = []types.ProductPerformance{}
	}
	if targetAchievements == nil {
		targetAchievements = []types.TargetAchievement{}
	}
	if branchPerformance == nil {
		branchPerformance = []types.BranchPerformance{}
	}
	for i := range targetAchievements {
		targetAchievements[i].Achieved = targetAchievements[i].SalesTotal.GreaterThanOrEqual(targetAchievements[i].TargetThreshold)
	}
	return types.ReportSections{
		TopPerformers:      topPerformers,
		ProductPerformance: productPerformance,
		TargetAchievements: targetAchievements,
		BranchPerformance:  branchPerformance,
		GeneratedAt:        asOf,
	}
}

func (s *reportService) Latest(ctx context.Context, reportType string, limit int) ([]*types.PerformanceReport, error) {
	if reportType == "" {
		return nil, fmt.Errorf("%w: missing report type", pkgerrors.ErrInvalidArgument)
	}
	rows, err := s.reports.Latest(ctx, nil, reportType, limit)
	if err != nil {
		return nil, fmt.Errorf("query latest reports: %w", err)
	}
	return rows, nil
}
