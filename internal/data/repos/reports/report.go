package reports

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	types "github.com/moonlabs/moon-agent-backend/internal/domain"
	"github.com/moonlabs/moon-agent-backend/internal/platform/logger"
)

// ReportRepo is append-only persistence for report snapshots. There is no
// update or delete on purpose.
type ReportRepo interface {
	Append(ctx context.Context, tx *gorm.DB, report *types.PerformanceReport) (*types.PerformanceReport, error)
	Latest(ctx context.Context, tx *gorm.DB, reportType string, limit int) ([]*types.PerformanceReport, error)
	MostRecent(ctx context.Context, tx *gorm.DB, reportType string) (*types.PerformanceReport, error)
}

type reportRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReportRepo(db *gorm.DB, baseLog *logger.Logger) ReportRepo {
	return &reportRepo{
		db:  db,
		log: baseLog.With("repo", "ReportRepo"),
	}
}

func (r *reportRepo) Append(ctx context.Context, tx *gorm.DB, report *types.PerformanceReport) (*types.PerformanceReport, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if report == nil {
		return nil, fmt.Errorf("nil report")
	}
	if report.ReportType == "" {
		return nil, fmt.Errorf("missing report_type")
	}
	if err := transaction.WithContext(ctx).Create(report).Error; err != nil {
		return nil, err
	}
	return report, nil
}

// Latest orders by report_date, then generated_at. Same-day reruns sort by
// when they were assembled, not by insertion order.
func (r *reportRepo) Latest(ctx context.Context, tx *gorm.DB, reportType string, limit int) ([]*types.PerformanceReport, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}
	var out []*types.PerformanceReport
	err := transaction.WithContext(ctx).
		Where("report_type = ?", reportType).
		Order("report_date DESC").
		Order("generated_at DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MostRecent returns (nil, nil) when no report of the given type exists yet.
func (r *reportRepo) MostRecent(ctx context.Context, tx *gorm.DB, reportType string) (*types.PerformanceReport, error) {
	rows, err := r.Latest(ctx, tx, reportType, 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}
