package rollups

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	types "github.com/moonlabs/moon-agent-backend/internal/domain"
	"github.com/moonlabs/moon-agent-backend/internal/platform/logger"
)

// RollupRepo is the read-only aggregation query set that feeds report
// assembly. Every method takes a frozen asOf boundary so all four rollups in
// one cycle observe the same point in time; none of them mutates state.
type RollupRepo interface {
	TopPerformers(ctx context.Context, tx *gorm.DB, asOf time.Time, windowDays int, limit int) ([]types.TopPerformer, error)
	ProductPerformance(ctx context.Context, tx *gorm.DB, asOf time.Time, windowDays int) ([]types.ProductPerformance, error)
	TargetAchievements(ctx context.Context, tx *gorm.DB, asOf time.Time) ([]types.TargetAchievement, error)
	BranchPerformance(ctx context.Context, tx *gorm.DB, asOf time.Time) ([]types.BranchPerformance, error)
	AgentMonthToDate(ctx context.Context, tx *gorm.DB, agentID int64, asOf time.Time) (decimal.Decimal, error)
}

type rollupRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRollupRepo(db *gorm.DB, baseLog *logger.Logger) RollupRepo {
	return &rollupRepo{
		db:  db,
		log: baseLog.With("repo", "RollupRepo"),
	}
}

// trailingWindow returns [start, end] for a windowDays lookback ending at
// asOf, start truncated to the calendar day so the window is inclusive of
// the full first day, matching sale_date >= CURRENT_DATE - interval.
func trailingWindow(asOf time.Time, windowDays int) (time.Time, time.Time) {
	day := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, asOf.Location())
	return day.AddDate(0, 0, -windowDays), asOf
}

// monthWindow returns [first of month, asOf].
func monthWindow(asOf time.Time) (time.Time, time.Time) {
	return time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, asOf.Location()), asOf
}

func (r *rollupRepo) TopPerformers(ctx context.Context, tx *gorm.DB, asOf time.Time, windowDays int, limit int) ([]types.TopPerformer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		return nil, fmt.Errorf("top performers limit must be positive, got %d", limit)
	}
	start, end := trailingWindow(asOf, windowDays)

	var rows []types.TopPerformer
	err := transaction.WithContext(ctx).Raw(`
SELECT a.id AS agent_id, a.name AS agent_name, SUM(s.sale_amount) AS sales_total
FROM agents a
JOIN sales_data s ON a.id = s.agent_id
WHERE s.sale_date >= ? AND s.sale_date <= ?
GROUP BY a.id, a.name
ORDER BY sales_total DESC, a.id ASC
LIMIT ?
`, start, end, limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *rollupRepo) ProductPerformance(ctx context.Context, tx *gorm.DB, asOf time.Time, windowDays int) ([]types.ProductPerformance, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	start, end := trailingWindow(asOf, windowDays)

	var rows []types.ProductPerformance
	err := transaction.WithContext(ctx).Raw(`
SELECT s.product_code AS product_code, COUNT(*) AS transaction_count, SUM(s.sale_amount) AS revenue_total
FROM sales_data s
WHERE s.sale_date >= ? AND s.sale_date <= ?
GROUP BY s.product_code
ORDER BY revenue_total DESC, s.product_code ASC
`, start, end).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *rollupRepo) TargetAchievements(ctx context.Context, tx *gorm.DB, asOf time.Time) ([]types.TargetAchievement, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	start, end := monthWindow(asOf)

	// Inner joins are deliberate: an agent appears only with both a sale
	// this month and a configured threshold.
	var rows []types.TargetAchievement
	err := transaction.WithContext(ctx).Raw(`
SELECT a.id AS agent_id,
       a.name AS agent_name,
       SUM(s.sale_amount) AS sales_total,
       np.sales_target_threshold AS target_threshold,
       SUM(s.sale_amount) >= np.sales_target_threshold AS achieved
FROM agents a
JOIN sales_data s ON a.id = s.agent_id
JOIN notification_preferences np ON a.id = np.agent_id
WHERE s.sale_date >= ? AND s.sale_date <= ?
GROUP BY a.id, a.name, np.sales_target_threshold
ORDER BY sales_total DESC, a.id ASC
`, start, end).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *rollupRepo) BranchPerformance(ctx context.Context, tx *gorm.DB, asOf time.Time) ([]types.BranchPerformance, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	start, end := monthWindow(asOf)

	var rows []types.BranchPerformance
	err := transaction.WithContext(ctx).Raw(`
SELECT b.id AS branch_id, b.name AS branch_name, SUM(s.sale_amount) AS sales_total
FROM branches b
JOIN agents a ON b.id = a.branch_id
JOIN sales_data s ON a.id = s.agent_id
WHERE s.sale_date >= ? AND s.sale_date <= ?
GROUP BY b.id, b.name
ORDER BY sales_total DESC, b.id ASC
`, start, end).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// AgentMonthToDate sums one agent's sales over the current calendar month.
// Agents with no sales this month sum to zero rather than erroring.
func (r *rollupRepo) AgentMonthToDate(ctx context.Context, tx *gorm.DB, agentID int64, asOf time.Time) (decimal.Decimal, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	start, end := monthWindow(asOf)

	var row struct {
		SalesTotal decimal.Decimal
	}
	err := transaction.WithContext(ctx).Raw(`
SELECT COALESCE(SUM(s.sale_amount), 0) AS sales_total
FROM sales_data s
WHERE s.agent_id = ? AND s.sale_date >= ? AND s.sale_date <= ?
`, agentID, start, end).Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.SalesTotal, nil
}
