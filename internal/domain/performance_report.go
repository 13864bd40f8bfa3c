package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const ReportTypeDaily = "daily"

// PerformanceReport is one immutable report snapshot. Rows are append-only:
// a correction is a new row, never an update, and the same report_date may
// carry several rows when a day is rerun. Consumers pick the row with the
// latest generated_at.
type PerformanceReport struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	ReportDate  time.Time      `gorm:"column:report_date;type:date;not null;index" json:"report_date"`
	ReportType  string         `gorm:"column:report_type;not null;index" json:"report_type"`
	Data        datatypes.JSON `gorm:"column:data;type:jsonb;not null" json:"data"`
	GeneratedAt time.Time      `gorm:"column:generated_at;not null;index" json:"generated_at"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (PerformanceReport) TableName() string { return "performance_reports" }

// TopPerformer is one agent in the trailing-window leaderboard.
type TopPerformer struct {
	AgentID    int64           `json:"agent_id"`
	AgentName  string          `json:"name"`
	SalesTotal decimal.Decimal `json:"sales"`
}

// ProductPerformance is the per-product rollup over the trailing window.
type ProductPerformance struct {
	ProductCode      string          `json:"product"`
	TransactionCount int64           `json:"transactions"`
	RevenueTotal     decimal.Decimal `json:"revenue"`
}

// TargetAchievement compares an agent's month-to-date sales against their
// configured threshold. Achieved is always derived from the two totals next
// to it, never persisted on its own.
type TargetAchievement struct {
	AgentID         int64           `json:"agent_id"`
	AgentName       string          `json:"name"`
	SalesTotal      decimal.Decimal `json:"sales"`
	TargetThreshold decimal.Decimal `json:"target"`
	Achieved        bool            `json:"achieved"`
}

// BranchPerformance is the month-to-date rollup per branch.
type BranchPerformance struct {
	BranchID   int64           `json:"branch_id"`
	BranchName string          `json:"name"`
	SalesTotal decimal.Decimal `json:"total_sales"`
}

// ReportSections is the structured body of a PerformanceReport. shopspring
// decimals marshal as JSON strings, so amounts cross the jsonb boundary
// without binary floating-point loss.
type ReportSections struct {
	TopPerformers      []TopPerformer       `json:"top_performers"`
	ProductPerformance []ProductPerformance `json:"product_performance"`
	TargetAchievements []TargetAchievement  `json:"target_achievements"`
	BranchPerformance  []BranchPerformance  `json:"branch_performance"`
	GeneratedAt        time.Time            `json:"generated_at"`
}

func (s ReportSections) Encode() (datatypes.JSON, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func DecodeSections(data datatypes.JSON) (*ReportSections, error) {
	var s ReportSections
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
