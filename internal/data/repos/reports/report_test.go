package reports

import (
	"context"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/moonlabs/moon-agent-backend/internal/data/repos/testutil"
	types "github.com/moonlabs/moon-agent-backend/internal/domain"
)

func TestReportRepoAppendAndLatest(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewReportRepo(db, testutil.Logger(t))

	day := func(offset int) time.Time {
		base := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
		return base.AddDate(0, 0, offset)
	}

	older := &types.PerformanceReport{
		ReportDate:  day(-1),
		ReportType:  types.ReportTypeDaily,
		Data:        datatypes.JSON([]byte(`{"top_performers":[]}`)),
		GeneratedAt: day(-1).Add(2 * time.Hour),
	}
	// Same-day rerun pair, inserted newest-generated first so insertion
	// order and generated_at order disagree.
	rerun := &types.PerformanceReport{
		ReportDate:  day(0),
		ReportType:  types.ReportTypeDaily,
		Data:        datatypes.JSON([]byte(`{"top_performers":[]}`)),
		GeneratedAt: day(0).Add(9 * time.Hour),
	}
	first := &types.PerformanceReport{
		ReportDate:  day(0),
		ReportType:  types.ReportTypeDaily,
		Data:        datatypes.JSON([]byte(`{"top_performers":[]}`)),
		GeneratedAt: day(0).Add(2 * time.Hour),
	}
	weekly := &types.PerformanceReport{
		ReportDate:  day(0),
		ReportType:  "weekly",
		Data:        datatypes.JSON([]byte(`{}`)),
		GeneratedAt: day(0).Add(3 * time.Hour),
	}

	for _, r := range []*types.PerformanceReport{older, rerun, first, weekly} {
		if _, err := repo.Append(ctx, tx, r); err != nil {
			t.Fatalf("Append: %v", err)
		}
		if r.ID == 0 {
			t.Fatalf("Append did not assign an id")
		}
	}

	rows, err := repo.Latest(ctx, tx, types.ReportTypeDaily, 10)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 daily rows, got %d", len(rows))
	}
	if rows[0].ID != rerun.ID {
		t.Fatalf("expected same-day tie broken by generated_at, got id %d first", rows[0].ID)
	}
	if rows[1].ID != first.ID || rows[2].ID != older.ID {
		t.Fatalf("unexpected order: %d %d %d", rows[0].ID, rows[1].ID, rows[2].ID)
	}

	limited, err := repo.Latest(ctx, tx, types.ReportTypeDaily, 2)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected limit respected, got %d", len(limited))
	}
}

func TestReportRepoMostRecent(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewReportRepo(db, testutil.Logger(t))

	got, err := repo.MostRecent(ctx, tx, "never-generated")
	if err != nil {
		t.Fatalf("MostRecent: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for empty store, got %+v", got)
	}

	report := &types.PerformanceReport{
		ReportDate:  time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		ReportType:  "never-generated",
		Data:        datatypes.JSON([]byte(`{}`)),
		GeneratedAt: time.Date(2026, 8, 20, 6, 0, 0, 0, time.UTC),
	}
	if _, err := repo.Append(ctx, tx, report); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err = repo.MostRecent(ctx, tx, "never-generated")
	if err != nil {
		t.Fatalf("MostRecent: %v", err)
	}
	if got == nil || got.ID != report.ID {
		t.Fatalf("expected report %d, got %+v", report.ID, got)
	}
}

func TestReportRepoAppendValidation(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewReportRepo(db, testutil.Logger(t))

	if _, err := repo.Append(ctx, tx, nil); err == nil {
		t.Fatalf("expected error for nil report")
	}
	if _, err := repo.Append(ctx, tx, &types.PerformanceReport{}); err == nil {
		t.Fatalf("expected error for missing report_type")
	}
	if _, err := repo.Latest(ctx, tx, types.ReportTypeDaily, 0); err == nil {
		t.Fatalf("expected error for non-positive limit")
	}
}
