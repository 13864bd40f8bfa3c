package services

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"gorm.io/datatypes"

	types "github.com/moonlabs/moon-agent-backend/internal/domain"
	"github.com/moonlabs/moon-agent-backend/internal/platform/warehouse"
)

type fakeWarehouseClient struct {
	rows      map[int64]warehouse.ReportRow
	writes    int
	failNext  bool
	lastError error
}

func newFakeWarehouseClient() *fakeWarehouseClient {
	return &fakeWarehouseClient{rows: map[int64]warehouse.ReportRow{}}
}

func (f *fakeWarehouseClient) UpsertReport(ctx context.Context, row warehouse.ReportRow) error {
	f.writes++
	if f.failNext {
		f.failNext = false
		f.lastError = fmt.Errorf("warehouse unreachable")
		return f.lastError
	}
	f.rows[row.ID] = row
	return nil
}

func (f *fakeWarehouseClient) Close() error { return nil }

func storedReport(id int64) *types.PerformanceReport {
	return &types.PerformanceReport{
		ID:          id,
		ReportDate:  time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		ReportType:  types.ReportTypeDaily,
		Data:        datatypes.JSON([]byte(`{"top_performers":[{"agent_id":1,"name":"a","sales":"100.00"}]}`)),
		GeneratedAt: time.Date(2026, 8, 20, 6, 0, 0, 0, time.UTC),
	}
}

func TestSyncNoReportIsNoOp(t *testing.T) {
	client := newFakeWarehouseClient()
	svc := NewWarehouseSyncService(testLogger(t), &fakeReportRepo{}, client)

	outcome, err := svc.Sync(context.Background(), types.ReportTypeDaily)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if outcome.Published || outcome.Stage != StageDone {
		t.Fatalf("expected done no-op outcome, got %+v", outcome)
	}
	if client.writes != 0 {
		t.Fatalf("no write may happen on an empty store")
	}
}

func TestSyncPublishesMostRecent(t *testing.T) {
	repo := &fakeReportRepo{}
	report := storedReport(0)
	if _, err := repo.Append(context.Background(), nil, report); err != nil {
		t.Fatalf("seed: %v", err)
	}
	client := newFakeWarehouseClient()
	svc := NewWarehouseSyncService(testLogger(t), repo, client)

	outcome, err := svc.Sync(context.Background(), types.ReportTypeDaily)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if !outcome.Published || outcome.ReportID != report.ID {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}

	row, ok := client.rows[report.ID]
	if !ok {
		t.Fatalf("warehouse row missing")
	}
	if row.Frequency != types.ReportTypeDaily {
		t.Fatalf("unexpected frequency %q", row.Frequency)
	}
	if !bytes.Equal(row.Payload, report.Data) {
		t.Fatalf("payload must be the stored jsonb bytes")
	}
	if !row.GeneratedAt.Equal(report.GeneratedAt) {
		t.Fatalf("generated_at mismatch")
	}
}

func TestSyncReplayYieldsOneRow(t *testing.T) {
	repo := &fakeReportRepo{}
	if _, err := repo.Append(context.Background(), nil, storedReport(0)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	client := newFakeWarehouseClient()
	svc := NewWarehouseSyncService(testLogger(t), repo, client)

	for i := 0; i < 3; i++ {
		if _, err := svc.Sync(context.Background(), types.ReportTypeDaily); err != nil {
			t.Fatalf("Sync %d: %v", i, err)
		}
	}
	if len(client.rows) != 1 {
		t.Fatalf("replaying one document must keep exactly one warehouse row, got %d", len(client.rows))
	}
	if client.writes != 3 {
		t.Fatalf("expected 3 upsert attempts, got %d", client.writes)
	}
}

func TestSyncFailedWriteIsRetriable(t *testing.T) {
	repo := &fakeReportRepo{}
	report := storedReport(0)
	if _, err := repo.Append(context.Background(), nil, report); err != nil {
		t.Fatalf("seed: %v", err)
	}
	client := newFakeWarehouseClient()
	client.failNext = true
	svc := NewWarehouseSyncService(testLogger(t), repo, client)

	outcome, err := svc.Sync(context.Background(), types.ReportTypeDaily)
	if err == nil {
		t.Fatalf("expected error")
	}
	if outcome.Stage != StageFailed || outcome.FailedStage != StageWriting {
		t.Fatalf("failure must be attributed to the write stage, got %+v", outcome)
	}
	if len(client.rows) != 0 {
		t.Fatalf("failed write must leave no row")
	}

	// Source document is untouched; a retry succeeds and writes one row.
	retry, err := svc.Sync(context.Background(), types.ReportTypeDaily)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if !retry.Published || retry.ReportID != report.ID {
		t.Fatalf("unexpected retry outcome: %+v", retry)
	}
	if len(client.rows) != 1 {
		t.Fatalf("expected exactly one row after retry, got %d", len(client.rows))
	}
}

func TestSyncRejectsCorruptPayload(t *testing.T) {
	repo := &fakeReportRepo{}
	bad := storedReport(0)
	bad.Data = datatypes.JSON([]byte(`{"truncated`))
	if _, err := repo.Append(context.Background(), nil, bad); err != nil {
		t.Fatalf("seed: %v", err)
	}
	client := newFakeWarehouseClient()
	svc := NewWarehouseSyncService(testLogger(t), repo, client)

	outcome, err := svc.Sync(context.Background(), types.ReportTypeDaily)
	if err == nil {
		t.Fatalf("expected error")
	}
	if outcome.FailedStage != StageTransforming {
		t.Fatalf("failure must be attributed to transform, got %+v", outcome)
	}
	if client.writes != 0 {
		t.Fatalf("no write may happen with a corrupt payload")
	}
}
