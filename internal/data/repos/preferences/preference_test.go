package preferences

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/moonlabs/moon-agent-backend/internal/data/repos/testutil"
	pkgerrors "github.com/moonlabs/moon-agent-backend/internal/pkg/errors"
)

func boolPtr(v bool) *bool { return &v }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestPreferenceUpdateDescriptor(t *testing.T) {
	empty := PreferenceUpdate{}
	if len(empty.Updates()) != 0 {
		t.Fatalf("empty descriptor must produce no updates")
	}

	partial := PreferenceUpdate{
		SMSNotifications:     boolPtr(true),
		SalesTargetThreshold: decPtr("1500.00"),
	}
	updates := partial.Updates()
	if len(updates) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(updates))
	}
	if _, ok := updates["email_notifications"]; ok {
		t.Fatalf("untouched field must not appear in updates")
	}
	if updates["sms_notifications"] != true {
		t.Fatalf("unexpected sms value: %v", updates["sms_notifications"])
	}
}

func TestPreferenceApply(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewPreferenceRepo(db, testutil.Logger(t))

	agent := testutil.SeedAgent(t, ctx, tx, "prefagent", nil)
	testutil.SeedPreference(t, ctx, tx, agent.ID, "1000.00")

	got, err := repo.Apply(ctx, tx, agent.ID, PreferenceUpdate{
		PushNotifications:    boolPtr(true),
		SalesTargetThreshold: decPtr("2500.00"),
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !got.PushNotifications {
		t.Fatalf("expected push enabled")
	}
	if !got.SalesTargetThreshold.Equal(decimal.RequireFromString("2500.00")) {
		t.Fatalf("unexpected threshold: %s", got.SalesTargetThreshold)
	}
	// Field absent from the descriptor stays as seeded.
	if !got.EmailNotifications {
		t.Fatalf("email flag must not change on a partial update")
	}
}

func TestPreferenceApplyInsertsWhenMissing(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewPreferenceRepo(db, testutil.Logger(t))

	agent := testutil.SeedAgent(t, ctx, tx, "freshagent", nil)

	got, err := repo.Apply(ctx, tx, agent.ID, PreferenceUpdate{
		SalesTargetThreshold: decPtr("800.00"),
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got.AgentID != agent.ID {
		t.Fatalf("unexpected agent id: %d", got.AgentID)
	}
	if !got.SalesTargetThreshold.Equal(decimal.RequireFromString("800.00")) {
		t.Fatalf("unexpected threshold: %s", got.SalesTargetThreshold)
	}
	if !got.EmailNotifications {
		t.Fatalf("fresh row must default email notifications on")
	}
}

func TestPreferenceApplyRejectsEmptyDescriptor(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewPreferenceRepo(db, testutil.Logger(t))

	agent := testutil.SeedAgent(t, ctx, tx, "noopagent", nil)

	_, err := repo.Apply(ctx, tx, agent.ID, PreferenceUpdate{})
	if !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestPreferenceGetByAgentIDNotFound(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewPreferenceRepo(db, testutil.Logger(t))

	_, err := repo.GetByAgentID(ctx, tx, 99999999)
	if !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
