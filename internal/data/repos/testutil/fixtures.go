package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	types "github.com/moonlabs/moon-agent-backend/internal/domain"
)

var agentSeq atomic.Int64

func SeedBranch(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Branch {
	tb.Helper()
	b := &types.Branch{Name: name}
	if err := tx.WithContext(ctx).Create(b).Error; err != nil {
		tb.Fatalf("seed branch: %v", err)
	}
	return b
}

func SeedAgent(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, branchID *int64) *types.Agent {
	tb.Helper()
	a := &types.Agent{
		Name:     name,
		Code:     fmt.Sprintf("%s-%d-%d", name, time.Now().UnixNano(), agentSeq.Add(1)),
		BranchID: branchID,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed agent: %v", err)
	}
	return a
}

func SeedSale(tb testing.TB, ctx context.Context, tx *gorm.DB, agentID int64, amount string, productCode string, saleDate time.Time) *types.SaleRecord {
	tb.Helper()
	s := &types.SaleRecord{
		AgentID:     agentID,
		SaleAmount:  decimal.RequireFromString(amount),
		ProductCode: productCode,
		SaleDate:    saleDate,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed sale: %v", err)
	}
	return s
}

func SeedPreference(tb testing.TB, ctx context.Context, tx *gorm.DB, agentID int64, threshold string) *types.NotificationPreference {
	tb.Helper()
	p := &types.NotificationPreference{
		AgentID:              agentID,
		EmailNotifications:   true,
		SalesTargetThreshold: decimal.RequireFromString(threshold),
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed preference: %v", err)
	}
	return p
}
