package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/moonlabs/moon-agent-backend/internal/data/repos/preferences"
	"github.com/moonlabs/moon-agent-backend/internal/data/repos/rollups"
	"github.com/moonlabs/moon-agent-backend/internal/platform/logger"
)

// TargetStatus is the month-to-date standing of one agent against their
// configured sales target.
type TargetStatus struct {
	AgentID         int64           `json:"agent_id"`
	TargetThreshold decimal.Decimal `json:"target_threshold"`
	CurrentSales    decimal.Decimal `json:"current_sales"`
	TargetAchieved  bool            `json:"target_achieved"`
}

// TargetCheckService answers the on-demand "has this agent hit their monthly
// target" question with the same month boundary the report rollups use.
type TargetCheckService interface {
	CheckAgent(ctx context.Context, agentID int64) (*TargetStatus, error)
}

type targetCheckService struct {
	log         *logger.Logger
	rollups     rollups.RollupRepo
	preferences preferences.PreferenceRepo
	now         func() time.Time
}

func NewTargetCheckService(
	baseLog *logger.Logger,
	rollupRepo rollups.RollupRepo,
	preferenceRepo preferences.PreferenceRepo,
) TargetCheckService {
	return &targetCheckService{
		log:         baseLog.With("service", "TargetCheckService"),
		rollups:     rollupRepo,
		preferences: preferenceRepo,
		now:         time.Now,
	}
}

func (s *targetCheckService) CheckAgent(ctx context.Context, agentID int64) (*TargetStatus, error) {
	pref, err := s.preferences.GetByAgentID(ctx, nil, agentID)
	if err != nil {
		return nil, fmt.Errorf("load agent preferences: %w", err)
	}

	total, err := s.rollups.AgentMonthToDate(ctx, nil, agentID, s.now())
	if err != nil {
		return nil, fmt.Errorf("aggregate month-to-date sales: %w", err)
	}

	status := &TargetStatus{
		AgentID:         agentID,
		TargetThreshold: pref.SalesTargetThreshold,
		CurrentSales:    total,
		TargetAchieved:  total.GreaterThanOrEqual(pref.SalesTargetThreshold),
	}
	if status.TargetAchieved {
		s.log.Info("Agent achieved monthly target", "agent_id", agentID, "threshold", pref.SalesTargetThreshold)
	}
	return status, nil
}
