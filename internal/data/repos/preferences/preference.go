package preferences

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	types "github.com/moonlabs/moon-agent-backend/internal/domain"
	pkgerrors "github.com/moonlabs/moon-agent-backend/internal/pkg/errors"
	"github.com/moonlabs/moon-agent-backend/internal/platform/logger"
)

// PreferenceUpdate is a typed partial-update descriptor. Only non-nil fields
// are written, and only the columns named here can ever be touched; there is
// no free-form field list coming in from callers.
type PreferenceUpdate struct {
	EmailNotifications   *bool
	SMSNotifications     *bool
	PushNotifications    *bool
	SalesTargetThreshold *decimal.Decimal
}

// Updates maps the descriptor onto its column set.
func (u PreferenceUpdate) Updates() map[string]interface{} {
	out := map[string]interface{}{}
	if u.EmailNotifications != nil {
		out["email_notifications"] = *u.EmailNotifications
	}
	if u.SMSNotifications != nil {
		out["sms_notifications"] = *u.SMSNotifications
	}
	if u.PushNotifications != nil {
		out["push_notifications"] = *u.PushNotifications
	}
	if u.SalesTargetThreshold != nil {
		out["sales_target_threshold"] = *u.SalesTargetThreshold
	}
	return out
}

type PreferenceRepo interface {
	GetByAgentID(ctx context.Context, tx *gorm.DB, agentID int64) (*types.NotificationPreference, error)
	Apply(ctx context.Context, tx *gorm.DB, agentID int64, update PreferenceUpdate) (*types.NotificationPreference, error)
}

type preferenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPreferenceRepo(db *gorm.DB, baseLog *logger.Logger) PreferenceRepo {
	return &preferenceRepo{
		db:  db,
		log: baseLog.With("repo", "PreferenceRepo"),
	}
}

func (r *preferenceRepo) GetByAgentID(ctx context.Context, tx *gorm.DB, agentID int64) (*types.NotificationPreference, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var pref types.NotificationPreference
	err := transaction.WithContext(ctx).
		Where("agent_id = ?", agentID).
		First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

// Apply updates the agent's preference row with the descriptor's fields, or
// inserts a fresh row when none exists yet.
func (r *preferenceRepo) Apply(ctx context.Context, tx *gorm.DB, agentID int64, update PreferenceUpdate) (*types.NotificationPreference, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	updates := update.Updates()
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no preference fields to update", pkgerrors.ErrInvalidArgument)
	}

	res := transaction.WithContext(ctx).
		Model(&types.NotificationPreference{}).
		Where("agent_id = ?", agentID).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		pref := &types.NotificationPreference{AgentID: agentID}
		if update.EmailNotifications != nil {
			pref.EmailNotifications = *update.EmailNotifications
		} else {
			pref.EmailNotifications = true
		}
		if update.SMSNotifications != nil {
			pref.SMSNotifications = *update.SMSNotifications
		}
		if update.PushNotifications != nil {
			pref.PushNotifications = *update.PushNotifications
		}
		if update.SalesTargetThreshold != nil {
			pref.SalesTargetThreshold = *update.SalesTargetThreshold
		}
		if err := transaction.WithContext(ctx).Create(pref).Error; err != nil {
			return nil, err
		}
		return pref, nil
	}
	return r.GetByAgentID(ctx, transaction, agentID)
}
