package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type NotificationPreference struct {
	ID                   int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	AgentID              int64           `gorm:"column:agent_id;uniqueIndex;not null" json:"agent_id"`
	EmailNotifications   bool            `gorm:"column:email_notifications;not null;default:true" json:"email_notifications"`
	SMSNotifications     bool            `gorm:"column:sms_notifications;not null;default:false" json:"sms_notifications"`
	PushNotifications    bool            `gorm:"column:push_notifications;not null;default:false" json:"push_notifications"`
	SalesTargetThreshold decimal.Decimal `gorm:"column:sales_target_threshold;type:numeric(14,2);not null;default:0" json:"sales_target_threshold"`
	CreatedAt            time.Time       `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt            time.Time       `gorm:"not null;default:now()" json:"updated_at"`
}

func (NotificationPreference) TableName() string { return "notification_preferences" }
