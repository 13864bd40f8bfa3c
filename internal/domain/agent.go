package domain

import (
	"time"

	"gorm.io/datatypes"
)

type Agent struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string         `gorm:"column:name;not null" json:"name"`
	Code      string         `gorm:"column:code;uniqueIndex;not null" json:"code"`
	BranchID  *int64         `gorm:"column:branch_id;index" json:"branch_id,omitempty"`
	Details   datatypes.JSON `gorm:"column:details;type:jsonb" json:"details,omitempty"`
	Products  datatypes.JSON `gorm:"column:products;type:jsonb" json:"products,omitempty"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Agent) TableName() string { return "agents" }
