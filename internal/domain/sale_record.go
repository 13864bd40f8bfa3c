package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// SaleRecord is one row in the transactional sales ledger. Amounts are
// numeric in Postgres and decimal.Decimal in Go; float64 never touches them.
type SaleRecord struct {
	ID                int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	AgentID           int64           `gorm:"column:agent_id;not null;index" json:"agent_id"`
	SaleAmount        decimal.Decimal `gorm:"column:sale_amount;type:numeric(14,2);not null" json:"sale_amount"`
	ProductCode       string          `gorm:"column:product_code;not null;index" json:"product_code"`
	SaleDate          time.Time       `gorm:"column:sale_date;not null;index" json:"sale_date"`
	AdditionalDetails datatypes.JSON  `gorm:"column:additional_details;type:jsonb" json:"additional_details,omitempty"`
	CreatedAt         time.Time       `gorm:"not null;default:now()" json:"created_at"`
}

func (SaleRecord) TableName() string { return "sales_data" }
