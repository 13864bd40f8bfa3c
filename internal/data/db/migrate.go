package db

import (
	types "github.com/moonlabs/moon-agent-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// =========================
		// Transactional store
		// =========================
		&types.Branch{},
		&types.Agent{},
		&types.SaleRecord{},
		&types.NotificationPreference{},

		// =========================
		// Report store (append-only)
		// =========================
		&types.PerformanceReport{},
	)
}
