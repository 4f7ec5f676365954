package db

import (
	"gorm.io/gorm"

	"github.com/adaptiq/adaptiq-backend/internal/domain/accessibility"
	"github.com/adaptiq/adaptiq-backend/internal/domain/learner"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&learner.ProfileRecord{},
		&accessibility.Record{},
		&learner.FavoriteSign{},
	)
}
