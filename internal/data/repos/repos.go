package repos

import (
	"gorm.io/gorm"

	"github.com/adaptiq/adaptiq-backend/internal/data/repos/profile"
	"github.com/adaptiq/adaptiq-backend/internal/platform/logger"
)

type ProfileRepo = profile.ProfileRepo
type SettingsRepo = profile.SettingsRepo
type FavoriteRepo = profile.FavoriteRepo

func NewProfileRepo(db *gorm.DB, baseLog *logger.Logger) ProfileRepo {
	return profile.NewProfileRepo(db, baseLog)
}

func NewSettingsRepo(db *gorm.DB, baseLog *logger.Logger) SettingsRepo {
	return profile.NewSettingsRepo(db, baseLog)
}

func NewFavoriteRepo(db *gorm.DB, baseLog *logger.Logger) FavoriteRepo {
	return profile.NewFavoriteRepo(db, baseLog)
}
