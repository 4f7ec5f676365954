package app

import (
	"gorm.io/gorm"

	"github.com/adaptiq/adaptiq-backend/internal/data/repos"
	"github.com/adaptiq/adaptiq-backend/internal/platform/logger"
)

type Repos struct {
	Profile  repos.ProfileRepo
	Settings repos.SettingsRepo
	Favorite repos.FavoriteRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Profile:  repos.NewProfileRepo(db, log),
		Settings: repos.NewSettingsRepo(db, log),
		Favorite: repos.NewFavoriteRepo(db, log),
	}
}
