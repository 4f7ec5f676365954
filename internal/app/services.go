package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/adaptiq/adaptiq-backend/internal/data/cache"
	"github.com/adaptiq/adaptiq-backend/internal/events"
	"github.com/adaptiq/adaptiq-backend/internal/modules/adaptation"
	"github.com/adaptiq/adaptiq-backend/internal/modules/catalog"
	"github.com/adaptiq/adaptiq-backend/internal/platform/logger"
	"github.com/adaptiq/adaptiq-backend/internal/services"
)

type Services struct {
	Profile    services.ProfileService
	Settings   services.SettingsService
	Adaptation services.AdaptationService
	Lesson     services.LessonService
	Content    services.ContentService
	Speech     services.SpeechService
	TTS        services.TTSService
	Dictionary services.DictionaryService
}

func wireServices(
	db *gorm.DB,
	log *logger.Logger,
	r Repos,
	c Clients,
	settingsCache cache.SettingsCache,
	pub events.Publisher,
) (Services, error) {
	log.Info("Wiring services...")

	cat, err := catalog.Load()
	if err != nil {
		return Services{}, fmt.Errorf("load catalog: %w", err)
	}
	engine := adaptation.New()

	settings := services.NewSettingsService(log, r.Settings, settingsCache, pub)
	adapt := services.NewAdaptationService(log, engine, r.Profile, settings)

	return Services{
		Profile:    services.NewProfileService(db, log, r.Profile, r.Settings, r.Favorite, settingsCache, pub),
		Settings:   settings,
		Adaptation: adapt,
		Lesson:     services.NewLessonService(log, cat, adapt),
		Content:    services.NewContentService(log, engine, c.LLM, r.Profile),
		Speech:     services.NewSpeechService(log, c.Speech),
		TTS:        services.NewTTSService(log, c.TTS, settings, c.AudioStore),
		Dictionary: services.NewDictionaryService(log, cat, r.Favorite, pub),
	}, nil
}
