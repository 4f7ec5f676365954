package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	apphttp "github.com/adaptiq/adaptiq-backend/internal/http"
	httpH "github.com/adaptiq/adaptiq-backend/internal/http/handlers"
	httpMW "github.com/adaptiq/adaptiq-backend/internal/http/middleware"
	"github.com/adaptiq/adaptiq-backend/internal/observability"
	"github.com/adaptiq/adaptiq-backend/internal/platform/logger"
)

type Handlers struct {
	Health     *httpH.HealthHandler
	Profile    *httpH.ProfileHandler
	Settings   *httpH.SettingsHandler
	Adaptation *httpH.AdaptationHandler
	Lesson     *httpH.LessonHandler
	Content    *httpH.ContentHandler
	Speech     *httpH.SpeechHandler
	TTS        *httpH.TTSHandler
	Dictionary *httpH.DictionaryHandler
	Gesture    *httpH.GestureHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(dbPing(db)),
		Profile:    httpH.NewProfileHandler(s.Profile),
		Settings:   httpH.NewSettingsHandler(s.Settings),
		Adaptation: httpH.NewAdaptationHandler(s.Adaptation),
		Lesson:     httpH.NewLessonHandler(s.Lesson),
		Content:    httpH.NewContentHandler(s.Content),
		Speech:     httpH.NewSpeechHandler(s.Speech),
		TTS:        httpH.NewTTSHandler(s.TTS),
		Dictionary: httpH.NewDictionaryHandler(s.Dictionary),
		Gesture:    httpH.NewGestureHandler(),
	}
}

func dbPing(db *gorm.DB) func(ctx context.Context) error {
	if db == nil {
		return nil
	}
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

func wireRouter(log *logger.Logger, cfg Config, m *observability.Metrics, h Handlers) *gin.Engine {
	return apphttp.NewRouter(apphttp.RouterConfig{
		Log:               log,
		Metrics:           m,
		ServiceName:       cfg.ServiceName,
		CORSOrigins:       cfg.CORSOrigins,
		AuthMiddleware:    httpMW.NewAuthMiddleware(log, cfg.JWTSecretKey),
		HealthHandler:     h.Health,
		ProfileHandler:    h.Profile,
		SettingsHandler:   h.Settings,
		AdaptationHandler: h.Adaptation,
		LessonHandler:     h.Lesson,
		ContentHandler:    h.Content,
		SpeechHandler:     h.Speech,
		TTSHandler:        h.TTS,
		DictionaryHandler: h.Dictionary,
		GestureHandler:    h.Gesture,
	})
}
