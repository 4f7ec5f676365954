package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/adaptiq/adaptiq-backend/internal/http/handlers"
	httpMW "github.com/adaptiq/adaptiq-backend/internal/http/middleware"
	"github.com/adaptiq/adaptiq-backend/internal/observability"
	"github.com/adaptiq/adaptiq-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	CORSOrigins    []string
	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler     *httpH.HealthHandler
	ProfileHandler    *httpH.ProfileHandler
	SettingsHandler   *httpH.SettingsHandler
	AdaptationHandler *httpH.AdaptationHandler
	LessonHandler     *httpH.LessonHandler
	ContentHandler    *httpH.ContentHandler
	SpeechHandler     *httpH.SpeechHandler
	TTSHandler        *httpH.TTSHandler
	DictionaryHandler *httpH.DictionaryHandler
	GestureHandler    *httpH.GestureHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.MaxMultipartMemory = 16 << 20

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	protected := r.Group("/api")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Profile
		if cfg.ProfileHandler != nil {
			protected.GET("/profile", cfg.ProfileHandler.GetProfile)
			protected.POST("/profile", cfg.ProfileHandler.SaveProfile)
			protected.PUT("/profile", cfg.ProfileHandler.SaveProfile)
			protected.DELETE("/profile", cfg.ProfileHandler.DeleteProfile)
		}

		// Accessibility settings
		if cfg.SettingsHandler != nil {
			protected.GET("/settings", cfg.SettingsHandler.GetSettings)
			protected.PATCH("/settings", cfg.SettingsHandler.UpdateSettings)
			protected.POST("/settings/reset", cfg.SettingsHandler.ResetSettings)
		}

		// Adaptation
		if cfg.AdaptationHandler != nil {
			protected.POST("/adaptation/evaluate", cfg.AdaptationHandler.Evaluate)
			protected.POST("/adaptation/adapt", cfg.AdaptationHandler.Adapt)
			protected.GET("/adaptation/recommendations", cfg.AdaptationHandler.Recommendations)
		}

		// Lessons
		if cfg.LessonHandler != nil {
			protected.GET("/lessons", cfg.LessonHandler.ListLessons)
			protected.GET("/lessons/:id", cfg.LessonHandler.GetLesson)
			protected.GET("/lessons/:id/adapted", cfg.LessonHandler.GetAdaptedLesson)
		}

		// Content
		if cfg.ContentHandler != nil {
			protected.POST("/content/process", cfg.ContentHandler.Process)
			protected.POST("/content/simplify", cfg.ContentHandler.Simplify)
			protected.POST("/content/alternative", cfg.ContentHandler.Alternative)
		}

		// Speech
		if cfg.SpeechHandler != nil {
			protected.POST("/speech/transcribe", cfg.SpeechHandler.Transcribe)
			protected.POST("/speech/cancel", cfg.SpeechHandler.Cancel)
		}
		if cfg.TTSHandler != nil {
			protected.POST("/tts", cfg.TTSHandler.Speak)
			protected.POST("/tts/stop", cfg.TTSHandler.Stop)
			protected.GET("/tts/voices", cfg.TTSHandler.Voices)
		}

		// Sign dictionary
		if cfg.DictionaryHandler != nil {
			protected.GET("/dictionary", cfg.DictionaryHandler.Search)
			protected.GET("/dictionary/categories", cfg.DictionaryHandler.Categories)
			protected.GET("/dictionary/favorites", cfg.DictionaryHandler.Favorites)
			protected.POST("/dictionary/:word/favorite", cfg.DictionaryHandler.ToggleFavorite)
		}

		// Gestures
		if cfg.GestureHandler != nil {
			protected.POST("/gestures/classify", cfg.GestureHandler.Classify)
		}
	}

	return r
}
