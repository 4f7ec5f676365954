package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adaptiq/adaptiq-backend/internal/data/cache"
	"github.com/adaptiq/adaptiq-backend/internal/data/db"
	"github.com/adaptiq/adaptiq-backend/internal/events"
	"github.com/adaptiq/adaptiq-backend/internal/observability"
	"github.com/adaptiq/adaptiq-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Clients  Clients
	Services Services
	Metrics  *observability.Metrics

	dbService     *db.Service
	settingsCache cache.SettingsCache
	publisher     events.Publisher
	otelShutdown  func(context.Context) error
	cancel        context.CancelFunc
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: cfg.ServiceName,
		Environment: logMode,
	})
	metrics := observability.Init(log)

	dbService, err := db.NewService(cfg.DB, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init db: %w", err)
	}
	if err := db.AutoMigrateAll(dbService.DB()); err != nil {
		_ = dbService.Close()
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	theDB := dbService.DB()

	var settingsCache cache.SettingsCache = cache.Nop{}
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedisSettingsCache(cfg.RedisAddr, cfg.SettingsCacheTTL, log)
		if err != nil {
			log.Warn("Settings cache disabled", "error", err)
		} else {
			settingsCache = rc
		}
	}

	pub, err := events.NewPublisher(cfg.Events, log)
	if err != nil {
		log.Warn("Event publishing disabled", "driver", cfg.Events.Driver, "error", err)
		pub = events.Nop{}
	}

	reposet := wireRepos(theDB, log)
	clientset := wireClients(log, cfg)

	serviceset, err := wireServices(theDB, log, reposet, clientset, settingsCache, pub)
	if err != nil {
		clientset.Close()
		_ = pub.Close()
		_ = dbService.Close()
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(log, theDB, serviceset)
	router := wireRouter(log, cfg, metrics, handlerset)

	return &App{
		Log:           log,
		DB:            theDB,
		Router:        router,
		Cfg:           cfg,
		Repos:         reposet,
		Clients:       clientset,
		Services:      serviceset,
		Metrics:       metrics,
		dbService:     dbService,
		settingsCache: settingsCache,
		publisher:     pub,
		otelShutdown:  otelShutdown,
	}, nil
}

func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	a.Metrics.StartDBCollector(ctx, a.Log, a.DB)
	if a.Cfg.RedisAddr != "" {
		a.Metrics.StartRedisCollector(ctx, a.Log, a.Cfg.RedisAddr)
	}
	a.Metrics.StartServer(ctx, a.Log, a.Cfg.MetricsAddr)

	// Peer instances write settings too; drop our cached copy when they do.
	if rp, ok := a.publisher.(*events.RedisPublisher); ok {
		go func() {
			err := rp.Subscribe(ctx, a.onPeerEvent)
			if err != nil && !errors.Is(err, context.Canceled) {
				a.Log.Warn("Event subscription stopped", "error", err)
			}
		}()
	}
}

func (a *App) onPeerEvent(e events.Event) {
	t := string(e.Type)
	if !strings.HasPrefix(t, "settings.") && e.Type != events.ProfileDeleted {
		return
	}
	userID, err := uuid.Parse(e.UserID)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := a.settingsCache.Invalidate(ctx, userID); err != nil {
		a.Log.Warn("Settings cache invalidate failed", "user_id", userID, "error", err)
	}
}

// Run serves until SIGINT/SIGTERM, then drains in-flight requests.
func (a *App) Run(addr string) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	if addr == "" {
		addr = a.Cfg.Addr
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.Log.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.Clients.Close()
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.Log.Warn("Event publisher close failed", "error", err)
		}
	}
	if a.dbService != nil {
		if err := a.dbService.Close(); err != nil {
			a.Log.Warn("DB close failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = a.otelShutdown(ctx)
		cancel()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
