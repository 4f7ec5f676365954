package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/adaptiq/adaptiq-backend/internal/data/cache"
	"github.com/adaptiq/adaptiq-backend/internal/data/repos"
	"github.com/adaptiq/adaptiq-backend/internal/domain/accessibility"
	"github.com/adaptiq/adaptiq-backend/internal/events"
	"github.com/adaptiq/adaptiq-backend/internal/observability"
	"github.com/adaptiq/adaptiq-backend/internal/platform/apierr"
	"github.com/adaptiq/adaptiq-backend/internal/platform/dbctx"
	"github.com/adaptiq/adaptiq-backend/internal/platform/logger"
)

type SettingsService interface {
	// Get returns the stored settings, or the defaults when none were saved.
	Get(ctx context.Context) (accessibility.Settings, error)
	// Update applies one or more fields by JSON name.
	Update(ctx context.Context, patch map[string]json.RawMessage) (accessibility.Settings, error)
	Reset(ctx context.Context) (accessibility.Settings, error)
	// ForUser is the read path used by other services.
	ForUser(ctx context.Context, userID uuid.UUID) (accessibility.Settings, error)
}

type settingsService struct {
	log   *logger.Logger
	repo  repos.SettingsRepo
	cache cache.SettingsCache
	pub   events.Publisher
}

func NewSettingsService(log *logger.Logger, repo repos.SettingsRepo, settingsCache cache.SettingsCache, pub events.Publisher) SettingsService {
	if settingsCache == nil {
		settingsCache = cache.Nop{}
	}
	return &settingsService{
		log:   log.With("service", "SettingsService"),
		repo:  repo,
		cache: settingsCache,
		pub:   pub,
	}
}

func (s *settingsService) Get(ctx context.Context) (accessibility.Settings, error) {
	userID, err := learnerID(ctx)
	if err != nil {
		return accessibility.Settings{}, err
	}
	return s.ForUser(ctx, userID)
}

func (s *settingsService) ForUser(ctx context.Context, userID uuid.UUID) (accessibility.Settings, error) {
	cached, ok, err := s.cache.Get(ctx, userID)
	if err != nil {
		s.log.Warn("Settings cache read failed", "user_id", userID, "error", err)
	}
	observability.Current().IncCacheLookup(ok)
	if ok {
		return cached, nil
	}

	row, err := s.repo.GetByUserID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return accessibility.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	out := accessibility.Defaults()
	if row != nil {
		if out, err = accessibility.Normalize(row.Settings); err != nil {
			s.log.Warn("Stored settings failed validation, serving defaults", "user_id", userID, "error", err)
			out = accessibility.Defaults()
		}
	}
	if err := s.cache.Set(ctx, userID, out); err != nil {
		s.log.Warn("Settings cache write failed", "user_id", userID, "error", err)
	}
	return out, nil
}

func (s *settingsService) Update(ctx context.Context, patch map[string]json.RawMessage) (accessibility.Settings, error) {
	userID, err := learnerID(ctx)
	if err != nil {
		return accessibility.Settings{}, err
	}
	if len(patch) == 0 {
		return accessibility.Settings{}, apierr.Invalid("no settings provided")
	}
	// read and write under one row lock; the cache may lag a peer's write
	row, err := s.repo.Mutate(dbctx.Context{Ctx: ctx}, userID, func(cur accessibility.Settings) (accessibility.Settings, error) {
		return accessibility.Apply(cur, patch)
	})
	if err != nil {
		return accessibility.Settings{}, fmt.Errorf("update settings: %w", err)
	}
	if row == nil {
		return accessibility.Settings{}, apierr.ErrUnauthorized
	}
	keys := make([]string, 0, len(patch))
	for k := range patch {
		keys = append(keys, k)
	}
	return s.saved(ctx, userID, row.Settings, events.New(events.SettingsUpdated, userID.String(), map[string]any{"fields": keys})), nil
}

func (s *settingsService) Reset(ctx context.Context) (accessibility.Settings, error) {
	userID, err := learnerID(ctx)
	if err != nil {
		return accessibility.Settings{}, err
	}
	return s.store(ctx, userID, accessibility.Defaults(), events.New(events.SettingsReset, userID.String(), nil))
}

func (s *settingsService) store(ctx context.Context, userID uuid.UUID, next accessibility.Settings, e events.Event) (accessibility.Settings, error) {
	row, err := s.repo.Upsert(dbctx.Context{Ctx: ctx}, userID, next)
	if err != nil {
		return accessibility.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	if row != nil {
		next = row.Settings
	}
	return s.saved(ctx, userID, next, e), nil
}

// saved refreshes the cache and announces a committed write.
func (s *settingsService) saved(ctx context.Context, userID uuid.UUID, next accessibility.Settings, e events.Event) accessibility.Settings {
	if err := s.cache.Set(ctx, userID, next); err != nil {
		// a stale entry would outlive the write, so drop it instead
		_ = s.cache.Invalidate(ctx, userID)
		s.log.Warn("Settings cache write failed", "user_id", userID, "error", err)
	}
	publish(ctx, s.log, s.pub, e)
	return next
}
