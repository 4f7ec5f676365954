package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/adaptiq/adaptiq-backend/internal/data/cache"
	"github.com/adaptiq/adaptiq-backend/internal/data/repos"
	"github.com/adaptiq/adaptiq-backend/internal/domain/learner"
	"github.com/adaptiq/adaptiq-backend/internal/events"
	"github.com/adaptiq/adaptiq-backend/internal/platform/apierr"
	"github.com/adaptiq/adaptiq-backend/internal/platform/dbctx"
	"github.com/adaptiq/adaptiq-backend/internal/platform/logger"
)

// ProfileInput is what the profile-setup screen submits.
type ProfileInput struct {
	FullName string          `json:"fullName"`
	Age      int             `json:"age"`
	Profile  learner.Profile `json:"profile"`
}

type ProfileService interface {
	Get(ctx context.Context) (*learner.ProfileRecord, error)
	// Save creates the caller's profile or replaces it.
	Save(ctx context.Context, in ProfileInput) (*learner.ProfileRecord, bool, error)
	// Delete removes the profile together with settings and favorites.
	Delete(ctx context.Context) error
}

type profileService struct {
	db           *gorm.DB
	log          *logger.Logger
	profileRepo  repos.ProfileRepo
	settingsRepo repos.SettingsRepo
	favoriteRepo repos.FavoriteRepo
	cache        cache.SettingsCache
	pub          events.Publisher
}

func NewProfileService(
	db *gorm.DB,
	log *logger.Logger,
	profileRepo repos.ProfileRepo,
	settingsRepo repos.SettingsRepo,
	favoriteRepo repos.FavoriteRepo,
	settingsCache cache.SettingsCache,
	pub events.Publisher,
) ProfileService {
	if settingsCache == nil {
		settingsCache = cache.Nop{}
	}
	return &profileService{
		db:           db,
		log:          log.With("service", "ProfileService"),
		profileRepo:  profileRepo,
		settingsRepo: settingsRepo,
		favoriteRepo: favoriteRepo,
		cache:        settingsCache,
		pub:          pub,
	}
}

func (s *profileService) Get(ctx context.Context) (*learner.ProfileRecord, error) {
	userID, err := learnerID(ctx)
	if err != nil {
		return nil, err
	}
	row, err := s.profileRepo.GetByUserID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if row == nil {
		return nil, fmt.Errorf("profile: %w", apierr.ErrNotFound)
	}
	return row, nil
}

func (s *profileService) Save(ctx context.Context, in ProfileInput) (*learner.ProfileRecord, bool, error) {
	userID, err := learnerID(ctx)
	if err != nil {
		return nil, false, err
	}
	in.FullName = strings.TrimSpace(in.FullName)
	if in.FullName == "" {
		return nil, false, apierr.Invalid("fullName required")
	}
	if in.Age < 3 || in.Age > 120 {
		return nil, false, apierr.Invalid("age must be between 3 and 120, got %d", in.Age)
	}
	p, err := learner.Normalize(in.Profile)
	if err != nil {
		return nil, false, err
	}

	var (
		out     *learner.ProfileRecord
		created bool
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		existing, err := s.profileRepo.GetByUserID(dbc, userID)
		if err != nil {
			return err
		}
		created = existing == nil
		// the upsert keys on user_id and keeps the stored id and created_at
		row := &learner.ProfileRecord{UserID: userID, FullName: in.FullName, Age: in.Age}
		row.Apply(p)
		out, err = s.profileRepo.Upsert(dbc, row)
		return err
	})
	if err != nil {
		s.log.Warn("Save profile failed", "user_id", userID, "error", err)
		return nil, false, fmt.Errorf("save profile: %w", err)
	}

	t := events.ProfileUpdated
	if created {
		t = events.ProfileCreated
	}
	publish(ctx, s.log, s.pub, events.New(t, userID.String(), map[string]any{
		"disabilityTypes": p.DisabilityTypes,
	}))
	return out, created, nil
}

func (s *profileService) Delete(ctx context.Context) error {
	userID, err := learnerID(ctx)
	if err != nil {
		return err
	}
	var found bool
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		ok, err := s.profileRepo.DeleteByUserID(dbc, userID)
		if err != nil {
			return err
		}
		found = ok
		if !ok {
			return nil
		}
		if err := s.settingsRepo.DeleteByUserID(dbc, userID); err != nil {
			return err
		}
		return s.favoriteRepo.DeleteByUserID(dbc, userID)
	})
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if !found {
		return fmt.Errorf("profile: %w", apierr.ErrNotFound)
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.log.Warn("Settings cache invalidate failed", "user_id", userID, "error", err)
	}
	publish(ctx, s.log, s.pub, events.New(events.ProfileDeleted, userID.String(), nil))
	return nil
}
