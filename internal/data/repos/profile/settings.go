package profile

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/adaptiq/adaptiq-backend/internal/domain/accessibility"
	"github.com/adaptiq/adaptiq-backend/internal/platform/dbctx"
	"github.com/adaptiq/adaptiq-backend/internal/platform/logger"
)

type SettingsRepo interface {
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*accessibility.Record, error)
	Upsert(dbc dbctx.Context, userID uuid.UUID, s accessibility.Settings) (*accessibility.Record, error)
	// Mutate runs fn on the stored settings (defaults when none) under a row
	// lock and saves the result in the same transaction.
	Mutate(dbc dbctx.Context, userID uuid.UUID, fn func(accessibility.Settings) (accessibility.Settings, error)) (*accessibility.Record, error)
	DeleteByUserID(dbc dbctx.Context, userID uuid.UUID) error
}

var settingsColumns = []string{
	"setting_text_size",
	"setting_contrast",
	"setting_audio_enabled",
	"setting_audio_speed",
	"setting_reduced_motion",
	"setting_simplified_interface",
	"setting_color_blind_friendly",
	"setting_focus_indicators",
	"setting_auto_read",
	"setting_sign_language",
	"setting_motor_assistance",
	"setting_keyboard_navigation",
	"updated_at",
	"deleted_at",
}

type settingsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSettingsRepo(db *gorm.DB, baseLog *logger.Logger) SettingsRepo {
	return &settingsRepo{db: db, log: baseLog.With("repo", "SettingsRepo")}
}

func (r *settingsRepo) tx(dbc dbctx.Context) *gorm.DB {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Context())
}

// GetByUserID returns nil, nil when the learner never saved settings.
func (r *settingsRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*accessibility.Record, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var row accessibility.Record
	if err := r.tx(dbc).Where("user_id = ?", userID).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *settingsRepo) Upsert(dbc dbctx.Context, userID uuid.UUID, s accessibility.Settings) (*accessibility.Record, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	now := time.Now().UTC()
	row := &accessibility.Record{UserID: userID, Settings: s, CreatedAt: now, UpdatedAt: now}
	err := r.tx(dbc).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns(settingsColumns),
		}).
		Create(row).Error
	if err != nil {
		return nil, err
	}
	return r.GetByUserID(dbc, userID)
}

func (r *settingsRepo) Mutate(dbc dbctx.Context, userID uuid.UUID, fn func(accessibility.Settings) (accessibility.Settings, error)) (*accessibility.Record, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var out *accessibility.Record
	run := func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: dbc.Context(), Tx: tx}
		now := time.Now().UTC()
		// make sure there is a row to lock, so first writes serialize too
		seed := &accessibility.Record{UserID: userID, Settings: accessibility.Defaults(), CreatedAt: now, UpdatedAt: now}
		if err := r.tx(txc).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
			Create(seed).Error; err != nil {
			return err
		}

		var row accessibility.Record
		if err := r.tx(txc).Unscoped().
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			Limit(1).
			Find(&row).Error; err != nil {
			return err
		}
		current := accessibility.Defaults()
		if row.ID != uuid.Nil && !row.DeletedAt.Valid {
			if n, err := accessibility.Normalize(row.Settings); err == nil {
				current = n
			} else {
				r.log.Warn("Stored settings failed validation, mutating defaults", "user_id", userID, "error", err)
			}
		}

		next, err := fn(current)
		if err != nil {
			return err
		}
		out, err = r.Upsert(txc, userID, next)
		return err
	}

	if dbc.Tx != nil {
		if err := run(dbc.Tx); err != nil {
			return nil, err
		}
		return out, nil
	}
	if err := r.db.WithContext(dbc.Context()).Transaction(run); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *settingsRepo) DeleteByUserID(dbc dbctx.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return nil
	}
	return r.tx(dbc).Where("user_id = ?", userID).Delete(&accessibility.Record{}).Error
}
