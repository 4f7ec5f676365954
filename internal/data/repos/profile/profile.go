package profile

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/adaptiq/adaptiq-backend/internal/domain/learner"
	"github.com/adaptiq/adaptiq-backend/internal/platform/dbctx"
	"github.com/adaptiq/adaptiq-backend/internal/platform/logger"
)

type ProfileRepo interface {
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*learner.ProfileRecord, error)
	Upsert(dbc dbctx.Context, row *learner.ProfileRecord) (*learner.ProfileRecord, error)
	DeleteByUserID(dbc dbctx.Context, userID uuid.UUID) (bool, error)
}

type profileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProfileRepo(db *gorm.DB, baseLog *logger.Logger) ProfileRepo {
	return &profileRepo{db: db, log: baseLog.With("repo", "ProfileRepo")}
}

func (r *profileRepo) tx(dbc dbctx.Context) *gorm.DB {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Context())
}

// GetByUserID returns nil, nil when the learner has no profile.
func (r *profileRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*learner.ProfileRecord, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var row learner.ProfileRecord
	if err := r.tx(dbc).Where("user_id = ?", userID).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

// Upsert writes the row keyed on user_id. A previously deleted profile for the
// same user is revived in place.
func (r *profileRepo) Upsert(dbc dbctx.Context, row *learner.ProfileRecord) (*learner.ProfileRecord, error) {
	if row == nil || row.UserID == uuid.Nil {
		return nil, nil
	}
	now := time.Now().UTC()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now
	err := r.tx(dbc).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"full_name",
				"age",
				"disability_types",
				"learning_preferences",
				"cognitive_profile",
				"performance_history",
				"updated_at",
				"deleted_at",
			}),
		}).
		Create(row).Error
	if err != nil {
		return nil, err
	}
	return r.GetByUserID(dbc, row.UserID)
}

func (r *profileRepo) DeleteByUserID(dbc dbctx.Context, userID uuid.UUID) (bool, error) {
	if userID == uuid.Nil {
		return false, nil
	}
	res := r.tx(dbc).Where("user_id = ?", userID).Delete(&learner.ProfileRecord{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
