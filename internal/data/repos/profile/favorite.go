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

type FavoriteRepo interface {
	ListByUserID(dbc dbctx.Context, userID uuid.UUID) ([]string, error)
	Add(dbc dbctx.Context, userID uuid.UUID, word string) error
	Remove(dbc dbctx.Context, userID uuid.UUID, word string) (bool, error)
	Exists(dbc dbctx.Context, userID uuid.UUID, word string) (bool, error)
	DeleteByUserID(dbc dbctx.Context, userID uuid.UUID) error
}

type favoriteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFavoriteRepo(db *gorm.DB, baseLog *logger.Logger) FavoriteRepo {
	return &favoriteRepo{db: db, log: baseLog.With("repo", "FavoriteRepo")}
}

func (r *favoriteRepo) tx(dbc dbctx.Context) *gorm.DB {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Context())
}

// ListByUserID returns starred words oldest first.
func (r *favoriteRepo) ListByUserID(dbc dbctx.Context, userID uuid.UUID) ([]string, error) {
	words := []string{}
	if userID == uuid.Nil {
		return words, nil
	}
	err := r.tx(dbc).
		Model(&learner.FavoriteSign{}).
		Where("user_id = ?", userID).
		Order("created_at ASC, word ASC").
		Pluck("word", &words).Error
	if err != nil {
		return nil, err
	}
	return words, nil
}

// Add is idempotent.
func (r *favoriteRepo) Add(dbc dbctx.Context, userID uuid.UUID, word string) error {
	if userID == uuid.Nil || word == "" {
		return nil
	}
	row := &learner.FavoriteSign{UserID: userID, Word: word, CreatedAt: time.Now().UTC()}
	return r.tx(dbc).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "word"}},
			DoNothing: true,
		}).
		Create(row).Error
}

func (r *favoriteRepo) Remove(dbc dbctx.Context, userID uuid.UUID, word string) (bool, error) {
	if userID == uuid.Nil || word == "" {
		return false, nil
	}
	res := r.tx(dbc).Where("user_id = ? AND word = ?", userID, word).Delete(&learner.FavoriteSign{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *favoriteRepo) Exists(dbc dbctx.Context, userID uuid.UUID, word string) (bool, error) {
	if userID == uuid.Nil || word == "" {
		return false, nil
	}
	var n int64
	err := r.tx(dbc).
		Model(&learner.FavoriteSign{}).
		Where("user_id = ? AND word = ?", userID, word).
		Count(&n).Error
	return n > 0, err
}

func (r *favoriteRepo) DeleteByUserID(dbc dbctx.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return nil
	}
	return r.tx(dbc).Where("user_id = ?", userID).Delete(&learner.FavoriteSign{}).Error
}
