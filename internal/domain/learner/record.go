package learner

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProfileRecord is the persisted form of a learner profile, one per user.
type ProfileRecord struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	FullName string    `gorm:"column:full_name" json:"full_name"`
	Age      int       `gorm:"column:age" json:"age"`

	DisabilityTypes     datatypes.JSONSlice[DisabilityType]     `gorm:"column:disability_types" json:"disability_types"`
	LearningPreferences datatypes.JSONType[LearningPreferences] `gorm:"column:learning_preferences" json:"learning_preferences"`
	CognitiveProfile    datatypes.JSONType[CognitiveProfile]    `gorm:"column:cognitive_profile" json:"cognitive_profile"`
	PerformanceHistory  datatypes.JSONType[PerformanceHistory]  `gorm:"column:performance_history" json:"performance_history"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ProfileRecord) TableName() string { return "learner_profile" }

func (r *ProfileRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Profile projects the record onto the engine's input type.
func (r *ProfileRecord) Profile() Profile {
	if r == nil {
		return Profile{}
	}
	tags := make([]DisabilityType, len(r.DisabilityTypes))
	copy(tags, r.DisabilityTypes)
	return Profile{
		ID:                  r.UserID.String(),
		DisabilityTypes:     tags,
		LearningPreferences: r.LearningPreferences.Data(),
		CognitiveProfile:    r.CognitiveProfile.Data(),
		PerformanceHistory:  r.PerformanceHistory.Data(),
	}
}

// Apply copies the engine-facing fields of p onto the record.
func (r *ProfileRecord) Apply(p Profile) {
	r.DisabilityTypes = datatypes.NewJSONSlice(p.DisabilityTypes)
	r.LearningPreferences = datatypes.NewJSONType(p.LearningPreferences)
	r.CognitiveProfile = datatypes.NewJSONType(p.CognitiveProfile)
	r.PerformanceHistory = datatypes.NewJSONType(p.PerformanceHistory)
}

// FavoriteSign is one dictionary word a learner starred.
type FavoriteSign struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_sign_user_word" json:"user_id"`
	Word      string    `gorm:"not null;uniqueIndex:idx_favorite_sign_user_word" json:"word"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (FavoriteSign) TableName() string { return "favorite_sign" }

func (f *FavoriteSign) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
