package accessibility

import (
	"bytes"
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adaptiq/adaptiq-backend/internal/platform/apierr"
)

type TextSize string

const (
	TextNormal     TextSize = "normal"
	TextLarge      TextSize = "large"
	TextExtraLarge TextSize = "extra-large"
)

type Contrast string

const (
	ContrastNormal    Contrast = "normal"
	ContrastHigh      Contrast = "high"
	ContrastExtraHigh Contrast = "extra-high"
)

type FocusIndicators string

const (
	FocusNormal        FocusIndicators = "normal"
	FocusEnhanced      FocusIndicators = "enhanced"
	FocusExtraEnhanced FocusIndicators = "extra-enhanced"
)

const (
	MinAudioSpeed = 0.5
	MaxAudioSpeed = 2.0
)

// Settings are the learner-toggled display, audio and motor preferences.
type Settings struct {
	TextSize            TextSize        `json:"textSize"`
	Contrast            Contrast        `json:"contrast"`
	AudioEnabled        bool            `json:"audioEnabled"`
	AudioSpeed          float64         `json:"audioSpeed"`
	ReducedMotion       bool            `json:"reducedMotion"`
	SimplifiedInterface bool            `json:"simplifiedInterface"`
	ColorBlindFriendly  bool            `json:"colorBlindFriendly"`
	FocusIndicators     FocusIndicators `json:"focusIndicators"`
	AutoRead            bool            `json:"autoRead"`
	SignLanguage        bool            `json:"signLanguage"`
	MotorAssistance     bool            `json:"motorAssistance"`
	KeyboardNavigation  bool            `json:"keyboardNavigation"`
}

// Defaults are what a learner gets before touching the accessibility panel.
func Defaults() Settings {
	return Settings{
		TextSize:        TextNormal,
		Contrast:        ContrastNormal,
		AudioSpeed:      1,
		FocusIndicators: FocusNormal,
	}
}

// Normalize clamps numeric fields into their declared ranges and rejects enum
// values outside their option sets. Empty enums fall back to the defaults.
func Normalize(s Settings) (Settings, error) {
	def := Defaults()
	if s.TextSize == "" {
		s.TextSize = def.TextSize
	}
	if s.Contrast == "" {
		s.Contrast = def.Contrast
	}
	if s.FocusIndicators == "" {
		s.FocusIndicators = def.FocusIndicators
	}
	switch s.TextSize {
	case TextNormal, TextLarge, TextExtraLarge:
	default:
		return Settings{}, apierr.Invalid("unknown textSize %q", s.TextSize)
	}
	switch s.Contrast {
	case ContrastNormal, ContrastHigh, ContrastExtraHigh:
	default:
		return Settings{}, apierr.Invalid("unknown contrast %q", s.Contrast)
	}
	switch s.FocusIndicators {
	case FocusNormal, FocusEnhanced, FocusExtraEnhanced:
	default:
		return Settings{}, apierr.Invalid("unknown focusIndicators %q", s.FocusIndicators)
	}
	switch {
	case math.IsNaN(s.AudioSpeed):
		s.AudioSpeed = def.AudioSpeed
	case s.AudioSpeed < MinAudioSpeed:
		s.AudioSpeed = MinAudioSpeed
	case s.AudioSpeed > MaxAudioSpeed:
		s.AudioSpeed = MaxAudioSpeed
	}
	return s, nil
}

// Apply updates the fields named in patch (JSON field names) and
// re-normalizes. Unknown keys are rejected; a null value leaves the field as
// it was.
func Apply(s Settings, patch map[string]json.RawMessage) (Settings, error) {
	if len(patch) == 0 {
		return Settings{}, apierr.Invalid("no settings provided")
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return Settings{}, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Settings{}, err
	}
	for k, v := range patch {
		if _, ok := fields[k]; !ok {
			return Settings{}, apierr.Invalid("unknown setting %q", k)
		}
		if string(bytes.TrimSpace(v)) == "null" {
			continue
		}
		fields[k] = v
	}
	merged, err := json.Marshal(fields)
	if err != nil {
		return Settings{}, err
	}
	var out Settings
	if err := json.Unmarshal(merged, &out); err != nil {
		return Settings{}, apierr.Invalid("bad setting value: %v", err)
	}
	return Normalize(out)
}

// Record persists one learner's settings.
type Record struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Settings  `gorm:"embedded;embeddedPrefix:setting_"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Record) TableName() string { return "accessibility_settings" }

func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
