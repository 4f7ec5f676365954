package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/adaptiq/adaptiq-backend/internal/platform/apierr"
	"github.com/adaptiq/adaptiq-backend/internal/platform/elevenlabs"
	"github.com/adaptiq/adaptiq-backend/internal/platform/gcp"
	"github.com/adaptiq/adaptiq-backend/internal/platform/logger"
	"github.com/adaptiq/adaptiq-backend/internal/platform/pending"
)

const maxSpeechRunes = 5000

type SpeakInput struct {
	Text          string                   `json:"text"`
	VoiceID       string                   `json:"voiceId"`
	Surface       string                   `json:"surface"`
	VoiceSettings elevenlabs.VoiceSettings `json:"voiceSettings"`
}

// Speech is synthesized audio plus the playback rate the learner chose in
// their accessibility settings.
type Speech struct {
	Audio        []byte
	ContentType  string
	PlaybackRate float64
}

type TTSService interface {
	Speak(ctx context.Context, in SpeakInput) (*Speech, error)
	// Stop abandons the in-flight synthesis for a surface.
	Stop(ctx context.Context, surface string) error
	Voices(ctx context.Context) ([]elevenlabs.Voice, error)
}

type ttsService struct {
	log      *logger.Logger
	tts      elevenlabs.Client
	settings SettingsService
	store    gcp.AudioStore
	slots    *pending.Slots
}

// NewTTSService accepts a nil store; synthesized audio is then never cached.
func NewTTSService(log *logger.Logger, tts elevenlabs.Client, settings SettingsService, store gcp.AudioStore) TTSService {
	return &ttsService{
		log:      log.With("service", "TTSService"),
		tts:      tts,
		settings: settings,
		store:    store,
		slots:    pending.New(),
	}
}

func audioKey(in SpeakInput) string {
	vs, _ := json.Marshal(in.VoiceSettings)
	h := sha256.New()
	h.Write([]byte(in.VoiceID))
	h.Write([]byte{0})
	h.Write(vs)
	h.Write([]byte{0})
	h.Write([]byte(in.Text))
	return hex.EncodeToString(h.Sum(nil)) + ".mp3"
}

func (s *ttsService) synthesize(ctx context.Context, in SpeakInput) ([]byte, error) {
	var key string
	if s.store != nil {
		key = audioKey(in)
		audio, ok, err := s.store.Get(ctx, key)
		switch {
		case err != nil:
			s.log.Warn("Audio store lookup failed", "key", key, "error", err)
		case ok:
			return audio, nil
		}
	}
	audio, err := callProvider("elevenlabs", "synthesize", func() ([]byte, error) {
		return s.tts.Synthesize(ctx, in.Text, in.VoiceID, in.VoiceSettings)
	})
	if err != nil {
		return nil, err
	}
	if s.store != nil {
		if err := s.store.Put(ctx, key, "audio/mpeg", audio); err != nil {
			s.log.Warn("Audio store write failed", "key", key, "error", err)
		}
	}
	return audio, nil
}

func (s *ttsService) Speak(ctx context.Context, in SpeakInput) (*Speech, error) {
	userID, err := learnerID(ctx)
	if err != nil {
		return nil, err
	}
	if s.tts == nil {
		return nil, fmt.Errorf("text to speech: %w", apierr.ErrUnavailable)
	}
	in.Text = strings.TrimSpace(in.Text)
	if in.Text == "" {
		return nil, apierr.Invalid("text required")
	}
	if n := len([]rune(in.Text)); n > maxSpeechRunes {
		return nil, apierr.Invalid("text longer than %d characters (%d)", maxSpeechRunes, n)
	}

	rate := 1.0
	if s.settings != nil {
		st, err := s.settings.ForUser(ctx, userID)
		if err != nil {
			s.log.Warn("Settings lookup for playback rate failed", "user_id", userID, "error", err)
		} else {
			rate = st.AudioSpeed
		}
	}

	key := slotKey(userID, "tts:"+surfaceOrDefault(in.Surface))
	audio, err := runLatest(ctx, s.slots, key, func(ctx context.Context) ([]byte, error) {
		return s.synthesize(ctx, in)
	})
	if err != nil {
		return nil, err
	}
	return &Speech{Audio: audio, ContentType: "audio/mpeg", PlaybackRate: rate}, nil
}

func (s *ttsService) Stop(ctx context.Context, surface string) error {
	userID, err := learnerID(ctx)
	if err != nil {
		return err
	}
	s.slots.Abandon(slotKey(userID, "tts:"+surfaceOrDefault(surface)))
	return nil
}

func (s *ttsService) Voices(ctx context.Context) ([]elevenlabs.Voice, error) {
	if s.tts == nil {
		return nil, fmt.Errorf("text to speech: %w", apierr.ErrUnavailable)
	}
	return callProvider("elevenlabs", "voices", func() ([]elevenlabs.Voice, error) {
		return s.tts.Voices(ctx)
	})
}
