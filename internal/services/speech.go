package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/adaptiq/adaptiq-backend/internal/platform/apierr"
	"github.com/adaptiq/adaptiq-backend/internal/platform/gcp"
	"github.com/adaptiq/adaptiq-backend/internal/platform/logger"
	"github.com/adaptiq/adaptiq-backend/internal/platform/pending"
)

// MaxAudioBytes is the synchronous recognition limit for one clip.
const MaxAudioBytes = 10 << 20

const defaultSurface = "default"

type TranscribeInput struct {
	Audio    []byte
	MimeType string
	Language string
	// Surface names the widget that recorded the clip; a new clip from the
	// same surface supersedes one still in flight.
	Surface     string
	WordTimings bool
}

type SpeechService interface {
	Transcribe(ctx context.Context, in TranscribeInput) (*gcp.SpeechResult, error)
	// Cancel abandons the in-flight transcription for a surface.
	Cancel(ctx context.Context, surface string) error
}

type speechService struct {
	log   *logger.Logger
	stt   gcp.Speech
	slots *pending.Slots
}

func NewSpeechService(log *logger.Logger, stt gcp.Speech) SpeechService {
	return &speechService{
		log:   log.With("service", "SpeechService"),
		stt:   stt,
		slots: pending.New(),
	}
}

func surfaceOrDefault(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return defaultSurface
	}
	return s
}

func (s *speechService) Transcribe(ctx context.Context, in TranscribeInput) (*gcp.SpeechResult, error) {
	userID, err := learnerID(ctx)
	if err != nil {
		return nil, err
	}
	if s.stt == nil {
		return nil, fmt.Errorf("speech recognition: %w", apierr.ErrUnavailable)
	}
	if len(in.Audio) == 0 {
		return nil, apierr.Invalid("audio required")
	}
	if len(in.Audio) > MaxAudioBytes {
		return nil, apierr.Invalid("audio larger than %d bytes", MaxAudioBytes)
	}
	cfg := gcp.SpeechConfig{
		LanguageCode:               strings.TrimSpace(in.Language),
		EnableAutomaticPunctuation: true,
		EnableWordTimeOffsets:      in.WordTimings,
	}
	key := slotKey(userID, "speech:"+surfaceOrDefault(in.Surface))
	return runLatest(ctx, s.slots, key, func(ctx context.Context) (*gcp.SpeechResult, error) {
		return callProvider("gcp_speech", "transcribe", func() (*gcp.SpeechResult, error) {
			return s.stt.Transcribe(ctx, in.Audio, in.MimeType, cfg)
		})
	})
}

func (s *speechService) Cancel(ctx context.Context, surface string) error {
	userID, err := learnerID(ctx)
	if err != nil {
		return err
	}
	s.slots.Abandon(slotKey(userID, "speech:"+surfaceOrDefault(surface)))
	return nil
}
