package gcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/adaptiq/adaptiq-backend/internal/platform/ctxutil"
	"github.com/adaptiq/adaptiq-backend/internal/platform/logger"
)

type Speech interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string, cfg SpeechConfig) (*SpeechResult, error)
	Close() error
}

type SpeechConfig struct {
	LanguageCode               string
	Model                      string
	EnableAutomaticPunctuation bool
	EnableWordTimeOffsets      bool
	SampleRateHertz            int
	Encoding                   speechpb.RecognitionConfig_AudioEncoding
}

type Word struct {
	Text       string  `json:"text"`
	StartSec   float64 `json:"start_sec"`
	EndSec     float64 `json:"end_sec"`
	Confidence float64 `json:"confidence,omitempty"`
}

type SpeechResult struct {
	Provider   string   `json:"provider"`
	Transcript string   `json:"transcript"`
	Confidence float64  `json:"confidence"`
	IsFinal    bool     `json:"is_final"`
	Words      []Word   `json:"words,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
}

// recognizer is the slice of the generated client this package calls.
type recognizer interface {
	Recognize(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error)
}

type clientRecognizer struct{ c *speech.Client }

func (r clientRecognizer) Recognize(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
	return r.c.Recognize(ctx, req)
}

type speechService struct {
	log        *logger.Logger
	client     *speech.Client
	rec        recognizer
	maxRetries int
	backoff    time.Duration
}

func NewSpeech(log *logger.Logger) (Speech, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	c, err := speech.NewClient(context.Background(), ClientOptionsFromEnv()...)
	if err != nil {
		return nil, fmt.Errorf("speech client: %w", err)
	}
	return &speechService{
		log:        log.With("service", "gcp.Speech"),
		client:     c,
		rec:        clientRecognizer{c: c},
		maxRetries: 3,
		backoff:    750 * time.Millisecond,
	}, nil
}

func (s *speechService) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

// Transcribe runs synchronous recognition, suited to the short clips the
// speech-input widget records.
func (s *speechService) Transcribe(ctx context.Context, audio []byte, mimeType string, cfg SpeechConfig) (*SpeechResult, error) {
	ctx = ctxutil.Default(ctx)
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	if len(audio) == 0 {
		return &SpeechResult{Provider: "gcp_speech", IsFinal: true}, nil
	}
	req := &speechpb.RecognizeRequest{
		Config: buildRecognitionConfig(mimeType, cfg),
		Audio:  &speechpb.RecognitionAudio{AudioSource: &speechpb.RecognitionAudio_Content{Content: audio}},
	}

	var resp *speechpb.RecognizeResponse
	backoff := s.backoff
	for attempt := 0; ; attempt++ {
		var err error
		resp, err = s.rec.Recognize(ctx, req)
		if err == nil {
			break
		}
		code := status.Code(err)
		retryable := code == codes.Unavailable || code == codes.ResourceExhausted || code == codes.DeadlineExceeded
		if !retryable || attempt >= s.maxRetries {
			return nil, fmt.Errorf("speech recognize: %w", err)
		}
		s.log.Warn("Speech recognize retrying", "attempt", attempt+1, "code", code.String())
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > 10*time.Second {
			backoff = 10 * time.Second
		}
	}
	return parseRecognizeResponse(resp, cfg.EnableWordTimeOffsets), nil
}

func buildRecognitionConfig(mimeType string, cfg SpeechConfig) *speechpb.RecognitionConfig {
	if cfg.LanguageCode == "" {
		cfg.LanguageCode = "en-US"
	}
	enc := cfg.Encoding
	if enc == speechpb.RecognitionConfig_ENCODING_UNSPECIFIED {
		enc = inferEncoding(mimeType)
	}
	rate := cfg.SampleRateHertz
	if rate < 0 {
		rate = 0
	}
	if rate == 0 && enc == speechpb.RecognitionConfig_WEBM_OPUS {
		rate = 48000
	}
	return &speechpb.RecognitionConfig{
		LanguageCode:               cfg.LanguageCode,
		Model:                      cfg.Model,
		EnableAutomaticPunctuation: cfg.EnableAutomaticPunctuation,
		EnableWordTimeOffsets:      cfg.EnableWordTimeOffsets,
		Encoding:                   enc,
		SampleRateHertz:            int32(rate),
	}
}

func inferEncoding(mimeType string) speechpb.RecognitionConfig_AudioEncoding {
	m := strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case strings.Contains(m, "webm"):
		return speechpb.RecognitionConfig_WEBM_OPUS
	case strings.Contains(m, "wav"):
		return speechpb.RecognitionConfig_LINEAR16
	case strings.Contains(m, "flac"):
		return speechpb.RecognitionConfig_FLAC
	case strings.Contains(m, "mp3") || strings.Contains(m, "mpeg"):
		return speechpb.RecognitionConfig_MP3
	case strings.Contains(m, "ogg"):
		return speechpb.RecognitionConfig_OGG_OPUS
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED
	}
}

func parseRecognizeResponse(resp *speechpb.RecognizeResponse, wantWords bool) *SpeechResult {
	out := &SpeechResult{Provider: "gcp_speech", IsFinal: true}
	if resp == nil {
		return out
	}
	var full strings.Builder
	var confSum float64
	var confN int
	for _, r := range resp.GetResults() {
		if len(r.GetAlternatives()) == 0 {
			continue
		}
		alt := r.GetAlternatives()[0]
		text := strings.TrimSpace(alt.GetTranscript())
		if text == "" {
			continue
		}
		if full.Len() > 0 {
			full.WriteString(" ")
		}
		full.WriteString(text)
		if c := alt.GetConfidence(); c > 0 {
			confSum += float64(c)
			confN++
		}
		if !wantWords {
			continue
		}
		for _, w := range alt.GetWords() {
			out.Words = append(out.Words, Word{
				Text:       w.GetWord(),
				StartSec:   w.GetStartTime().AsDuration().Seconds(),
				EndSec:     w.GetEndTime().AsDuration().Seconds(),
				Confidence: float64(w.GetConfidence()),
			})
		}
	}
	out.Transcript = full.String()
	if confN > 0 {
		out.Confidence = confSum / float64(confN)
	}
	if out.Transcript == "" {
		out.Warnings = append(out.Warnings, "no speech recognized")
	}
	return out
}
