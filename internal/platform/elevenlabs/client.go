// Package elevenlabs wraps the ElevenLabs text-to-speech REST API.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/adaptiq/adaptiq-backend/internal/platform/ctxutil"
	"github.com/adaptiq/adaptiq-backend/internal/platform/envutil"
	"github.com/adaptiq/adaptiq-backend/internal/platform/httpx"
	"github.com/adaptiq/adaptiq-backend/internal/platform/logger"
)

const (
	DefaultBaseURL = "https://api.elevenlabs.io"
	DefaultVoiceID = "pNInz6obpgDQGcFmaJgB"
	DefaultModelID = "eleven_monolingual_v1"

	maxTextRunes  = 5000
	maxRetryAfter = 10 * time.Second
)

type Config struct {
	APIKey     string
	BaseURL    string
	VoiceID    string
	ModelID    string
	Timeout    time.Duration
	MaxRetries int
	RetryBase  time.Duration
}

func ConfigFromEnv(log *logger.Logger) Config {
	return Config{
		APIKey:     envutil.String("ELEVENLABS_API_KEY", "", log),
		BaseURL:    envutil.String("ELEVENLABS_BASE_URL", DefaultBaseURL, log),
		VoiceID:    envutil.String("ELEVENLABS_VOICE_ID", DefaultVoiceID, log),
		ModelID:    envutil.String("ELEVENLABS_MODEL_ID", DefaultModelID, log),
		Timeout:    envutil.Duration("ELEVENLABS_TIMEOUT", 30*time.Second, log),
		MaxRetries: envutil.Int("ELEVENLABS_MAX_RETRIES", 2, log),
	}
}

// VoiceSettings zero values fall back to stability 0.5, similarity 0.5,
// style 0 with speaker boost on.
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost *bool   `json:"use_speaker_boost,omitempty"`
}

type Voice struct {
	VoiceID    string            `json:"voice_id"`
	Name       string            `json:"name"`
	Category   string            `json:"category,omitempty"`
	PreviewURL string            `json:"preview_url,omitempty"`
	Labels     map[string]string `json:"labels,omitempty"`
}

type Client interface {
	Synthesize(ctx context.Context, text, voiceID string, vs VoiceSettings) ([]byte, error)
	Voices(ctx context.Context) ([]Voice, error)
}

type client struct {
	log        *logger.Logger
	apiKey     string
	baseURL    string
	voiceID    string
	modelID    string
	httpClient *http.Client
	maxRetries int
	retryBase  time.Duration
}

func NewClient(cfg Config, log *logger.Logger) (Client, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return NewWithHTTPClient(cfg, &http.Client{Timeout: cfg.Timeout}, log)
}

func NewWithHTTPClient(cfg Config, hc *http.Client, log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing ELEVENLABS_API_KEY")
	}
	if hc == nil {
		return nil, fmt.Errorf("http client required")
	}
	c := &client{
		log:        log.With("service", "ElevenLabsClient"),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		voiceID:    strings.TrimSpace(cfg.VoiceID),
		modelID:    strings.TrimSpace(cfg.ModelID),
		httpClient: hc,
		maxRetries: cfg.MaxRetries,
		retryBase:  cfg.RetryBase,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.voiceID == "" {
		c.voiceID = DefaultVoiceID
	}
	if c.modelID == "" {
		c.modelID = DefaultModelID
	}
	if c.maxRetries < 0 {
		c.maxRetries = 0
	}
	if c.retryBase <= 0 {
		c.retryBase = 500 * time.Millisecond
	}
	return c, nil
}

type HTTPError struct {
	StatusCode int
	Body       string
	// RetryAfter is the server's requested backoff on 429/503, capped.
	RetryAfter time.Duration
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("elevenlabs http %d: %s", e.StatusCode, e.Body)
}

func (e *HTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

type synthesizeRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
}

func withDefaults(vs VoiceSettings) VoiceSettings {
	if vs.Stability <= 0 {
		vs.Stability = 0.5
	}
	if vs.SimilarityBoost <= 0 {
		vs.SimilarityBoost = 0.5
	}
	if vs.Style < 0 {
		vs.Style = 0
	}
	if vs.UseSpeakerBoost == nil {
		on := true
		vs.UseSpeakerBoost = &on
	}
	return vs
}

// Synthesize returns audio/mpeg bytes.
func (c *client) Synthesize(ctx context.Context, text, voiceID string, vs VoiceSettings) ([]byte, error) {
	ctx = ctxutil.Default(ctx)
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("text required")
	}
	if n := len([]rune(text)); n > maxTextRunes {
		return nil, fmt.Errorf("text too long: %d characters (max %d)", n, maxTextRunes)
	}
	if strings.TrimSpace(voiceID) == "" {
		voiceID = c.voiceID
	}
	body := synthesizeRequest{Text: text, ModelID: c.modelID, VoiceSettings: withDefaults(vs)}
	path := "/v1/text-to-speech/" + url.PathEscape(voiceID)

	var audio []byte
	err := c.retry(ctx, path, func(ctx context.Context) error {
		raw, err := c.do(ctx, http.MethodPost, path, "audio/mpeg", body)
		if err != nil {
			return err
		}
		audio = raw
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("elevenlabs synthesize: %w", err)
	}
	return audio, nil
}

type voicesResponse struct {
	Voices []Voice `json:"voices"`
}

func (c *client) Voices(ctx context.Context) ([]Voice, error) {
	ctx = ctxutil.Default(ctx)
	var out voicesResponse
	err := c.retry(ctx, "/v1/voices", func(ctx context.Context) error {
		raw, err := c.do(ctx, http.MethodGet, "/v1/voices", "application/json", nil)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(raw, &out); err != nil {
			return fmt.Errorf("elevenlabs decode error: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("elevenlabs voices: %w", err)
	}
	if out.Voices == nil {
		out.Voices = []Voice{}
	}
	return out.Voices, nil
}

func (c *client) retry(ctx context.Context, path string, fn func(ctx context.Context) error) error {
	attempt := 0
	return httpx.Retry(ctx, c.maxRetries+1, c.retryBase, func(ctx context.Context) error {
		attempt++
		err := fn(ctx)
		if err != nil && httpx.IsRetryableError(err) && attempt <= c.maxRetries {
			c.log.Warn("ElevenLabs request retrying",
				"path", path,
				"attempt", attempt,
				"max_retries", c.maxRetries,
				"error", err.Error(),
			)
			var he *HTTPError
			if errors.As(err, &he) && he.RetryAfter > 0 {
				select {
				case <-time.After(he.RetryAfter):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
		return err
	})
}

func (c *client) do(ctx context.Context, method, path, accept string, body any) ([]byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Accept", accept)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		he := &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable {
			he.RetryAfter = httpx.RetryAfterDuration(resp, 0, maxRetryAfter)
		}
		return nil, he
	}
	return raw, nil
}
