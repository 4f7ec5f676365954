// Package ollama is a small client for a local Ollama server's generate API.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/adaptiq/adaptiq-backend/internal/platform/ctxutil"
	"github.com/adaptiq/adaptiq-backend/internal/platform/envutil"
	"github.com/adaptiq/adaptiq-backend/internal/platform/httpx"
	"github.com/adaptiq/adaptiq-backend/internal/platform/logger"
)

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "gemma:2b"
)

type Config struct {
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
	RetryBase  time.Duration
}

func ConfigFromEnv(log *logger.Logger) Config {
	return Config{
		BaseURL:    envutil.String("OLLAMA_BASE_URL", DefaultBaseURL, log),
		Model:      envutil.String("OLLAMA_MODEL", DefaultModel, log),
		Timeout:    envutil.Duration("OLLAMA_TIMEOUT", 60*time.Second, log),
		MaxRetries: envutil.Int("OLLAMA_MAX_RETRIES", 2, log),
	}
}

type GenerateOptions struct {
	System      string
	Temperature float64
	MaxTokens   int
}

type Client interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
	SimplifyContent(ctx context.Context, content, disabilityType, ageGroup string) (string, error)
	AlternativeExplanation(ctx context.Context, concept, current, learningStyle string) (string, error)
}

type client struct {
	log        *logger.Logger
	baseURL    string
	model      string
	httpClient *http.Client
	maxRetries int
	retryBase  time.Duration
}

func NewClient(cfg Config, log *logger.Logger) (Client, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return NewWithHTTPClient(cfg, &http.Client{Timeout: cfg.Timeout}, log)
}

func NewWithHTTPClient(cfg Config, hc *http.Client, log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if hc == nil {
		return nil, fmt.Errorf("http client required")
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = 500 * time.Millisecond
	}
	return &client{
		log:        log.With("service", "OllamaClient", "model", model),
		baseURL:    base,
		model:      model,
		httpClient: hc,
		maxRetries: cfg.MaxRetries,
		retryBase:  cfg.RetryBase,
	}, nil
}

type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("ollama http %d: %s", e.StatusCode, e.Body)
}

func (e *HTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	System  string          `json:"system"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func (c *client) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	ctx = ctxutil.Default(ctx)
	if opts.Temperature <= 0 {
		opts.Temperature = 0.7
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 500
	}
	req := generateRequest{
		Model:  c.model,
		Prompt: prompt,
		System: opts.System,
		Stream: false,
		Options: generateOptions{
			Temperature: opts.Temperature,
			NumPredict:  opts.MaxTokens,
		},
	}

	var out generateResponse
	attempt := 0
	err := httpx.Retry(ctx, c.maxRetries+1, c.retryBase, func(ctx context.Context) error {
		attempt++
		err := c.doJSON(ctx, http.MethodPost, "/api/generate", req, &out)
		if err != nil && httpx.IsRetryableError(err) && attempt <= c.maxRetries {
			c.log.Warn("Ollama request retrying", "attempt", attempt, "max_retries", c.maxRetries, "error", err.Error())
		}
		return err
	})
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	return strings.TrimSpace(out.Response), nil
}

func (c *client) SimplifyContent(ctx context.Context, content, disabilityType, ageGroup string) (string, error) {
	return c.Generate(ctx, content, GenerateOptions{
		System:      simplifySystemPrompt(disabilityType, ageGroup),
		Temperature: 0.3,
	})
}

func (c *client) AlternativeExplanation(ctx context.Context, concept, current, learningStyle string) (string, error) {
	return c.Generate(ctx, alternativePrompt(concept, current, learningStyle), GenerateOptions{
		Temperature: 0.5,
	})
}

func simplifySystemPrompt(disabilityType, ageGroup string) string {
	return fmt.Sprintf(`You are an AI assistant specialized in making educational content accessible for children with disabilities.
Simplify the following content for a %s year old child with %s.

Guidelines:
- Use simple, clear language
- Break down complex concepts into smaller parts
- Add visual descriptions where helpful
- Make it engaging and age-appropriate
- Ensure the core learning objectives are maintained`, ageGroup, disabilityType)
}

func alternativePrompt(concept, current, learningStyle string) string {
	return fmt.Sprintf(`Current explanation: %q

Generate an alternative explanation of %q that caters to %s learning style.
Make it more engaging and easier to understand.`, current, concept, learningStyle)
}

func (c *client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("ollama decode error: %w; raw=%s", err, string(raw))
	}
	return nil
}
