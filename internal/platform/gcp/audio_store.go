package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/adaptiq/adaptiq-backend/internal/platform/logger"
)

// maxStoredAudio bounds a cached object read back into memory.
const maxStoredAudio = 32 << 20

// AudioStore keeps synthesized speech so repeated requests for the same text
// and voice skip the provider.
type AudioStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key, contentType string, audio []byte) error
	Close() error
}

type audioStore struct {
	log    *logger.Logger
	client *storage.Client
	bucket string
	prefix string
}

func NewAudioStore(log *logger.Logger, cfg StorageConfig) (AudioStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("audio store bucket required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c, err := newStorageClient(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}
	storeLog := log.With("service", "gcp.AudioStore")
	storeLog.Info("Audio store initialized", "mode", cfg.Mode, "bucket", cfg.Bucket, "emulator_host", cfg.EmulatorHost)
	return &audioStore{log: storeLog, client: c, bucket: cfg.Bucket, prefix: "tts/"}, nil
}

func newStorageClient(ctx context.Context, cfg StorageConfig) (*storage.Client, error) {
	if cfg.IsEmulator() {
		// the storage client reads the emulator endpoint from the environment
		_ = os.Setenv("STORAGE_EMULATOR_HOST", cfg.EmulatorHost)
		return storage.NewClient(ctx, option.WithoutAuthentication())
	}
	opts := append(ClientOptionsFromEnv(), option.WithScopes(storage.ScopeReadWrite))
	return storage.NewClient(ctx, opts...)
}

func (s *audioStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	r, err := s.client.Bucket(s.bucket).Object(s.prefix + key).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("open audio %q: %w", key, err)
	}
	defer r.Close()
	b, err := io.ReadAll(io.LimitReader(r, maxStoredAudio))
	if err != nil {
		return nil, false, fmt.Errorf("read audio %q: %w", key, err)
	}
	return b, true, nil
}

func (s *audioStore) Put(ctx context.Context, key, contentType string, audio []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	w := s.client.Bucket(s.bucket).Object(s.prefix + key).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=31536000, immutable"
	if _, err := w.Write(audio); err != nil {
		_ = w.Close()
		return fmt.Errorf("write audio %q: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize audio %q: %w", key, err)
	}
	return nil
}

func (s *audioStore) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}
