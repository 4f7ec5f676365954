package gcp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/adaptiq/adaptiq-backend/internal/platform/envutil"
	"github.com/adaptiq/adaptiq-backend/internal/platform/logger"
)

type StorageMode string

const (
	StorageModeGCS         StorageMode = "gcs"
	StorageModeGCSEmulator StorageMode = "gcs_emulator"
)

// StorageConfig selects real GCS or a fake-gcs-server emulator for the
// audio store.
type StorageConfig struct {
	Mode         StorageMode
	EmulatorHost string
	Bucket       string
}

func (cfg StorageConfig) IsEmulator() bool { return cfg.Mode == StorageModeGCSEmulator }

// StorageConfigFromEnv reads OBJECT_STORAGE_MODE, STORAGE_EMULATOR_HOST and
// TTS_AUDIO_BUCKET. An emulator host without an explicit mode selects the
// emulator.
func StorageConfigFromEnv(log *logger.Logger) (StorageConfig, error) {
	cfg := StorageConfig{
		EmulatorHost: strings.TrimRight(envutil.String("STORAGE_EMULATOR_HOST", "", log), "/"),
		Bucket:       envutil.String("TTS_AUDIO_BUCKET", "", log),
	}
	switch mode := StorageMode(strings.ToLower(envutil.String("OBJECT_STORAGE_MODE", "", log))); mode {
	case "":
		cfg.Mode = StorageModeGCS
		if cfg.EmulatorHost != "" {
			cfg.Mode = StorageModeGCSEmulator
		}
	case StorageModeGCS, StorageModeGCSEmulator:
		cfg.Mode = mode
	default:
		return cfg, fmt.Errorf("invalid OBJECT_STORAGE_MODE=%q (allowed: %q, %q)", mode, StorageModeGCS, StorageModeGCSEmulator)
	}
	return cfg, cfg.Validate()
}

func (cfg StorageConfig) Validate() error {
	switch cfg.Mode {
	case StorageModeGCS:
		return nil
	case StorageModeGCSEmulator:
		if cfg.EmulatorHost == "" {
			return fmt.Errorf("OBJECT_STORAGE_MODE=%q requires STORAGE_EMULATOR_HOST", cfg.Mode)
		}
		u, err := url.Parse(cfg.EmulatorHost)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid STORAGE_EMULATOR_HOST=%q; expected absolute URL like http://fake-gcs:4443", cfg.EmulatorHost)
		}
		return nil
	default:
		return fmt.Errorf("invalid storage mode %q", cfg.Mode)
	}
}
