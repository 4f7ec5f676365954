package app

import (
	"github.com/adaptiq/adaptiq-backend/internal/platform/elevenlabs"
	"github.com/adaptiq/adaptiq-backend/internal/platform/gcp"
	"github.com/adaptiq/adaptiq-backend/internal/platform/logger"
	"github.com/adaptiq/adaptiq-backend/internal/platform/ollama"
)

// Clients are the external AI providers. Each is optional; an unconfigured
// provider stays nil and the endpoints that need it report unavailable.
type Clients struct {
	LLM        ollama.Client
	TTS        elevenlabs.Client
	Speech     gcp.Speech
	AudioStore gcp.AudioStore
}

func wireClients(log *logger.Logger, cfg Config) Clients {
	log.Info("Wiring clients...")
	var out Clients

	// Ollama
	if llm, err := ollama.NewClient(ollama.ConfigFromEnv(log), log); err != nil {
		log.Warn("Local LLM disabled", "error", err)
	} else {
		out.LLM = llm
	}

	// ElevenLabs
	if ttsCfg := elevenlabs.ConfigFromEnv(log); ttsCfg.APIKey != "" {
		if tts, err := elevenlabs.NewClient(ttsCfg, log); err != nil {
			log.Warn("Text to speech disabled", "error", err)
		} else {
			out.TTS = tts
		}
	} else {
		log.Info("Text to speech disabled: ELEVENLABS_API_KEY not set")
	}

	// Gcp
	if cfg.SpeechEnabled {
		if stt, err := gcp.NewSpeech(log); err != nil {
			log.Warn("Speech recognition disabled", "error", err)
		} else {
			out.Speech = stt
		}
	}
	if storeCfg, err := gcp.StorageConfigFromEnv(log); err != nil {
		log.Warn("Audio store disabled", "error", err)
	} else if storeCfg.Bucket != "" {
		if store, err := gcp.NewAudioStore(log, storeCfg); err != nil {
			log.Warn("Audio store disabled", "error", err)
		} else {
			out.AudioStore = store
		}
	}
	return out
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Speech != nil {
		_ = c.Speech.Close()
	}
	if c.AudioStore != nil {
		_ = c.AudioStore.Close()
	}
}
