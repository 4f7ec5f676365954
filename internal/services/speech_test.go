package services

import (
	"context"
	"errors"
	"testing"

	"github.com/adaptiq/adaptiq-backend/internal/platform/apierr"
	"github.com/adaptiq/adaptiq-backend/internal/platform/gcp"
)

type fakeSTT struct {
	gotMime string
	gotCfg  gcp.SpeechConfig
}

func (f *fakeSTT) Transcribe(_ context.Context, audio []byte, mimeType string, cfg gcp.SpeechConfig) (*gcp.SpeechResult, error) {
	f.gotMime, f.gotCfg = mimeType, cfg
	return &gcp.SpeechResult{Provider: "gcp_speech", Transcript: "two plus two", Confidence: 0.9, IsFinal: true}, nil
}

func (f *fakeSTT) Close() error { return nil }

func TestSpeechServiceTranscribe(t *testing.T) {
	d := newTestDeps(t)
	stt := &fakeSTT{}
	svc := NewSpeechService(d.log, stt)
	ctx, _ := learnerCtx(t)

	got, err := svc.Transcribe(ctx, TranscribeInput{Audio: []byte{1, 2, 3}, MimeType: "audio/webm", Surface: "Lesson"})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if got.Transcript != "two plus two" || stt.gotMime != "audio/webm" || !stt.gotCfg.EnableAutomaticPunctuation {
		t.Fatalf("Transcribe=%+v mime=%q cfg=%+v", got, stt.gotMime, stt.gotCfg)
	}
	if err := svc.Cancel(ctx, "lesson"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
}

func TestSpeechServiceRejects(t *testing.T) {
	d := newTestDeps(t)
	ctx, _ := learnerCtx(t)

	if _, err := NewSpeechService(d.log, nil).Transcribe(ctx, TranscribeInput{Audio: []byte{1}}); !errors.Is(err, apierr.ErrUnavailable) {
		t.Fatalf("nil provider err=%v", err)
	}
	svc := NewSpeechService(d.log, &fakeSTT{})
	if _, err := svc.Transcribe(ctx, TranscribeInput{}); !errors.Is(err, apierr.ErrInvalidArgument) {
		t.Fatalf("empty audio err=%v", err)
	}
	if _, err := svc.Transcribe(ctx, TranscribeInput{Audio: make([]byte, MaxAudioBytes+1)}); !errors.Is(err, apierr.ErrInvalidArgument) {
		t.Fatalf("oversized audio err=%v", err)
	}
	if _, err := svc.Transcribe(context.Background(), TranscribeInput{Audio: []byte{1}}); !errors.Is(err, apierr.ErrUnauthorized) {
		t.Fatalf("anonymous err=%v", err)
	}
}
