package gcp

import (
	"context"
	"errors"
	"testing"
	"time"

	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/google/go-cmp/cmp"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/durationpb"

	"github.com/adaptiq/adaptiq-backend/internal/platform/logger"
)

type recognizerFunc func(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error)

func (f recognizerFunc) Recognize(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
	return f(ctx, req)
}

func newTestSpeech(rec recognizer) *speechService {
	return &speechService{log: logger.Nop(), rec: rec, maxRetries: 2, backoff: time.Millisecond}
}

func TestInferEncoding(t *testing.T) {
	cases := map[string]speechpb.RecognitionConfig_AudioEncoding{
		"audio/webm;codecs=opus": speechpb.RecognitionConfig_WEBM_OPUS,
		"audio/wav":              speechpb.RecognitionConfig_LINEAR16,
		"audio/flac":             speechpb.RecognitionConfig_FLAC,
		"audio/mpeg":             speechpb.RecognitionConfig_MP3,
		"audio/ogg":              speechpb.RecognitionConfig_OGG_OPUS,
		"application/x-unknown":  speechpb.RecognitionConfig_ENCODING_UNSPECIFIED,
	}
	for mime, want := range cases {
		if got := inferEncoding(mime); got != want {
			t.Fatalf("inferEncoding(%q)=%v, want %v", mime, got, want)
		}
	}
}

func TestTranscribe(t *testing.T) {
	var seen *speechpb.RecognizeRequest
	s := newTestSpeech(recognizerFunc(func(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
		seen = req
		return &speechpb.RecognizeResponse{Results: []*speechpb.SpeechRecognitionResult{
			{Alternatives: []*speechpb.SpeechRecognitionAlternative{{
				Transcript: " two plus two ",
				Confidence: 0.9,
				Words: []*speechpb.WordInfo{
					{Word: "two", StartTime: durationpb.New(0), EndTime: durationpb.New(500 * time.Millisecond)},
				},
			}}},
			{Alternatives: []*speechpb.SpeechRecognitionAlternative{{Transcript: "is four", Confidence: 0.7}}},
		}}, nil
	}))

	got, err := s.Transcribe(t.Context(), []byte{1, 2, 3}, "audio/webm", SpeechConfig{EnableWordTimeOffsets: true})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if got.Transcript != "two plus two is four" || !got.IsFinal {
		t.Fatalf("Transcribe=%+v", got)
	}
	if got.Confidence < 0.79 || got.Confidence > 0.81 {
		t.Fatalf("Confidence=%v, want ~0.8", got.Confidence)
	}
	if diff := cmp.Diff([]Word{{Text: "two", StartSec: 0, EndSec: 0.5}}, got.Words); diff != "" {
		t.Fatalf("Words mismatch (-want +got):\n%s", diff)
	}
	cfg := seen.GetConfig()
	if cfg.GetLanguageCode() != "en-US" || cfg.GetEncoding() != speechpb.RecognitionConfig_WEBM_OPUS || cfg.GetSampleRateHertz() != 48000 {
		t.Fatalf("config=%v", cfg)
	}
}

func TestTranscribeRetriesUnavailable(t *testing.T) {
	calls := 0
	s := newTestSpeech(recognizerFunc(func(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
		calls++
		if calls == 1 {
			return nil, status.Error(codes.Unavailable, "try again")
		}
		return &speechpb.RecognizeResponse{}, nil
	}))
	got, err := s.Transcribe(t.Context(), []byte{1}, "audio/wav", SpeechConfig{})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if calls != 2 || got.Transcript != "" || len(got.Warnings) != 1 {
		t.Fatalf("calls=%d result=%+v", calls, got)
	}
}

func TestTranscribeStopsOnPermanentError(t *testing.T) {
	calls := 0
	s := newTestSpeech(recognizerFunc(func(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
		calls++
		return nil, status.Error(codes.InvalidArgument, "bad audio")
	}))
	_, err := s.Transcribe(t.Context(), []byte{1}, "audio/wav", SpeechConfig{})
	if status.Code(errors.Unwrap(err)) != codes.InvalidArgument || calls != 1 {
		t.Fatalf("err=%v calls=%d", err, calls)
	}
}

func TestTranscribeEmptyAudio(t *testing.T) {
	s := newTestSpeech(recognizerFunc(func(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
		t.Fatalf("unexpected recognize call")
		return nil, nil
	}))
	got, err := s.Transcribe(t.Context(), nil, "audio/wav", SpeechConfig{})
	if err != nil || got.Transcript != "" {
		t.Fatalf("Transcribe(empty)=(%+v,%v)", got, err)
	}
}
