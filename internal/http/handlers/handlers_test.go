package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/adaptiq/adaptiq-backend/internal/platform/apierr"
	"github.com/adaptiq/adaptiq-backend/internal/platform/elevenlabs"
	"github.com/adaptiq/adaptiq-backend/internal/platform/gcp"
	"github.com/adaptiq/adaptiq-backend/internal/services"
)

type fakeSpeech struct {
	got       services.TranscribeInput
	cancelled string
}

func (f *fakeSpeech) Transcribe(_ context.Context, in services.TranscribeInput) (*gcp.SpeechResult, error) {
	f.got = in
	return &gcp.SpeechResult{Provider: "fake", Transcript: "hello", IsFinal: true}, nil
}

func (f *fakeSpeech) Cancel(_ context.Context, surface string) error {
	f.cancelled = surface
	return nil
}

type fakeTTS struct {
	err error
}

func (f *fakeTTS) Speak(_ context.Context, in services.SpeakInput) (*services.Speech, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &services.Speech{Audio: []byte("ID3" + in.Text), ContentType: "audio/mpeg", PlaybackRate: 1.25}, nil
}

func (f *fakeTTS) Stop(context.Context, string) error { return nil }

func (f *fakeTTS) Voices(context.Context) ([]elevenlabs.Voice, error) {
	return []elevenlabs.Voice{{VoiceID: "v1", Name: "Rachel"}}, nil
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestSpeechHandlerTranscribe(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakeSpeech{}
	h := NewSpeechHandler(svc)
	r := gin.New()
	r.POST("/speech/transcribe", h.Transcribe)
	r.POST("/speech/cancel", h.Cancel)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {`form-data; name="audio"; filename="clip.webm"`},
		"Content-Type":        {"audio/webm"},
	})
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	_, _ = part.Write([]byte{0x1a, 0x45, 0xdf, 0xa3})
	_ = mw.WriteField("language", "en-GB")
	_ = mw.WriteField("surface", "quiz")
	_ = mw.WriteField("wordTimings", "true")
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/speech/transcribe", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := serve(r, req)

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"transcript":"hello"`) {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if len(svc.got.Audio) != 4 || svc.got.MimeType != "audio/webm" || svc.got.Language != "en-GB" || svc.got.Surface != "quiz" || !svc.got.WordTimings {
		t.Fatalf("service input=%+v", svc.got)
	}

	rec = serve(r, httptest.NewRequest(http.MethodPost, "/speech/transcribe", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing audio status=%d", rec.Code)
	}

	rec = serve(r, httptest.NewRequest(http.MethodPost, "/speech/cancel?surface=quiz", nil))
	if rec.Code != http.StatusNoContent || svc.cancelled != "quiz" {
		t.Fatalf("cancel status=%d surface=%q", rec.Code, svc.cancelled)
	}
}

func TestTTSHandlerSpeak(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewTTSHandler(&fakeTTS{})
	r.POST("/tts", h.Speak)
	r.GET("/tts/voices", h.Voices)

	req := httptest.NewRequest(http.MethodPost, "/tts", strings.NewReader(`{"text":"Read this","voiceId":"v1"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(r, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "audio/mpeg" {
		t.Fatalf("content-type=%q", ct)
	}
	if rate := rec.Header().Get(HeaderPlaybackRate); rate != "1.25" {
		t.Fatalf("playback rate=%q", rate)
	}
	if rec.Body.String() != "ID3Read this" {
		t.Fatalf("audio=%q", rec.Body.String())
	}

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/tts/voices", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"name":"Rachel"`) {
		t.Fatalf("voices status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestTTSHandlerErrorEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{name: "superseded", err: services.ErrSuperseded, status: http.StatusConflict, body: `"code":"superseded"`},
		{name: "provider", err: apierr.New(http.StatusBadGateway, "provider_error", errors.New("elevenlabs down")), status: http.StatusBadGateway, body: `elevenlabs down`},
		{name: "unavailable", err: fmt.Errorf("tts: %w", apierr.ErrUnavailable), status: http.StatusServiceUnavailable, body: `"code":"unavailable"`},
		{name: "internal_hidden", err: errors.New("db password leaked"), status: http.StatusInternalServerError, body: `"message":"internal error"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.POST("/tts", NewTTSHandler(&fakeTTS{err: tc.err}).Speak)
			req := httptest.NewRequest(http.MethodPost, "/tts", strings.NewReader(`{"text":"x"}`))
			req.Header.Set("Content-Type", "application/json")
			rec := serve(r, req)

			if rec.Code != tc.status || !strings.Contains(rec.Body.String(), tc.body) {
				t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
			}
			if strings.Contains(rec.Body.String(), "password") {
				t.Fatalf("internal detail leaked: %s", rec.Body.String())
			}
		})
	}
}

func TestGestureHandlerMultipleHands(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/gestures/classify", NewGestureHandler().Classify)

	open := make([]string, 21)
	for i := range open {
		open[i] = `{"x":0.5,"y":0.5}`
	}
	for _, tip := range []int{4, 8, 12, 16, 20} {
		open[tip] = `{"x":0.5,"y":0.1}`
	}
	fullHand := "[" + strings.Join(open, ",") + "]"
	body := `{"hands":[` + fullHand + `,[{"x":0,"y":0}]]}`

	req := httptest.NewRequest(http.MethodPost, "/gestures/classify", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(r, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"gesture":"Five"`) || !strings.Contains(rec.Body.String(), `"gesture":"Unknown"`) {
		t.Fatalf("body=%s", rec.Body.String())
	}
}

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	down := NewHealthHandler(func(context.Context) error { return errors.New("db down") })
	r := gin.New()
	r.GET("/ok", NewHealthHandler(nil).HealthCheck)
	r.GET("/down", down.HealthCheck)

	if rec := serve(r, httptest.NewRequest(http.MethodGet, "/ok", nil)); rec.Code != http.StatusOK {
		t.Fatalf("ok status=%d", rec.Code)
	}
	if rec := serve(r, httptest.NewRequest(http.MethodGet, "/down", nil)); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("down status=%d", rec.Code)
	}
}
