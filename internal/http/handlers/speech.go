package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/adaptiq/adaptiq-backend/internal/http/response"
	"github.com/adaptiq/adaptiq-backend/internal/services"
)

type SpeechHandler struct {
	svc services.SpeechService
}

func NewSpeechHandler(svc services.SpeechService) *SpeechHandler {
	return &SpeechHandler{svc: svc}
}

// POST /api/speech/transcribe (multipart: audio, language, surface, wordTimings)
func (h *SpeechHandler) Transcribe(c *gin.Context) {
	fh, err := c.FormFile("audio")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", fmt.Errorf("audio file required: %w", err))
		return
	}
	if fh.Size > services.MaxAudioBytes {
		response.RespondError(c, http.StatusRequestEntityTooLarge, "audio_too_large", fmt.Errorf("audio larger than %d bytes", services.MaxAudioBytes))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	defer f.Close()
	audio, err := io.ReadAll(io.LimitReader(f, services.MaxAudioBytes+1))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	wordTimings := false
	if raw := c.PostForm("wordTimings"); raw != "" {
		if wordTimings, err = strconv.ParseBool(raw); err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("wordTimings must be a boolean"))
			return
		}
	}

	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = c.PostForm("mimeType")
	}
	res, err := h.svc.Transcribe(c.Request.Context(), services.TranscribeInput{
		Audio:       audio,
		MimeType:    mimeType,
		Language:    c.PostForm("language"),
		Surface:     c.PostForm("surface"),
		WordTimings: wordTimings,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, res)
}

// POST /api/speech/cancel?surface=lesson
func (h *SpeechHandler) Cancel(c *gin.Context) {
	if err := h.svc.Cancel(c.Request.Context(), c.Query("surface")); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
