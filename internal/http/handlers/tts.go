package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/adaptiq/adaptiq-backend/internal/http/response"
	"github.com/adaptiq/adaptiq-backend/internal/services"
)

// HeaderPlaybackRate carries the learner's audio speed setting alongside
// synthesized audio; the player applies it.
const HeaderPlaybackRate = "X-Playback-Rate"

type TTSHandler struct {
	svc services.TTSService
}

func NewTTSHandler(svc services.TTSService) *TTSHandler {
	return &TTSHandler{svc: svc}
}

// POST /api/tts
func (h *TTSHandler) Speak(c *gin.Context) {
	var req services.SpeakInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	sp, err := h.svc.Speak(c.Request.Context(), req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Header(HeaderPlaybackRate, strconv.FormatFloat(sp.PlaybackRate, 'f', -1, 64))
	c.Data(http.StatusOK, sp.ContentType, sp.Audio)
}

// POST /api/tts/stop?surface=lesson
func (h *TTSHandler) Stop(c *gin.Context) {
	if err := h.svc.Stop(c.Request.Context(), c.Query("surface")); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/tts/voices
func (h *TTSHandler) Voices(c *gin.Context) {
	voices, err := h.svc.Voices(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"voices": voices})
}
