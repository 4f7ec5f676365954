package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/adaptiq/adaptiq-backend/internal/http/response"
	"github.com/adaptiq/adaptiq-backend/internal/services"
)

type LessonHandler struct {
	svc services.LessonService
}

func NewLessonHandler(svc services.LessonService) *LessonHandler {
	return &LessonHandler{svc: svc}
}

// GET /api/lessons
func (h *LessonHandler) ListLessons(c *gin.Context) {
	response.RespondOK(c, gin.H{"lessons": h.svc.List(c.Request.Context())})
}

// GET /api/lessons/:id
func (h *LessonHandler) GetLesson(c *gin.Context) {
	lesson, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"lesson": lesson})
}

// GET /api/lessons/:id/adapted?simplified=true&targetAge=9
func (h *LessonHandler) GetAdaptedLesson(c *gin.Context) {
	var opts services.AdaptOptions
	if raw := c.Query("simplified"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_query", err)
			return
		}
		opts.IncludeSimplified = v
	}
	if raw := c.Query("targetAge"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_query", err)
			return
		}
		opts.TargetAge = v
	}
	out, err := h.svc.Adapted(c.Request.Context(), c.Param("id"), opts)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}
