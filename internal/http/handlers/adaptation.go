package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adaptiq/adaptiq-backend/internal/domain/learner"
	"github.com/adaptiq/adaptiq-backend/internal/http/response"
	"github.com/adaptiq/adaptiq-backend/internal/modules/adaptation"
	"github.com/adaptiq/adaptiq-backend/internal/services"
)

type AdaptationHandler struct {
	svc services.AdaptationService
}

func NewAdaptationHandler(svc services.AdaptationService) *AdaptationHandler {
	return &AdaptationHandler{svc: svc}
}

type evaluateRequest struct {
	Profile *learner.Profile `json:"profile,omitempty"`
}

// POST /api/adaptation/evaluate
// An empty body evaluates the stored profile.
func (h *AdaptationHandler) Evaluate(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	out, err := h.svc.Evaluate(c.Request.Context(), req.Profile)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

type adaptRequest struct {
	Content           adaptation.Content `json:"content"`
	IncludeSimplified bool               `json:"includeSimplified"`
	TargetAge         int                `json:"targetAge"`
}

// POST /api/adaptation/adapt
func (h *AdaptationHandler) Adapt(c *gin.Context) {
	var req adaptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if req.Content.Title == "" && len(req.Content.Steps) == 0 {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("content requires a title or steps"))
		return
	}
	out, err := h.svc.Adapt(c.Request.Context(), req.Content, services.AdaptOptions{
		IncludeSimplified: req.IncludeSimplified,
		TargetAge:         req.TargetAge,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/adaptation/recommendations
func (h *AdaptationHandler) Recommendations(c *gin.Context) {
	recs, err := h.svc.Recommend(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"recommendations": recs})
}
