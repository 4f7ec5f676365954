package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adaptiq/adaptiq-backend/internal/http/response"
	"github.com/adaptiq/adaptiq-backend/internal/modules/adaptation"
	"github.com/adaptiq/adaptiq-backend/internal/services"
)

type ContentHandler struct {
	svc services.ContentService
}

func NewContentHandler(svc services.ContentService) *ContentHandler {
	return &ContentHandler{svc: svc}
}

type processRequest struct {
	Text string `json:"text"`
	adaptation.ProcessOptions
}

// POST /api/content/process
func (h *ContentHandler) Process(c *gin.Context) {
	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	out, err := h.svc.Process(c.Request.Context(), req.Text, req.ProcessOptions)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/content/simplify
func (h *ContentHandler) Simplify(c *gin.Context) {
	var req services.SimplifyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	text, err := h.svc.Simplify(c.Request.Context(), req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"simplifiedContent": text})
}

// POST /api/content/alternative
func (h *ContentHandler) Alternative(c *gin.Context) {
	var req services.AlternativeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	text, err := h.svc.Alternative(c.Request.Context(), req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"explanation": text})
}
