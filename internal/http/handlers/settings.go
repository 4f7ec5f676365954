package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adaptiq/adaptiq-backend/internal/http/response"
	"github.com/adaptiq/adaptiq-backend/internal/services"
)

type SettingsHandler struct {
	svc services.SettingsService
}

func NewSettingsHandler(svc services.SettingsService) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

// GET /api/settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	st, err := h.svc.Get(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"settings": st})
}

// PATCH /api/settings
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var patch map[string]json.RawMessage
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if len(patch) == 0 {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("no settings to update"))
		return
	}
	st, err := h.svc.Update(c.Request.Context(), patch)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"settings": st})
}

// POST /api/settings/reset
func (h *SettingsHandler) ResetSettings(c *gin.Context) {
	st, err := h.svc.Reset(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"settings": st})
}
