package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/adaptiq/adaptiq-backend/internal/domain/learner"
	"github.com/adaptiq/adaptiq-backend/internal/http/response"
	"github.com/adaptiq/adaptiq-backend/internal/services"
)

type ProfileHandler struct {
	svc services.ProfileService
}

func NewProfileHandler(svc services.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

type profileView struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"userId"`
	FullName  string          `json:"fullName"`
	Age       int             `json:"age"`
	Profile   learner.Profile `json:"profile"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func newProfileView(r *learner.ProfileRecord) profileView {
	return profileView{
		ID:        r.ID,
		UserID:    r.UserID,
		FullName:  r.FullName,
		Age:       r.Age,
		Profile:   r.Profile(),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// GET /api/profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	row, err := h.svc.Get(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profile": newProfileView(row)})
}

// POST /api/profile and PUT /api/profile
func (h *ProfileHandler) SaveProfile(c *gin.Context) {
	var req services.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	row, created, err := h.svc.Save(c.Request.Context(), req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	if created {
		response.RespondCreated(c, gin.H{"profile": newProfileView(row)})
		return
	}
	response.RespondOK(c, gin.H{"profile": newProfileView(row)})
}

// DELETE /api/profile
func (h *ProfileHandler) DeleteProfile(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context()); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
