package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adaptiq/adaptiq-backend/internal/http/response"
	"github.com/adaptiq/adaptiq-backend/internal/modules/gesture"
)

// maxHands bounds one frame; MediaPipe is configured for two.
const maxHands = 4

type GestureHandler struct{}

func NewGestureHandler() *GestureHandler { return &GestureHandler{} }

type classifyRequest struct {
	Landmarks []gesture.Point   `json:"landmarks"`
	Hands     [][]gesture.Point `json:"hands"`
}

// POST /api/gestures/classify
// Accepts a single hand as "landmarks" or several as "hands".
func (h *GestureHandler) Classify(c *gin.Context) {
	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	hands := req.Hands
	if len(req.Landmarks) > 0 {
		hands = append([][]gesture.Point{req.Landmarks}, hands...)
	}
	if len(hands) == 0 {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("landmarks required"))
		return
	}
	if len(hands) > maxHands {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("too many hands in one frame"))
		return
	}
	results := gesture.ClassifyAll(hands)
	response.RespondOK(c, gin.H{"gesture": results[0], "hands": results})
}
