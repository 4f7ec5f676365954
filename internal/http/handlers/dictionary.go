package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/adaptiq/adaptiq-backend/internal/http/response"
	"github.com/adaptiq/adaptiq-backend/internal/modules/catalog"
	"github.com/adaptiq/adaptiq-backend/internal/services"
)

type DictionaryHandler struct {
	svc services.DictionaryService
}

func NewDictionaryHandler(svc services.DictionaryService) *DictionaryHandler {
	return &DictionaryHandler{svc: svc}
}

// GET /api/dictionary?q=hello&category=greetings&difficulty=beginner
func (h *DictionaryHandler) Search(c *gin.Context) {
	signs, err := h.svc.Search(c.Request.Context(), catalog.SignQuery{
		Text:       c.Query("q"),
		Category:   c.Query("category"),
		Difficulty: c.Query("difficulty"),
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"signs": signs})
}

// GET /api/dictionary/categories
func (h *DictionaryHandler) Categories(c *gin.Context) {
	response.RespondOK(c, gin.H{"categories": h.svc.Categories(c.Request.Context())})
}

// POST /api/dictionary/:word/favorite
func (h *DictionaryHandler) ToggleFavorite(c *gin.Context) {
	word := c.Param("word")
	on, err := h.svc.ToggleFavorite(c.Request.Context(), word)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"word": word, "favorite": on})
}

// GET /api/dictionary/favorites
func (h *DictionaryHandler) Favorites(c *gin.Context) {
	signs, err := h.svc.Favorites(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"favorites": signs})
}
