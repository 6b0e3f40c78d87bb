package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-buddy/backend/internal/service"
	"github.com/pageza/recipe-buddy/backend/internal/types"
)

// SuggestionHandler runs the suggestion pipeline and manages saved history.
type SuggestionHandler struct {
	suggestions *service.SuggestionService
	limiter     gin.HandlerFunc
}

// NewSuggestionHandler creates a new SuggestionHandler. limiter guards the
// suggestion endpoint and may be nil.
func NewSuggestionHandler(suggestions *service.SuggestionService, limiter gin.HandlerFunc) *SuggestionHandler {
	return &SuggestionHandler{suggestions: suggestions, limiter: limiter}
}

// RegisterRoutes registers the suggestion routes on a /users/:username group
func (h *SuggestionHandler) RegisterRoutes(user *gin.RouterGroup) {
	suggest := []gin.HandlerFunc{h.Suggest}
	if h.limiter != nil {
		suggest = append([]gin.HandlerFunc{h.limiter}, suggest...)
	}
	user.POST("/suggestions", suggest...)
	user.GET("/suggestions/latest", h.Latest)
	user.POST("/suggestions/latest/export", h.Export)
	user.POST("/history", h.SaveToHistory)
	user.GET("/history", h.History)
}

// Suggest always answers 200 with a suggestion once the request is valid.
// Generation problems are reported in the suggestion's notice.
func (h *SuggestionHandler) Suggest(c *gin.Context) {
	name, ok := username(c)
	if !ok {
		return
	}

	var req types.SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	suggestion, err := h.suggestions.Suggest(c.Request.Context(), name, req)
	if err != nil {
		internalError(c, fmt.Errorf("suggestion failed for %s: %w", name, err))
		return
	}
	c.JSON(http.StatusOK, suggestion)
}

func (h *SuggestionHandler) Latest(c *gin.Context) {
	name, ok := username(c)
	if !ok {
		return
	}

	suggestion, err := h.suggestions.Latest(c.Request.Context(), name)
	if err != nil {
		h.sessionError(c, name, err)
		return
	}
	c.JSON(http.StatusOK, suggestion)
}

// Export uploads the latest suggestion and returns a download URL.
func (h *SuggestionHandler) Export(c *gin.Context) {
	name, ok := username(c)
	if !ok {
		return
	}

	url, err := h.suggestions.Export(c.Request.Context(), name)
	if err != nil {
		h.sessionError(c, name, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// SaveToHistory keeps one recipe of the latest suggestion.
func (h *SuggestionHandler) SaveToHistory(c *gin.Context) {
	name, ok := username(c)
	if !ok {
		return
	}

	var req types.SaveRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	saved, err := h.suggestions.SaveToHistory(c.Request.Context(), name, *req.Index)
	if err != nil {
		h.sessionError(c, name, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// History lists saved recipes; ?q= narrows the list.
func (h *SuggestionHandler) History(c *gin.Context) {
	name, ok := username(c)
	if !ok {
		return
	}

	history, err := h.suggestions.History(c.Request.Context(), name, strings.TrimSpace(c.Query("q")))
	if err != nil {
		internalError(c, fmt.Errorf("history failed for %s: %w", name, err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

func (h *SuggestionHandler) sessionError(c *gin.Context, name string, err error) {
	switch {
	case errors.Is(err, service.ErrNoSession):
		c.JSON(http.StatusNotFound, gin.H{"error": "no suggestion yet, request one first"})
	case errors.Is(err, service.ErrNotSaveable):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrExportDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		internalError(c, fmt.Errorf("request failed for %s: %w", name, err))
	}
}
