package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-buddy/backend/internal/onboarding"
	"github.com/pageza/recipe-buddy/backend/internal/service"
)

// OnboardingHandler drives the first-run wizard.
type OnboardingHandler struct {
	users service.UserStore
}

// NewOnboardingHandler creates a new OnboardingHandler instance
func NewOnboardingHandler(users service.UserStore) *OnboardingHandler {
	return &OnboardingHandler{users: users}
}

// RegisterRoutes registers the onboarding routes on a /users/:username group
func (h *OnboardingHandler) RegisterRoutes(user *gin.RouterGroup) {
	user.GET("/onboarding", h.Status)
	user.POST("/onboarding", h.Fire)
}

// Status reports the current wizard state and the events it accepts.
func (h *OnboardingHandler) Status(c *gin.Context) {
	name, ok := username(c)
	if !ok {
		return
	}

	rec, err := h.users.Get(c.Request.Context(), name)
	if err != nil {
		internalError(c, fmt.Errorf("failed to load %s: %w", name, err))
		return
	}
	status, err := onboarding.StatusOf(rec)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, status)
}

// Fire applies one wizard event and stores the result.
func (h *OnboardingHandler) Fire(c *gin.Context) {
	name, ok := username(c)
	if !ok {
		return
	}

	var in onboarding.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	rec, err := h.users.Get(ctx, name)
	if err != nil {
		internalError(c, fmt.Errorf("failed to load %s: %w", name, err))
		return
	}

	if _, err := onboarding.Apply(rec, in); err != nil {
		c.JSON(onboardingStatus(err), gin.H{"error": err.Error()})
		return
	}
	if err := h.users.Put(ctx, name, rec); err != nil {
		internalError(c, fmt.Errorf("failed to save %s: %w", name, err))
		return
	}

	status, _ := onboarding.StatusOf(rec)
	c.JSON(http.StatusOK, gin.H{"status": status, "user": rec})
}

func onboardingStatus(err error) int {
	switch {
	case errors.Is(err, onboarding.ErrInvalidTransition), errors.Is(err, onboarding.ErrUnknownState):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
