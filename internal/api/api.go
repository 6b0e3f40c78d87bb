package api

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-buddy/backend/internal/service"
)

// Handlers groups the per-user handlers mounted under /users/:username.
type Handlers struct {
	Users       *UserHandler
	Onboarding  *OnboardingHandler
	Suggestions *SuggestionHandler
}

// NewHandlers builds every handler over the same stores.
func NewHandlers(users service.UserStore, suggestions *service.SuggestionService, limiter gin.HandlerFunc) *Handlers {
	return &Handlers{
		Users:       NewUserHandler(users),
		Onboarding:  NewOnboardingHandler(users),
		Suggestions: NewSuggestionHandler(suggestions, limiter),
	}
}

// SetupAPI registers the health check and the /api/v1 routes.
func SetupAPI(router *gin.Engine, h *Handlers) {
	router.GET("/health", HealthCheck)

	v1 := router.Group("/api/v1")
	v1.GET("/options", Options)

	user := v1.Group("/users/:username")
	h.Users.RegisterRoutes(user)
	h.Onboarding.RegisterRoutes(user)
	h.Suggestions.RegisterRoutes(user)
}
