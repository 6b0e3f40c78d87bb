package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-buddy/backend/internal/onboarding"
	"github.com/pageza/recipe-buddy/backend/internal/service"
	"github.com/pageza/recipe-buddy/backend/internal/types"
)

// UserHandler serves user records, pantry and profile.
type UserHandler struct {
	users service.UserStore
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(users service.UserStore) *UserHandler {
	return &UserHandler{users: users}
}

// RegisterRoutes registers the user routes on a /users/:username group
func (h *UserHandler) RegisterRoutes(user *gin.RouterGroup) {
	user.POST("/login", h.Login)
	user.GET("", h.GetUser)
	user.PUT("/pantry", h.UpdatePantry)
	user.PUT("/profile", h.UpdateProfile)
}

// Login loads the user record, creating and storing a default one for a new
// username. There is no password; the username is the only key.
func (h *UserHandler) Login(c *gin.Context) {
	name, ok := username(c)
	if !ok {
		return
	}

	rec, err := h.users.Get(c.Request.Context(), name)
	if err != nil {
		internalError(c, fmt.Errorf("failed to load %s: %w", name, err))
		return
	}
	if err := h.users.Put(c.Request.Context(), name, rec); err != nil {
		internalError(c, fmt.Errorf("failed to save %s: %w", name, err))
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	name, ok := username(c)
	if !ok {
		return
	}

	rec, err := h.users.Get(c.Request.Context(), name)
	if err != nil {
		internalError(c, fmt.Errorf("failed to load %s: %w", name, err))
		return
	}
	c.JSON(http.StatusOK, rec)
}

// UpdatePantry replaces the pantry. Items are trimmed and blanks dropped.
func (h *UserHandler) UpdatePantry(c *gin.Context) {
	name, ok := username(c)
	if !ok {
		return
	}

	var req types.UpdatePantryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.update(c, name, func(rec *types.UserRecord) error {
		rec.Pantry = types.CleanList(req.Items)
		return nil
	})
}

// UpdateProfile replaces diet and allergies. Diets must be known options.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	name, ok := username(c)
	if !ok {
		return
	}

	var req types.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	step, err := onboarding.ProfileStep{Diet: req.Diet, Allergies: req.Allergies}.Validate()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.update(c, name, func(rec *types.UserRecord) error {
		rec.Profile = types.UserProfile{Diet: step.Diet, Allergies: step.Allergies}
		return nil
	})
}

func (h *UserHandler) update(c *gin.Context, name string, apply func(*types.UserRecord) error) {
	ctx := c.Request.Context()
	rec, err := h.users.Get(ctx, name)
	if err != nil {
		internalError(c, fmt.Errorf("failed to load %s: %w", name, err))
		return
	}
	if err := apply(rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.users.Put(ctx, name, rec); err != nil {
		internalError(c, fmt.Errorf("failed to save %s: %w", name, err))
		return
	}
	c.JSON(http.StatusOK, rec)
}
