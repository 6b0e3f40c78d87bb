package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-buddy/backend/internal/types"
)

const msgMissingUsername = "Please provide a username."

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Options lists the vocabularies offered by the suggestion form.
func Options(c *gin.Context) {
	c.JSON(http.StatusOK, types.OptionsResponse{
		MealTypes:   types.MealTypes,
		Moods:       types.MoodOptions,
		Constraints: types.ConstraintOptions,
		Diets:       types.DietOptions,
	})
}

// username reads the :username path parameter. A blank name aborts the
// request with 400.
func username(c *gin.Context) (string, bool) {
	name := strings.TrimSpace(c.Param("username"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgMissingUsername})
		return "", false
	}
	return name, true
}

// internalError sets a 500 status and attaches err for
// middleware.ErrorHandler, which logs it and writes the response.
func internalError(c *gin.Context, err error) {
	c.Status(http.StatusInternalServerError)
	_ = c.Error(err)
	c.Abort()
}
