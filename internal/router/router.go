package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-buddy/backend/config"
	"github.com/pageza/recipe-buddy/backend/internal/api"
	"github.com/pageza/recipe-buddy/backend/internal/middleware"
)

// SetupRouter configures the application routes
func SetupRouter(cfg *config.Config, handlers *api.Handlers) *gin.Engine {
	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	api.SetupAPI(router, handlers)
	return router
}
