package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/proteinpal/internal/api"
	"github.com/pageza/proteinpal/internal/middleware"
)

// SetupRouter configures the application routes
func SetupRouter(frontendURL string, deps api.Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), middleware.Recovery(), middleware.RequestLogger())
	router.Use(middleware.CORS(frontendURL))

	api.RegisterRoutes(router, deps)
	return router
}
