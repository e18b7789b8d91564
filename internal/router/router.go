package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-genai/backend/internal/api"
	"github.com/pageza/alchemorsel-genai/backend/internal/middleware"
)

// SetupRouter configures the application routes
func SetupRouter(routes api.Routes, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestLogger(logger),
		middleware.Recovery(logger),
		middleware.CORS(),
	)
	router.NoRoute(middleware.NotFound)

	api.RegisterRoutes(router, routes)
	return router
}
