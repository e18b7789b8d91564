// Package api exposes the recipe service over HTTP.
package api

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/pageza/alchemorsel-genai/backend/internal/history"
	"github.com/pageza/alchemorsel-genai/backend/internal/middleware"
	"github.com/pageza/alchemorsel-genai/backend/internal/service"
	"github.com/pageza/alchemorsel-genai/backend/internal/types"
)

// RecipeGenerator is the part of *service.RecipeService the handlers use.
type RecipeGenerator interface {
	Generate(ctx context.Context, req types.RecipeRequest) service.Outcome
	Lookup(ctx context.Context, key string) (types.Recipe, bool)
	FlushCache(ctx context.Context) error
	Stats(ctx context.Context) service.Stats
	RateWindow(ctx context.Context) (used, limit int)
}

// HistoryReader lists past generations.
type HistoryReader interface {
	Recent(ctx context.Context, limit int) ([]history.GenerationRecord, error)
	Count(ctx context.Context) (int64, error)
}

// ServiceInfo describes the backing model for /health and /api-info.
type ServiceInfo struct {
	Model      string
	ModelLabel string
	RateLimit  int
}

// Routes bundles everything the router needs. Generator is nil when the
// model client could not be created; Auth is nil when admin routes are off.
type Routes struct {
	Generator RecipeGenerator
	History   HistoryReader
	Auth      middleware.TokenValidator
	Info      ServiceInfo
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, routes Routes) {
	recipes := NewRecipeHandler(routes.Generator, routes.Info)

	router.GET("/", Index)
	router.GET("/health", recipes.Health)
	router.GET("/api-info", recipes.APIInfo)
	router.POST("/generate", recipes.Generate)
	router.GET("/recipes/:key/card", recipes.Card)

	if routes.Auth == nil {
		return
	}
	admin := NewAdminHandler(routes.Generator, routes.History)
	group := router.Group("/admin")
	group.Use(middleware.AdminAuth(routes.Auth))
	admin.RegisterRoutes(group)
}
