package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/alchemorsel-genai/backend/internal/render"
	"github.com/pageza/alchemorsel-genai/backend/internal/types"
	"github.com/pageza/alchemorsel-genai/backend/internal/web"
)

const (
	serviceName       = "Generative AI Recipe Generator"
	errNotInitialized = "AI service not initialized. Check API key."
	errNoIngredients  = "Please enter ingredients"
)

var capabilities = []string{
	"Recipe generation from ingredients",
	"Multiple cuisine support",
	"Dietary restriction handling",
	"Nutritional estimation",
	"Chef tips generation",
}

// RecipeHandler serves the public endpoints.
type RecipeHandler struct {
	generator RecipeGenerator
	info      ServiceInfo
	now       func() time.Time
}

func NewRecipeHandler(generator RecipeGenerator, info ServiceInfo) *RecipeHandler {
	return &RecipeHandler{generator: generator, info: info, now: time.Now}
}

// Index serves the form page.
func Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", web.IndexHTML)
}

// Generate handles POST /generate. Every admitted request answers 200 with
// a recipe; X-Recipe-Source says where it came from.
func (h *RecipeHandler) Generate(c *gin.Context) {
	if h.generator == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errNotInitialized})
		return
	}

	var body types.GenerateRecipeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		if errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "request body is required"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request: %v", err)})
		return
	}

	req := body.Normalize()
	if req.Ingredients == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errNoIngredients})
		return
	}
	if req.Servings <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "servings must be a positive number"})
		return
	}

	ctx := c.Request.Context()
	out := h.generator.Generate(ctx, req)
	if out.Cause != nil {
		_ = c.Error(out.Cause)
	}

	used, limit := h.generator.RateWindow(ctx)
	c.Header("X-Recipe-Source", string(out.Source))
	c.Header("X-Recipe-Key", out.Key)
	c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(max(limit-used, 0)))
	c.JSON(http.StatusOK, out.Recipe)
}

// Card renders a cached recipe as a printable HTML page.
func (h *RecipeHandler) Card(c *gin.Context) {
	if h.generator == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errNotInitialized})
		return
	}
	recipe, ok := h.generator.Lookup(c.Request.Context(), c.Param("key"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}
	page, err := render.HTML(recipe)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render recipe"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

// Health handles GET /health.
func (h *RecipeHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":            "healthy",
		"genai_model":       h.info.Model,
		"genai_initialized": h.generator != nil,
		"timestamp":         h.now().Format(time.RFC3339Nano),
	})
}

// APIInfo handles GET /api-info.
func (h *RecipeHandler) APIInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":      serviceName,
		"model":        h.info.ModelLabel,
		"capabilities": capabilities,
		"rate_limit":   fmt.Sprintf("%d requests per minute", h.info.RateLimit),
	})
}
