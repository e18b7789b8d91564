package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/alchemorsel-genai/backend/internal/history"
)

// AdminHandler serves the operator endpoints behind AdminAuth.
type AdminHandler struct {
	generator RecipeGenerator
	history   HistoryReader
}

func NewAdminHandler(generator RecipeGenerator, h HistoryReader) *AdminHandler {
	return &AdminHandler{generator: generator, history: h}
}

func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/history", h.History)
	router.GET("/stats", h.Stats)
	router.DELETE("/cache", h.FlushCache)
}

// History lists recent generations, newest first.
func (h *AdminHandler) History(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "generation history is disabled"})
		return
	}

	limit := history.DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, history.MaxLimit)
	}

	records, err := h.history.Recent(c.Request.Context(), limit)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}
	total, err := h.history.Count(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"records": records,
		"total":   total,
		"limit":   limit,
	})
}

// Stats reports cache size and rate-limit usage.
func (h *AdminHandler) Stats(c *gin.Context) {
	if h.generator == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errNotInitialized})
		return
	}
	c.JSON(http.StatusOK, h.generator.Stats(c.Request.Context()))
}

// FlushCache drops every cached recipe.
func (h *AdminHandler) FlushCache(c *gin.Context) {
	if h.generator == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errNotInitialized})
		return
	}
	if err := h.generator.FlushCache(c.Request.Context()); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to flush cache"})
		return
	}
	c.Status(http.StatusNoContent)
}
