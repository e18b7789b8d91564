package service

import "github.com/pageza/alchemorsel-genai/backend/internal/types"

// Source tells where the recipe in an Outcome came from.
type Source string

const (
	SourceCache       Source = "cache"
	SourceModel       Source = "model"
	SourceFallback    Source = "fallback"
	SourceRateLimited Source = "rate_limited"
)

// Outcome is the result of a generation. Recipe is never nil.
type Outcome struct {
	Source Source
	Recipe types.Recipe
	// Key is the cache key of the request.
	Key string
	// Cause is set when Source is SourceFallback.
	Cause error
}

// RateLimitedRecipe is returned in place of a recipe when the window is full.
func RateLimitedRecipe() types.Recipe {
	return types.Recipe{
		"error": "Rate limit reached. Please wait a minute.",
		"name":  "Rate Limit Exceeded",
	}
}
