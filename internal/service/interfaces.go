package service

import (
	"context"
	"time"

	"github.com/pageza/alchemorsel-genai/backend/internal/history"
	"github.com/pageza/alchemorsel-genai/backend/internal/types"
)

// ModelClient sends one prompt to the generative model.
type ModelClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// RecipeCache stores recipes for a fixed TTL.
type RecipeCache interface {
	Get(ctx context.Context, key string, now time.Time) (types.Recipe, bool)
	Put(ctx context.Context, key string, recipe types.Recipe, now time.Time)
	Flush(ctx context.Context) error
	Len(ctx context.Context) int
}

// RateLimiter bounds model calls per sliding window.
type RateLimiter interface {
	Admit(ctx context.Context, now time.Time) bool
	Usage(ctx context.Context, now time.Time) int
	Limit() int
}

// HistoryRecorder persists one record per generation.
type HistoryRecorder interface {
	Record(ctx context.Context, rec *history.GenerationRecord) error
}

// Archiver keeps a copy of freshly generated recipes.
type Archiver interface {
	Put(ctx context.Context, key string, recipe types.Recipe) error
}
