package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-genai/backend/internal/cache"
	"github.com/pageza/alchemorsel-genai/backend/internal/history"
	"github.com/pageza/alchemorsel-genai/backend/internal/types"
)

const (
	defaultModelLabel = "Gemini 2.5 Flash"
	defaultTimeout    = 60 * time.Second
	archiveTimeout    = 30 * time.Second
)

// RecipeService turns recipe requests into recipes: cache, rate limit,
// model call, parse, stamp, cache.
type RecipeService struct {
	model   ModelClient
	cache   RecipeCache
	limiter RateLimiter
	history HistoryRecorder
	archive Archiver

	modelLabel string
	timeout    time.Duration
	now        func() time.Time
	logger     *zap.Logger

	pending sync.WaitGroup
}

// Option configures a RecipeService.
type Option func(*RecipeService)

// WithModelLabel sets the model_used value stamped on recipes.
func WithModelLabel(label string) Option {
	return func(s *RecipeService) { s.modelLabel = label }
}

// WithTimeout bounds a single model call.
func WithTimeout(d time.Duration) Option {
	return func(s *RecipeService) { s.timeout = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *RecipeService) { s.now = now }
}

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *RecipeService) { s.logger = l }
}

// WithHistory records every outcome.
func WithHistory(h HistoryRecorder) Option {
	return func(s *RecipeService) { s.history = h }
}

// WithArchive uploads every recipe that came from the model.
func WithArchive(a Archiver) Option {
	return func(s *RecipeService) { s.archive = a }
}

// NewRecipeService creates the service. model, cache and limiter are required.
func NewRecipeService(model ModelClient, c RecipeCache, limiter RateLimiter, opts ...Option) *RecipeService {
	s := &RecipeService{
		model:      model,
		cache:      c,
		limiter:    limiter,
		modelLabel: defaultModelLabel,
		timeout:    defaultTimeout,
		now:        time.Now,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate always returns a recipe: cached, generated, the fallback recipe,
// or the rate-limit sentinel. Cancelling ctx does not abort a generation;
// the cache lookup, admission and model call all run detached, and the
// model call is bounded by the service timeout instead.
func (s *RecipeService) Generate(ctx context.Context, req types.RecipeRequest) Outcome {
	started := time.Now()
	detached := context.WithoutCancel(ctx)
	key := cache.Key(req)
	log := s.logger.With(zap.String("cache_key", key))
	log.Info("generating recipe", zap.String("ingredients", req.Ingredients))

	if recipe, ok := s.cache.Get(detached, key, s.now()); ok {
		log.Info("returning cached recipe")
		return s.finish(detached, req, Outcome{Source: SourceCache, Recipe: recipe, Key: key}, started)
	}

	if !s.limiter.Admit(detached, s.now()) {
		log.Warn("rate limit reached", zap.Int("limit", s.limiter.Limit()))
		return s.finish(detached, req, Outcome{Source: SourceRateLimited, Recipe: RateLimitedRecipe(), Key: key}, started)
	}

	callCtx, cancel := context.WithTimeout(detached, s.timeout)
	defer cancel()

	prompt := BuildPrompt(req.Ingredients, req.Cuisine, req.Dietary, req.MealType, req.Servings)
	reply, err := s.model.Complete(callCtx, prompt)
	if err != nil {
		log.Warn("recipe generation failed", zap.Error(err))
		out := Outcome{
			Source: SourceFallback,
			Recipe: FallbackRecipe(req.Ingredients),
			Key:    key,
			Cause:  fmt.Errorf("model call: %w", err),
		}
		return s.finish(detached, req, out, started)
	}

	out := ParseRecipe(reply, req.Ingredients)
	out.Key = key
	if out.Cause != nil {
		log.Warn("parse error", zap.Error(out.Cause))
	}

	out.Recipe["generated_at"] = s.now().Format(time.RFC3339Nano)
	out.Recipe["model_used"] = s.modelLabel
	out.Recipe["ingredients_used"] = req.Ingredients

	s.cache.Put(detached, key, out.Recipe, s.now())
	if out.Source == SourceModel {
		s.archiveAsync(key, out.Recipe)
	}

	log.Info("recipe generated", zap.String("name", out.Recipe.Name()), zap.String("source", string(out.Source)))
	return s.finish(detached, req, out, started)
}

// finish records the outcome; history failures never affect the result.
func (s *RecipeService) finish(ctx context.Context, req types.RecipeRequest, out Outcome, started time.Time) Outcome {
	if s.history == nil {
		return out
	}
	rec := &history.GenerationRecord{
		CreatedAt:   s.now(),
		CacheKey:    out.Key,
		Source:      string(out.Source),
		Ingredients: req.Ingredients,
		Cuisine:     req.Cuisine,
		Dietary:     req.Dietary,
		MealType:    req.MealType,
		Servings:    req.Servings,
		RecipeName:  out.Recipe.Name(),
		LatencyMS:   time.Since(started).Milliseconds(),
	}
	if out.Cause != nil {
		rec.Cause = out.Cause.Error()
	}
	if err := s.history.Record(ctx, rec); err != nil {
		s.logger.Warn("failed to record generation", zap.String("cache_key", out.Key), zap.Error(err))
	}
	return out
}

func (s *RecipeService) archiveAsync(key string, recipe types.Recipe) {
	if s.archive == nil {
		return
	}
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()
		if err := s.archive.Put(ctx, key, recipe); err != nil {
			s.logger.Warn("failed to archive recipe", zap.String("cache_key", key), zap.Error(err))
		}
	}()
}

// Lookup returns a cached, unexpired recipe by cache key.
func (s *RecipeService) Lookup(ctx context.Context, key string) (types.Recipe, bool) {
	return s.cache.Get(ctx, key, s.now())
}

// FlushCache drops every cached recipe.
func (s *RecipeService) FlushCache(ctx context.Context) error {
	return s.cache.Flush(ctx)
}

// Stats is a snapshot of cache and rate-limit state.
type Stats struct {
	CacheEntries int `json:"cache_entries"`
	WindowUsed   int `json:"rate_window_used"`
	Limit        int `json:"rate_limit"`
}

func (s *RecipeService) Stats(ctx context.Context) Stats {
	used, limit := s.RateWindow(ctx)
	return Stats{
		CacheEntries: s.cache.Len(ctx),
		WindowUsed:   used,
		Limit:        limit,
	}
}

// RateWindow reports how many model calls the current window has used.
func (s *RecipeService) RateWindow(ctx context.Context) (used, limit int) {
	return s.limiter.Usage(ctx, s.now()), s.limiter.Limit()
}

// Close waits for background archive uploads.
func (s *RecipeService) Close() {
	s.pending.Wait()
}
