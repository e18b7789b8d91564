package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-genai/backend/config"
	"github.com/pageza/alchemorsel-genai/backend/internal/app"
	"github.com/pageza/alchemorsel-genai/backend/internal/service"
	"github.com/pageza/alchemorsel-genai/backend/internal/testhelpers"
)

func newUpstream(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		content := "```json\n{\"name\": \"Shared Stew\", \"servings\": 4}\n```"
		body, _ := json.Marshal(map[string]any{
			"id": "chatcmpl-1", "object": "chat.completion", "created": 1, "model": "gpt-4o-mini",
			"choices": []map[string]any{{
				"index": 0, "finish_reason": "stop",
				"message": map[string]any{"role": "assistant", "content": content},
			}},
		})
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func sharedConfig(t *testing.T, upstreamURL string) *config.Config {
	t.Helper()
	redisCfg := testhelpers.StartRedis(t)
	cfg := testhelpers.StartPostgres(t)

	cfg.Environment = config.Test
	cfg.RedisHost, cfg.RedisPort = redisCfg.RedisHost, redisCfg.RedisPort
	cfg.CacheBackend = config.BackendRedis
	cfg.RateLimitBackend = config.BackendRedis
	cfg.RateLimitPerMinute = 2
	cfg.GenAIProvider = config.ProviderOpenAI
	cfg.GenAIAPIKey = "sk-test"
	cfg.GenAIBaseURL = upstreamURL + "/v1/"
	cfg.GenAIModel = "gpt-4o-mini"
	cfg.JWTSecret = "integration-secret"
	cfg.ServerHost, cfg.ServerPort = "127.0.0.1", "0"
	return cfg
}

func generate(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	return w
}

func TestInstancesShareCacheLimiterAndHistory(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var calls atomic.Int32
	upstream := newUpstream(t, &calls)
	cfg := sharedConfig(t, upstream.URL)
	ctx := context.Background()

	first, err := app.New(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer first.Close()
	second, err := app.New(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer second.Close()

	a := generate(t, first.Server.Handler(), `{"ingredients":"beef, carrot"}`)
	b := generate(t, second.Server.Handler(), `{"ingredients":"beef, carrot"}`)
	assert.Equal(t, "model", a.Header().Get("X-Recipe-Source"))
	assert.Equal(t, "cache", b.Header().Get("X-Recipe-Source"), "cache is shared through redis")
	assert.Equal(t, a.Body.String(), b.Body.String())
	assert.EqualValues(t, 1, calls.Load())

	generate(t, second.Server.Handler(), `{"ingredients":"lamb"}`)
	limited := generate(t, first.Server.Handler(), `{"ingredients":"pork"}`)
	assert.Equal(t, "rate_limited", limited.Header().Get("X-Recipe-Source"), "window is shared through redis")
	assert.Equal(t, "0", limited.Header().Get("X-RateLimit-Remaining"))
	assert.EqualValues(t, 2, calls.Load())

	auth, err := service.NewAuthService(cfg.JWTSecret)
	require.NoError(t, err)
	token, err := auth.GenerateToken("integration", time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin/history?limit=10", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	first.Server.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var hist struct {
		Records []struct {
			Source string `json:"source"`
		} `json:"records"`
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &hist))
	assert.EqualValues(t, 4, hist.Total)
	require.Len(t, hist.Records, 4)
	assert.Equal(t, "rate_limited", hist.Records[0].Source)

	req = httptest.NewRequest(http.MethodDelete, "/admin/cache", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	second.Server.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	_, ok := first.Service.Lookup(ctx, a.Header().Get("X-Recipe-Key"))
	assert.False(t, ok, "flush on one instance clears the shared cache")
}
