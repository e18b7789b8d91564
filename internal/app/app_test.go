package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-genai/backend/config"
	"github.com/pageza/alchemorsel-genai/backend/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func baseConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.Environment = config.Test
	cfg.GenAIModel = "models/gemini-2.5-flash"
	cfg.ServerHost = "127.0.0.1"
	cfg.ServerPort = "0"
	cfg.DBDriver = config.DriverNone
	return cfg
}

func post(h http.Handler, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func get(h http.Handler, path string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestNewWithoutAPIKeyIsDegraded(t *testing.T) {
	a, err := New(context.Background(), baseConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Service)

	w := post(a.Server.Handler(), "/generate", `{"ingredients":"egg"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = get(a.Server.Handler(), "/health")
	assert.Contains(t, w.Body.String(), `"genai_initialized":false`)
}

func TestNewWithOpenAICompatibleProvider(t *testing.T) {
	var calls atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant",
			"content":"{\"name\":\"Tomato Omelette\",\"servings\":2}"}}]}`))
	}))
	defer upstream.Close()

	cfg := baseConfig(t)
	cfg.GenAIProvider = config.ProviderOpenAI
	cfg.GenAIAPIKey = "sk-test"
	cfg.GenAIBaseURL = upstream.URL + "/v1/"
	cfg.GenAIModel = "gpt-4o-mini"
	cfg.GenAIProbeOnStartup = true
	cfg.DBDriver = config.DriverSQLite
	cfg.SQLitePath = filepath.Join(t.TempDir(), "history.db")
	cfg.JWTSecret = "test-secret"

	a, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer a.Close()
	require.NotNil(t, a.Service)
	assert.EqualValues(t, 1, calls.Load(), "startup probe")

	h := a.Server.Handler()
	body := `{"ingredients":"egg, tomato","servings":2}`
	first := post(h, "/generate", body)
	second := post(h, "/generate", body)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "model", first.Header().Get("X-Recipe-Source"))
	assert.Equal(t, "cache", second.Header().Get("X-Recipe-Source"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.EqualValues(t, 2, calls.Load())

	auth, err := service.NewAuthService("test-secret")
	require.NoError(t, err)
	token, err := auth.GenerateToken("test", time.Minute)
	require.NoError(t, err)

	w := get(h, "/admin/history", "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":2`)
	assert.Contains(t, w.Body.String(), "Tomato Omelette")

	w = get(h, "/admin/stats", "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"cache_entries":1,"rate_window_used":1,"rate_limit":30}`, w.Body.String())
}

func TestNewProbeFailureIsDegraded(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"bad key"}}`, http.StatusUnauthorized)
	}))
	defer upstream.Close()

	cfg := baseConfig(t)
	cfg.GenAIProvider = config.ProviderOpenAI
	cfg.GenAIAPIKey = "sk-test"
	cfg.GenAIBaseURL = upstream.URL + "/v1/"
	cfg.GenAIProbeOnStartup = true

	a, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer a.Close()
	assert.Nil(t, a.Service)
}

func TestNewFailsOnUnreachableRedis(t *testing.T) {
	cfg := baseConfig(t)
	cfg.CacheBackend = config.BackendRedis
	cfg.RedisURL = "redis://127.0.0.1:1/0"

	_, err := New(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}
