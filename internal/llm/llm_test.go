package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/pageza/alchemorsel-genai/backend/config"
)

func testSettings(baseURL string) Settings {
	return Settings{
		Model:       "models/gemini-2.5-flash",
		BaseURL:     baseURL,
		Temperature: 0.8,
		TopP:        0.95,
		TopK:        40,
		MaxTokens:   2048,
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	cfg := config.Defaults()
	cfg.GenAIModel = "models/gemini-2.5-flash"

	_, err := New(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	cfg.GenAIProvider = config.ProviderOpenAI
	_, err = New(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	cfg.GenAIProvider = "llama"
	cfg.GenAIAPIKey = "k"
	_, err = New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestGenerateConfig(t *testing.T) {
	gc := generateConfig(testSettings(""))

	require.NotNil(t, gc.Temperature)
	assert.InDelta(t, 0.8, *gc.Temperature, 1e-6)
	assert.InDelta(t, 0.95, *gc.TopP, 1e-6)
	assert.Equal(t, float32(40), *gc.TopK)
	assert.Equal(t, int32(2048), gc.MaxOutputTokens)
	require.Len(t, gc.SafetySettings, 4)
	for _, s := range gc.SafetySettings {
		assert.Equal(t, genai.HarmBlockThresholdBlockNone, s.Threshold)
	}
}

func TestResponseText(t *testing.T) {
	res := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "thinking...", Thought: true},
				{Text: `{"name":`},
				{Text: `"X"}`},
			}},
		}},
	}
	text, err := responseText(res)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"X"}`, text)

	_, err = responseText(&genai.GenerateContentResponse{})
	assert.ErrorIs(t, err, ErrEmptyResponse)

	_, err = responseText(&genai.GenerateContentResponse{
		PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety},
	})
	assert.ErrorIs(t, err, ErrEmptyResponse)
	assert.Contains(t, err.Error(), "blocked")

	_, err = responseText(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{}, FinishReason: genai.FinishReasonMaxTokens}},
	})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGeminiClientComplete(t *testing.T) {
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			http.NotFound(w, r)
			return
		}
		var body struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if len(body.Contents) > 0 && len(body.Contents[0].Parts) > 0 {
			gotPrompt = body.Contents[0].Parts[0].Text
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"name\":\"Fried Rice\"}"}]},"finishReason":"STOP"}]}`))
	}))
	defer srv.Close()

	c, err := NewGeminiClient(context.Background(), "test-key", testSettings(srv.URL+"/"))
	require.NoError(t, err)

	text, err := c.Complete(context.Background(), "egg, rice")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Fried Rice"}`, text)
	assert.Equal(t, "egg, rice", gotPrompt)
}

func TestGeminiClientUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":401,"message":"API key not valid","status":"UNAUTHENTICATED"}}`))
	}))
	defer srv.Close()

	c, err := NewGeminiClient(context.Background(), "bad-key", testSettings(srv.URL+"/"))
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "egg")
	assert.Error(t, err)
	assert.Error(t, Probe(context.Background(), c))
}

func TestGeminiClientListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"models":[
			{"name":"models/gemini-2.5-flash","displayName":"Gemini 2.5 Flash"},
			{"name":"models/gemini-2.5-pro","displayName":"Gemini 2.5 Pro"}
		]}`))
	}))
	defer srv.Close()

	c, err := NewGeminiClient(context.Background(), "test-key", testSettings(srv.URL+"/"))
	require.NoError(t, err)

	models, err := c.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "models/gemini-2.5-flash", models[0].Name)
	assert.Equal(t, "Gemini 2.5 Pro", models[1].DisplayName)
}

func TestOpenAIClientComplete(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"{\"name\":\"Congee\"}"}}]}`))
	}))
	defer srv.Close()

	s := testSettings(srv.URL + "/v1/")
	s.Model = "gpt-4o-mini"
	c, err := NewOpenAIClient("sk-test", s)
	require.NoError(t, err)

	text, err := c.Complete(context.Background(), "rice, water")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Congee"}`, text)

	assert.Equal(t, "gpt-4o-mini", got["model"])
	assert.InDelta(t, 0.8, got["temperature"], 1e-9)
	assert.InDelta(t, 0.95, got["top_p"], 1e-9)
	assert.EqualValues(t, 2048, got["max_tokens"])
	messages, ok := got["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	assert.Equal(t, "rice, water", messages[0].(map[string]any)["content"])
}

func TestOpenAIClientEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"m","choices":[]}`))
	}))
	defer srv.Close()

	s := testSettings(srv.URL + "/")
	c, err := NewOpenAIClient("sk-test", s)
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "rice")
	assert.True(t, errors.Is(err, ErrEmptyResponse))
}
