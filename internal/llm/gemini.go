package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiClient calls the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

// NewGeminiClient creates a client with the given sampling settings and all
// safety filters set to BLOCK_NONE.
func NewGeminiClient(ctx context.Context, apiKey string, s Settings) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if s.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: s.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: creating client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  s.Model,
		config: generateConfig(s),
	}, nil
}

func generateConfig(s Settings) *genai.GenerateContentConfig {
	blockNone := func(c genai.HarmCategory) *genai.SafetySetting {
		return &genai.SafetySetting{Category: c, Threshold: genai.HarmBlockThresholdBlockNone}
	}
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(s.Temperature)),
		TopP:            genai.Ptr(float32(s.TopP)),
		TopK:            genai.Ptr(float32(s.TopK)),
		MaxOutputTokens: int32(s.MaxTokens),
		SafetySettings: []*genai.SafetySetting{
			blockNone(genai.HarmCategoryHateSpeech),
			blockNone(genai.HarmCategoryHarassment),
			blockNone(genai.HarmCategorySexuallyExplicit),
			blockNone(genai.HarmCategoryDangerousContent),
		},
	}
}

func (g *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	res, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}, g.config)
	if err != nil {
		return "", fmt.Errorf("gemini: generating content: %w", err)
	}
	return responseText(res)
}

// responseText joins the non-thought text parts of the first candidate.
func responseText(res *genai.GenerateContentResponse) (string, error) {
	if res == nil || len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		if res != nil && res.PromptFeedback != nil && res.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("%w: prompt blocked (%s)", ErrEmptyResponse, res.PromptFeedback.BlockReason)
		}
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: finish reason %s", ErrEmptyResponse, res.Candidates[0].FinishReason)
	}
	return sb.String(), nil
}

// ModelInfo describes a model visible to the API key.
type ModelInfo struct {
	Name        string
	DisplayName string
	Actions     []string
}

// ListModels pages through every model available to the key.
func (g *GeminiClient) ListModels(ctx context.Context) ([]ModelInfo, error) {
	var out []ModelInfo
	for m, err := range g.client.Models.All(ctx) {
		if err != nil {
			return nil, fmt.Errorf("gemini: listing models: %w", err)
		}
		out = append(out, ModelInfo{
			Name:        m.Name,
			DisplayName: m.DisplayName,
			Actions:     m.SupportedActions,
		})
	}
	return out, nil
}
