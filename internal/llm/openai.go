package llm

import (
	"context"
	"fmt"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIClient calls any OpenAI-compatible chat completions endpoint.
// The chat API has no top_k, so that setting is ignored.
type OpenAIClient struct {
	client   openai.Client
	settings Settings
}

func NewOpenAIClient(apiKey string, s Settings) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if s.Model == "" {
		return nil, fmt.Errorf("openai: model is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if s.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(s.BaseURL))
	}
	return &OpenAIClient{client: openai.NewClient(opts...), settings: s}, nil
}

func (o *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.settings.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(o.settings.Temperature),
		TopP:        openai.Float(o.settings.TopP),
		MaxTokens:   openai.Int(int64(o.settings.MaxTokens)),
	})
	if err != nil {
		return "", fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
