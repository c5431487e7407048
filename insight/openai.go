package insight

import (
	"context"
	"errors"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const defaultModel = "gpt-4o-mini"

// OpenAIGenerator calls an OpenAI-compatible chat completion endpoint.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

// FromEnv selects the generator once at process start.
//
// INSIGHT_API_KEY: required to enable generation.
// INSIGHT_BASE_URL: optional, for OpenAI-compatible gateways.
// INSIGHT_MODEL: optional, defaults to gpt-4o-mini.
func FromEnv() Generator {
	apiKey := strings.TrimSpace(os.Getenv("INSIGHT_API_KEY"))
	if apiKey == "" {
		return Disabled{}
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL := strings.TrimSpace(os.Getenv("INSIGHT_BASE_URL")); baseURL != "" {
		cfg.BaseURL = baseURL
	}
	model := strings.TrimSpace(os.Getenv("INSIGHT_MODEL"))
	if model == "" {
		model = defaultModel
	}

	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, system string, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty completion")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
