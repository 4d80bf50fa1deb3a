package openrouter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/revrost/go-openrouter"
)

var (
	ErrMissingAPIKey = errors.New("openrouter api key is required")
	errNoText        = errors.New("completion contained no text")
)

type OpenRouterGenerator struct {
	client *openrouter.Client
	model  string
}

func NewOpenRouterGenerator(apiKey, model string) (*OpenRouterGenerator, error) {
	return newGenerator(openrouter.DefaultConfig(apiKey), apiKey, model)
}

func newGenerator(cfg *openrouter.ClientConfig, apiKey, model string) (*OpenRouterGenerator, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	return &OpenRouterGenerator{
		client: openrouter.NewClientWithConfig(*cfg),
		model:  model,
	}, nil
}

func (g *OpenRouterGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openrouter.ChatCompletionRequest{
		Model: g.model,
		Messages: []openrouter.ChatCompletionMessage{
			{
				Role:    openrouter.ChatMessageRoleUser,
				Content: openrouter.Content{Text: prompt},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices returned")
	}
	text := resp.Choices[0].Message.Content.Text
	if strings.TrimSpace(text) == "" {
		return "", errNoText
	}
	return text, nil
}
