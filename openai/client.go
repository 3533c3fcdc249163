package openai

import (
	"context"
	"fmt"

	openaigo "github.com/sashabaranov/go-openai"

	"github.com/promptlens/promptlens/llm"
)

// Client calls the OpenAI chat completions API. The API key travels
// per call, not per client, because the server prefers a user-supplied
// credential over its own configured default.
type Client struct {
	baseURL string
}

// NewClient returns a client for the public endpoint when baseURL is
// empty; tests point baseURL at a local server.
func NewClient(baseURL string) *Client {
	return &Client{baseURL: baseURL}
}

// GenerateCompletions issues one completion call and returns the text
// of the first choice.
func (c *Client) GenerateCompletions(ctx context.Context, payload llm.CompletionsPayload, apiKey string) (string, error) {
	cfg := openaigo.DefaultConfig(apiKey)
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	client := openaigo.NewClientWithConfig(cfg)

	resp, err := client.CreateChatCompletion(ctx, openaigo.ChatCompletionRequest{
		Model: payload.Model,
		Messages: []openaigo.ChatCompletionMessage{
			{
				Role:    openaigo.ChatMessageRoleSystem,
				Content: payload.SystemPrompt,
			},
			{
				Role:    openaigo.ChatMessageRoleUser,
				Content: payload.UserPrompt,
			},
		},
		Temperature: payload.Temperature,
		MaxTokens:   payload.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai completion: no choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}
