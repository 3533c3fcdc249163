package claude

import (
	"context"
	"fmt"

	"github.com/liushuangls/go-anthropic"

	"github.com/promptlens/promptlens/llm"
)

// Client calls the Anthropic messages API through go-anthropic.
type Client struct {
}

func NewClient() *Client {
	return &Client{}
}

// GenerateCompletions issues one messages call. Anthropic takes the
// system prompt as a top-level parameter, not as a message.
func (c *Client) GenerateCompletions(ctx context.Context, payload llm.CompletionsPayload, apiKey string) (string, error) {
	client := anthropic.NewClient(apiKey)

	request := anthropic.MessagesRequest{
		Model:     payload.Model,
		System:    payload.SystemPrompt,
		MaxTokens: payload.MaxTokens,
		Messages: []anthropic.Message{
			{
				Role: "user",
				Content: []anthropic.MessageContent{
					{
						Type: "text",
						Text: &payload.UserPrompt,
					},
				},
			},
		},
	}
	if payload.Temperature > 0 {
		request.Temperature = &payload.Temperature
	}

	resp, err := client.CreateMessages(ctx, request)
	if err != nil {
		return "", fmt.Errorf("claude completion: %w", err)
	}
	if len(resp.Content) == 0 {
		return "", fmt.Errorf("claude completion: empty content")
	}

	return resp.Content[0].Text, nil
}
