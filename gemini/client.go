package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/promptlens/promptlens/llm"
)

// Client calls the Gemini API through the generative-ai SDK. A fresh
// SDK client is built per call because the credential travels with the
// request.
type Client struct {
}

func NewClient() *Client {
	return &Client{}
}

// GenerateCompletions issues one generation call and concatenates the
// text parts of the first candidate.
func (c *Client) GenerateCompletions(ctx context.Context, payload llm.CompletionsPayload, apiKey string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", fmt.Errorf("gemini client: %w", err)
	}
	defer client.Close()

	genModel := client.GenerativeModel(payload.Model)
	genModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(payload.SystemPrompt)},
	}
	temperature := payload.Temperature
	genModel.Temperature = &temperature

	resp, err := genModel.GenerateContent(ctx, genai.Text(payload.UserPrompt))
	if err != nil {
		return "", fmt.Errorf("gemini completion: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini completion: no candidates returned")
	}

	var content string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			content += string(text)
		}
	}
	return content, nil
}
