package mockllm

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/promptlens/promptlens/llm"
)

// Client is a canned completions client used in development mode and in
// handler tests. Content and Err override the default reply when set.
// Every call is recorded so tests can assert on the outbound payload
// and credential.
type Client struct {
	Content string
	Err     error
	Delay   time.Duration

	mu    sync.Mutex
	calls []Call
}

// Call is one recorded GenerateCompletions invocation.
type Call struct {
	Payload llm.CompletionsPayload
	APIKey  string
}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) GenerateCompletions(ctx context.Context, payload llm.CompletionsPayload, apiKey string) (string, error) {
	if c.Delay > 0 {
		select {
		case <-time.After(c.Delay):
		case <-ctx.Done():
			return "", fmt.Errorf("mock completion: %w", ctx.Err())
		}
	}

	c.mu.Lock()
	c.calls = append(c.calls, Call{Payload: payload, APIKey: apiKey})
	c.mu.Unlock()

	if c.Err != nil {
		return "", c.Err
	}
	if c.Content != "" {
		return c.Content, nil
	}
	return defaultContent(payload.UserPrompt), nil
}

// CallCount returns how many calls were made so far.
func (c *Client) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

// LastCall returns the most recent recorded call, if any.
func (c *Client) LastCall() (Call, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.calls) == 0 {
		return Call{}, false
	}
	return c.calls[len(c.calls)-1], true
}

func defaultContent(prompt string) string {
	reply := map[string]any{
		"suggestions": []map[string]any{
			{
				"id":          "1",
				"refined":     "Explain in detail: " + prompt,
				"clarity":     8,
				"explanation": "Added an explicit instruction verb.",
			},
			{
				"id":          "2",
				"refined":     prompt + " Answer step by step.",
				"clarity":     7,
				"explanation": "Asked for structured output.",
			},
		},
	}
	b, _ := json.Marshal(reply)
	return string(b)
}
