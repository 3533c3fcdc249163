package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/promptlens/promptlens/models"
)

const genericErrorMessage = "An unexpected error occurred. Please try again."

// Client talks to the promptlens server from the terminal UI.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Refine posts the prompt and returns the suggestion list. When the
// server answered with a structured error payload its message is
// returned verbatim; transport and decode problems come back as one
// generic message so the UI never shows raw internals.
func (c *Client) Refine(ctx context.Context, prompt, apiKey, model string) ([]models.Suggestion, error) {
	body, err := json.Marshal(models.RefineRequest{
		Prompt: &prompt,
		APIKey: apiKey,
		Model:  model,
	})
	if err != nil {
		return nil, errors.New(genericErrorMessage)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/refine", bytes.NewReader(body))
	if err != nil {
		return nil, errors.New(genericErrorMessage)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.New(genericErrorMessage)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.New(genericErrorMessage)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr models.ErrorResponse
		if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Error != "" {
			return nil, errors.New(apiErr.Error)
		}
		return nil, errors.New(genericErrorMessage)
	}

	var refineResp models.RefineResponse
	if err := json.Unmarshal(raw, &refineResp); err != nil {
		return nil, errors.New(genericErrorMessage)
	}
	return refineResp.Suggestions, nil
}

// Models fetches the fixed model set the server accepts. Used once at
// startup; failures are not fatal, the server default is used instead.
func (c *Client) Models(ctx context.Context) ([]models.ModelInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/models", nil)
	if err != nil {
		return nil, fmt.Errorf("models request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("models request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("models request: status %d", resp.StatusCode)
	}

	var list []models.ModelInfo
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("models request: decode: %w", err)
	}
	return list, nil
}
