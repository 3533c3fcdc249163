package llm

import (
	"context"

	"github.com/promptlens/promptlens/models"
	"github.com/promptlens/promptlens/utils"
)

// CompletionsPayload is the provider-neutral request for a single chat
// completion: a system+user message pair plus fixed sampling parameters.
type CompletionsPayload struct {
	Model        string
	SystemPrompt string
	UserPrompt   string
	Temperature  float32
	MaxTokens    int
}

// CompletionsClient is implemented by each upstream provider. It issues
// exactly one completion call authenticated with apiKey and returns the
// text of the first choice. No retries.
type CompletionsClient interface {
	GenerateCompletions(ctx context.Context, payload CompletionsPayload, apiKey string) (string, error)
}

// Provider names as used for dispatch and in /api/models.
const (
	ProviderOpenAI = "OpenAI"
	ProviderClaude = "Claude"
	ProviderGemini = "Gemini"
	ProviderMock   = "Mock"
)

// SupportedModels is the fixed set a client may select from. Anything
// outside this set falls back to the configured default model.
var SupportedModels = []models.ModelInfo{
	{ID: "gpt-4o-mini", Name: "GPT-4o mini", Provider: ProviderOpenAI},
	{ID: "gpt-4o", Name: "GPT-4o", Provider: ProviderOpenAI},
	{ID: "claude-3-5-haiku-20241022", Name: "Claude 3.5 Haiku", Provider: ProviderClaude},
	{ID: "gemini-1.5-flash", Name: "Gemini 1.5 Flash", Provider: ProviderGemini},
}

// IsSupportedModel reports whether model is in the fixed supported set.
func IsSupportedModel(model string) bool {
	for _, m := range SupportedModels {
		if m.ID == model {
			return true
		}
	}
	return false
}

// ProviderForModel maps a model identifier to its provider name.
func ProviderForModel(model string) string {
	switch {
	case utils.StartsWith(model, "claude"):
		return ProviderClaude
	case utils.StartsWith(model, "gemini"):
		return ProviderGemini
	case utils.StartsWith(model, "mock"):
		return ProviderMock
	default:
		return ProviderOpenAI
	}
}
