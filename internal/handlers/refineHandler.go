package handlers

import (
	"crypto/sha256"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"github.com/promptlens/promptlens/internal/config"
	"github.com/promptlens/promptlens/internal/metrics"
	"github.com/promptlens/promptlens/internal/refine"
	"github.com/promptlens/promptlens/internal/utils"
	"github.com/promptlens/promptlens/llm"
	"github.com/promptlens/promptlens/models"
)

// RefineHandler serves POST /api/refine: it validates the request,
// resolves a credential, makes exactly one upstream completion call and
// returns a normalized suggestion list. It is stateless across requests
// apart from a short-lived response cache.
type RefineHandler struct {
	openaiClient llm.CompletionsClient
	claudeClient llm.CompletionsClient
	geminiClient llm.CompletionsClient
	mockClient   llm.CompletionsClient
	llmConfig    config.LLMConfigs
	refineConfig config.RefineConfig
	responses    *cache.Cache
}

func NewRefineHandler(
	openaiClient llm.CompletionsClient,
	claudeClient llm.CompletionsClient,
	geminiClient llm.CompletionsClient,
	mockClient llm.CompletionsClient,
	llmConfig config.LLMConfigs,
	refineConfig config.RefineConfig) *RefineHandler {
	ttl := time.Duration(refineConfig.CacheTTLSeconds) * time.Second
	return &RefineHandler{
		openaiClient: openaiClient,
		claudeClient: claudeClient,
		geminiClient: geminiClient,
		mockClient:   mockClient,
		llmConfig:    llmConfig,
		refineConfig: refineConfig,
		responses:    cache.New(ttl, 2*ttl),
	}
}

func (h *RefineHandler) Refine(c *gin.Context) {
	var request models.RefineRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		metrics.RefineRequests.WithLabelValues("invalid").Inc()
		utils.ProcessInvalidPrompt(c)
		return
	}
	if request.Prompt == nil || strings.TrimSpace(*request.Prompt) == "" {
		metrics.RefineRequests.WithLabelValues("invalid").Inc()
		utils.ProcessInvalidPrompt(c)
		return
	}
	prompt := *request.Prompt

	model := h.resolveModel(request.Model)

	apiKey := h.resolveCredential(request.APIKey, model)
	if apiKey == "" {
		metrics.RefineRequests.WithLabelValues("no_credential").Inc()
		utils.ProcessMissingCredential(c)
		return
	}

	cacheKey := responseCacheKey(model, prompt)
	if cached, found := h.responses.Get(cacheKey); found {
		metrics.CacheHits.Inc()
		metrics.RefineRequests.WithLabelValues("ok").Inc()
		c.JSON(http.StatusOK, models.RefineResponse{Suggestions: cached.([]models.Suggestion)})
		return
	}

	payload := llm.CompletionsPayload{
		Model:        model,
		SystemPrompt: refine.SystemInstruction,
		UserPrompt:   prompt,
		Temperature:  h.refineConfig.Temperature,
		MaxTokens:    h.refineConfig.MaxTokens,
	}

	start := time.Now()
	content, err := h.clientFor(model).GenerateCompletions(c.Request.Context(), payload, apiKey)
	metrics.UpstreamLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		// the error may carry upstream detail; log it, never echo it
		log.Printf("refine: upstream call failed: %v", err)
		metrics.RefineRequests.WithLabelValues("upstream_error").Inc()
		utils.ProcessUpstreamFailure(c)
		return
	}

	var suggestions []models.Suggestion
	raw, ok := refine.ParseContent(content)
	if ok {
		suggestions = refine.Normalize(raw, prompt)
		h.responses.Set(cacheKey, suggestions, cache.DefaultExpiration)
	} else {
		// unparseable model output is not an error; substitute one
		// synthesized suggestion and still succeed
		suggestions = refine.Fallback(prompt)
		metrics.RefineFallbacks.Inc()
	}

	metrics.RefineRequests.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, models.RefineResponse{Suggestions: suggestions})
}

// resolveModel validates a client-selected model against the fixed
// supported set and defaults anything else.
func (h *RefineHandler) resolveModel(model string) string {
	if llm.IsSupportedModel(model) {
		return model
	}
	return h.refineConfig.DefaultModel
}

// resolveCredential prefers the key supplied with the request over the
// provider's configured default. Empty means no credential resolvable.
func (h *RefineHandler) resolveCredential(requestKey, model string) string {
	if requestKey != "" {
		return requestKey
	}
	if h.refineConfig.UseMockLLM {
		// the mock backend takes any credential
		return "mock-key"
	}

	switch llm.ProviderForModel(model) {
	case llm.ProviderClaude:
		return h.llmConfig.Claude.Key
	case llm.ProviderGemini:
		return h.llmConfig.Gemini.Key
	case llm.ProviderMock:
		return "mock-key"
	default:
		return h.llmConfig.OpenAI.Key
	}
}

func (h *RefineHandler) clientFor(model string) llm.CompletionsClient {
	if h.refineConfig.UseMockLLM {
		return h.mockClient
	}

	switch llm.ProviderForModel(model) {
	case llm.ProviderClaude:
		return h.claudeClient
	case llm.ProviderGemini:
		return h.geminiClient
	case llm.ProviderMock:
		return h.mockClient
	default:
		return h.openaiClient
	}
}

// responseCacheKey hashes the prompt so raw prompt text is never held
// as a cache key.
func responseCacheKey(model, prompt string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + prompt))
	return fmt.Sprintf("%x", sum)
}
