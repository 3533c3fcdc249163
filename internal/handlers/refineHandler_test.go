package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/promptlens/promptlens/internal/config"
	"github.com/promptlens/promptlens/mockllm"
	"github.com/promptlens/promptlens/models"
)

func testRefineConfig() config.RefineConfig {
	return config.RefineConfig{
		DefaultModel:    "gpt-4o-mini",
		Temperature:     0.7,
		MaxTokens:       1024,
		CacheTTLSeconds: 60,
	}
}

func newTestRouter(mock *mockllm.Client, llmCfg config.LLMConfigs) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewRefineHandler(mock, mock, mock, mock, llmCfg, testRefineConfig())
	router := gin.New()
	router.POST("/api/refine", h.Refine)
	return router
}

func postRefine(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/refine", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRefineInvalidPrompt(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing prompt", body: `{}`},
		{name: "null prompt", body: `{"prompt":null}`},
		{name: "non-string prompt", body: `{"prompt":123}`},
		{name: "whitespace prompt", body: `{"prompt":"   "}`},
		{name: "malformed body", body: `{invalid`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := mockllm.NewClient()
			router := newTestRouter(mock, config.LLMConfigs{OpenAI: config.OpenAIConfig{Key: "sk-server"}})

			w := postRefine(t, router, tt.body)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
			var resp models.ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Error != "Invalid prompt provided" {
				t.Errorf("error = %q, want %q", resp.Error, "Invalid prompt provided")
			}
			if mock.CallCount() != 0 {
				t.Errorf("upstream was called %d times, want 0", mock.CallCount())
			}
		})
	}
}

func TestRefineNoCredential(t *testing.T) {
	mock := mockllm.NewClient()
	router := newTestRouter(mock, config.LLMConfigs{})

	w := postRefine(t, router, `{"prompt":"hello"}`)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	var resp models.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(resp.Error, "API key") {
		t.Errorf("error = %q, want a credential-configuration message", resp.Error)
	}
	if mock.CallCount() != 0 {
		t.Errorf("upstream was called %d times, want 0", mock.CallCount())
	}
}

func TestRefineUpstreamFailure(t *testing.T) {
	mock := mockllm.NewClient()
	mock.Err = errors.New("upstream said: 429 too many requests")
	router := newTestRouter(mock, config.LLMConfigs{OpenAI: config.OpenAIConfig{Key: "sk-server"}})

	w := postRefine(t, router, `{"prompt":"hello"}`)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	var resp models.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// the upstream detail must not leak to the client
	if strings.Contains(resp.Error, "429") || strings.Contains(resp.Error, "upstream said") {
		t.Errorf("error %q leaks upstream detail", resp.Error)
	}
}

func TestRefineUnparseableReplyUsesFallback(t *testing.T) {
	const prompt = "Tell me about dogs"
	mock := mockllm.NewClient()
	mock.Content = "Invalid JSON response"
	router := newTestRouter(mock, config.LLMConfigs{OpenAI: config.OpenAIConfig{Key: "sk-server"}})

	w := postRefine(t, router, `{"prompt":"`+prompt+`"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var resp models.RefineResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Suggestions) != 1 {
		t.Fatalf("suggestions = %d, want exactly 1 fallback", len(resp.Suggestions))
	}
	if !strings.Contains(resp.Suggestions[0].Refined, prompt) {
		t.Errorf("fallback %q does not reference the prompt", resp.Suggestions[0].Refined)
	}
}

func TestRefineTruncatesSuggestions(t *testing.T) {
	mock := mockllm.NewClient()
	mock.Content = `{"suggestions":[{"refined":"a"},{"refined":"b"},{"refined":"c"},{"refined":"d"},{"refined":"e"}]}`
	router := newTestRouter(mock, config.LLMConfigs{OpenAI: config.OpenAIConfig{Key: "sk-server"}})

	w := postRefine(t, router, `{"prompt":"hello"}`)

	var resp models.RefineResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Suggestions) != 3 {
		t.Errorf("suggestions = %d, want 3", len(resp.Suggestions))
	}
}

func TestRefineEndToEnd(t *testing.T) {
	mock := mockllm.NewClient() // default canned reply has two suggestions
	router := newTestRouter(mock, config.LLMConfigs{OpenAI: config.OpenAIConfig{Key: "sk-server"}})

	w := postRefine(t, router, `{"prompt":"Tell me about dogs"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var resp models.RefineResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Suggestions) != 2 {
		t.Fatalf("suggestions = %d, want 2", len(resp.Suggestions))
	}
	for i, s := range resp.Suggestions {
		if s.ID == "" || s.Refined == "" || s.Explanation == "" {
			t.Errorf("suggestion %d has empty fields: %+v", i, s)
		}
		if s.Clarity < 1 || s.Clarity > 10 {
			t.Errorf("suggestion %d clarity %d out of [1,10]", i, s.Clarity)
		}
	}
}

func TestRefineClientKeyWinsOverDefault(t *testing.T) {
	mock := mockllm.NewClient()
	router := newTestRouter(mock, config.LLMConfigs{OpenAI: config.OpenAIConfig{Key: "sk-server"}})

	postRefine(t, router, `{"prompt":"hello","apiKey":"sk-client"}`)

	call, ok := mock.LastCall()
	if !ok {
		t.Fatal("upstream was never called")
	}
	if call.APIKey != "sk-client" {
		t.Errorf("outbound key = %q, want the client-supplied %q", call.APIKey, "sk-client")
	}
}

func TestRefineServerDefaultKeyUsed(t *testing.T) {
	mock := mockllm.NewClient()
	router := newTestRouter(mock, config.LLMConfigs{OpenAI: config.OpenAIConfig{Key: "sk-server"}})

	postRefine(t, router, `{"prompt":"hello"}`)

	call, ok := mock.LastCall()
	if !ok {
		t.Fatal("upstream was never called")
	}
	if call.APIKey != "sk-server" {
		t.Errorf("outbound key = %q, want the configured default", call.APIKey)
	}
}

func TestRefineModelValidation(t *testing.T) {
	tests := []struct {
		name      string
		model     string
		wantModel string
	}{
		{name: "unsupported model defaults", model: "gpt-999-turbo", wantModel: "gpt-4o-mini"},
		{name: "empty model defaults", model: "", wantModel: "gpt-4o-mini"},
		{name: "supported model kept", model: "gpt-4o", wantModel: "gpt-4o"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := mockllm.NewClient()
			router := newTestRouter(mock, config.LLMConfigs{OpenAI: config.OpenAIConfig{Key: "sk-server"}})

			body, _ := json.Marshal(map[string]string{"prompt": "hello", "model": tt.model})
			postRefine(t, router, string(body))

			call, ok := mock.LastCall()
			if !ok {
				t.Fatal("upstream was never called")
			}
			if call.Payload.Model != tt.wantModel {
				t.Errorf("outbound model = %q, want %q", call.Payload.Model, tt.wantModel)
			}
		})
	}
}

func TestRefineSystemInstructionSent(t *testing.T) {
	mock := mockllm.NewClient()
	router := newTestRouter(mock, config.LLMConfigs{OpenAI: config.OpenAIConfig{Key: "sk-server"}})

	postRefine(t, router, `{"prompt":"hello"}`)

	call, _ := mock.LastCall()
	if call.Payload.SystemPrompt == "" {
		t.Error("system instruction missing from outbound payload")
	}
	if call.Payload.UserPrompt != "hello" {
		t.Errorf("user prompt = %q, want the literal original", call.Payload.UserPrompt)
	}
}

func TestRefineResponseCache(t *testing.T) {
	mock := mockllm.NewClient()
	router := newTestRouter(mock, config.LLMConfigs{OpenAI: config.OpenAIConfig{Key: "sk-server"}})

	first := postRefine(t, router, `{"prompt":"cached prompt"}`)
	second := postRefine(t, router, `{"prompt":"cached prompt"}`)

	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("statuses = %d, %d, want both 200", first.Code, second.Code)
	}
	if mock.CallCount() != 1 {
		t.Errorf("upstream calls = %d, want 1 (second served from cache)", mock.CallCount())
	}
	if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
		t.Error("cached response differs from the original")
	}
}
