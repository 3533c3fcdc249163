package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	LLM    LLMConfigs
	Refine RefineConfig
}

type ServerConfig struct {
	Port            int
	RateLimitPerSec int
}

type LLMConfigs struct {
	OpenAI OpenAIConfig
	Claude ClaudeConfig
	Gemini GeminiConfig
}

// OpenAIConfig carries the optional server-side default credential used
// only when a request does not supply its own key.
type OpenAIConfig struct {
	Key string
}

type ClaudeConfig struct {
	Key string
}

type GeminiConfig struct {
	Key string
}

type RefineConfig struct {
	DefaultModel    string
	Temperature     float32
	MaxTokens       int
	CacheTTLSeconds int
	UseMockLLM      bool
}

// LoadConfig reads <configName>.yaml from the working directory and
// applies environment overrides. A missing config file is fine; an
// env-only deployment is valid.
func LoadConfig(configName string) (*Config, error) {
	var config Config

	viper.SetConfigName(configName)
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.ratelimitpersec", 5)
	viper.SetDefault("refine.defaultmodel", "gpt-4o-mini")
	viper.SetDefault("refine.temperature", 0.7)
	viper.SetDefault("refine.maxtokens", 1024)
	viper.SetDefault("refine.cachettlseconds", 300)
	viper.SetDefault("refine.usemockllm", false)

	_ = viper.BindEnv("llm.openai.key", "OPENAI_API_KEY")
	_ = viper.BindEnv("llm.claude.key", "ANTHROPIC_API_KEY")
	_ = viper.BindEnv("llm.gemini.key", "GEMINI_API_KEY")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	return &config, nil
}
