package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/promptlens/promptlens/claude"
	"github.com/promptlens/promptlens/gemini"
	"github.com/promptlens/promptlens/internal/config"
	"github.com/promptlens/promptlens/internal/handlers"
	"github.com/promptlens/promptlens/internal/middleware"
	"github.com/promptlens/promptlens/localratelimiter"
	"github.com/promptlens/promptlens/mockllm"
	"github.com/promptlens/promptlens/openai"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "default"
	}

	// Initialize configuration
	config, err := config.LoadConfig(env)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Provider clients
	openaiClient := openai.NewClient("")
	claudeClient := claude.NewClient()
	geminiClient := gemini.NewClient()
	mockLLMClient := mockllm.NewClient()

	// Rate Limiter
	rateLimiter := localratelimiter.NewRateLimiter(config.Server.RateLimitPerSec)

	// Initialize Router
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(middleware.RequestID())
	router.Use(rateLimiter.RateLimiterMiddleware())
	// Metrics handler
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	// Health Handler
	healthHandler := handlers.NewHealthHandler()
	router.GET("/health", healthHandler.IsHealthy)
	// Models Handler
	modelsHandler := handlers.NewModelsHandler()
	router.GET("/api/models", modelsHandler.ListModels)
	// Refine Handler
	refineHandler := handlers.NewRefineHandler(openaiClient, claudeClient, geminiClient, mockLLMClient, config.LLM, config.Refine)
	router.POST("/api/refine", refineHandler.Refine)

	if err := router.Run(fmt.Sprintf(":%d", config.Server.Port)); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}
