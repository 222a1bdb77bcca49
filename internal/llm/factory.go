package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/agenthands/kinship/internal/config"
	"go.uber.org/zap"
)

// NewClient builds the configured provider behind a circuit breaker. An empty
// provider returns a nil client; callers then fall back to plain summaries.
func NewClient(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (LLMClient, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var client LLMClient
	provider := strings.ToLower(cfg.Provider)

	switch provider {
	case "":
		return nil, nil

	case "openai":
		client = NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.BaseURL)

	case "gemini":
		c, err := NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		client = c

	case "claude":
		client = NewClaudeClient(cfg.APIKey, cfg.Model, cfg.BaseURL)

	case "ollama":
		// Ollama serves an OpenAI-compatible API under /v1.
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		if !strings.HasSuffix(baseURL, "/v1") {
			baseURL = strings.TrimRight(baseURL, "/") + "/v1"
		}
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = "ollama" // ignored by Ollama, required by the client
		}
		client = NewOpenAIClient(apiKey, cfg.Model, baseURL)

	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", provider)
	}

	logger.Info("llm client ready",
		zap.String("provider", provider),
		zap.String("model", cfg.Model),
	)

	settings := DefaultBreakerSettings()
	settings.CallTimeout = cfg.Timeout.Duration
	return NewBreakerClient(client, settings, logger), nil
}
