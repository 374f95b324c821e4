package llm

import (
	"fmt"

	"ai-coder/config"
	"ai-coder/services/coder-service/internal/domain"
)

const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// NewModelClient builds the client for cfg.Provider. discovery may be nil, in which
// case the configured base URL is used as is.
func NewModelClient(cfg config.LLMConfig, discovery Discoverer) (domain.ModelClient, error) {
	var resolver Resolver = StaticResolver(cfg.BaseURL)
	if discovery != nil && cfg.DiscoveryService != "" {
		resolver = NewDiscoveryResolver(discovery, cfg.DiscoveryService, cfg.BaseURL)
	}

	switch cfg.Provider {
	case "", ProviderOllama:
		return NewOllamaClient(resolver, cfg.Model, cfg.Timeout), nil
	case ProviderOpenAI:
		return NewOpenAIClient(resolver, cfg.APIKey, cfg.Model, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}
