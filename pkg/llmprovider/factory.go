package llmprovider

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"intent-assistant/config"
	"intent-assistant/pkg/gemini"
)

// Default base URLs for OpenAI-compatible providers.
const (
	DeepSeekBaseURL = "https://api.deepseek.com/v1"
	QwenBaseURL     = "https://dashscope-intl.aliyuncs.com/compatible-mode/v1"
)

// InitializeProviders creates Provider instances from config.LLMConfig
// Returns providers sorted by priority (ascending) with disabled providers filtered out
// Skips providers that fail to initialize instead of failing the entire service
func InitializeProviders(cfg *config.LLMConfig) ([]Provider, []error) {
	if cfg == nil {
		return nil, []error{fmt.Errorf("LLM config is nil")}
	}

	var enabled []config.ProviderConfig
	for _, p := range cfg.Providers {
		if p.Enabled {
			enabled = append(enabled, p)
		}
	}
	if len(enabled) == 0 {
		return nil, []error{ErrNoProvidersConfigured}
	}

	sort.SliceStable(enabled, func(i, j int) bool {
		return enabled[i].Priority < enabled[j].Priority
	})

	var providers []Provider
	var initErrors []error
	for _, p := range enabled {
		provider, err := createProvider(p)
		if err != nil {
			initErrors = append(initErrors, fmt.Errorf("provider %s (priority %d): %w", p.Name, p.Priority, err))
			continue
		}
		providers = append(providers, provider)
	}

	return providers, initErrors
}

// createProvider creates a concrete provider instance based on the provider config
func createProvider(cfg config.ProviderConfig) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	switch strings.ToLower(cfg.Name) {
	case "gemini":
		httpClient := &http.Client{Timeout: gemini.DefaultTimeout}
		if d, err := time.ParseDuration(cfg.Timeout); err == nil && d > 0 {
			httpClient.Timeout = d
		}
		client, err := gemini.New(gemini.Config{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			APIURL:     cfg.BaseURL,
			HTTPClient: httpClient,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		return NewGeminiAdapter(client), nil

	case "openai":
		return NewOpenAIAdapter("openai", cfg.APIKey, cfg.BaseURL, cfg.Model), nil

	case "deepseek":
		return NewOpenAIAdapter("deepseek", cfg.APIKey, orDefault(cfg.BaseURL, DeepSeekBaseURL), cfg.Model), nil

	case "qwen", "alibaba":
		return NewOpenAIAdapter("qwen", cfg.APIKey, orDefault(cfg.BaseURL, QwenBaseURL), cfg.Model), nil

	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Name)
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
