package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"intent-assistant/config"
	"intent-assistant/pkg/llmprovider"
	"intent-assistant/pkg/log"
)

// newLLMManager builds the provider chain. Providers that fail to
// initialize are logged and skipped.
func newLLMManager(ctx context.Context, cfg config.LLMConfig, l log.Logger) (*llmprovider.Manager, error) {
	providers, errs := llmprovider.InitializeProviders(&cfg)
	for _, err := range errs {
		l.Warnf(ctx, "LLM provider skipped: %v", err)
	}
	if len(providers) == 0 {
		return nil, errors.Join(append([]error{llmprovider.ErrNoProvidersConfigured}, errs...)...)
	}

	retryDelay, err := parseDuration(cfg.RetryDelay, time.Second)
	if err != nil {
		return nil, fmt.Errorf("llm.retry_delay: %w", err)
	}
	maxTotal, err := parseDuration(cfg.MaxTotalTimeout, 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("llm.max_total_timeout: %w", err)
	}

	for _, p := range providers {
		l.Infof(ctx, "LLM provider ready: %s (%s)", p.Name(), p.Model())
	}

	return llmprovider.NewManager(providers, &llmprovider.Config{
		FallbackEnabled: cfg.FallbackEnabled,
		RetryAttempts:   cfg.RetryAttempts,
		RetryDelay:      retryDelay,
		MaxTotalTimeout: maxTotal,
		Temperature:     cfg.Temperature,
		MaxTokens:       cfg.MaxTokens,
	}, l), nil
}

func parseDuration(raw string, def time.Duration) (time.Duration, error) {
	if raw == "" {
		return def, nil
	}
	return time.ParseDuration(raw)
}
