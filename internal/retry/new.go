// Package retry issues the single context-enriched follow-up model call.
package retry

import (
	"time"

	"intent-assistant/internal/schema"
	"intent-assistant/pkg/llmprovider"
	"intent-assistant/pkg/log"
)

// Invoker runs one enriched model call per try-harder turn.
type Invoker struct {
	llm     llmprovider.Completer
	reg     *schema.Registry
	l       log.Logger
	timeout time.Duration
}

func New(llm llmprovider.Completer, reg *schema.Registry, l log.Logger, cfg Config) *Invoker {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Invoker{
		llm:     llm,
		reg:     reg,
		l:       l,
		timeout: cfg.Timeout,
	}
}
