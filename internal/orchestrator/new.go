// Package orchestrator runs one conversation turn end to end.
package orchestrator

import (
	"time"

	"intent-assistant/internal/schema"
	"intent-assistant/internal/strategy"
	"intent-assistant/pkg/llmprovider"
	"intent-assistant/pkg/log"
)

// Config tunes the orchestrator.
type Config struct {
	MaxHistory int
	Timezone   string
}

type Orchestrator struct {
	llm      llmprovider.Completer
	reg      *schema.Registry
	resolver *strategy.Resolver
	gatherer ContextGatherer
	retrier  Retrier
	l        log.Logger

	maxHistory int
	loc        *time.Location
	now        func() time.Time
}

func New(
	llm llmprovider.Completer,
	reg *schema.Registry,
	resolver *strategy.Resolver,
	g ContextGatherer,
	r Retrier,
	l log.Logger,
	cfg Config,
) *Orchestrator {
	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = DefaultMaxHistory
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return &Orchestrator{
		llm:        llm,
		reg:        reg,
		resolver:   resolver,
		gatherer:   g,
		retrier:    r,
		l:          l,
		maxHistory: cfg.MaxHistory,
		loc:        loc,
		now:        time.Now,
	}
}
