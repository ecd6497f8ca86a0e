package orchestrator

import (
	"context"

	"intent-assistant/internal/gatherer"
	"intent-assistant/internal/retry"
)

// ContextGatherer collects extra context for a try-harder turn.
type ContextGatherer interface {
	Gather(ctx context.Context, req gatherer.Request) gatherer.EnrichedContext
}

// Retrier issues the single enriched model call.
type Retrier interface {
	RetryOnce(ctx context.Context, intent string, original map[string]any, enriched gatherer.EnrichedContext) (retry.EnhancedOutput, error)
}

var (
	_ ContextGatherer = (*gatherer.Gatherer)(nil)
	_ Retrier         = (*retry.Invoker)(nil)
)
