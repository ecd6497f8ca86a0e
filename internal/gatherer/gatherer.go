package gatherer

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"intent-assistant/internal/strategy"
	"intent-assistant/pkg/log"
)

// Gatherer runs registered context sources for a turn.
type Gatherer struct {
	l              log.Logger
	handlerTimeout time.Duration
	concurrency    int

	mu       sync.RWMutex
	handlers map[string]map[string]registration
}

var _ strategy.SourceChecker = (*Gatherer)(nil)

// Config tunes a Gatherer. Zero values pick the defaults.
type Config struct {
	HandlerTimeout time.Duration
	Concurrency    int
}

// New returns an empty Gatherer.
func New(l log.Logger, cfg Config) *Gatherer {
	if cfg.HandlerTimeout <= 0 {
		cfg.HandlerTimeout = DefaultHandlerTimeout
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	return &Gatherer{
		l:              l,
		handlerTimeout: cfg.HandlerTimeout,
		concurrency:    cfg.Concurrency,
		handlers:       map[string]map[string]registration{},
	}
}

// Register binds a handler to (intent, sourceID).
func (g *Gatherer) Register(intent, sourceID string, kind SourceKind, h Handler) error {
	switch {
	case intent == "":
		return ErrEmptyIntent
	case sourceID == "":
		return ErrEmptySourceID
	case h == nil:
		return ErrNilHandler
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.handlers[intent] == nil {
		g.handlers[intent] = map[string]registration{}
	}
	g.handlers[intent][sourceID] = registration{kind: kind, handler: h}
	return nil
}

// HasSource reports whether a handler is registered for (intent, sourceID).
func (g *Gatherer) HasSource(intent, sourceID string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.handlers[intent][sourceID]
	return ok
}

// Gather calls every source in the plan once, concurrently. A failing or
// panicking handler only marks its own result as failed.
func (g *Gatherer) Gather(ctx context.Context, req Request) EnrichedContext {
	out := EnrichedContext{
		Intent:        req.Intent,
		Message:       req.Message,
		History:       req.Conversation.RecentMessages(0),
		Collected:     req.Conversation.CollectedVariables,
		MissingFields: append([]string(nil), req.MissingFields...),
		Fields:        map[string]FieldContext{},
		PriorAttempts: append([]Attempt(nil), req.PriorAttempts...),
	}

	sourceIDs := req.Plan.SourceIDs()
	results := make([]SourceResult, len(sourceIDs))

	in := HandlerInput{
		Intent:         req.Intent,
		Message:        req.Message,
		Fields:         req.Plan.Fields,
		OriginalOutput: req.OriginalOutput,
		Conversation:   req.Conversation,
		UserTasks:      req.UserTasks,
	}

	var eg errgroup.Group
	eg.SetLimit(g.concurrency)
	for i, id := range sourceIDs {
		eg.Go(func() error {
			results[i] = g.invoke(ctx, req.Intent, id, in)
			return nil
		})
	}
	_ = eg.Wait()

	out.SourceResults = results
	for _, r := range results {
		if !r.Success {
			g.l.Warnf(ctx, "%s: source %s failed: %s", LogPrefixGather, r.SourceID, r.Error)
		}
	}

	for _, field := range req.Plan.Fields {
		fc := FieldContext{}
		for _, id := range req.Plan.Sources[field] {
			for _, r := range results {
				if r.SourceID != id || !r.Success {
					continue
				}
				fc.Values = append(fc.Values, GatheredValue{
					SourceID:   r.SourceID,
					Data:       r.Data,
					Provenance: r.Provenance,
					Confidence: Confidence(r.Kind),
				})
			}
		}
		sort.SliceStable(fc.Values, func(a, b int) bool {
			return fc.Values[a].Confidence > fc.Values[b].Confidence
		})
		out.Fields[field] = fc
	}

	g.l.Infof(ctx, "%s: intent=%s sources=%d succeeded=%d", LogPrefixGather, req.Intent, len(results), out.Succeeded())
	return out
}

func (g *Gatherer) invoke(ctx context.Context, intent, sourceID string, in HandlerInput) SourceResult {
	res := SourceResult{SourceID: sourceID}

	g.mu.RLock()
	reg, ok := g.handlers[intent][sourceID]
	g.mu.RUnlock()
	if !ok {
		res.Error = fmt.Sprintf("no handler for source %q", sourceID)
		return res
	}
	res.Kind = reg.kind

	hctx, cancel := context.WithTimeout(ctx, g.handlerTimeout)
	defer cancel()

	type outcome struct {
		result HandlerResult
		err    error
	}
	done := make(chan outcome, 1)
	start := time.Now()

	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- outcome{err: fmt.Errorf("%w: %v", ErrHandlerPanic, p)}
			}
		}()
		r, err := reg.handler(hctx, in)
		done <- outcome{result: r, err: err}
	}()

	select {
	case o := <-done:
		res.Duration = time.Since(start)
		if o.err != nil {
			res.Error = o.err.Error()
			return res
		}
		res.Success = true
		res.Data = o.result.Data
		res.Provenance = o.result.Sources
		return res
	case <-hctx.Done():
		res.Duration = time.Since(start)
		res.Error = hctx.Err().Error()
		return res
	}
}

// Confidence returns the ranking weight of a source kind.
func Confidence(kind SourceKind) float64 {
	if c, ok := confidenceByKind[kind]; ok {
		return c
	}
	return unknownKindConfidence
}
