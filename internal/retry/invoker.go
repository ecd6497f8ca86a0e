package retry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"intent-assistant/internal/gatherer"
	"intent-assistant/internal/schema"
	"intent-assistant/pkg/llmjson"
	"intent-assistant/pkg/llmprovider"
)

// RetryOnce asks the model exactly once to fill the missing fields of
// intent using the enriched context. Every failure is a *RetryError.
func (inv *Invoker) RetryOnce(ctx context.Context, intent string, original map[string]any, enriched gatherer.EnrichedContext) (EnhancedOutput, error) {
	is, ok := inv.reg.Intent(intent)
	if !ok {
		return EnhancedOutput{}, &RetryError{Stage: StageParse, Err: fmt.Errorf("%w: %q", ErrUnknownIntent, intent)}
	}

	messages := []llmprovider.Message{
		{Role: llmprovider.RoleSystem, Content: fmt.Sprintf(promptRetrySystem, intent)},
		{Role: llmprovider.RoleUser, Content: buildPrompt(is, original, enriched)},
	}

	callCtx, cancel := context.WithTimeout(ctx, inv.timeout)
	defer cancel()

	text, err := inv.llm.Complete(callCtx, messages)
	if err != nil {
		stage := StageTransport
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			stage = StageTimeout
		}
		inv.l.Warnf(ctx, "%s: %s: %v", LogPrefixRetryOnce, stage, err)
		return EnhancedOutput{}, &RetryError{Stage: stage, Err: err}
	}
	if strings.TrimSpace(text) == "" {
		return EnhancedOutput{}, &RetryError{Stage: StageParse, Err: ErrEmptyResponse}
	}

	obj, err := llmjson.Parse(text)
	if err != nil {
		inv.l.Warnf(ctx, "%s: parse: %v", LogPrefixRetryOnce, err)
		return EnhancedOutput{}, &RetryError{Stage: StageParse, Err: err}
	}

	fields := obj
	if inner, ok := obj["fields"].(map[string]any); ok {
		fields = inner
	}

	out := EnhancedOutput{
		Fields:  merge(original, fields),
		Sources: provenance(enriched),
	}
	inv.l.Infof(ctx, "%s: intent=%s returned %d fields", LogPrefixRetryOnce, intent, len(fields))
	return out, nil
}

// merge overlays next on base. Absent values in next never erase base.
func merge(base, next map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(next))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range next {
		if schema.IsAbsent(v) {
			continue
		}
		out[k] = v
	}
	return out
}

func provenance(enriched gatherer.EnrichedContext) []string {
	var out []string
	seen := map[string]bool{}
	for _, r := range enriched.SourceResults {
		if !r.Success {
			continue
		}
		for _, p := range r.Provenance {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out
}
