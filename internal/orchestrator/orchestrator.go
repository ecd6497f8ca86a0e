package orchestrator

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"strings"
	"time"

	"intent-assistant/internal/conversation"
	"intent-assistant/internal/gatherer"
	"intent-assistant/internal/model"
	"intent-assistant/internal/schema"
	"intent-assistant/internal/strategy"
)

// turnState carries one turn through the state machine.
type turnState struct {
	o     *Orchestrator
	n     Notifier
	path  []State
	snap  model.ConversationContext
	in    Inbound
	today time.Time
	first FirstPassOutput

	intent    string
	fields    []schema.FieldSpec
	collected map[string]any
	outcome   Outcome
	content   string
	retried   bool
}

func (t *turnState) enter(ctx context.Context, s State, details string) {
	t.path = append(t.path, s)
	t.notify(ctx, s, details)
}

// notify reports progress within the current state.
func (t *turnState) notify(ctx context.Context, s State, details string) {
	if t.n != nil {
		t.n.Thinking(ctx, s.String(), details)
	}
}

// HandleTurn processes one inbound message on turn and commits the result.
// A first-pass failure returns *TurnError and commits nothing. If the
// connection closes mid-turn the commit fails and the result is discarded.
func (o *Orchestrator) HandleTurn(ctx context.Context, turn *conversation.Turn, in Inbound, n Notifier) (TurnResult, error) {
	in.Message = strings.TrimSpace(in.Message)
	if in.Message == "" {
		return TurnResult{}, &TurnError{Stage: StageInput, Err: ErrEmptyMessage}
	}

	t := &turnState{o: o, n: n, snap: turn.Snapshot(), in: in, today: o.today(in.TodaysDate)}
	t.enter(ctx, StateIngested, DetailIngested)

	first, err := o.firstPass(ctx, t.snap, in)
	if err != nil {
		o.l.Errorf(ctx, "%s: %v", LogPrefixHandleTurn, err)
		return TurnResult{}, &TurnError{Stage: StageFirstPass, Err: err}
	}
	t.first = first
	t.enter(ctx, StateFirstPassComplete, fmt.Sprintf(DetailFirstPass, first.Intent))

	is, known := o.reg.Intent(first.Intent)
	if !known {
		t.unknownIntent(ctx)
	} else {
		t.intent = is.Name
		t.fields = is.Fields
		t.resolve(ctx)
	}

	if err := turn.Commit(t.mutator()); err != nil {
		o.l.Warnf(ctx, "%s: commit: %v", LogPrefixHandleTurn, err)
		return TurnResult{}, err
	}
	t.enter(ctx, StateResponded, DetailResponded)

	o.l.Infof(ctx, "%s: intent=%q outcome=%s retried=%t", LogPrefixHandleTurn, t.intent, t.outcome.Kind(), t.retried)
	return TurnResult{
		Intent:  t.intent,
		Content: t.content,
		Outcome: t.outcome,
		Fields:  maps.Clone(t.collected),
		Path:    t.path,
		Retried: t.retried,
	}, nil
}

// unknownIntent handles small talk and misclassification. The context's
// intent and variables are left as they are.
func (t *turnState) unknownIntent(ctx context.Context) {
	t.intent = t.snap.CurrentIntent
	t.collected = t.snap.CollectedVariables
	t.outcome = ProceedIgnoring{}
	t.content = firstNonEmpty(t.first.Reply, t.first.Clarification, MsgSmallTalk)
	t.enter(ctx, StateIgnored, DetailIgnored)
}

func (t *turnState) resolve(ctx context.Context) {
	o := t.o
	data := t.extracted()
	v := o.reg.ValidateIntentAt(t.intent, data, t.today)
	for _, inv := range v.InvalidFields {
		o.l.Debugf(ctx, "%s: %v", LogPrefixHandleTurn, inv)
	}
	t.collected = v.Collected
	t.enter(ctx, StateValidated, fmt.Sprintf(DetailValidated, len(v.Collected), len(v.Missing)))

	d := o.resolver.Resolve(t.intent, v.Missing)
	switch d.Kind {
	case strategy.DecisionAskUser:
		t.askUser(ctx, d.Missing, t.first.Clarification)
	case strategy.DecisionTryHarder:
		t.tryHarder(ctx, data, d)
	case strategy.DecisionUseDefaults:
		t.applyDefaults(ctx, d)
	case strategy.DecisionIgnore:
		t.ignore(ctx, d.Ignored)
	case strategy.DecisionComplete:
		t.ignore(ctx, nil)
	}
}

// extracted layers the model's fields over what was collected earlier for
// the same intent.
func (t *turnState) extracted() map[string]any {
	data := map[string]any{}
	if t.snap.CurrentIntent == t.intent {
		maps.Copy(data, t.snap.CollectedVariables)
	}
	for k, v := range t.first.Fields {
		if !schema.IsAbsent(v) {
			data[k] = v
		}
	}
	return data
}

func (t *turnState) askUser(ctx context.Context, missing []string, clarification string) {
	msg := t.askMessage(missing, clarification)
	t.outcome = AskUserOutcome{Message: msg, MissingFields: missing}
	t.content = msg
	t.enter(ctx, StateAskingUser, fmt.Sprintf(DetailAsking, strings.Join(missing, ", ")))
}

func (t *turnState) applyDefaults(ctx context.Context, d strategy.Decision) {
	applied := make([]string, 0, len(d.Defaults))
	for name, value := range d.Defaults {
		t.collected[name] = value
		applied = append(applied, name)
	}
	sort.Strings(applied)

	t.outcome = ProceedWithDefaults{AppliedFields: applied, IgnoredFields: d.Ignored}
	t.content = t.proceedMessage()
	t.enter(ctx, StateDefaultsApplied, fmt.Sprintf(DetailDefaults, strings.Join(applied, ", ")))
}

func (t *turnState) ignore(ctx context.Context, ignored []string) {
	t.outcome = ProceedIgnoring{IgnoredFields: ignored}
	t.content = t.proceedMessage()
	t.enter(ctx, StateIgnored, DetailIgnored)
}

// tryHarder runs the gatherer and the single retry. Whatever the retry
// returns is revalidated; any required field still missing afterwards, or
// any retry failure, turns into AskUser.
func (t *turnState) tryHarder(ctx context.Context, data map[string]any, d strategy.Decision) {
	o := t.o
	t.enter(ctx, StateTryingHarder, fmt.Sprintf(DetailTrying, strings.Join(d.Plan.Fields, ", ")))

	enriched := o.gatherer.Gather(ctx, gatherer.Request{
		Intent:         t.intent,
		Message:        t.in.Message,
		OriginalOutput: data,
		Conversation:   t.withMessage(),
		MissingFields:  d.Missing,
		Plan:           d.Plan,
		UserTasks:      t.in.UserTasks,
	})
	t.notify(ctx, StateTryingHarder, fmt.Sprintf(DetailGathered, enriched.Succeeded(), len(enriched.SourceResults)))

	t.retried = true
	enhanced, err := o.retrier.RetryOnce(ctx, t.intent, data, enriched)
	if err != nil {
		o.l.Warnf(ctx, "%s: %v", LogPrefixTryHarder, err)
		t.notify(ctx, StateTryingHarder, DetailRetryFailed)
		t.askUser(ctx, t.missingNames(), "")
		return
	}

	v := o.reg.ValidateIntentAt(t.intent, enhanced.Fields, t.today)
	collected := v.Collected
	var requiredMissing []string
	for _, f := range v.Missing {
		if value, ok := d.Defaults[f.Name]; ok {
			collected[f.Name] = value
			continue
		}
		if f.Required {
			requiredMissing = append(requiredMissing, f.Name)
		}
	}

	// The enhanced output is only kept when it completes the intent, so
	// the question covers everything missing from the first pass.
	if len(requiredMissing) > 0 {
		o.l.Infof(ctx, "%s: still missing %v after retry", LogPrefixTryHarder, requiredMissing)
		t.askUser(ctx, t.missingNames(), "")
		return
	}

	t.collected = collected
	t.outcome = ProceedEnhanced{EnhancedOutput: maps.Clone(collected), Sources: enhanced.Sources}
	t.content = t.summaryMessage()
	t.enter(ctx, StateEnhanced, fmt.Sprintf(DetailEnhanced, len(enhanced.Sources)))
}

// withMessage is the snapshot with this turn's user message appended. The
// stored context only gets the message on commit.
func (t *turnState) withMessage() model.ConversationContext {
	c := t.snap.Clone()
	_ = c.AppendMessage(model.RoleUser, t.in.Message, t.o.now())
	return c
}

// mutator records the turn: both messages, the intent, and the recomputed
// collected/missing split.
func (t *turnState) mutator() conversation.Mutator {
	now := t.o.now()
	missing := t.missingVariables()
	return func(c *model.ConversationContext) error {
		if err := c.AppendMessage(model.RoleUser, t.in.Message, now); err != nil {
			return err
		}
		if t.fields != nil {
			c.SetIntent(t.intent)
			if err := c.SetVariables(t.collected, missing); err != nil {
				return err
			}
		}
		return c.AppendMessage(model.RoleAssistant, t.content, now)
	}
}

// missingNames lists the schema fields absent from collected, in schema
// order.
func (t *turnState) missingNames() []string {
	var out []string
	for _, m := range t.missingVariables() {
		out = append(out, m.Name)
	}
	return out
}

func (t *turnState) missingVariables() []model.MissingVariable {
	var out []model.MissingVariable
	for _, f := range t.fields {
		if _, ok := t.collected[f.Name]; ok {
			continue
		}
		hint := ""
		if f.Strategy != nil {
			hint = f.Strategy.Name()
		}
		out = append(out, model.MissingVariable{
			Name:         f.Name,
			IsRequired:   f.Required,
			Description:  f.Description,
			StrategyHint: hint,
		})
	}
	return out
}

func (t *turnState) askMessage(missing []string, clarification string) string {
	if clarification = strings.TrimSpace(clarification); clarification != "" {
		return clarification
	}
	descs := make([]string, 0, len(missing))
	for _, name := range missing {
		descs = append(descs, t.describe(name))
	}
	return fmt.Sprintf(MsgAskPrefix, strings.Join(descs, ", "))
}

func (t *turnState) describe(name string) string {
	for _, f := range t.fields {
		if f.Name == name && f.Description != "" {
			return strings.ToLower(f.Description)
		}
	}
	return name
}

func (t *turnState) proceedMessage() string {
	if reply := strings.TrimSpace(t.first.Reply); reply != "" {
		return reply
	}
	return t.summaryMessage()
}

// summaryMessage lists the collected fields in name order.
func (t *turnState) summaryMessage() string {
	if len(t.collected) == 0 {
		return fmt.Sprintf(MsgProceedNoField, t.intent)
	}
	names := make([]string, 0, len(t.collected))
	for name := range t.collected {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%v", name, t.collected[name]))
	}
	return fmt.Sprintf(MsgProceed, t.intent, strings.Join(parts, ", "))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
