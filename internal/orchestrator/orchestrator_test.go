package orchestrator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intent-assistant/internal/conversation"
	"intent-assistant/internal/gatherer"
	"intent-assistant/internal/model"
	"intent-assistant/internal/retry"
	"intent-assistant/internal/schema"
	"intent-assistant/internal/strategy"
	"intent-assistant/internal/validation"
	"intent-assistant/pkg/llmprovider"
	"intent-assistant/pkg/log"
)

const blockReply = "<block>"

// scriptedLLM answers calls in order and counts them.
type scriptedLLM struct {
	mu      sync.Mutex
	replies []string
	errs    []error
	calls   int
	prompts [][]llmprovider.Message
}

func (s *scriptedLLM) Complete(ctx context.Context, messages []llmprovider.Message) (string, error) {
	s.mu.Lock()
	i := s.calls
	s.calls++
	s.prompts = append(s.prompts, messages)
	s.mu.Unlock()

	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i >= len(s.replies) {
		return "", errors.New("unexpected call")
	}
	if s.replies[i] == blockReply {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return s.replies[i], nil
}

func (s *scriptedLLM) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type recorder struct {
	mu    sync.Mutex
	steps []string
}

func (r *recorder) Thinking(ctx context.Context, step, details string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, step)
}

type harness struct {
	llm   *scriptedLLM
	store *conversation.Store
	orch  *Orchestrator
}

func newHarness(t *testing.T, categoryHandler gatherer.Handler, replies ...string) *harness {
	t.Helper()
	reg, err := schema.LoadFile("../../config/intents.yaml", validation.New(nil))
	require.NoError(t, err)

	llm := &scriptedLLM{replies: replies}
	g := gatherer.New(log.NewNop(), gatherer.Config{HandlerTimeout: time.Second})
	if categoryHandler != nil {
		require.NoError(t, g.Register("create-task", "category_list", gatherer.KindCategoryCatalog, categoryHandler))
	}
	inv := retry.New(llm, reg, log.NewNop(), retry.Config{Timeout: 50 * time.Millisecond})

	o := New(llm, reg, strategy.New(g), g, inv, log.NewNop(), Config{})
	o.now = func() time.Time { return time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC) }
	return &harness{llm: llm, store: conversation.New(log.NewNop()), orch: o}
}

func (h *harness) turn(t *testing.T, id, msg string) (TurnResult, error) {
	t.Helper()
	turn, err := h.store.BeginTurn(id)
	require.NoError(t, err)
	defer turn.End()
	return h.orch.HandleTurn(context.Background(), turn, Inbound{Message: msg, TodaysDate: "2026-10-18"}, nil)
}

func categories(names ...string) gatherer.Handler {
	return func(ctx context.Context, in gatherer.HandlerInput) (gatherer.HandlerResult, error) {
		return gatherer.HandlerResult{Data: names, Sources: []string{"categories"}}, nil
	}
}

func assertDisjoint(t *testing.T, c model.ConversationContext) {
	t.Helper()
	for _, m := range c.MissingVariables {
		_, ok := c.CollectedVariables[m.Name]
		assert.False(t, ok, "%s is both collected and missing", m.Name)
	}
}

func TestCreateTaskWithDefaults(t *testing.T) {
	h := newHarness(t, categories("work"),
		`{"intent":"create-task","fields":{"title":"Buy milk","category":"errands"},"reply":"Adding it."}`)

	res, err := h.turn(t, "c1", "add buy milk to errands")
	require.NoError(t, err)

	assert.Equal(t, 1, h.llm.Calls())
	assert.False(t, res.Retried)
	assert.Equal(t, ProceedWithDefaults{AppliedFields: []string{"priority"}, IgnoredFields: []string{"due_date", "tags"}}, res.Outcome)
	assert.Equal(t, "Adding it.", res.Content)
	assert.Equal(t, map[string]any{"title": "Buy milk", "category": "errands", "priority": "medium"}, res.Fields)
	assert.Equal(t, []State{StateIngested, StateFirstPassComplete, StateValidated, StateDefaultsApplied, StateResponded}, res.Path)

	c, _ := h.store.Get("c1")
	assert.Equal(t, "create-task", c.CurrentIntent)
	require.Len(t, c.Messages, 2)
	assert.Equal(t, model.RoleUser, c.Messages[0].Role)
	assert.Equal(t, "Adding it.", c.Messages[1].Text)
	assertDisjoint(t, c)
	assert.ElementsMatch(t, []string{"due_date", "tags"}, c.Partition().Missing)
}

func TestCreateTaskAsksUser(t *testing.T) {
	h := newHarness(t, categories("work"), `{"intent":"create-task","fields":{"category":"work"}}`)

	res, err := h.turn(t, "c1", "add something for work")
	require.NoError(t, err)

	assert.Equal(t, 1, h.llm.Calls())
	ask, ok := res.Outcome.(AskUserOutcome)
	require.True(t, ok)
	assert.Equal(t, []string{"title", "priority", "due_date", "tags"}, ask.MissingFields)
	assert.Contains(t, ask.Message, "short task title")
	assert.Equal(t, ask.Message, res.Content)

	c, _ := h.store.Get("c1")
	assert.Equal(t, map[string]any{"category": "work"}, c.CollectedVariables)
	assert.Equal(t, []string{"title"}, c.Partition().RequiredMissing)
	assertDisjoint(t, c)
}

func TestCreateTaskTryHarderSucceeds(t *testing.T) {
	h := newHarness(t, categories("errands", "work"),
		`{"intent":"create-task","fields":{"title":"Buy milk"}}`,
		`{"fields":{"category":"errands"}}`)

	res, err := h.turn(t, "c1", "add buy milk")
	require.NoError(t, err)

	assert.Equal(t, 2, h.llm.Calls())
	assert.True(t, res.Retried)
	enh, ok := res.Outcome.(ProceedEnhanced)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"title": "Buy milk", "category": "errands", "priority": "medium"}, enh.EnhancedOutput)
	assert.Equal(t, []string{"categories"}, enh.Sources)
	assert.Equal(t, []State{StateIngested, StateFirstPassComplete, StateValidated, StateTryingHarder, StateEnhanced, StateResponded}, res.Path)

	retryPrompt := h.llm.prompts[1][1].Content
	assert.Contains(t, retryPrompt, "errands")

	c, _ := h.store.Get("c1")
	assert.Equal(t, "errands", c.CollectedVariables["category"])
	assertDisjoint(t, c)
}

func TestCreateTaskHandlerFailureAndRetryTimeout(t *testing.T) {
	failing := func(ctx context.Context, in gatherer.HandlerInput) (gatherer.HandlerResult, error) {
		return gatherer.HandlerResult{}, errors.New("storage down")
	}
	h := newHarness(t, failing, `{"intent":"create-task","fields":{"title":"Buy milk"}}`, blockReply)

	res, err := h.turn(t, "c1", "add buy milk")
	require.NoError(t, err)

	assert.Equal(t, 2, h.llm.Calls())
	ask, ok := res.Outcome.(AskUserOutcome)
	require.True(t, ok)
	assert.Equal(t, []string{"category", "priority", "due_date", "tags"}, ask.MissingFields)
	assert.Equal(t, StateAskingUser, res.Path[len(res.Path)-2])

	c, _ := h.store.Get("c1")
	assert.Equal(t, map[string]any{"title": "Buy milk"}, c.CollectedVariables)
	assertDisjoint(t, c)
}

func TestRetryStillMissingAsksUser(t *testing.T) {
	h := newHarness(t, categories("work"),
		`{"intent":"create-task","fields":{"title":"Buy milk"}}`,
		`{"fields":{"category":""}}`)

	res, err := h.turn(t, "c1", "add buy milk")
	require.NoError(t, err)

	assert.Equal(t, 2, h.llm.Calls())
	ask, ok := res.Outcome.(AskUserOutcome)
	require.True(t, ok)
	assert.Equal(t, []string{"category", "priority", "due_date", "tags"}, ask.MissingFields)

	c, _ := h.store.Get("c1")
	assert.Equal(t, map[string]any{"title": "Buy milk"}, c.CollectedVariables)
	assert.ElementsMatch(t, ask.MissingFields, c.Partition().Missing)
}

func TestTryHarderSeesCurrentMessage(t *testing.T) {
	var (
		mu   sync.Mutex
		seen gatherer.HandlerInput
	)
	handler := func(ctx context.Context, in gatherer.HandlerInput) (gatherer.HandlerResult, error) {
		mu.Lock()
		seen = in
		mu.Unlock()
		return gatherer.HandlerResult{Data: []string{"errands"}, Sources: []string{"categories"}}, nil
	}
	h := newHarness(t, handler,
		`{"intent":"create-task","fields":{"title":"Buy milk"}}`,
		`{"fields":{"category":"errands"}}`)

	msg := "add buy milk to my grocery errands list"
	_, err := h.turn(t, "c1", msg)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, msg, seen.Message)
	require.Len(t, seen.Conversation.Messages, 1)
	assert.Equal(t, msg, seen.Conversation.Messages[0].Text)
	assert.Equal(t, model.RoleUser, seen.Conversation.Messages[0].Role)

	assert.Contains(t, h.llm.prompts[1][1].Content, "grocery errands")

	c, _ := h.store.Get("c1")
	require.Len(t, c.Messages, 2)
	assert.Equal(t, msg, c.Messages[0].Text)
}

func TestRelativeDateUsesClientDate(t *testing.T) {
	h := newHarness(t, categories("work"),
		`{"intent":"create-task","fields":{"title":"Pay rent","category":"home","due_date":"tomorrow"}}`)

	turn, err := h.store.BeginTurn("c1")
	require.NoError(t, err)
	defer turn.End()
	res, err := h.orch.HandleTurn(context.Background(), turn, Inbound{Message: "pay rent tomorrow", TodaysDate: "2026-12-31"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "2027-01-01", res.Fields["due_date"])
}

func TestRequiredCompleteNeverAsksOrRetries(t *testing.T) {
	h := newHarness(t, categories("work"),
		`{"intent":"analyze","fields":{"target":"Report","period_days":"14","metric":"completion"}}`)

	res, err := h.turn(t, "c1", "how is the report going over two weeks")
	require.NoError(t, err)

	assert.Equal(t, 1, h.llm.Calls())
	assert.False(t, res.Retried)
	assert.Equal(t, ProceedIgnoring{}, res.Outcome)
	assert.Equal(t, int64(14), res.Fields["period_days"])
}

func TestMultiTurnAccumulates(t *testing.T) {
	h := newHarness(t, nil,
		`{"intent":"create-task","fields":{"category":"work"},"clarification":"What should the task be called?"}`,
		`{"intent":"create-task","fields":{"title":"Write report","due_date":"tomorrow"}}`)

	res, err := h.turn(t, "c1", "add a work task")
	require.NoError(t, err)
	assert.Equal(t, "What should the task be called?", res.Content)

	res, err = h.turn(t, "c1", "write report, due tomorrow")
	require.NoError(t, err)
	_, ok := res.Outcome.(ProceedWithDefaults)
	require.True(t, ok)
	assert.Equal(t, "work", res.Fields["category"])
	assert.Equal(t, "Write report", res.Fields["title"])
	assert.Len(t, res.Fields["due_date"], len("2026-10-19"))

	c, _ := h.store.Get("c1")
	assert.Len(t, c.Messages, 4)
	assertDisjoint(t, c)
}

func TestIntentChangeResetsVariables(t *testing.T) {
	h := newHarness(t, nil,
		`{"intent":"create-task","fields":{"category":"work"}}`,
		`{"intent":"delete-task","fields":{"task_title":"Old"}}`)

	_, err := h.turn(t, "c1", "add a work task")
	require.NoError(t, err)
	res, err := h.turn(t, "c1", "actually delete Old")
	require.NoError(t, err)

	assert.Equal(t, "delete-task", res.Intent)
	assert.Equal(t, map[string]any{"task_title": "Old", "confirmed": false}, res.Fields)
}

func TestUnknownIntent(t *testing.T) {
	h := newHarness(t, nil, `{"intent":"","reply":"Hello there!"}`)

	res, err := h.turn(t, "c1", "hi")
	require.NoError(t, err)
	assert.Equal(t, ProceedIgnoring{}, res.Outcome)
	assert.Equal(t, "Hello there!", res.Content)

	c, _ := h.store.Get("c1")
	assert.Equal(t, "", c.CurrentIntent)
	assert.Len(t, c.Messages, 2)
}

func TestFirstPassFailureCommitsNothing(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
	}{
		{"model error", "", errors.New("quota")},
		{"unparseable", "no json here", nil},
		{"empty", "   ", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, nil, tc.reply)
			h.llm.errs = []error{tc.err}

			_, err := h.turn(t, "c1", "add milk")
			var terr *TurnError
			require.ErrorAs(t, err, &terr)
			assert.Equal(t, StageFirstPass, terr.Stage)
			assert.Equal(t, MsgTurnFailed, terr.UserMessage())

			c, _ := h.store.Get("c1")
			assert.Empty(t, c.Messages)
		})
	}
}

func TestEmptyMessage(t *testing.T) {
	h := newHarness(t, nil)
	_, err := h.turn(t, "c1", "  ")
	var terr *TurnError
	require.ErrorAs(t, err, &terr)
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Equal(t, 0, h.llm.Calls())
}

func TestNotifierOrderAndClosedConnection(t *testing.T) {
	h := newHarness(t, nil, `{"intent":"create-task","fields":{"title":"x","category":"y"}}`)

	turn, err := h.store.BeginTurn("c1")
	require.NoError(t, err)
	defer turn.End()
	h.store.Remove("c1")

	rec := &recorder{}
	_, err = h.orch.HandleTurn(context.Background(), turn, Inbound{Message: "add x"}, rec)
	assert.ErrorIs(t, err, conversation.ErrConnectionClosed)
	assert.Equal(t, []string{"ingested", "first_pass_complete", "validated", "defaults_applied"}, rec.steps)
}

func TestFirstPassPrompt(t *testing.T) {
	h := newHarness(t, nil, `{"intent":""}`)
	turn, err := h.store.BeginTurn("c1")
	require.NoError(t, err)
	defer turn.End()

	_, err = h.orch.HandleTurn(context.Background(), turn, Inbound{
		Message:    "what's up",
		UserTasks:  []string{"Buy milk", "Call mom"},
		TodaysDate: "2026-10-18",
	}, nil)
	require.NoError(t, err)

	system := h.llm.prompts[0][0].Content
	user := h.llm.prompts[0][1].Content
	assert.Contains(t, system, "- create-task: Create a new task")
	assert.Contains(t, system, "title (required")
	assert.Contains(t, user, "Today: 2026-10-18 (Sunday)")
	assert.Contains(t, user, "Tomorrow: 2026-10-19")
	assert.Contains(t, user, "Buy milk; Call mom")
	assert.Contains(t, user, "New message: what's up")
}
