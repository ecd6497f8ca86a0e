package conversation

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intent-assistant/internal/model"
	"intent-assistant/pkg/log"
)

func newStore() *Store {
	s := New(log.NewNop())
	s.now = func() time.Time { return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestGetCreatesLazily(t *testing.T) {
	s := newStore()

	c, err := s.Get("c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", c.ConnectionID)
	assert.NotEmpty(t, c.SessionID)
	assert.Equal(t, 1, s.Len())

	again, err := s.Get("c1")
	require.NoError(t, err)
	assert.Equal(t, c.SessionID, again.SessionID)

	_, err = s.Get("")
	assert.ErrorIs(t, err, model.ErrEmptyConnectionID)
}

func TestGetReturnsCopy(t *testing.T) {
	s := newStore()
	require.NoError(t, s.Update("c1", func(c *model.ConversationContext) error {
		return c.SetVariables(map[string]any{"title": "Buy milk"}, nil)
	}))

	c, err := s.Get("c1")
	require.NoError(t, err)
	c.CollectedVariables["title"] = "changed"

	fresh, err := s.Get("c1")
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", fresh.CollectedVariables["title"])
}

func TestUpdateIsAllOrNothing(t *testing.T) {
	s := newStore()
	require.NoError(t, s.Update("c1", func(c *model.ConversationContext) error {
		c.SetIntent("create-task")
		return c.SetVariables(map[string]any{"title": "a"}, nil)
	}))

	err := s.Update("c1", func(c *model.ConversationContext) error {
		c.SetIntent("analyze")
		return c.SetVariables(map[string]any{"x": 1}, []model.MissingVariable{{Name: "x"}})
	})
	require.ErrorIs(t, err, model.ErrVariableOverlap)

	c, _ := s.Get("c1")
	assert.Equal(t, "create-task", c.CurrentIntent)
	assert.Equal(t, map[string]any{"title": "a"}, c.CollectedVariables)

	assert.ErrorIs(t, s.Update("c1", nil), ErrNilMutator)
}

func TestUpdateSerializesPerConnection(t *testing.T) {
	s := newStore()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Update("c1", func(c *model.ConversationContext) error {
				return c.AppendMessage(model.RoleUser, fmt.Sprint(i), time.Now())
			})
		}()
	}
	wg.Wait()

	c, _ := s.Get("c1")
	assert.Len(t, c.Messages, 50)
}

func TestSeed(t *testing.T) {
	s := newStore()
	history := []model.ChatMessage{
		{Role: model.RoleUser, Text: "hi"},
		{Role: model.RoleAssistant, Text: "hello"},
	}
	require.NoError(t, s.Seed("c1", "sess", history))

	c, _ := s.Get("c1")
	assert.Equal(t, "sess", c.SessionID)
	require.Len(t, c.Messages, 2)
	assert.Equal(t, s.now(), c.Messages[0].Timestamp)

	require.NoError(t, s.Seed("c1", "other", []model.ChatMessage{{Role: model.RoleUser, Text: "ignored"}}))
	c, _ = s.Get("c1")
	assert.Equal(t, "sess", c.SessionID)
	assert.Len(t, c.Messages, 2)

	assert.ErrorIs(t, s.Seed("c2", "", []model.ChatMessage{{Role: "system", Text: "x"}}), model.ErrUnknownRole)
}

func TestSummarize(t *testing.T) {
	s := newStore()

	_, err := s.Summarize("missing")
	var serr *StateError
	require.ErrorAs(t, err, &serr)
	assert.ErrorIs(t, err, ErrUnknownConnection)
	assert.Equal(t, 0, s.Len())

	require.NoError(t, s.Update("c1", func(c *model.ConversationContext) error {
		c.SetIntent("create-task")
		if err := c.AppendMessage(model.RoleUser, "add a task", time.Now()); err != nil {
			return err
		}
		return c.SetVariables(
			map[string]any{"priority": "medium"},
			[]model.MissingVariable{{Name: "title", IsRequired: true}, {Name: "due_date"}},
		)
	}))

	sum, err := s.Summarize("c1")
	require.NoError(t, err)
	assert.Equal(t, "create-task", sum.Intent)
	assert.Equal(t, 1, sum.MessageCount)
	assert.Equal(t, 1, sum.CollectedCount)
	assert.Equal(t, 2, sum.MissingCount)
	assert.Equal(t, []string{"title"}, sum.RequiredMissing)
	assert.False(t, sum.AllRequiredPresent)

	c, _ := s.Get("c1")
	p := c.Partition()
	assert.Equal(t, len(p.Collected)+len(p.Missing), sum.CollectedCount+sum.MissingCount)

	require.NoError(t, s.Update("c1", func(c *model.ConversationContext) error {
		return c.SetVariables(map[string]any{"title": "x", "priority": "medium"}, []model.MissingVariable{{Name: "due_date"}})
	}))
	sum, _ = s.Summarize("c1")
	assert.True(t, sum.AllRequiredPresent)
}

func TestRemove(t *testing.T) {
	s := newStore()
	_, _ = s.Get("c1")
	s.Remove("c1")
	s.Remove("c1")
	assert.Equal(t, 0, s.Len())

	_, err := s.Summarize("c1")
	assert.ErrorIs(t, err, ErrUnknownConnection)
}

func TestTurnLifecycle(t *testing.T) {
	s := newStore()

	turn, err := s.BeginTurn("c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", turn.ConnectionID())

	_, err = s.BeginTurn("c1")
	assert.ErrorIs(t, err, ErrTurnInProgress)

	other, err := s.BeginTurn("c2")
	require.NoError(t, err)
	other.End()

	snap := turn.Snapshot()
	snap.CurrentIntent = "mutated"
	assert.Equal(t, "", turn.Snapshot().CurrentIntent)

	require.NoError(t, turn.Commit(func(c *model.ConversationContext) error {
		c.SetIntent("analyze")
		return nil
	}))
	turn.End()
	turn.End()
	assert.ErrorIs(t, turn.Commit(func(c *model.ConversationContext) error { return nil }), ErrTurnEnded)

	next, err := s.BeginTurn("c1")
	require.NoError(t, err)
	defer next.End()
	assert.Equal(t, "analyze", next.Snapshot().CurrentIntent)
}

func TestTurnCommitAfterRemove(t *testing.T) {
	s := newStore()
	turn, err := s.BeginTurn("c1")
	require.NoError(t, err)
	defer turn.End()

	s.Remove("c1")

	err = turn.Commit(func(c *model.ConversationContext) error {
		c.SetIntent("create-task")
		return nil
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConnectionClosed))
	var serr *StateError
	assert.ErrorAs(t, err, &serr)

	assert.Equal(t, 0, s.Len())
}
