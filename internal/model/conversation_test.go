package model

import (
	"errors"
	"testing"
	"time"
)

func TestNewConversationContext(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	if _, err := NewConversationContext("", "s1", now); !errors.Is(err, ErrEmptyConnectionID) {
		t.Fatalf("expected ErrEmptyConnectionID, got %v", err)
	}

	c, err := NewConversationContext("c1", "s1", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.CollectedVariables == nil {
		t.Error("collected variables should be initialised")
	}
	if !c.LastUpdated.Equal(now) {
		t.Errorf("LastUpdated = %v, want %v", c.LastUpdated, now)
	}
}

func TestAppendMessage(t *testing.T) {
	c, _ := NewConversationContext("c1", "", time.Now())

	if err := c.AppendMessage("system", "hi", time.Now()); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
	if err := c.AppendMessage(RoleUser, "hi", time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.AppendMessage(RoleAssistant, "hello", time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.Messages) != 2 {
		t.Fatalf("len(Messages) = %d, want 2", len(c.Messages))
	}
}

func TestSetVariables(t *testing.T) {
	c, _ := NewConversationContext("c1", "", time.Now())

	t.Run("rejects overlap", func(t *testing.T) {
		err := c.SetVariables(
			map[string]any{"title": "x"},
			[]MissingVariable{{Name: "title", IsRequired: true}},
		)
		if !errors.Is(err, ErrVariableOverlap) {
			t.Fatalf("expected ErrVariableOverlap, got %v", err)
		}
	})

	t.Run("partition", func(t *testing.T) {
		err := c.SetVariables(
			map[string]any{"title": "x", "priority": "high"},
			[]MissingVariable{{Name: "category", IsRequired: true}, {Name: "tags"}},
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		p := c.Partition()
		if len(p.Collected) != 2 || p.Collected[0] != "priority" {
			t.Errorf("Collected = %v", p.Collected)
		}
		if len(p.Missing) != 2 {
			t.Errorf("Missing = %v", p.Missing)
		}
		if len(p.RequiredMissing) != 1 || p.RequiredMissing[0] != "category" {
			t.Errorf("RequiredMissing = %v", p.RequiredMissing)
		}
	})
}

func TestSetIntentResetsCollected(t *testing.T) {
	c, _ := NewConversationContext("c1", "", time.Now())
	c.SetIntent("create-task")
	_ = c.SetVariables(map[string]any{"title": "x"}, nil)

	c.SetIntent("create-task")
	if len(c.CollectedVariables) != 1 {
		t.Fatalf("same intent should keep variables, got %v", c.CollectedVariables)
	}

	c.SetIntent("analyze")
	if len(c.CollectedVariables) != 0 {
		t.Fatalf("intent change should reset variables, got %v", c.CollectedVariables)
	}
}

func TestCloneIsDeep(t *testing.T) {
	c, _ := NewConversationContext("c1", "", time.Now())
	_ = c.AppendMessage(RoleUser, "hi", time.Now())
	_ = c.SetVariables(map[string]any{"tags": []any{"a"}}, nil)

	cp := c.Clone()
	cp.Messages[0].Text = "changed"
	cp.CollectedVariables["tags"].([]any)[0] = "b"

	if c.Messages[0].Text != "hi" {
		t.Error("clone shares messages")
	}
	if c.CollectedVariables["tags"].([]any)[0] != "a" {
		t.Error("clone shares collected values")
	}
}

func TestRecentMessages(t *testing.T) {
	c, _ := NewConversationContext("c1", "", time.Now())
	for _, s := range []string{"a", "b", "c"} {
		_ = c.AppendMessage(RoleUser, s, time.Now())
	}
	got := c.RecentMessages(2)
	if len(got) != 2 || got[0].Text != "b" {
		t.Errorf("RecentMessages(2) = %+v", got)
	}
	if len(c.RecentMessages(0)) != 3 {
		t.Error("RecentMessages(0) should return all")
	}
}
