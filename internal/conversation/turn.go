package conversation

import (
	"fmt"
	"sync/atomic"

	"intent-assistant/internal/model"
)

// Turn is a connection-scoped handle for one inbound message.
type Turn struct {
	id    string
	store *Store
	e     *entry
	ended atomic.Bool
}

// ConnectionID returns the connection the turn belongs to.
func (t *Turn) ConnectionID() string {
	return t.id
}

// Snapshot returns a copy of the context as it is now.
func (t *Turn) Snapshot() model.ConversationContext {
	t.e.mu.Lock()
	defer t.e.mu.Unlock()
	return t.e.state.Clone()
}

// Commit applies the turn's result. It fails with ErrConnectionClosed if
// the connection went away while the turn was running.
func (t *Turn) Commit(mutator Mutator) error {
	if mutator == nil {
		return ErrNilMutator
	}
	if t.ended.Load() {
		return ErrTurnEnded
	}

	t.e.mu.Lock()
	defer t.e.mu.Unlock()
	if t.e.closed {
		return &StateError{ConnectionID: t.id, Err: ErrConnectionClosed}
	}
	if err := t.store.apply(t.e, mutator); err != nil {
		return fmt.Errorf("%s: %w", LogPrefixCommit, err)
	}
	return nil
}

// Seed is Store.Seed for the turn's own connection. Seeding inside the
// turn keeps it from racing another turn's commit.
func (t *Turn) Seed(sessionID string, history []model.ChatMessage) error {
	return t.Commit(t.store.seed(sessionID, history))
}

// End releases the connection for the next turn. Safe to call twice.
func (t *Turn) End() {
	if t.ended.CompareAndSwap(false, true) {
		t.e.inTurn.Store(false)
	}
}
