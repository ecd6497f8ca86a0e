// Package conversation keeps per-connection conversation state.
package conversation

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"intent-assistant/internal/model"
	"intent-assistant/pkg/log"
)

type entry struct {
	mu     sync.Mutex
	state  *model.ConversationContext
	closed bool
	inTurn atomic.Bool
}

// Store holds the live context of every open connection.
type Store struct {
	l   log.Logger
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]*entry
}

func New(l log.Logger) *Store {
	return &Store{
		l:       l,
		now:     time.Now,
		entries: map[string]*entry{},
	}
}

// Get returns a copy of the connection's context, creating it if needed.
func (s *Store) Get(id string) (model.ConversationContext, error) {
	e, err := s.entry(id)
	if err != nil {
		return model.ConversationContext{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone(), nil
}

// Update applies mutator to the connection's context, creating it if
// needed. Updates to one connection are serialized.
func (s *Store) Update(id string, mutator Mutator) error {
	if mutator == nil {
		return ErrNilMutator
	}
	for {
		e, err := s.entry(id)
		if err != nil {
			return err
		}
		e.mu.Lock()
		if e.closed {
			// removed between lookup and lock; start over on a fresh entry
			e.mu.Unlock()
			continue
		}
		err = s.apply(e, mutator)
		e.mu.Unlock()
		if err != nil {
			return fmt.Errorf("%s: %w", LogPrefixUpdate, err)
		}
		return nil
	}
}

// Seed fills a fresh context with client-provided history. It is a no-op
// once the context has messages.
func (s *Store) Seed(id, sessionID string, history []model.ChatMessage) error {
	return s.Update(id, s.seed(sessionID, history))
}

func (s *Store) seed(sessionID string, history []model.ChatMessage) Mutator {
	return func(c *model.ConversationContext) error {
		if len(c.Messages) > 0 {
			return nil
		}
		if sessionID != "" {
			c.SessionID = sessionID
		}
		for _, m := range history {
			at := m.Timestamp
			if at.IsZero() {
				at = s.now()
			}
			if err := c.AppendMessage(m.Role, m.Text, at); err != nil {
				return err
			}
		}
		return nil
	}
}

// Remove drops the connection. A turn still running on it can no longer
// commit.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	e, ok := s.entries[id]
	delete(s.entries, id)
	s.mu.Unlock()
	if !ok {
		return
	}

	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	s.l.Debugf(context.Background(), "%s: removed %s", LogPrefixRemove, id)
}

// Len reports the number of live connections.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Summarize reports counts for an existing connection. Unlike Get it
// never creates one.
func (s *Store) Summarize(id string) (Summary, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return Summary{}, &StateError{ConnectionID: id, Err: ErrUnknownConnection}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.state.Partition()
	return Summary{
		ConnectionID:       e.state.ConnectionID,
		SessionID:          e.state.SessionID,
		Intent:             e.state.CurrentIntent,
		MessageCount:       len(e.state.Messages),
		CollectedCount:     len(p.Collected),
		MissingCount:       len(p.Missing),
		RequiredMissing:    p.RequiredMissing,
		AllRequiredPresent: e.state.CurrentIntent != "" && len(p.RequiredMissing) == 0,
		LastUpdated:        e.state.LastUpdated,
	}, nil
}

// BeginTurn reserves the connection for one turn. Only one turn may be
// active per connection; call End when done.
func (s *Store) BeginTurn(id string) (*Turn, error) {
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	if !e.inTurn.CompareAndSwap(false, true) {
		return nil, ErrTurnInProgress
	}
	return &Turn{id: id, store: s, e: e}, nil
}

func (s *Store) entry(id string) (*entry, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if ok {
		return e, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[id]; ok {
		return e, nil
	}
	state, err := model.NewConversationContext(id, uuid.NewString(), s.now())
	if err != nil {
		return nil, err
	}
	e = &entry{state: state}
	s.entries[id] = e
	return e, nil
}

// apply runs mutator on a copy and swaps it in only on success. e.mu held.
func (s *Store) apply(e *entry, mutator Mutator) error {
	next := e.state.Clone()
	if err := mutator(&next); err != nil {
		return err
	}
	next.LastUpdated = s.now()
	e.state = &next
	return nil
}
