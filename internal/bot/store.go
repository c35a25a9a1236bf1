package bot

import (
	"context"
	"sync"
)

// MemoryStore keeps conversation state in process memory. It is the fallback
// when no Redis instance is configured; state does not survive restarts.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]State
}

// NewMemoryStore returns an empty in-memory state store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]State)}
}

func (s *MemoryStore) Get(_ context.Context, sender string) (State, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[sender]
	return st, ok, nil
}

func (s *MemoryStore) Put(_ context.Context, sender string, st State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[sender] = st
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sender string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, sender)
	return nil
}
