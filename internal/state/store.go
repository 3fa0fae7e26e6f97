package state

import "sync"

// Store owns the single authoritative State. The original page ran on one UI
// thread; here HTTP and websocket handlers are concurrent, so all access goes
// through a mutex with transitions applied by the pure reducer.
type Store struct {
	mu    sync.Mutex
	state State
}

// NewStore creates a store holding the given initial state.
func NewStore(initial State) *Store {
	return &Store{state: initial}
}

// Dispatch applies an action through Reduce and returns the resulting state.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, a)
	return s.state
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
