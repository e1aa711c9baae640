package conversation

import "sync"

// Store defines the conversation store interface.
// Implementations must keep each session's turns in append order.
type Store interface {
	// Get returns a copy of the session's history, oldest first.
	// Unseen sessions yield an empty slice.
	Get(sessionID string) []Turn

	// Append adds a turn to the session's history and returns the stored
	// turn with its ID and timestamp filled in.
	Append(sessionID string, role Role, content string) Turn

	// Len returns the number of turns in a session.
	Len(sessionID string) int

	// Sessions returns the number of sessions seen so far.
	Sessions() int
}

// MemoryStore implements Store with a mutex-guarded in-process map.
// The read-modify-write of Append runs entirely under the lock, so
// concurrent requests on the same session cannot lose turns; their
// relative order is whatever the pipeline interleaving produces.
// Lives for the process lifetime; initialized empty, never torn down.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]Turn
}

// NewMemoryStore creates an empty in-memory conversation store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string][]Turn),
	}
}

// Get returns a copy of the session's history, oldest first.
func (s *MemoryStore) Get(sessionID string) []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.sessions[sessionID]
	out := make([]Turn, len(history))
	copy(out, history)
	return out
}

// Append adds a turn to the session's history.
func (s *MemoryStore) Append(sessionID string, role Role, content string) Turn {
	turn := NewTurn(role, content)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], turn)
	return turn
}

// Len returns the number of turns in a session.
func (s *MemoryStore) Len(sessionID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions[sessionID])
}

// Sessions returns the number of sessions seen so far.
func (s *MemoryStore) Sessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Verify MemoryStore implements Store at compile time.
var _ Store = (*MemoryStore)(nil)
