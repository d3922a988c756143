package memory

import (
	"context"
	"sync"

	"github.com/aretw0/magie/pkg/domain"
)

// Store implements ports.SessionStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Session
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Session),
	}
}

func copySession(s *domain.Session) *domain.Session {
	out := *s
	out.History = append([]string(nil), s.History...)
	out.Pending.Missing = append([]string(nil), s.Pending.Missing...)
	if s.Pending.Entities != nil {
		out.Pending.Entities = make(map[string]any, len(s.Pending.Entities))
		for k, v := range s.Pending.Entities {
			out.Pending.Entities[k] = v
		}
	}
	return &out
}

// Save persists the session in memory.
func (s *Store) Save(ctx context.Context, userID string, session *domain.Session) error {
	// Deep copy to ensure isolation, similar to serialization
	copied := copySession(session)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[userID] = copied
	return nil
}

// Load retrieves the session from memory.
func (s *Store) Load(ctx context.Context, userID string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.data[userID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	// Copy on read so the caller can't mutate store state by pointer.
	return copySession(session), nil
}

// Delete removes the session.
func (s *Store) Delete(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, userID)
	return nil
}

// List returns active sessions.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.data))
	for id := range s.data {
		sessions = append(sessions, id)
	}
	return sessions, nil
}
