package session

import (
	"sort"
	"sync"

	"github.com/ooti/prompt-lab/internal/errors"
	"github.com/ooti/prompt-lab/internal/models"
)

// Store keeps sessions in memory, keyed by id
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create starts a session on framework id
func (st *Store) Create(id models.FrameworkID) (*Session, error) {
	s, err := New(id)
	if err != nil {
		return nil, err
	}

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()

	return s.Clone(), nil
}

// Get returns a copy of the session
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, errors.NotFoundError("session " + id)
	}
	return s.Clone(), nil
}

// Update applies fn to the stored session under the write lock and returns a
// copy of the result. If fn fails the session is left unchanged.
func (st *Store) Update(id string, fn func(*Session) error) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, errors.NotFoundError("session " + id)
	}

	working := s.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	st.sessions[id] = working
	return working.Clone(), nil
}

// Delete removes a session
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.sessions[id]; !ok {
		return errors.NotFoundError("session " + id)
	}
	delete(st.sessions, id)
	return nil
}

// List returns copies of every session, oldest first
func (st *Store) List() []*Session {
	st.mu.RLock()
	out := make([]*Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		out = append(out, s.Clone())
	}
	st.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Len returns the number of sessions
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
