package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Sessions implementation for tests and
// single-node development without Redis.
type MemoryStore struct {
	mu   sync.Mutex
	ttl  time.Duration
	now  func() time.Time
	byID map[string]*Session
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now, byID: map[string]*Session{}}
}

func (m *MemoryStore) Create(_ context.Context, userID, role string) (*Session, error) {
	as := newSession(userID, role, m.now(), m.ttl)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[as.ID] = as
	return as, nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	as, ok := m.byID[id]
	if !ok || m.now().Unix() >= as.ExpiresAt {
		delete(m.byID, id)
		return nil, ErrNotFound
	}
	cp := *as
	return &cp, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
	return nil
}

func (m *MemoryStore) RevokeAllForUser(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, as := range m.byID {
		if as.UserID == userID {
			delete(m.byID, id)
		}
	}
	return nil
}
