package session

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory. Used when SESSION_DRIVER is
// memory and in tests; sessions do not survive a restart.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	secure   bool
	now      func() time.Time
}

type memoryEntry struct {
	data      Data
	expiresAt time.Time
}

// NewMemoryStore returns an empty in-memory session store.
func NewMemoryStore(secure bool) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		ttl:      DefaultTTL,
		secure:   secure,
		now:      time.Now,
	}
}

// Create stores a new session and sets the cookie. Expired sessions are
// swept on each call.
func (m *MemoryStore) Create(_ context.Context, w http.ResponseWriter, data *Data) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}

	now := m.now()
	data.CreatedAt = now

	m.mu.Lock()
	for k, e := range m.sessions {
		if now.After(e.expiresAt) {
			delete(m.sessions, k)
		}
	}
	m.sessions[id] = memoryEntry{data: *data, expiresAt: now.Add(m.ttl)}
	m.mu.Unlock()

	setCookie(w, id, m.ttl, m.secure)
	return id, nil
}

// Get returns the session named by the request cookie, or nil.
func (m *MemoryStore) Get(_ context.Context, r *http.Request) (*Data, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[cookie.Value]
	if !ok {
		return nil, nil
	}
	if m.now().After(e.expiresAt) {
		delete(m.sessions, cookie.Value)
		return nil, nil
	}
	data := e.data
	return &data, nil
}

// Destroy forgets the session and clears the cookie.
func (m *MemoryStore) Destroy(_ context.Context, w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil
	}

	m.mu.Lock()
	delete(m.sessions, cookie.Value)
	m.mu.Unlock()

	clearCookie(w, m.secure)
	return nil
}

// Len reports the number of stored sessions, expired or not.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
