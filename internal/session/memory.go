package session

import (
	"context"
	"sync"
	"time"

	"github.com/fluffle/apiserver/types"
)

type memoryEntry struct {
	user      types.PublicUser
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory. Suitable for a single
// instance; use the redis store when running more than one.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Save(ctx context.Context, id string, user types.PublicUser, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = memoryEntry{user: user, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, id string) (types.PublicUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return types.PublicUser{}, ErrNoSession
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, id)
		return types.PublicUser{}, ErrNoSession
	}
	return entry.user, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}
