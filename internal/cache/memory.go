package cache

import (
	"context"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore keeps entries in process. Expiry is checked lazily on read and no
// background goroutine evicts entries.
type MemoryStore struct {
	entries *xsync.MapOf[string, entry]
	now     func() time.Time
}

type MemoryOption func(*MemoryStore)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		entries: xsync.NewMapOf[string, entry](),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	e, ok := s.entries.Load(key)
	if !ok {
		return nil, false, nil
	}
	if !s.now().Before(e.expiresAt) {
		s.entries.Compute(key, func(current entry, loaded bool) (entry, bool) {
			// drop it only if nobody refreshed the entry meanwhile
			return current, !loaded || current.expiresAt.Equal(e.expiresAt)
		})
		return nil, false, nil
	}
	return e.value, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.entries.Store(key, entry{value: value, expiresAt: s.now().Add(ttl)})
	return nil
}

func (s *MemoryStore) Len() int {
	return s.entries.Size()
}
