package cache

import (
	"context"
	"strings"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

type staticEntry struct {
	value     any
	expiresAt time.Time
}

func (e staticEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Static is an in-process map cache honoring per-key TTLs. Expired entries
// are dropped when they are read.
type Static struct {
	entries *xsync.MapOf[string, staticEntry]
	now     func() time.Time
}

// NewStatic returns an empty Static cache.
func NewStatic() *Static {
	return &Static{
		entries: xsync.NewMapOf[string, staticEntry](),
		now:     time.Now,
	}
}

func (s *Static) Get(_ context.Context, key string) (any, bool, error) {
	entry, ok := s.entries.Load(key)
	if !ok {
		return nil, false, nil
	}
	if entry.expired(s.now()) {
		s.entries.Delete(key)
		return nil, false, nil
	}
	return entry.value, true, nil
}

// Set stores value. A ttl of zero or less never expires.
func (s *Static) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	entry := staticEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}
	s.entries.Store(key, entry)
	return nil
}

func (s *Static) Exists(ctx context.Context, key string) (bool, error) {
	_, ok, err := s.Get(ctx, key)
	return ok, err
}

func (s *Static) Remove(_ context.Context, key string) error {
	s.entries.Delete(key)
	return nil
}

func (s *Static) RemoveByPrefix(_ context.Context, prefix string) error {
	s.entries.Range(func(key string, _ staticEntry) bool {
		if strings.HasPrefix(key, prefix) {
			s.entries.Delete(key)
		}
		return true
	})
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (s *Static) Len() int {
	return s.entries.Size()
}

// Clear drops every entry.
func (s *Static) Clear() {
	s.entries.Clear()
}
