package cache

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// FlashKind is the tone of a flash message
type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
)

// Flash is a short-lived message shown after an operation
type Flash struct {
	Kind      FlashKind
	Text      string
	Section   string
	CreatedAt time.Time
}

// FlashStore holds per-session messages that disappear on their own after ttl
type FlashStore struct {
	cache *gocache.Cache
	ttl   time.Duration
	now   func() time.Time
	mu    sync.Mutex
}

// NewFlashStore creates a store whose messages live ttlSeconds
func NewFlashStore(ttlSeconds int) *FlashStore {
	ttl := time.Duration(ttlSeconds) * time.Second
	return &FlashStore{
		cache: gocache.New(ttl, time.Minute),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Push records a message for sid
func (s *FlashStore) Push(sid string, kind FlashKind, section, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages := s.active(sid)
	messages = append(messages, Flash{
		Kind:      kind,
		Text:      text,
		Section:   section,
		CreatedAt: s.now(),
	})
	s.cache.Set(sid, messages, s.ttl)
}

// Active returns messages for sid younger than ttl, oldest first
func (s *FlashStore) Active(sid string) []Flash {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active(sid)
}

func (s *FlashStore) active(sid string) []Flash {
	data, found := s.cache.Get(sid)
	if !found {
		return nil
	}
	messages, _ := data.([]Flash)

	cutoff := s.now().Add(-s.ttl)
	out := make([]Flash, 0, len(messages))
	for _, m := range messages {
		if m.CreatedAt.After(cutoff) {
			out = append(out, m)
		}
	}
	return out
}

// Clear drops every message for sid
func (s *FlashStore) Clear(sid string) {
	s.cache.Delete(sid)
}

// TTL returns how long messages stay visible
func (s *FlashStore) TTL() time.Duration {
	return s.ttl
}
