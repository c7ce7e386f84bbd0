package cache

import (
	"sync"
	"time"

	"github.com/folio-dev/folio/pkg/logger"
	"github.com/folio-dev/folio/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// DraftStore keeps one workspace per dashboard session. Entries slide: every
// access pushes expiry out by ttl, so an active owner never loses a draft.
type DraftStore[W any] struct {
	cache *gocache.Cache
	ttl   time.Duration
	mu    sync.Mutex
}

// NewDraftStore creates a store whose idle workspaces expire after ttlMinutes
func NewDraftStore[W any](ttlMinutes int) *DraftStore[W] {
	ttl := time.Duration(ttlMinutes) * time.Minute
	c := gocache.New(ttl, time.Minute)
	c.OnEvicted(func(sid string, _ interface{}) {
		logger.Debug("Dashboard draft evicted", zap.String("session_id", sid))
		metrics.ActiveDrafts.Set(float64(c.ItemCount()))
	})
	return &DraftStore[W]{cache: c, ttl: ttl}
}

// GetOrCreate returns the workspace for sid, building it with create on first use
func (s *DraftStore[W]) GetOrCreate(sid string, create func() W) W {
	s.mu.Lock()
	defer s.mu.Unlock()

	if data, found := s.cache.Get(sid); found {
		if w, ok := data.(W); ok {
			s.cache.Set(sid, w, s.ttl)
			return w
		}
		logger.Error("Invalid draft data type", zap.String("session_id", sid))
	}

	w := create()
	s.cache.Set(sid, w, s.ttl)
	metrics.ActiveDrafts.Set(float64(s.cache.ItemCount()))
	return w
}

// Delete drops the workspace for sid
func (s *DraftStore[W]) Delete(sid string) {
	s.cache.Delete(sid)
}

// Count returns the number of live workspaces
func (s *DraftStore[W]) Count() int {
	return s.cache.ItemCount()
}
