package cache

import (
	"time"

	"github.com/folio-dev/folio/internal/models"
	"github.com/folio-dev/folio/pkg/logger"
	"github.com/folio-dev/folio/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	sectionKeyPrefix = "section:"
	staleKeyPrefix   = "stale:"
	cacheCheckPeriod = 30 * time.Second
	cacheName        = "public_section"
)

// SectionCache keeps public section payloads for a short TTL plus a stale
// copy without expiry that is served when the API is unreachable.
type SectionCache struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewSectionCache creates a cache whose fresh entries live ttlSeconds
func NewSectionCache(ttlSeconds int) *SectionCache {
	ttl := time.Duration(ttlSeconds) * time.Second
	return &SectionCache{
		cache: gocache.New(ttl, cacheCheckPeriod),
		ttl:   ttl,
	}
}

// Get returns a fresh entry for section
func (c *SectionCache) Get(section models.Section) (any, bool) {
	data, found := c.cache.Get(sectionKeyPrefix + section.String())
	if !found {
		metrics.CacheMisses.WithLabelValues(cacheName).Inc()
		return nil, false
	}
	metrics.CacheHits.WithLabelValues(cacheName).Inc()
	return data, true
}

// Stale returns the last value ever stored for section, however old
func (c *SectionCache) Stale(section models.Section) (any, bool) {
	return c.cache.Get(staleKeyPrefix + section.String())
}

// Set stores a fresh value and refreshes the stale copy
func (c *SectionCache) Set(section models.Section, value any) {
	c.cache.Set(sectionKeyPrefix+section.String(), value, c.ttl)
	c.cache.Set(staleKeyPrefix+section.String(), value, gocache.NoExpiration)
	metrics.CacheSize.WithLabelValues(cacheName).Set(float64(c.cache.ItemCount()))
}

// Invalidate drops the fresh entry so the next read goes to the API.
// The stale copy stays as a fallback.
func (c *SectionCache) Invalidate(section models.Section) {
	c.cache.Delete(sectionKeyPrefix + section.String())
	logger.Debug("Section cache invalidated", zap.String("section", section.String()))
}
