package repository

import (
	"context"
	"fmt"

	"github.com/folio-dev/folio/internal/models"
	"github.com/folio-dev/folio/pkg/circuitbreaker"
	apperrors "github.com/folio-dev/folio/pkg/errors"
	"github.com/folio-dev/folio/pkg/logger"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// SectionRepositoryInterface defines public section reads
type SectionRepositoryInterface interface {
	Get(ctx context.Context, section models.Section) (any, error)
	Invalidate(section models.Section)
}

// SectionRepository reads public sections through a short-lived cache. API
// reads go through a circuit breaker; when the call fails or the breaker is
// open the last copy ever fetched is served instead.
type SectionRepository struct {
	source   SectionSource
	cache    SectionCache
	breaker  *gobreaker.CircuitBreaker
	useCache bool
}

// NewSectionRepository creates a new section repository. With useCache false
// every read goes to the API; the stale copy is still kept for fallback.
func NewSectionRepository(source SectionSource, sectionCache SectionCache, useCache bool) *SectionRepository {
	return &SectionRepository{
		source:   source,
		cache:    sectionCache,
		breaker:  circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig("portfolio-api-read")),
		useCache: useCache,
	}
}

// Get returns the public payload of section
func (r *SectionRepository) Get(ctx context.Context, section models.Section) (any, error) {
	if r.useCache {
		if v, ok := r.cache.Get(section); ok {
			return v, nil
		}
	}

	return circuitbreaker.ExecuteWithFallback(r.breaker,
		func() (any, error) {
			v, err := r.fetch(ctx, section)
			if err != nil {
				return nil, err
			}
			r.cache.Set(section, v)
			return v, nil
		},
		func(err error) (any, error) {
			if stale, ok := r.cache.Stale(section); ok {
				logger.Warn("Serving stale section after read failure",
					zap.String("section", section.String()),
					zap.Error(err))
				return stale, nil
			}
			return nil, apperrors.UnavailableError(section.String(), circuitbreaker.FormatError(r.breaker.Name(), err))
		})
}

// BreakerState reports the state of the read circuit breaker
func (r *SectionRepository) BreakerState() string {
	return circuitbreaker.GetState(r.breaker)
}

// Invalidate drops the cached copy of section after a dashboard save
func (r *SectionRepository) Invalidate(section models.Section) {
	r.cache.Invalidate(section)
}

func (r *SectionRepository) fetch(ctx context.Context, section models.Section) (any, error) {
	switch section {
	case models.SectionHome:
		return r.source.GetHome(ctx)
	case models.SectionAbout:
		return r.source.GetAbout(ctx)
	case models.SectionSkills:
		return r.source.GetSkills(ctx)
	case models.SectionProjects:
		return r.source.GetProjects(ctx)
	case models.SectionExperience:
		return r.source.GetExperience(ctx)
	case models.SectionEducation:
		return r.source.GetEducation(ctx)
	}
	return nil, apperrors.NotFoundError(fmt.Sprintf("section %q", section))
}
