package services

import (
	"context"
	"fmt"

	"github.com/folio-dev/folio/internal/models"
	"github.com/folio-dev/folio/pkg/logger"
	"github.com/folio-dev/folio/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PublicPage is everything the public portfolio shows. A section that could
// not be fetched stays empty and is listed in Failed.
type PublicPage struct {
	Home       *models.HomeProfile
	About      *models.AboutSection
	Skills     *models.SkillsSection
	Projects   *models.ProjectsSection
	Experience []models.ExperienceEntry
	Education  *models.EducationRecord
	Failed     map[models.Section]bool
}

// PublicService renders the read-only portfolio
type PublicService struct {
	sections SectionReader
}

func NewPublicService(sections SectionReader) *PublicService {
	return &PublicService{sections: sections}
}

// Page fetches every section concurrently. Sections are independent: one
// failing leaves its slot empty and the others render.
func (s *PublicService) Page(ctx context.Context) *PublicPage {
	results := make([]any, len(models.AllSections))
	errs := make([]error, len(models.AllSections))

	var g errgroup.Group
	for i, section := range models.AllSections {
		g.Go(func() error {
			results[i], errs[i] = s.Section(ctx, section)
			return nil
		})
	}
	_ = g.Wait()

	page := &PublicPage{Failed: map[models.Section]bool{}}
	for i, section := range models.AllSections {
		if errs[i] != nil {
			logger.Warn("Public section unavailable",
				zap.String("section", section.String()),
				zap.Error(errs[i]))
			page.Failed[section] = true
			continue
		}
		page.set(section, results[i])
	}
	return page
}

func (p *PublicPage) set(section models.Section, v any) {
	switch section {
	case models.SectionHome:
		p.Home, _ = v.(*models.HomeProfile)
	case models.SectionAbout:
		p.About, _ = v.(*models.AboutSection)
	case models.SectionSkills:
		p.Skills, _ = v.(*models.SkillsSection)
	case models.SectionProjects:
		p.Projects, _ = v.(*models.ProjectsSection)
	case models.SectionExperience:
		p.Experience, _ = v.([]models.ExperienceEntry)
	case models.SectionEducation:
		p.Education, _ = v.(*models.EducationRecord)
	}
}

// Section returns the public payload of one section
func (s *PublicService) Section(ctx context.Context, section models.Section) (any, error) {
	v, err := s.sections.Get(ctx, section)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", section, err)
	}
	metrics.SectionViews.WithLabelValues(section.String()).Inc()
	return v, nil
}
