package repository

import (
	"context"

	"github.com/folio-dev/folio/internal/models"
)

// SectionSource is the read side of the portfolio API
type SectionSource interface {
	GetHome(ctx context.Context) (*models.HomeProfile, error)
	GetAbout(ctx context.Context) (*models.AboutSection, error)
	GetSkills(ctx context.Context) (*models.SkillsSection, error)
	GetProjects(ctx context.Context) (*models.ProjectsSection, error)
	GetExperience(ctx context.Context) ([]models.ExperienceEntry, error)
	GetEducation(ctx context.Context) (*models.EducationRecord, error)
}

// SectionCache stores public section payloads
type SectionCache interface {
	Get(section models.Section) (any, bool)
	Stale(section models.Section) (any, bool)
	Set(section models.Section, value any)
	Invalidate(section models.Section)
}
