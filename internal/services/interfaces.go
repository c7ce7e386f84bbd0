package services

import (
	"context"

	"github.com/folio-dev/folio/internal/cache"
	"github.com/folio-dev/folio/internal/models"
	"github.com/folio-dev/folio/pkg/jwt"
)

// AuthAPI is the authentication side of the portfolio API
type AuthAPI interface {
	Login(ctx context.Context, req models.LoginRequest) (string, error)
	Register(ctx context.Context, req models.RegisterRequest) (string, error)
}

// SectionAPI covers every section read and mutation of the portfolio API
type SectionAPI interface {
	GetHome(ctx context.Context) (*models.HomeProfile, error)
	UpdateHome(ctx context.Context, token string, home models.HomeProfile, picture, curriculum *models.FileUpload) (*models.HomeProfile, error)

	GetAbout(ctx context.Context) (*models.AboutSection, error)
	UpdateAbout(ctx context.Context, token string, about models.AboutSection) error
	AddTech(ctx context.Context, token string, tech models.Technology) (*models.Technology, error)
	DeleteTech(ctx context.Context, token, id string) error

	GetSkills(ctx context.Context) (*models.SkillsSection, error)
	UpdateSkills(ctx context.Context, token string, skills models.SkillsSection) error

	GetProjects(ctx context.Context) (*models.ProjectsSection, error)
	CreateProjectsSection(ctx context.Context, token, sectionName string) (*models.ProjectsSection, error)
	UpdateProjectsSection(ctx context.Context, token, sectionID, sectionName string) error
	AddProject(ctx context.Context, token string, card models.ProjectCard) (*models.ProjectCard, error)
	UpdateProject(ctx context.Context, token string, card models.ProjectCard) error
	DeleteProject(ctx context.Context, token, id string) error

	GetExperience(ctx context.Context) ([]models.ExperienceEntry, error)
	AddExperience(ctx context.Context, token string, entry models.ExperienceEntry) (*models.ExperienceEntry, error)
	UpdateExperience(ctx context.Context, token string, entry models.ExperienceEntry) error
	DeleteExperience(ctx context.Context, token, id string) error

	GetEducation(ctx context.Context) (*models.EducationRecord, error)
	UpdateEducation(ctx context.Context, token string, education models.EducationRecord) error
}

// FileAPI is the upload endpoint of the portfolio API
type FileAPI interface {
	Upload(ctx context.Context, token string, file models.FileUpload) (string, error)
}

// ObjectStore puts objects into S3-compatible storage
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// ImageUploader turns a picked image into a public URL
type ImageUploader interface {
	UploadImage(ctx context.Context, token string, file models.FileUpload) (string, error)
}

// SectionReader serves public section payloads
type SectionReader interface {
	Get(ctx context.Context, section models.Section) (any, error)
	Invalidate(section models.Section)
}

// AuthServiceInterface defines login, registration and session decoding
type AuthServiceInterface interface {
	Login(ctx context.Context, req *models.LoginRequest) (*Session, error)
	Register(ctx context.Context, req *models.RegisterRequest) error
	ParseSession(cookie string) (*jwt.SessionClaims, error)
	GetSessionTTL() int
	GetCookieDomain() string
	GetCookieSecure() bool
}

// DashboardServiceInterface hands out per-session workspaces
type DashboardServiceInterface interface {
	Workspace(sid string) *Workspace
	Discard(sid string)
	Flashes(sid string) []cache.Flash
}

// PublicServiceInterface renders the public portfolio
type PublicServiceInterface interface {
	Page(ctx context.Context) *PublicPage
	Section(ctx context.Context, section models.Section) (any, error)
}

// ContactServiceInterface defines the interface for contact service operations
type ContactServiceInterface interface {
	SubmitContactForm(ctx context.Context, req *models.ContactMessage) (*models.ContactResponse, error)
}

// Ensure services implement their interfaces
var _ AuthServiceInterface = (*AuthService)(nil)
var _ DashboardServiceInterface = (*DashboardService)(nil)
var _ PublicServiceInterface = (*PublicService)(nil)
var _ ContactServiceInterface = (*ContactService)(nil)
var _ ImageUploader = (*BackendUploader)(nil)
var _ ImageUploader = (*ObjectStoreUploader)(nil)
