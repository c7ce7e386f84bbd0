package services_test

import (
	"context"

	"github.com/folio-dev/folio/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockSectionAPI is a mock implementation of SectionAPI
type MockSectionAPI struct {
	mock.Mock
}

func (m *MockSectionAPI) GetHome(ctx context.Context) (*models.HomeProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.HomeProfile), args.Error(1)
}

func (m *MockSectionAPI) UpdateHome(ctx context.Context, token string, home models.HomeProfile, picture, curriculum *models.FileUpload) (*models.HomeProfile, error) {
	args := m.Called(ctx, token, home, picture, curriculum)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.HomeProfile), args.Error(1)
}

func (m *MockSectionAPI) GetAbout(ctx context.Context) (*models.AboutSection, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AboutSection), args.Error(1)
}

func (m *MockSectionAPI) UpdateAbout(ctx context.Context, token string, about models.AboutSection) error {
	args := m.Called(ctx, token, about)
	return args.Error(0)
}

func (m *MockSectionAPI) AddTech(ctx context.Context, token string, tech models.Technology) (*models.Technology, error) {
	args := m.Called(ctx, token, tech)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Technology), args.Error(1)
}

func (m *MockSectionAPI) DeleteTech(ctx context.Context, token, id string) error {
	args := m.Called(ctx, token, id)
	return args.Error(0)
}

func (m *MockSectionAPI) GetSkills(ctx context.Context) (*models.SkillsSection, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SkillsSection), args.Error(1)
}

func (m *MockSectionAPI) UpdateSkills(ctx context.Context, token string, skills models.SkillsSection) error {
	args := m.Called(ctx, token, skills)
	return args.Error(0)
}

func (m *MockSectionAPI) GetProjects(ctx context.Context) (*models.ProjectsSection, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProjectsSection), args.Error(1)
}

func (m *MockSectionAPI) CreateProjectsSection(ctx context.Context, token, sectionName string) (*models.ProjectsSection, error) {
	args := m.Called(ctx, token, sectionName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProjectsSection), args.Error(1)
}

func (m *MockSectionAPI) UpdateProjectsSection(ctx context.Context, token, sectionID, sectionName string) error {
	args := m.Called(ctx, token, sectionID, sectionName)
	return args.Error(0)
}

func (m *MockSectionAPI) AddProject(ctx context.Context, token string, card models.ProjectCard) (*models.ProjectCard, error) {
	args := m.Called(ctx, token, card)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProjectCard), args.Error(1)
}

func (m *MockSectionAPI) UpdateProject(ctx context.Context, token string, card models.ProjectCard) error {
	args := m.Called(ctx, token, card)
	return args.Error(0)
}

func (m *MockSectionAPI) DeleteProject(ctx context.Context, token, id string) error {
	args := m.Called(ctx, token, id)
	return args.Error(0)
}

func (m *MockSectionAPI) GetExperience(ctx context.Context) ([]models.ExperienceEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ExperienceEntry), args.Error(1)
}

func (m *MockSectionAPI) AddExperience(ctx context.Context, token string, entry models.ExperienceEntry) (*models.ExperienceEntry, error) {
	args := m.Called(ctx, token, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExperienceEntry), args.Error(1)
}

func (m *MockSectionAPI) UpdateExperience(ctx context.Context, token string, entry models.ExperienceEntry) error {
	args := m.Called(ctx, token, entry)
	return args.Error(0)
}

func (m *MockSectionAPI) DeleteExperience(ctx context.Context, token, id string) error {
	args := m.Called(ctx, token, id)
	return args.Error(0)
}

func (m *MockSectionAPI) GetEducation(ctx context.Context) (*models.EducationRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EducationRecord), args.Error(1)
}

func (m *MockSectionAPI) UpdateEducation(ctx context.Context, token string, education models.EducationRecord) error {
	args := m.Called(ctx, token, education)
	return args.Error(0)
}

// MockAuthAPI is a mock implementation of AuthAPI
type MockAuthAPI struct {
	mock.Mock
}

func (m *MockAuthAPI) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockAuthAPI) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// MockImageUploader is a mock implementation of ImageUploader
type MockImageUploader struct {
	mock.Mock
}

func (m *MockImageUploader) UploadImage(ctx context.Context, token string, file models.FileUpload) (string, error) {
	args := m.Called(ctx, token, file)
	return args.String(0), args.Error(1)
}

// MockFileAPI is a mock implementation of FileAPI
type MockFileAPI struct {
	mock.Mock
}

func (m *MockFileAPI) Upload(ctx context.Context, token string, file models.FileUpload) (string, error) {
	args := m.Called(ctx, token, file)
	return args.String(0), args.Error(1)
}

// MockObjectStore is a mock implementation of ObjectStore
type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, key, contentType, data)
	return args.String(0), args.Error(1)
}
