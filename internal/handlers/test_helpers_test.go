package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/folio-dev/folio/config"
	"github.com/folio-dev/folio/internal/cache"
	"github.com/folio-dev/folio/internal/middleware"
	"github.com/folio-dev/folio/internal/models"
	"github.com/folio-dev/folio/internal/services"
	"github.com/folio-dev/folio/internal/web"
	"github.com/folio-dev/folio/pkg/jwt"
	"github.com/folio-dev/folio/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := logger.Initialize(logger.Config{Level: "error", Environment: "development"}); err != nil {
		panic(err)
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{AppEnv: "development"},
		Session: config.SessionConfig{Secret: "test-secret", Issuer: "folio-web", TTLHours: 24},
		Drafts:  config.DraftsConfig{TTLMinutes: 30, FlashTTLSeconds: 60},
		Upload:  config.UploadConfig{Mode: config.UploadModeBackend, MaxBytes: 1024 * 1024},
	}
}

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	tmpl, err := web.Templates(TemplateFuncs())
	require.NoError(t, err)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(middleware.ThemeMiddleware())
	return r
}

// MockSectionAPI is a testify mock of the portfolio API
type MockSectionAPI struct {
	mock.Mock
}

func (m *MockSectionAPI) GetHome(ctx context.Context) (*models.HomeProfile, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).(*models.HomeProfile)
	return v, args.Error(1)
}

func (m *MockSectionAPI) UpdateHome(ctx context.Context, token string, home models.HomeProfile, picture, curriculum *models.FileUpload) (*models.HomeProfile, error) {
	args := m.Called(ctx, token, home, picture, curriculum)
	v, _ := args.Get(0).(*models.HomeProfile)
	return v, args.Error(1)
}

func (m *MockSectionAPI) GetAbout(ctx context.Context) (*models.AboutSection, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).(*models.AboutSection)
	return v, args.Error(1)
}

func (m *MockSectionAPI) UpdateAbout(ctx context.Context, token string, about models.AboutSection) error {
	return m.Called(ctx, token, about).Error(0)
}

func (m *MockSectionAPI) AddTech(ctx context.Context, token string, tech models.Technology) (*models.Technology, error) {
	args := m.Called(ctx, token, tech)
	v, _ := args.Get(0).(*models.Technology)
	return v, args.Error(1)
}

func (m *MockSectionAPI) DeleteTech(ctx context.Context, token, id string) error {
	return m.Called(ctx, token, id).Error(0)
}

func (m *MockSectionAPI) GetSkills(ctx context.Context) (*models.SkillsSection, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).(*models.SkillsSection)
	return v, args.Error(1)
}

func (m *MockSectionAPI) UpdateSkills(ctx context.Context, token string, skills models.SkillsSection) error {
	return m.Called(ctx, token, skills).Error(0)
}

func (m *MockSectionAPI) GetProjects(ctx context.Context) (*models.ProjectsSection, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).(*models.ProjectsSection)
	return v, args.Error(1)
}

func (m *MockSectionAPI) CreateProjectsSection(ctx context.Context, token, sectionName string) (*models.ProjectsSection, error) {
	args := m.Called(ctx, token, sectionName)
	v, _ := args.Get(0).(*models.ProjectsSection)
	return v, args.Error(1)
}

func (m *MockSectionAPI) UpdateProjectsSection(ctx context.Context, token, sectionID, sectionName string) error {
	return m.Called(ctx, token, sectionID, sectionName).Error(0)
}

func (m *MockSectionAPI) AddProject(ctx context.Context, token string, card models.ProjectCard) (*models.ProjectCard, error) {
	args := m.Called(ctx, token, card)
	v, _ := args.Get(0).(*models.ProjectCard)
	return v, args.Error(1)
}

func (m *MockSectionAPI) UpdateProject(ctx context.Context, token string, card models.ProjectCard) error {
	return m.Called(ctx, token, card).Error(0)
}

func (m *MockSectionAPI) DeleteProject(ctx context.Context, token, id string) error {
	return m.Called(ctx, token, id).Error(0)
}

func (m *MockSectionAPI) GetExperience(ctx context.Context) ([]models.ExperienceEntry, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).([]models.ExperienceEntry)
	return v, args.Error(1)
}

func (m *MockSectionAPI) AddExperience(ctx context.Context, token string, entry models.ExperienceEntry) (*models.ExperienceEntry, error) {
	args := m.Called(ctx, token, entry)
	v, _ := args.Get(0).(*models.ExperienceEntry)
	return v, args.Error(1)
}

func (m *MockSectionAPI) UpdateExperience(ctx context.Context, token string, entry models.ExperienceEntry) error {
	return m.Called(ctx, token, entry).Error(0)
}

func (m *MockSectionAPI) DeleteExperience(ctx context.Context, token, id string) error {
	return m.Called(ctx, token, id).Error(0)
}

func (m *MockSectionAPI) GetEducation(ctx context.Context) (*models.EducationRecord, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).(*models.EducationRecord)
	return v, args.Error(1)
}

func (m *MockSectionAPI) UpdateEducation(ctx context.Context, token string, education models.EducationRecord) error {
	return m.Called(ctx, token, education).Error(0)
}

// fakeUploader hands out predictable URLs
type fakeUploader struct{}

func (fakeUploader) UploadImage(ctx context.Context, token string, file models.FileUpload) (string, error) {
	return "https://cdn.example.com/" + file.FileName, nil
}

// fakeSections serves canned public payloads
type fakeSections struct {
	mu     sync.Mutex
	values map[models.Section]any
	errs   map[models.Section]error
}

func newFakeSections() *fakeSections {
	return &fakeSections{values: map[models.Section]any{}, errs: map[models.Section]error{}}
}

func (f *fakeSections) Get(ctx context.Context, section models.Section) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[section]; err != nil {
		return nil, err
	}
	return f.values[section], nil
}

func (f *fakeSections) Invalidate(section models.Section) {}

// fakeAuthAPI answers login and register with canned results
type fakeAuthAPI struct {
	token string
	err   error
}

func (f *fakeAuthAPI) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	return f.token, f.err
}

func (f *fakeAuthAPI) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	return "", f.err
}

// dashboardEnv is a full dashboard stack over a mocked API
type dashboardEnv struct {
	api       *MockSectionAPI
	auth      *services.AuthService
	dashboard *services.DashboardService
	tm        *jwt.TokenManager
	router    *gin.Engine
}

func newDashboardEnv(t *testing.T) *dashboardEnv {
	t.Helper()
	cfg := testConfig()

	env := &dashboardEnv{
		api: new(MockSectionAPI),
		tm:  jwt.NewTokenManager(cfg.Session.Secret, cfg.Session.Issuer, cfg.Session.TTLHours),
	}
	env.auth = services.NewAuthService(&fakeAuthAPI{token: "opaque"}, env.tm, cfg)
	env.dashboard = services.NewDashboardService(
		env.api,
		fakeUploader{},
		newFakeSections(),
		cache.NewDraftStore[*services.Workspace](cfg.Drafts.TTLMinutes),
		cache.NewFlashStore(cfg.Drafts.FlashTTLSeconds),
		cfg,
	)

	env.router = newTestEngine(t)
	session := middleware.DashboardSessionMiddleware(env.auth, "", false)
	RegisterDashboardRoutes(env.router, session, NewDashboardHandler(env.dashboard, cfg.Upload.MaxBytes), 4*cfg.Upload.MaxBytes)
	return env
}

func (e *dashboardEnv) cookie(t *testing.T) *http.Cookie {
	t.Helper()
	signed, err := e.tm.Issue("sid-1", "opaque", "owner@example.com")
	require.NoError(t, err)
	return &http.Cookie{Name: middleware.SessionCookieName, Value: signed}
}

func (e *dashboardEnv) get(t *testing.T, path string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authed {
		req.AddCookie(e.cookie(t))
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *dashboardEnv) post(t *testing.T, path string, form url.Values, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if authed {
		req.AddCookie(e.cookie(t))
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}
