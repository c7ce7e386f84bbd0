package services_test

import (
	"context"
	"sync"

	"github.com/folio-dev/folio/config"
	"github.com/folio-dev/folio/internal/cache"
	"github.com/folio-dev/folio/internal/models"
	"github.com/folio-dev/folio/internal/services"
	"github.com/folio-dev/folio/pkg/logger"
)

func init() {
	// Initialize logger for tests
	if err := logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	}); err != nil {
		panic(err)
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{AppEnv: "development"},
		Session: config.SessionConfig{Secret: "test-secret", Issuer: "folio-web", TTLHours: 24},
		Drafts:  config.DraftsConfig{TTLMinutes: 30, FlashTTLSeconds: 5},
		Upload:  config.UploadConfig{Mode: config.UploadModeBackend, MaxBytes: 1024 * 1024},
	}
}

// fakeSections records invalidations and serves canned public payloads
type fakeSections struct {
	mu          sync.Mutex
	values      map[models.Section]any
	errs        map[models.Section]error
	invalidated []models.Section
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

func (f *fakeSections) Invalidate(section models.Section) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = append(f.invalidated, section)
}

func (f *fakeSections) Invalidated() []models.Section {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Section(nil), f.invalidated...)
}

type dashboardFixture struct {
	api      *MockSectionAPI
	uploader *MockImageUploader
	sections *fakeSections
	service  *services.DashboardService
}

func newDashboardFixture() *dashboardFixture {
	cfg := testConfig()
	f := &dashboardFixture{
		api:      new(MockSectionAPI),
		uploader: new(MockImageUploader),
		sections: newFakeSections(),
	}
	f.service = services.NewDashboardService(
		f.api,
		f.uploader,
		f.sections,
		cache.NewDraftStore[*services.Workspace](cfg.Drafts.TTLMinutes),
		cache.NewFlashStore(cfg.Drafts.FlashTTLSeconds),
		cfg,
	)
	return f
}

func (f *dashboardFixture) lastFlash(sid string) cache.Flash {
	flashes := f.service.Flashes(sid)
	if len(flashes) == 0 {
		return cache.Flash{}
	}
	return flashes[len(flashes)-1]
}
