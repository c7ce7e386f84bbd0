package services

import (
	"github.com/folio-dev/folio/config"
	"github.com/folio-dev/folio/internal/cache"
	"github.com/folio-dev/folio/pkg/logger"
	"go.uber.org/zap"
)

// DashboardService keeps one Workspace per dashboard session
type DashboardService struct {
	api       SectionAPI
	uploader  ImageUploader
	sections  SectionReader
	drafts    *cache.DraftStore[*Workspace]
	flashes   *cache.FlashStore
	maxUpload int64
}

func NewDashboardService(
	api SectionAPI,
	uploader ImageUploader,
	sections SectionReader,
	drafts *cache.DraftStore[*Workspace],
	flashes *cache.FlashStore,
	cfg *config.Config,
) *DashboardService {
	return &DashboardService{
		api:       api,
		uploader:  uploader,
		sections:  sections,
		drafts:    drafts,
		flashes:   flashes,
		maxUpload: cfg.Upload.MaxBytes,
	}
}

// Workspace returns the drafts of session sid, creating an empty set on first use
func (s *DashboardService) Workspace(sid string) *Workspace {
	return s.drafts.GetOrCreate(sid, func() *Workspace {
		logger.Debug("Dashboard workspace created", zap.String("session_id", sid))
		return newWorkspace(sid, s.api, s.uploader, s.sections, s.flashes, s.maxUpload)
	})
}

// ActiveDrafts returns the number of sessions holding a workspace
func (s *DashboardService) ActiveDrafts() int {
	return s.drafts.Count()
}

// Discard drops every draft and message of session sid
func (s *DashboardService) Discard(sid string) {
	s.drafts.Delete(sid)
	s.flashes.Clear(sid)
}

// Flashes returns the messages of session sid that have not expired
func (s *DashboardService) Flashes(sid string) []cache.Flash {
	return s.flashes.Active(sid)
}
