package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/folio-dev/folio/internal/middleware"
	"github.com/folio-dev/folio/internal/models"
	"github.com/folio-dev/folio/internal/services"
	"github.com/gin-gonic/gin"
)

const (
	loadFailedMessage   = "Could not load this section. You can still edit it."
	reloadFailedMessage = "Failed to reload section"
	revertFailedMessage = "Could not revert while a save is running"
	editFailedMessage   = "This item is no longer in your draft. Reload the section."
	fileFailedMessage   = "The selected file could not be used"
)

// DashboardHandler serves the owner's editor. Every route sits behind the
// session middleware; form posts redirect back to the section page.
type DashboardHandler struct {
	service   services.DashboardServiceInterface
	maxUpload int64
}

func NewDashboardHandler(service services.DashboardServiceInterface, maxUpload int64) *DashboardHandler {
	return &DashboardHandler{
		service:   service,
		maxUpload: maxUpload,
	}
}

type dashboardRequest struct {
	section models.Section
	session *middleware.Session
	ws      *services.Workspace
}

func (h *DashboardHandler) request(c *gin.Context) (*dashboardRequest, bool) {
	session, err := middleware.GetSession(c)
	if err != nil {
		attachError(c, err)
		c.Header("Location", middleware.LoginPath)
		c.AbortWithStatus(http.StatusFound)
		return nil, false
	}

	section, err := models.ParseSection(c.Param("section"))
	if err != nil {
		notFound(c)
		return nil, false
	}

	ws := h.service.Workspace(session.ID)
	ws.EnsureLoaded(c.Request.Context(), section)

	return &dashboardRequest{section: section, session: session, ws: ws}, true
}

func (r *dashboardRequest) back(c *gin.Context) {
	seeOther(c, "/dashboard/"+r.section.String())
}

// edited reports whether a local change went through. A refused change is
// shown to the owner.
func (r *dashboardRequest) edited(c *gin.Context, err error) bool {
	if err != nil {
		attachError(c, err)
		r.ws.Notify(r.section, err, editFailedMessage)
		return false
	}
	return true
}

// attach keeps files posted together with a save as pending attachments.
// A rejected file stops the save.
func (h *DashboardHandler) attach(c *gin.Context, r *dashboardRequest, files map[string]string) bool {
	for field, target := range files {
		file, err := formFile(c, field, h.maxUpload)
		if err == nil && file != nil {
			_, err = r.ws.Attach(target, *file)
		}
		if err != nil {
			attachError(c, err)
			r.ws.Notify(r.section, err, fileFailedMessage+": "+err.Error())
			return false
		}
	}
	return true
}

// Index handles GET /dashboard
func (h *DashboardHandler) Index(c *gin.Context) {
	c.Redirect(http.StatusFound, "/dashboard/"+models.SectionHome.String())
}

// Show handles GET /dashboard/:section. The section is fetched on first view
// and the draft is kept afterwards.
func (h *DashboardHandler) Show(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		attachError(c, err)
		c.Header("Location", middleware.LoginPath)
		c.AbortWithStatus(http.StatusFound)
		return
	}

	section, err := models.ParseSection(c.Param("section"))
	if err != nil {
		notFound(c)
		return
	}

	ws := h.service.Workspace(session.ID)
	if !ws.Loaded(section) {
		if err := ws.Load(c.Request.Context(), section); err != nil {
			attachError(c, err)
			ws.Notify(section, err, loadFailedMessage)
		}
	}

	render(c, http.StatusOK, "dashboard.html", section.Title(), gin.H{
		"Section":  section,
		"Sections": models.AllSections,
		"W":        ws,
		"Flashes":  h.service.Flashes(session.ID),
		"Email":    session.Email,
		"LinkKeys": models.LinkKeys,
	})
}

// Save handles POST /dashboard/:section/save for one-record sections
func (h *DashboardHandler) Save(c *gin.Context) {
	r, ok := h.request(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	token := r.session.Token
	ws := r.ws

	switch r.section {
	case models.SectionHome:
		if h.attach(c, r, map[string]string{
			"profile_picture": services.TargetHomePicture,
			"curriculum":      services.TargetHomeCurriculum,
		}) && r.edited(c, ws.Home.Update(func(d *models.HomeProfile) error { return applyHome(c, d) })) {
			attachError(c, ws.SaveHome(ctx, token))
		}
	case models.SectionAbout:
		if h.attach(c, r, map[string]string{"picture": services.TargetAboutPicture}) &&
			r.edited(c, ws.About.Update(func(d *models.AboutSection) error { return applyAbout(c, d) })) {
			attachError(c, ws.SaveAbout(ctx, token))
		}
	case models.SectionSkills:
		if r.edited(c, ws.Skills.Update(func(d *models.SkillsSection) error { return applySkills(c, d) })) {
			attachError(c, ws.SaveSkills(ctx, token))
		}
	case models.SectionProjects:
		if r.edited(c, ws.Projects.Update(func(d *models.ProjectsSection) error { return applyProjectsSection(c, d) })) {
			attachError(c, ws.SaveProjectsSection(ctx, token))
		}
	case models.SectionEducation:
		if r.edited(c, ws.Education.Update(func(d *models.EducationRecord) error { return applyEducation(c, d) })) {
			attachError(c, ws.SaveEducation(ctx, token))
		}
	default:
		notFound(c)
		return
	}

	r.back(c)
}

// Revert handles POST /dashboard/:section/revert
func (h *DashboardHandler) Revert(c *gin.Context) {
	r, ok := h.request(c)
	if !ok {
		return
	}
	if err := r.ws.Revert(r.section); err != nil {
		attachError(c, err)
		r.ws.Notify(r.section, err, revertFailedMessage)
	}
	r.back(c)
}

// Reload handles POST /dashboard/:section/reload
func (h *DashboardHandler) Reload(c *gin.Context) {
	r, ok := h.request(c)
	if !ok {
		return
	}
	if err := r.ws.Reload(c.Request.Context(), r.section); err != nil {
		attachError(c, err)
		r.ws.Notify(r.section, err, reloadFailedMessage)
	}
	r.back(c)
}

// AddRow handles POST /dashboard/:section/rows. The new row exists only in
// the draft until it is saved.
func (h *DashboardHandler) AddRow(c *gin.Context) {
	r, ok := h.request(c)
	if !ok {
		return
	}
	ws := r.ws

	switch r.section {
	case models.SectionAbout:
		ws.Techs.Add()
	case models.SectionProjects:
		ws.Cards.Add()
	case models.SectionExperience:
		_, err := ws.Experience.BeginNew()
		r.edited(c, err)
	case models.SectionSkills:
		if r.edited(c, ws.Skills.Update(func(d *models.SkillsSection) error { return applySkills(c, d) })) {
			r.edited(c, ws.AddSkill())
		}
	default:
		notFound(c)
		return
	}

	r.back(c)
}

// SaveRow handles POST /dashboard/:section/rows/:key/save
func (h *DashboardHandler) SaveRow(c *gin.Context) {
	r, ok := h.request(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	token := r.session.Token
	key := c.Param("key")
	ws := r.ws

	switch r.section {
	case models.SectionAbout:
		if h.attach(c, r, map[string]string{"image": services.TargetTechImage(key)}) &&
			r.edited(c, ws.Techs.Edit(key, func(d *models.Technology) error { return applyTech(c, d) })) {
			attachError(c, ws.SaveTech(ctx, token, key))
		}
	case models.SectionProjects:
		if h.attach(c, r, map[string]string{"image": services.TargetProjectImage(key)}) &&
			r.edited(c, ws.Cards.Edit(key, func(d *models.ProjectCard) error { return applyCard(c, d) })) {
			attachError(c, ws.SaveProject(ctx, token, key))
		}
	case models.SectionExperience:
		if r.edited(c, ws.Experience.Edit(key, func(d *models.ExperienceEntry) error { return applyExperience(c, d) })) {
			attachError(c, ws.SaveExperience(ctx, token, key))
		}
	default:
		notFound(c)
		return
	}

	r.back(c)
}

// DeleteRow handles POST /dashboard/:section/rows/:key/delete. For skills
// the key is the position in the list.
func (h *DashboardHandler) DeleteRow(c *gin.Context) {
	r, ok := h.request(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	token := r.session.Token
	key := c.Param("key")
	ws := r.ws

	switch r.section {
	case models.SectionAbout:
		attachError(c, ws.DeleteTech(ctx, token, key))
	case models.SectionProjects:
		attachError(c, ws.DeleteProject(ctx, token, key))
	case models.SectionExperience:
		attachError(c, ws.DeleteExperience(ctx, token, key))
	case models.SectionSkills:
		i, err := strconv.Atoi(key)
		if err != nil {
			notFound(c)
			return
		}
		if r.edited(c, ws.Skills.Update(func(d *models.SkillsSection) error { return applySkills(c, d) })) {
			r.edited(c, ws.RemoveSkill(i))
		}
	default:
		notFound(c)
		return
	}

	r.back(c)
}

// RevertRow handles POST /dashboard/:section/rows/:key/revert
func (h *DashboardHandler) RevertRow(c *gin.Context) {
	r, ok := h.request(c)
	if !ok {
		return
	}
	key := c.Param("key")
	ws := r.ws

	switch r.section {
	case models.SectionAbout:
		if r.edited(c, ws.Techs.Revert(key)) {
			ws.Files.Clear(services.TargetTechImage(key))
		}
	case models.SectionProjects:
		if r.edited(c, ws.Cards.Revert(key)) {
			ws.Files.Clear(services.TargetProjectImage(key))
		}
	case models.SectionExperience:
		r.edited(c, ws.Experience.Revert(key))
	default:
		notFound(c)
		return
	}

	r.back(c)
}

// EditRow handles POST /dashboard/experience/rows/:key/edit
func (h *DashboardHandler) EditRow(c *gin.Context) {
	r, ok := h.request(c)
	if !ok {
		return
	}
	if r.section != models.SectionExperience {
		notFound(c)
		return
	}
	r.edited(c, r.ws.Experience.BeginEdit(c.Param("key")))
	r.back(c)
}

// CancelEdit handles POST /dashboard/experience/cancel
func (h *DashboardHandler) CancelEdit(c *gin.Context) {
	r, ok := h.request(c)
	if !ok {
		return
	}
	if r.section != models.SectionExperience {
		notFound(c)
		return
	}
	r.edited(c, r.ws.Experience.CancelEdit())
	r.back(c)
}

// Preview handles GET /preview/:id and serves a picked file from memory
func (h *DashboardHandler) Preview(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		attachError(c, err)
		c.Header("Location", middleware.LoginPath)
		c.AbortWithStatus(http.StatusFound)
		return
	}

	file, ok := h.service.Workspace(session.ID).Files.Preview(c.Param("id"))
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}

	contentType := file.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(file.Data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(file.FileName))
	}
	c.Header("Cache-Control", "private, no-store")
	c.Header("Content-Security-Policy", "sandbox")
	c.Data(http.StatusOK, contentType, file.Data)
}
