package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/folio-dev/folio/internal/apiclient"
	"github.com/folio-dev/folio/internal/cache"
	"github.com/folio-dev/folio/internal/models"
	"github.com/folio-dev/folio/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const token = "opaque-token"

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestWorkspace_SkillsScenario(t *testing.T) {
	f := newDashboardFixture()
	ctx := context.Background()

	f.api.On("GetSkills", mock.Anything).Return(&models.SkillsSection{Title: "Skills", Skills: []string{"Go"}}, nil).Once()
	f.api.On("UpdateSkills", mock.Anything, token, models.SkillsSection{
		Title:    "Skills",
		Subtitle: "",
		Skills:   []string{"Go", "Rust"},
	}).Return(nil).Once()

	ws := f.service.Workspace("sid")
	ws.EnsureLoaded(ctx, models.SectionSkills)
	ws.EnsureLoaded(ctx, models.SectionSkills)

	require.NoError(t, ws.AddSkill())
	require.NoError(t, ws.SetSkill(1, "Rust"))
	require.NoError(t, ws.SaveSkills(ctx, token))

	assert.Equal(t, "Skills updated successfully!", f.lastFlash("sid").Text)
	assert.Equal(t, cache.FlashSuccess, f.lastFlash("sid").Kind)
	assert.Equal(t, []models.Section{models.SectionSkills}, f.sections.Invalidated())
	assert.False(t, ws.Skills.Status().Dirty)
	f.api.AssertExpectations(t)
}

func TestWorkspace_ValidationSendsNothing(t *testing.T) {
	f := newDashboardFixture()
	ws := f.service.Workspace("sid")

	require.NoError(t, ws.Skills.Update(func(d *models.SkillsSection) error {
		d.Title = "   "
		return nil
	}))
	err := ws.SaveSkills(context.Background(), token)

	require.Error(t, err)
	assert.Equal(t, "Please fill in the required fields: title", f.lastFlash("sid").Text)
	assert.Equal(t, cache.FlashError, f.lastFlash("sid").Kind)
	assert.Empty(t, f.sections.Invalidated())
	f.api.AssertNotCalled(t, "UpdateSkills", mock.Anything, mock.Anything, mock.Anything)
}

func TestWorkspace_ServerErrorMessageIsShown(t *testing.T) {
	f := newDashboardFixture()
	ws := f.service.Workspace("sid")
	record := models.EducationRecord{Degree: "BSc", Year: "20x4", CollegeName: "Uni"}

	f.api.On("UpdateEducation", mock.Anything, token, record).
		Return(&apiclient.APIError{Status: 400, Message: "Year is invalid"}).Once()

	require.NoError(t, ws.Education.Update(func(d *models.EducationRecord) error {
		*d = record
		return nil
	}))
	require.Error(t, ws.SaveEducation(context.Background(), token))

	assert.Equal(t, "Year is invalid", f.lastFlash("sid").Text)
	assert.True(t, ws.Education.Status().Unsynced)
	assert.Equal(t, record, ws.Education.Draft())
}

func TestWorkspace_GenericFailureMessage(t *testing.T) {
	f := newDashboardFixture()
	ws := f.service.Workspace("sid")
	record := models.EducationRecord{Degree: "BSc", Year: "2014", CollegeName: "Uni"}

	f.api.On("UpdateEducation", mock.Anything, token, record).Return(errors.New("connection refused")).Once()

	require.NoError(t, ws.Education.Update(func(d *models.EducationRecord) error {
		*d = record
		return nil
	}))
	require.Error(t, ws.SaveEducation(context.Background(), token))
	assert.Equal(t, "Error updating education", f.lastFlash("sid").Text)
}

func TestWorkspace_ProjectCreateThenUpdate(t *testing.T) {
	f := newDashboardFixture()
	ctx := context.Background()
	ws := f.service.Workspace("sid")

	key := ws.Cards.Add()
	require.NoError(t, ws.Cards.Edit(key, func(c *models.ProjectCard) error {
		c.Name = "Folio"
		c.Description = "Portfolio site"
		c.Tecnologies = []string{"Go", "HTML"}
		return nil
	}))

	draft := models.ProjectCard{Name: "Folio", Description: "Portfolio site", Tecnologies: []string{"Go", "HTML"}}
	stored := draft
	stored.ID = "p1"
	f.api.On("AddProject", mock.Anything, token, draft).Return(&stored, nil).Once()

	require.NoError(t, ws.SaveProject(ctx, token, key))
	assert.Equal(t, "Project saved successfully!", f.lastFlash("sid").Text)

	require.NoError(t, ws.Cards.Edit(key, func(c *models.ProjectCard) error {
		c.Description = "Portfolio site in Go"
		return nil
	}))
	updated := stored
	updated.Description = "Portfolio site in Go"
	f.api.On("UpdateProject", mock.Anything, token, updated).Return(nil).Once()

	require.NoError(t, ws.SaveProject(ctx, token, key))

	assert.Equal(t, 1, ws.Cards.Len())
	row, ok := ws.Cards.Get(key)
	require.True(t, ok)
	assert.Equal(t, "p1", row.Value.ID)
	f.api.AssertExpectations(t)
}

func TestWorkspace_ProjectImageUploadedBeforeSave(t *testing.T) {
	f := newDashboardFixture()
	ctx := context.Background()
	ws := f.service.Workspace("sid")

	key := ws.Cards.Add()
	require.NoError(t, ws.Cards.Edit(key, func(c *models.ProjectCard) error {
		c.Name = "Folio"
		c.Description = "Portfolio site"
		return nil
	}))
	previewID, err := ws.Attach(services.TargetProjectImage(key), models.FileUpload{
		FileName:    "shot.png",
		ContentType: "image/png",
		Data:        pngBytes,
	})
	require.NoError(t, err)
	require.NotEmpty(t, previewID)

	f.uploader.On("UploadImage", mock.Anything, token, mock.MatchedBy(func(file models.FileUpload) bool {
		return file.FileName == "shot.png"
	})).Return("https://cdn.example.com/shot.png", nil).Once()
	f.api.On("AddProject", mock.Anything, token, mock.MatchedBy(func(card models.ProjectCard) bool {
		return card.Image == "https://cdn.example.com/shot.png"
	})).Return(&models.ProjectCard{ID: "p1", Name: "Folio", Description: "Portfolio site", Image: "https://cdn.example.com/shot.png"}, nil).Once()

	require.NoError(t, ws.SaveProject(ctx, token, key))
	assert.Zero(t, ws.Files.Len())
	f.uploader.AssertExpectations(t)
	f.api.AssertExpectations(t)
}

func TestWorkspace_AttachRejectsNonImage(t *testing.T) {
	f := newDashboardFixture()
	ws := f.service.Workspace("sid")

	_, err := ws.Attach(services.TargetAboutPicture, models.FileUpload{
		FileName:    "notes.txt",
		ContentType: "text/plain",
		Data:        []byte("hello"),
	})
	assert.Error(t, err)

	_, err = ws.Attach(services.TargetHomeCurriculum, models.FileUpload{
		FileName:    "cv.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.4"),
	})
	assert.NoError(t, err)
}

func TestWorkspace_DeleteUnsavedProjectIsLocal(t *testing.T) {
	f := newDashboardFixture()
	ws := f.service.Workspace("sid")

	key := ws.Cards.Add()
	require.NoError(t, ws.DeleteProject(context.Background(), token, key))

	assert.Zero(t, ws.Cards.Len())
	assert.Equal(t, "Project deleted", f.lastFlash("sid").Text)
	f.api.AssertNotCalled(t, "DeleteProject", mock.Anything, mock.Anything, mock.Anything)
}

func TestWorkspace_DeleteFailureKeepsProject(t *testing.T) {
	f := newDashboardFixture()
	ctx := context.Background()

	f.api.On("GetProjects", mock.Anything).Return(&models.ProjectsSection{
		ID:          "s1",
		SectionName: "Work",
		Cards:       []models.ProjectCard{{ID: "p1", Name: "Folio", Description: "Site"}},
	}, nil).Once()
	f.api.On("DeleteProject", mock.Anything, token, "p1").Return(errors.New("boom")).Once()

	ws := f.service.Workspace("sid")
	ws.EnsureLoaded(ctx, models.SectionProjects)
	rows := ws.Cards.Rows()
	require.Len(t, rows, 1)

	require.Error(t, ws.DeleteProject(ctx, token, rows[0].Key))
	assert.Equal(t, 1, ws.Cards.Len())
	assert.Equal(t, "Failed to delete project", f.lastFlash("sid").Text)
	assert.Equal(t, "Work", ws.Projects.Draft().SectionName)
}

func TestWorkspace_ProjectsSectionCreateThenRename(t *testing.T) {
	f := newDashboardFixture()
	ctx := context.Background()

	f.api.On("GetProjects", mock.Anything).Return(nil, nil).Once()
	f.api.On("CreateProjectsSection", mock.Anything, token, models.DefaultProjectsSectionName).
		Return(&models.ProjectsSection{ID: "s1", SectionName: models.DefaultProjectsSectionName}, nil).Once()
	f.api.On("UpdateProjectsSection", mock.Anything, token, "s1", "Work").Return(nil).Once()

	ws := f.service.Workspace("sid")
	ws.EnsureLoaded(ctx, models.SectionProjects)

	require.NoError(t, ws.SaveProjectsSection(ctx, token))
	assert.Equal(t, "New section created successfully!", f.lastFlash("sid").Text)
	assert.Equal(t, "s1", ws.Projects.Draft().ID)

	require.NoError(t, ws.Projects.Update(func(d *models.ProjectsSection) error {
		d.SectionName = "Work"
		return nil
	}))
	require.NoError(t, ws.SaveProjectsSection(ctx, token))
	assert.Equal(t, "Section name updated successfully!", f.lastFlash("sid").Text)
	f.api.AssertExpectations(t)
}

func TestWorkspace_AboutTechnologies(t *testing.T) {
	f := newDashboardFixture()
	ctx := context.Background()

	f.api.On("GetAbout", mock.Anything).Return(&models.AboutSection{
		ID:           "a1",
		SectionName:  "About",
		Technologies: []models.Technology{{ID: "t1", Title: "Go"}},
	}, nil).Once()

	ws := f.service.Workspace("sid")
	ws.EnsureLoaded(ctx, models.SectionAbout)
	rows := ws.Techs.Rows()
	require.Len(t, rows, 1)

	// existing row: parent PUT with the row replaced
	require.NoError(t, ws.Techs.Edit(rows[0].Key, func(tech *models.Technology) error {
		tech.Title = "Golang"
		return nil
	}))
	f.api.On("UpdateAbout", mock.Anything, token, models.AboutSection{
		ID:           "a1",
		SectionName:  "About",
		Technologies: []models.Technology{{ID: "t1", Title: "Golang"}},
	}).Return(nil).Once()
	require.NoError(t, ws.SaveTech(ctx, token, rows[0].Key))

	// new row: add-tech
	key := ws.Techs.Add()
	require.NoError(t, ws.Techs.Edit(key, func(tech *models.Technology) error {
		tech.Title = "Rust"
		return nil
	}))
	f.api.On("AddTech", mock.Anything, token, models.Technology{Title: "Rust"}).
		Return(&models.Technology{ID: "t2", Title: "Rust"}, nil).Once()
	require.NoError(t, ws.SaveTech(ctx, token, key))

	// a fresh unsaved row never reaches the section PUT
	ws.Techs.Add()
	require.NoError(t, ws.About.Update(func(d *models.AboutSection) error {
		d.Description = "Hi"
		return nil
	}))
	f.api.On("UpdateAbout", mock.Anything, token, models.AboutSection{
		ID:           "a1",
		SectionName:  "About",
		Description:  "Hi",
		Technologies: []models.Technology{{ID: "t1", Title: "Golang"}, {ID: "t2", Title: "Rust"}},
	}).Return(nil).Once()
	require.NoError(t, ws.SaveAbout(ctx, token))

	f.api.AssertExpectations(t)
}

func TestWorkspace_HomeSendsPendingFiles(t *testing.T) {
	f := newDashboardFixture()
	ctx := context.Background()
	ws := f.service.Workspace("sid")

	home := models.HomeProfile{Name: "Ada", Title: "Engineer", Links: models.Links{GitHub: "https://github.com/ada"}}
	require.NoError(t, ws.Home.Update(func(d *models.HomeProfile) error {
		*d = home
		return nil
	}))
	_, err := ws.Attach(services.TargetHomePicture, models.FileUpload{FileName: "me.png", ContentType: "image/png", Data: pngBytes})
	require.NoError(t, err)

	stored := home
	stored.ProfilePicture = "https://cdn.example.com/me.png"
	f.api.On("UpdateHome", mock.Anything, token, home,
		mock.MatchedBy(func(p *models.FileUpload) bool { return p != nil && p.FileName == "me.png" }),
		(*models.FileUpload)(nil),
	).Return(&stored, nil).Once()

	require.NoError(t, ws.SaveHome(ctx, token))
	assert.Equal(t, stored, ws.Home.Draft())
	assert.Zero(t, ws.Files.Len())
	f.api.AssertExpectations(t)
}

func TestWorkspace_ExperienceEditingPointer(t *testing.T) {
	f := newDashboardFixture()
	ctx := context.Background()

	f.api.On("GetExperience", mock.Anything).Return([]models.ExperienceEntry{}, nil).Once()
	ws := f.service.Workspace("sid")
	ws.EnsureLoaded(ctx, models.SectionExperience)

	key, err := ws.Experience.BeginNew()
	require.NoError(t, err)
	assert.Equal(t, key, ws.Experience.EditingKey())

	entry := models.ExperienceEntry{Position: "Engineer", Company: "Acme", Duration: "2020-2024", JobProfile: "Backend"}
	require.NoError(t, ws.Experience.Edit(key, func(e *models.ExperienceEntry) error {
		*e = entry
		return nil
	}))
	stored := entry
	stored.ID = "e1"
	f.api.On("AddExperience", mock.Anything, token, entry).Return(&stored, nil).Once()

	require.NoError(t, ws.SaveExperience(ctx, token, key))
	assert.Empty(t, ws.Experience.EditingKey())
	assert.Equal(t, "Experience saved successfully!", f.lastFlash("sid").Text)

	require.NoError(t, ws.Experience.BeginEdit(key))
	require.NoError(t, ws.Revert(models.SectionExperience))
	assert.Empty(t, ws.Experience.EditingKey())
	assert.Equal(t, 1, ws.Experience.Len())
}

func TestWorkspace_LoadFailureIsNotFatal(t *testing.T) {
	f := newDashboardFixture()
	f.api.On("GetSkills", mock.Anything).Return(nil, errors.New("down")).Once()

	ws := f.service.Workspace("sid")
	ws.EnsureLoaded(context.Background(), models.SectionSkills)

	st := ws.Skills.Status()
	assert.True(t, st.Loaded)
	assert.Error(t, st.LoadErr)
	assert.Equal(t, models.SkillsSection{Skills: []string{}}, ws.Skills.Draft())
	assert.Empty(t, f.service.Flashes("sid"))
}

func TestWorkspace_RevertAndReload(t *testing.T) {
	f := newDashboardFixture()
	ctx := context.Background()
	f.api.On("GetSkills", mock.Anything).Return(&models.SkillsSection{Title: "Skills", Skills: []string{"Go"}}, nil).Twice()

	ws := f.service.Workspace("sid")
	ws.EnsureLoaded(ctx, models.SectionSkills)

	require.NoError(t, ws.RemoveSkill(0))
	require.NoError(t, ws.Revert(models.SectionSkills))
	assert.Equal(t, []string{"Go"}, ws.Skills.Draft().Skills)

	require.NoError(t, ws.AddSkill())
	require.NoError(t, ws.Reload(ctx, models.SectionSkills))
	assert.Equal(t, []string{"Go"}, ws.Skills.Draft().Skills)
	f.api.AssertExpectations(t)
}

func TestDashboardService_WorkspacePerSession(t *testing.T) {
	f := newDashboardFixture()

	a := f.service.Workspace("a")
	assert.Same(t, a, f.service.Workspace("a"))
	assert.NotSame(t, a, f.service.Workspace("b"))
	assert.Equal(t, "a", a.SessionID())
	assert.Equal(t, 2, f.service.ActiveDrafts())

	a.Notify(models.SectionHome, errors.New("bad file"), "Upload failed")
	require.Len(t, f.service.Flashes("a"), 1)

	f.service.Discard("a")
	assert.Equal(t, 1, f.service.ActiveDrafts())
	assert.NotSame(t, a, f.service.Workspace("a"))
	assert.Empty(t, f.service.Flashes("a"))
}
