package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/folio-dev/folio/internal/editor"
	"github.com/folio-dev/folio/internal/middleware"
	"github.com/folio-dev/folio/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)

func TestDashboard_UnauthenticatedRedirectsWithoutBackendCalls(t *testing.T) {
	env := newDashboardEnv(t)

	for _, path := range []string{"/dashboard", "/dashboard/home", "/dashboard/skills", "/preview/anything"} {
		w := env.get(t, path, false)
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, middleware.LoginPath, w.Header().Get("Location"), path)
		assert.Empty(t, w.Body.String(), path)
	}

	w := env.post(t, "/dashboard/skills/save", url.Values{"title": {"Tools"}}, false)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, middleware.LoginPath, w.Header().Get("Location"))

	w = env.post(t, "/dashboard/experience/rows/k/delete", nil, false)
	assert.Equal(t, http.StatusFound, w.Code)

	assert.Empty(t, env.api.Calls)
}

func TestDashboard_IndexRedirectsToHome(t *testing.T) {
	env := newDashboardEnv(t)

	w := env.get(t, "/dashboard", true)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard/home", w.Header().Get("Location"))
}

func TestDashboard_UnknownSection(t *testing.T) {
	env := newDashboardEnv(t)

	w := env.get(t, "/dashboard/blog", true)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, env.api.Calls)
}

func TestDashboard_ShowLoadsOnce(t *testing.T) {
	env := newDashboardEnv(t)
	env.api.On("GetSkills", mock.Anything).
		Return(&models.SkillsSection{Title: "Skills", Subtitle: "What I use", Skills: []string{"Go", "SQL"}}, nil).Once()

	w := env.get(t, "/dashboard/skills", true)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `value="Go"`)
	assert.Contains(t, body, `value="SQL"`)
	assert.Contains(t, body, "owner@example.com")
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")

	w = env.get(t, "/dashboard/skills", true)
	require.Equal(t, http.StatusOK, w.Code)
	env.api.AssertNumberOfCalls(t, "GetSkills", 1)
}

func TestDashboard_ShowKeepsFormUsableWhenLoadFails(t *testing.T) {
	env := newDashboardEnv(t)
	env.api.On("GetEducation", mock.Anything).Return(nil, assert.AnError).Once()

	w := env.get(t, "/dashboard/education", true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), loadFailedMessage)
	assert.Contains(t, w.Body.String(), `name="degree"`)
}

func TestDashboard_SaveSkills(t *testing.T) {
	env := newDashboardEnv(t)
	env.api.On("GetSkills", mock.Anything).
		Return(&models.SkillsSection{Title: "Skills", Skills: []string{"Go"}}, nil).Once()
	env.api.On("UpdateSkills", mock.Anything, "opaque",
		models.SkillsSection{Title: "Tools", Subtitle: "", Skills: []string{"Go", "Rust"}}).
		Return(nil).Once()

	w := env.post(t, "/dashboard/skills/save", url.Values{
		"title":          {"Tools"},
		"subtitle":       {""},
		"skills_present": {"1"},
		"skills":         {"Go", "Rust"},
	}, true)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard/skills", w.Header().Get("Location"))
	env.api.AssertExpectations(t)

	w = env.get(t, "/dashboard/skills", true)
	assert.Contains(t, w.Body.String(), "Skills updated successfully!")
}

func TestDashboard_AddAndRemoveSkillKeepsTypedValues(t *testing.T) {
	env := newDashboardEnv(t)
	env.api.On("GetSkills", mock.Anything).
		Return(&models.SkillsSection{Title: "Skills", Skills: []string{"Go"}}, nil).Once()

	w := env.post(t, "/dashboard/skills/rows", url.Values{
		"title":          {"Skills"},
		"skills_present": {"1"},
		"skills":         {"Golang"},
	}, true)
	require.Equal(t, http.StatusSeeOther, w.Code)

	ws := env.dashboard.Workspace("sid-1")
	assert.Equal(t, []string{"Golang", ""}, ws.Skills.Draft().Skills)

	w = env.post(t, "/dashboard/skills/rows/0/delete", url.Values{
		"title":          {"Skills"},
		"skills_present": {"1"},
		"skills":         {"Golang", "Docker"},
	}, true)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, []string{"Docker"}, ws.Skills.Draft().Skills)

	env.api.AssertNotCalled(t, "UpdateSkills", mock.Anything, mock.Anything, mock.Anything)
}

func TestDashboard_RequiredFieldsBlockSave(t *testing.T) {
	env := newDashboardEnv(t)
	env.api.On("GetEducation", mock.Anything).
		Return(&models.EducationRecord{Degree: "BSc", Year: "2020", CollegeName: "MIT"}, nil).Once()

	w := env.post(t, "/dashboard/education/save", url.Values{
		"degree":      {""},
		"year":        {"2020"},
		"collegeName": {"MIT"},
	}, true)
	require.Equal(t, http.StatusSeeOther, w.Code)

	env.api.AssertNotCalled(t, "UpdateEducation", mock.Anything, mock.Anything, mock.Anything)

	w = env.get(t, "/dashboard/education", true)
	assert.Contains(t, w.Body.String(), "Please fill in the required fields: degree")
}

func TestDashboard_FailedSaveKeepsEdits(t *testing.T) {
	env := newDashboardEnv(t)
	env.api.On("GetEducation", mock.Anything).
		Return(&models.EducationRecord{Degree: "BSc", Year: "2020", CollegeName: "MIT"}, nil).Once()
	env.api.On("UpdateEducation", mock.Anything, "opaque", mock.Anything).Return(assert.AnError).Once()

	env.post(t, "/dashboard/education/save", url.Values{
		"degree":      {"MSc"},
		"year":        {"2022"},
		"collegeName": {"MIT"},
	}, true)

	ws := env.dashboard.Workspace("sid-1")
	assert.Equal(t, "MSc", ws.Education.Draft().Degree)
	assert.Equal(t, "BSc", ws.Education.Saved().Degree)
	assert.True(t, ws.Education.Status().Unsynced)

	w := env.get(t, "/dashboard/education", true)
	assert.Contains(t, w.Body.String(), "Error updating education")

	w = env.post(t, "/dashboard/education/revert", nil, true)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "BSc", ws.Education.Draft().Degree)
}

func TestDashboard_ExperienceCreateReplacesPlaceholder(t *testing.T) {
	env := newDashboardEnv(t)
	env.api.On("GetExperience", mock.Anything).Return([]models.ExperienceEntry{}, nil).Once()

	w := env.post(t, "/dashboard/experience/rows", nil, true)
	require.Equal(t, http.StatusSeeOther, w.Code)

	ws := env.dashboard.Workspace("sid-1")
	key := ws.Experience.EditingKey()
	require.NotEmpty(t, key)

	w = env.get(t, "/dashboard/experience", true)
	assert.Contains(t, w.Body.String(), `name="position"`)

	draft := models.ExperienceEntry{Position: "Dev", Company: "Acme", Duration: "2y", JobProfile: "Go services"}
	created := draft
	created.ID = "e1"
	env.api.On("AddExperience", mock.Anything, "opaque", draft).Return(&created, nil).Once()

	w = env.post(t, "/dashboard/experience/rows/"+key+"/save", url.Values{
		"position":   {"Dev"},
		"company":    {"Acme"},
		"duration":   {"2y"},
		"location":   {""},
		"jobProfile": {"Go services"},
	}, true)
	require.Equal(t, http.StatusSeeOther, w.Code)

	rows := ws.Experience.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, key, rows[0].Key)
	assert.Equal(t, "e1", rows[0].Value.ID)
	assert.Equal(t, editor.RowSaved, rows[0].State)
	assert.Empty(t, ws.Experience.EditingKey())
	env.api.AssertExpectations(t)
}

func TestDashboard_DeleteUnsavedRowSendsNothing(t *testing.T) {
	env := newDashboardEnv(t)
	env.api.On("GetAbout", mock.Anything).Return(&models.AboutSection{SectionName: "About me"}, nil).Once()

	env.post(t, "/dashboard/about/rows", nil, true)
	ws := env.dashboard.Workspace("sid-1")
	require.Equal(t, 1, ws.Techs.Len())
	key := ws.Techs.Rows()[0].Key

	w := env.post(t, "/dashboard/about/rows/"+key+"/delete", nil, true)
	require.Equal(t, http.StatusSeeOther, w.Code)

	assert.Equal(t, 0, ws.Techs.Len())
	env.api.AssertNotCalled(t, "DeleteTech", mock.Anything, mock.Anything, mock.Anything)
}

func TestDashboard_DeleteSavedProjectFailureKeepsRow(t *testing.T) {
	env := newDashboardEnv(t)
	env.api.On("GetProjects", mock.Anything).Return(&models.ProjectsSection{
		ID:          "s1",
		SectionName: "Work",
		Cards:       []models.ProjectCard{{ID: "p1", Name: "Folio", Description: "Site"}},
	}, nil).Once()
	env.api.On("DeleteProject", mock.Anything, "opaque", "p1").Return(assert.AnError).Once()

	w := env.get(t, "/dashboard/projects", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Update section name")

	ws := env.dashboard.Workspace("sid-1")
	key := ws.Cards.Rows()[0].Key

	env.post(t, "/dashboard/projects/rows/"+key+"/delete", nil, true)

	assert.Equal(t, 1, ws.Cards.Len())
	w = env.get(t, "/dashboard/projects", true)
	assert.Contains(t, w.Body.String(), "Failed to delete project")
}

func TestDashboard_SaveHomeWithPicture(t *testing.T) {
	env := newDashboardEnv(t)
	env.api.On("GetHome", mock.Anything).Return(&models.HomeProfile{Name: "Ada", Title: "Engineer"}, nil).Once()
	env.api.On("UpdateHome", mock.Anything, "opaque",
		mock.MatchedBy(func(h models.HomeProfile) bool {
			return h.Name == "Ada L." && h.Links.GitHub == "https://github.com/ada"
		}),
		mock.MatchedBy(func(f *models.FileUpload) bool {
			return f != nil && f.FileName == "me.png" && f.ContentType == "image/png"
		}),
		(*models.FileUpload)(nil),
	).Return(&models.HomeProfile{Name: "Ada L.", Title: "Engineer", ProfilePicture: "https://cdn.example.com/me.png"}, nil).Once()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("name", "Ada L."))
	require.NoError(t, mw.WriteField("title", "Engineer"))
	require.NoError(t, mw.WriteField("links[github]", "https://github.com/ada"))
	part, err := mw.CreateFormFile("profile_picture", "me.png")
	require.NoError(t, err)
	_, err = part.Write(pngBytes)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/dashboard/home/save", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(env.cookie(t))
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusSeeOther, w.Code)
	env.api.AssertExpectations(t)

	ws := env.dashboard.Workspace("sid-1")
	assert.Equal(t, "https://cdn.example.com/me.png", ws.Home.Draft().ProfilePicture)
	assert.Equal(t, 0, ws.Files.Len())
}

func TestDashboard_Preview(t *testing.T) {
	env := newDashboardEnv(t)
	ws := env.dashboard.Workspace("sid-1")

	id, err := ws.Attach("about.picture", models.FileUpload{FileName: "me.png", Data: pngBytes})
	require.NoError(t, err)

	w := env.get(t, "/preview/"+id, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, pngBytes, w.Body.Bytes())

	w = env.get(t, "/preview/unknown", true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDashboard_AttachRejectsNonImage(t *testing.T) {
	env := newDashboardEnv(t)
	env.api.On("GetAbout", mock.Anything).Return(&models.AboutSection{SectionName: "About me"}, nil).Once()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("sectionName", "About me"))
	part, err := mw.CreateFormFile("picture", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("just some text"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/dashboard/about/save", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(env.cookie(t))
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusSeeOther, w.Code)
	env.api.AssertNotCalled(t, "UpdateAbout", mock.Anything, mock.Anything, mock.Anything)

	w = env.get(t, "/dashboard/about", true)
	assert.Contains(t, w.Body.String(), fileFailedMessage)
}
