package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"

	"github.com/folio-dev/folio/internal/models"
)

func (c *Client) GetHome(ctx context.Context) (*models.HomeProfile, error) {
	var out models.HomeProfile
	if err := c.get(ctx, "getHome", "/api/home", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateHome sends the full home record as multipart form data. File parts are
// only attached when the owner picked a new file. The API may echo the stored
// record back; nil is returned when it does not.
func (c *Client) UpdateHome(ctx context.Context, token string, home models.HomeProfile, picture, curriculum *models.FileUpload) (*models.HomeProfile, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"name", home.Name},
		{"title", home.Title},
		{"description", home.Description},
	}
	for _, key := range models.LinkKeys {
		fields = append(fields, [2]string{"links[" + key + "]", home.Links.Get(key)})
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, fmt.Errorf("encode home form: %w", err)
		}
	}

	for field, file := range map[string]*models.FileUpload{"profile_picture": picture, "curriculum": curriculum} {
		if file == nil {
			continue
		}
		if err := writeFilePart(w, field, file); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("encode home form: %w", err)
	}

	var out models.HomeUpdateResponse
	if err := c.call(ctx, "updateHome", http.MethodPut, "/api/home", token, &buf, w.FormDataContentType(), &out); err != nil {
		return nil, err
	}
	return out.Home, nil
}

func writeFilePart(w *multipart.Writer, field string, file *models.FileUpload) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, file.FileName))
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("encode %s part: %w", field, err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return fmt.Errorf("encode %s part: %w", field, err)
	}
	return nil
}

func (c *Client) GetAbout(ctx context.Context) (*models.AboutSection, error) {
	var out models.AboutSection
	if err := c.get(ctx, "getAbout", "/api/about", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateAbout(ctx context.Context, token string, about models.AboutSection) error {
	return c.send(ctx, "updateAbout", http.MethodPut, "/api/about", token, about, nil)
}

// AddTech creates a technology row and returns it with its new id
func (c *Client) AddTech(ctx context.Context, token string, tech models.Technology) (*models.Technology, error) {
	var out models.Technology
	if err := c.send(ctx, "addTech", http.MethodPost, "/api/about/add-tech", token, tech, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTech(ctx context.Context, token, id string) error {
	return c.send(ctx, "deleteTech", http.MethodDelete, "/api/about/delete-tech/"+url.PathEscape(id), token, nil, nil)
}

func (c *Client) GetSkills(ctx context.Context) (*models.SkillsSection, error) {
	var out models.SkillsSection
	if err := c.get(ctx, "getSkills", "/api/skills", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSkills(ctx context.Context, token string, skills models.SkillsSection) error {
	return c.send(ctx, "updateSkills", http.MethodPut, "/api/skills", token, skills.Clone(), nil)
}

func (c *Client) GetEducation(ctx context.Context) (*models.EducationRecord, error) {
	var out models.EducationRecord
	if err := c.get(ctx, "getEducation", "/api/education", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateEducation(ctx context.Context, token string, education models.EducationRecord) error {
	return c.send(ctx, "updateEducation", http.MethodPut, "/api/education", token, education, nil)
}

// GetProjects returns nil without error when the section was never created
func (c *Client) GetProjects(ctx context.Context) (*models.ProjectsSection, error) {
	var out *models.ProjectsSection
	if err := c.get(ctx, "getProjects", "/api/projects", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateProjectsSection(ctx context.Context, token, sectionName string) (*models.ProjectsSection, error) {
	var out models.ProjectsSection
	body := models.ProjectsSectionName{SectionName: sectionName, Cards: []models.ProjectCard{}}
	if err := c.send(ctx, "createProjectsSection", http.MethodPost, "/api/projects/create", token, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProjectsSection(ctx context.Context, token, sectionID, sectionName string) error {
	body := models.ProjectsSectionName{SectionName: sectionName}
	return c.send(ctx, "updateProjectsSection", http.MethodPut, "/api/projects/update/"+url.PathEscape(sectionID), token, body, nil)
}

// AddProject creates a card and returns the stored row carrying its id
func (c *Client) AddProject(ctx context.Context, token string, card models.ProjectCard) (*models.ProjectCard, error) {
	var out models.ProjectCard
	if err := c.send(ctx, "addProject", http.MethodPost, "/api/projects/add", token, card.Clone(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProject(ctx context.Context, token string, card models.ProjectCard) error {
	return c.send(ctx, "updateProject", http.MethodPut, "/api/projects/update/"+url.PathEscape(card.ID), token, card.Clone(), nil)
}

func (c *Client) DeleteProject(ctx context.Context, token, id string) error {
	return c.send(ctx, "deleteProject", http.MethodDelete, "/api/projects/delete/"+url.PathEscape(id), token, nil, nil)
}

func (c *Client) GetExperience(ctx context.Context) ([]models.ExperienceEntry, error) {
	var out []models.ExperienceEntry
	if err := c.get(ctx, "getExperience", "/api/experience", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddExperience(ctx context.Context, token string, entry models.ExperienceEntry) (*models.ExperienceEntry, error) {
	var out models.ExperienceEntry
	if err := c.send(ctx, "addExperience", http.MethodPost, "/api/experience/add", token, entry, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateExperience(ctx context.Context, token string, entry models.ExperienceEntry) error {
	return c.send(ctx, "updateExperience", http.MethodPut, "/api/experience/update/"+url.PathEscape(entry.ID), token, entry, nil)
}

func (c *Client) DeleteExperience(ctx context.Context, token, id string) error {
	return c.send(ctx, "deleteExperience", http.MethodDelete, "/api/experience/delete/"+url.PathEscape(id), token, nil, nil)
}

// Upload stores a file through the API and returns its public URL
func (c *Client) Upload(ctx context.Context, token string, file models.FileUpload) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := writeFilePart(w, "file", &file); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("encode upload form: %w", err)
	}

	var out models.UploadResponse
	if err := c.call(ctx, "upload", http.MethodPost, "/api/upload", token, &buf, w.FormDataContentType(), &out); err != nil {
		return "", err
	}
	if out.URL == "" {
		return "", &APIError{Status: http.StatusBadGateway, Message: "upload returned no url"}
	}
	return out.URL, nil
}
