package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/folio-dev/folio/internal/editor"
	"github.com/folio-dev/folio/internal/models"
	apperrors "github.com/folio-dev/folio/pkg/errors"
	"github.com/gin-gonic/gin"
)

// setField copies a posted value into dst. Fields missing from the form are
// left alone so partial forms do not wipe the draft.
func setField(c *gin.Context, key string, dst *string) {
	if v, ok := c.GetPostForm(key); ok {
		*dst = v
	}
}

func applyHome(c *gin.Context, d *models.HomeProfile) error {
	setField(c, "name", &d.Name)
	setField(c, "title", &d.Title)
	setField(c, "description", &d.Description)
	for _, key := range models.LinkKeys {
		if v, ok := c.GetPostForm("links[" + key + "]"); ok {
			if err := d.Links.Set(key, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func applyAbout(c *gin.Context, d *models.AboutSection) error {
	setField(c, "sectionName", &d.SectionName)
	setField(c, "description", &d.Description)
	return nil
}

func applyTech(c *gin.Context, d *models.Technology) error {
	setField(c, "title", &d.Title)
	setField(c, "description", &d.Description)
	return nil
}

func applySkills(c *gin.Context, d *models.SkillsSection) error {
	setField(c, "title", &d.Title)
	setField(c, "subtitle", &d.Subtitle)
	if _, ok := c.GetPostForm("skills_present"); ok {
		d.Skills = append([]string{}, c.PostFormArray("skills")...)
	}
	return nil
}

func applyProjectsSection(c *gin.Context, d *models.ProjectsSection) error {
	setField(c, "sectionName", &d.SectionName)
	return nil
}

func applyCard(c *gin.Context, d *models.ProjectCard) error {
	setField(c, "name", &d.Name)
	setField(c, "description", &d.Description)
	setField(c, "githubLink", &d.GithubLink)
	setField(c, "liveProjectLink", &d.LiveProjectLink)
	if v, ok := c.GetPostForm("tecnologies"); ok {
		d.Tecnologies = editor.SplitList(v)
	}
	return nil
}

func applyExperience(c *gin.Context, d *models.ExperienceEntry) error {
	setField(c, "position", &d.Position)
	setField(c, "company", &d.Company)
	setField(c, "duration", &d.Duration)
	setField(c, "location", &d.Location)
	setField(c, "jobProfile", &d.JobProfile)
	return nil
}

func applyEducation(c *gin.Context, d *models.EducationRecord) error {
	setField(c, "degree", &d.Degree)
	setField(c, "year", &d.Year)
	setField(c, "collegeName", &d.CollegeName)
	return nil
}

// formFile reads an uploaded file into memory. A missing or empty field
// yields nil.
func formFile(c *gin.Context, field string, maxBytes int64) (*models.FileUpload, error) {
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || (err == nil && header.Size == 0) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", field, err)
	}
	if maxBytes > 0 && header.Size > maxBytes {
		return nil, apperrors.InvalidInputError(field, fmt.Sprintf("%d bytes is over the %d byte limit", header.Size, maxBytes))
	}
	return readFileHeader(header)
}

func readFileHeader(header *multipart.FileHeader) (*models.FileUpload, error) {
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	return &models.FileUpload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
