package services

import (
	"context"
	"fmt"

	"github.com/folio-dev/folio/internal/cache"
	"github.com/folio-dev/folio/internal/editor"
	"github.com/folio-dev/folio/internal/models"
	"github.com/folio-dev/folio/pkg/logger"
	"github.com/folio-dev/folio/pkg/metrics"
	"github.com/folio-dev/folio/pkg/storage"
	"go.uber.org/zap"
)

// Attachment targets for files picked in the dashboard
const (
	TargetHomePicture    = "home.profile_picture"
	TargetHomeCurriculum = "home.curriculum"
	TargetAboutPicture   = "about.picture"
)

// TargetTechImage is the attachment target of a technology row's image
func TargetTechImage(key string) string { return "about.tech." + key }

// TargetProjectImage is the attachment target of a project card's image
func TargetProjectImage(key string) string { return "projects.card." + key }

// Workspace holds every dashboard draft of one session. Sections load on
// first view and stay in memory until saved, reverted, reloaded or the
// session goes idle.
type Workspace struct {
	sid       string
	api       SectionAPI
	uploader  ImageUploader
	sections  SectionReader
	flashes   *cache.FlashStore
	maxUpload int64

	Home       *editor.Singleton[models.HomeProfile]
	About      *editor.Singleton[models.AboutSection]
	Techs      *editor.CardList[models.Technology]
	Skills     *editor.Singleton[models.SkillsSection]
	Projects   *editor.Singleton[models.ProjectsSection]
	Cards      *editor.CardList[models.ProjectCard]
	Experience *editor.CardList[models.ExperienceEntry]
	Education  *editor.Singleton[models.EducationRecord]
	Files      *editor.Attachments
}

func newWorkspace(sid string, api SectionAPI, uploader ImageUploader, sections SectionReader, flashes *cache.FlashStore, maxUpload int64) *Workspace {
	return &Workspace{
		sid:       sid,
		api:       api,
		uploader:  uploader,
		sections:  sections,
		flashes:   flashes,
		maxUpload: maxUpload,

		Home:       editor.NewSingleton("home", models.HomeProfile{}),
		About:      editor.NewSingleton("about", models.AboutSection{}),
		Techs:      editor.NewCardList("about.technologies", func() models.Technology { return models.Technology{} }),
		Skills:     editor.NewSingleton("skills", models.SkillsSection{Skills: []string{}}),
		Projects:   editor.NewSingleton("projects", models.ProjectsSection{SectionName: models.DefaultProjectsSectionName}),
		Cards:      editor.NewCardList("projects.cards", func() models.ProjectCard { return models.ProjectCard{}.Clone() }),
		Experience: editor.NewCardList("experience", func() models.ExperienceEntry { return models.ExperienceEntry{} }),
		Education:  editor.NewSingleton("education", models.EducationRecord{}),
		Files:      editor.NewAttachments(),
	}
}

// SessionID returns the session this workspace belongs to
func (w *Workspace) SessionID() string {
	return w.sid
}

// Loaded reports whether section has been fetched at least once
func (w *Workspace) Loaded(section models.Section) bool {
	switch section {
	case models.SectionHome:
		return w.Home.Loaded()
	case models.SectionAbout:
		return w.About.Loaded()
	case models.SectionSkills:
		return w.Skills.Loaded()
	case models.SectionProjects:
		return w.Projects.Loaded()
	case models.SectionExperience:
		return w.Experience.Loaded()
	case models.SectionEducation:
		return w.Education.Loaded()
	}
	return false
}

// EnsureLoaded fetches section unless it already holds a draft
func (w *Workspace) EnsureLoaded(ctx context.Context, section models.Section) {
	if w.Loaded(section) {
		return
	}
	_ = w.Load(ctx, section)
}

// Load fetches section and replaces its drafts. A failure leaves the
// current drafts in place; the form stays usable.
func (w *Workspace) Load(ctx context.Context, section models.Section) error {
	switch section {
	case models.SectionHome:
		return w.Home.Load(ctx, func(ctx context.Context) (models.HomeProfile, error) {
			home, err := w.api.GetHome(ctx)
			return deref(home), err
		})
	case models.SectionAbout:
		return w.About.Load(ctx, func(ctx context.Context) (models.AboutSection, error) {
			about, err := w.api.GetAbout(ctx)
			if err != nil {
				return models.AboutSection{}, err
			}
			out := deref(about)
			w.Techs.Reset(out.Technologies)
			out.Technologies = nil
			return out, nil
		})
	case models.SectionSkills:
		return w.Skills.Load(ctx, func(ctx context.Context) (models.SkillsSection, error) {
			skills, err := w.api.GetSkills(ctx)
			return deref(skills).Clone(), err
		})
	case models.SectionProjects:
		return w.Projects.Load(ctx, func(ctx context.Context) (models.ProjectsSection, error) {
			projects, err := w.api.GetProjects(ctx)
			if err != nil {
				return models.ProjectsSection{}, err
			}
			if projects == nil {
				w.Cards.Reset(nil)
				return models.ProjectsSection{SectionName: models.DefaultProjectsSectionName}, nil
			}
			out := *projects
			w.Cards.Reset(out.Cards)
			out.Cards = nil
			return out, nil
		})
	case models.SectionExperience:
		return w.Experience.Load(ctx, w.api.GetExperience)
	case models.SectionEducation:
		return w.Education.Load(ctx, func(ctx context.Context) (models.EducationRecord, error) {
			education, err := w.api.GetEducation(ctx)
			return deref(education), err
		})
	}
	return fmt.Errorf("unknown section %q", section)
}

// Reload throws the drafts of section away and fetches it again
func (w *Workspace) Reload(ctx context.Context, section models.Section) error {
	w.clearFiles(section)
	return w.Load(ctx, section)
}

// Revert discards local edits of section without calling the API
func (w *Workspace) Revert(section models.Section) error {
	w.clearFiles(section)

	switch section {
	case models.SectionHome:
		return w.Home.Revert()
	case models.SectionAbout:
		if err := w.About.Revert(); err != nil {
			return err
		}
		return revertRows(w.Techs)
	case models.SectionSkills:
		return w.Skills.Revert()
	case models.SectionProjects:
		if err := w.Projects.Revert(); err != nil {
			return err
		}
		return revertRows(w.Cards)
	case models.SectionExperience:
		if err := w.Experience.CancelEdit(); err != nil {
			return err
		}
		return revertRows(w.Experience)
	case models.SectionEducation:
		return w.Education.Revert()
	}
	return fmt.Errorf("unknown section %q", section)
}

func revertRows[T editor.Card[T]](list *editor.CardList[T]) error {
	for _, r := range list.Rows() {
		if err := list.Revert(r.Key); err != nil && err != editor.ErrRowNotFound {
			return err
		}
	}
	return nil
}

func (w *Workspace) clearFiles(section models.Section) {
	switch section {
	case models.SectionHome:
		w.Files.Clear(TargetHomePicture)
		w.Files.Clear(TargetHomeCurriculum)
	case models.SectionAbout:
		w.Files.Clear(TargetAboutPicture)
		for _, r := range w.Techs.Rows() {
			w.Files.Clear(TargetTechImage(r.Key))
		}
	case models.SectionProjects:
		for _, r := range w.Cards.Rows() {
			w.Files.Clear(TargetProjectImage(r.Key))
		}
	}
}

// Attach keeps a picked file for target until the next save and returns its
// preview id. Everything except the curriculum must be an image.
func (w *Workspace) Attach(target string, file models.FileUpload) (string, error) {
	file.ContentType = storage.SniffContentType(file.ContentType, file.Data)
	if target != TargetHomeCurriculum {
		if _, err := storage.ValidateImageType(file.ContentType); err != nil {
			return "", err
		}
	}
	if err := storage.ValidateImageSize(file.Data, w.maxUpload); err != nil {
		return "", err
	}
	return w.Files.Attach(target, file), nil
}

// resolveImage uploads the file pending for target, if any, and returns the
// URL to store. Without a pending file current is returned unchanged.
func (w *Workspace) resolveImage(ctx context.Context, token, target, current string) (string, error) {
	file, ok := w.Files.Pending(target)
	if !ok {
		return current, nil
	}
	url, err := w.uploader.UploadImage(ctx, token, *file)
	if err != nil {
		return current, err
	}
	return url, nil
}

// report records the outcome of an operation as a flash message and metric,
// and drops the public copy of section after a successful change
func (w *Workspace) report(section models.Section, operation string, err error, success, failure string) error {
	metrics.SectionSaves.WithLabelValues(section.String(), operation, operationStatus(err)).Inc()

	if err != nil {
		logger.Warn("Dashboard operation failed",
			zap.String("section", section.String()),
			zap.String("operation", operation),
			zap.String("session_id", w.sid),
			zap.Error(err))
		w.flashes.Push(w.sid, cache.FlashError, section.String(), FailureMessage(err, failure))
		return err
	}

	w.sections.Invalidate(section)
	w.flashes.Push(w.sid, cache.FlashSuccess, section.String(), success)
	return nil
}

// SaveHome sends the whole profile as multipart with any picked files
func (w *Workspace) SaveHome(ctx context.Context, token string) error {
	err := w.Home.Submit(ctx, func(ctx context.Context, draft models.HomeProfile) (models.HomeProfile, error) {
		picture, _ := w.Files.Pending(TargetHomePicture)
		curriculum, _ := w.Files.Pending(TargetHomeCurriculum)

		stored, err := w.api.UpdateHome(ctx, token, draft, picture, curriculum)
		if err != nil {
			return draft, err
		}
		if stored == nil {
			return draft, nil
		}
		return *stored, nil
	})
	if err == nil {
		w.Files.Clear(TargetHomePicture)
		w.Files.Clear(TargetHomeCurriculum)
	}
	return w.report(models.SectionHome, "update", err, "Profile updated successfully!", "Error updating profile")
}

// SaveAbout sends the about section with the technologies the API already has
func (w *Workspace) SaveAbout(ctx context.Context, token string) error {
	err := w.About.Submit(ctx, func(ctx context.Context, draft models.AboutSection) (models.AboutSection, error) {
		picture, err := w.resolveImage(ctx, token, TargetAboutPicture, draft.Picture)
		if err != nil {
			return draft, err
		}
		draft.Picture = picture

		body := draft
		body.Technologies = w.Techs.SavedValues()
		if err := w.api.UpdateAbout(ctx, token, body.Persisted()); err != nil {
			return draft, err
		}
		return draft, nil
	})
	if err == nil {
		w.Files.Clear(TargetAboutPicture)
	}
	return w.report(models.SectionAbout, "update", err, "About section updated successfully!", "Error updating about section")
}

// SaveTech creates a technology through add-tech, or updates an existing
// one by sending the about section with that row replaced
func (w *Workspace) SaveTech(ctx context.Context, token, key string) error {
	target := TargetTechImage(key)
	err := w.Techs.Save(ctx, key, editor.CardOps[models.Technology]{
		Prepare: func(ctx context.Context, tech models.Technology) (models.Technology, error) {
			image, err := w.resolveImage(ctx, token, target, tech.Image)
			tech.Image = image
			return tech, err
		},
		Create: func(ctx context.Context, tech models.Technology) (models.Technology, error) {
			created, err := w.api.AddTech(ctx, token, tech)
			if err != nil {
				return tech, err
			}
			return deref(created), nil
		},
		Update: func(ctx context.Context, tech models.Technology) error {
			about := w.About.Saved()
			about.Technologies = w.Techs.SavedValues()
			for i := range about.Technologies {
				if about.Technologies[i].ID == tech.ID {
					about.Technologies[i] = tech
				}
			}
			return w.api.UpdateAbout(ctx, token, about.Persisted())
		},
	})
	if err == nil {
		w.Files.Clear(target)
	}
	return w.report(models.SectionAbout, "save_tech", err, "Technology saved successfully!", "Failed to save technology")
}

// DeleteTech removes a technology row
func (w *Workspace) DeleteTech(ctx context.Context, token, key string) error {
	err := w.Techs.Delete(ctx, key, func(ctx context.Context, id string) error {
		return w.api.DeleteTech(ctx, token, id)
	})
	if err == nil {
		w.Files.Clear(TargetTechImage(key))
	}
	return w.report(models.SectionAbout, "delete_tech", err, "Technology removed", "Failed to delete technology")
}

// AddSkill appends a blank skill to the draft
func (w *Workspace) AddSkill() error {
	return w.Skills.Update(func(d *models.SkillsSection) error {
		editor.AppendBlank(&d.Skills)
		return nil
	})
}

// SetSkill replaces the skill at i
func (w *Workspace) SetSkill(i int, value string) error {
	return w.Skills.Update(func(d *models.SkillsSection) error {
		return editor.SetAt(&d.Skills, i, value)
	})
}

// RemoveSkill drops the skill at i
func (w *Workspace) RemoveSkill(i int) error {
	return w.Skills.Update(func(d *models.SkillsSection) error {
		return editor.RemoveAt(&d.Skills, i)
	})
}

// SaveSkills sends title, subtitle and the full skill list
func (w *Workspace) SaveSkills(ctx context.Context, token string) error {
	err := w.Skills.Submit(ctx, func(ctx context.Context, draft models.SkillsSection) (models.SkillsSection, error) {
		return draft, w.api.UpdateSkills(ctx, token, draft)
	})
	return w.report(models.SectionSkills, "update", err, "Skills updated successfully!", "Error updating skills.")
}

// SaveProjectsSection creates the projects section on first save and
// renames it afterwards
func (w *Workspace) SaveProjectsSection(ctx context.Context, token string) error {
	created := false
	err := w.Projects.Submit(ctx, func(ctx context.Context, draft models.ProjectsSection) (models.ProjectsSection, error) {
		if draft.ID == "" {
			section, err := w.api.CreateProjectsSection(ctx, token, draft.SectionName)
			if err != nil {
				return draft, err
			}
			created = true
			draft.ID = deref(section).ID
			return draft, nil
		}
		return draft, w.api.UpdateProjectsSection(ctx, token, draft.ID, draft.SectionName)
	})

	success := "Section name updated successfully!"
	if created {
		success = "New section created successfully!"
	}
	return w.report(models.SectionProjects, "update_section", err, success, "Failed to update section. Please try again.")
}

// SaveProject uploads a picked image, then creates or updates the card
func (w *Workspace) SaveProject(ctx context.Context, token, key string) error {
	target := TargetProjectImage(key)
	err := w.Cards.Save(ctx, key, editor.CardOps[models.ProjectCard]{
		Prepare: func(ctx context.Context, card models.ProjectCard) (models.ProjectCard, error) {
			image, err := w.resolveImage(ctx, token, target, card.Image)
			card.Image = image
			return card, err
		},
		Create: func(ctx context.Context, card models.ProjectCard) (models.ProjectCard, error) {
			created, err := w.api.AddProject(ctx, token, card)
			if err != nil {
				return card, err
			}
			return deref(created), nil
		},
		Update: func(ctx context.Context, card models.ProjectCard) error {
			return w.api.UpdateProject(ctx, token, card)
		},
	})
	if err == nil {
		w.Files.Clear(target)
	}
	return w.report(models.SectionProjects, "save_card", err, "Project saved successfully!", "Failed to save project")
}

// DeleteProject removes a card
func (w *Workspace) DeleteProject(ctx context.Context, token, key string) error {
	err := w.Cards.Delete(ctx, key, func(ctx context.Context, id string) error {
		return w.api.DeleteProject(ctx, token, id)
	})
	if err == nil {
		w.Files.Clear(TargetProjectImage(key))
	}
	return w.report(models.SectionProjects, "delete_card", err, "Project deleted", "Failed to delete project")
}

// SaveExperience creates or updates the entry under key
func (w *Workspace) SaveExperience(ctx context.Context, token, key string) error {
	err := w.Experience.Save(ctx, key, editor.CardOps[models.ExperienceEntry]{
		Create: func(ctx context.Context, entry models.ExperienceEntry) (models.ExperienceEntry, error) {
			created, err := w.api.AddExperience(ctx, token, entry)
			if err != nil {
				return entry, err
			}
			return deref(created), nil
		},
		Update: func(ctx context.Context, entry models.ExperienceEntry) error {
			return w.api.UpdateExperience(ctx, token, entry)
		},
	})
	return w.report(models.SectionExperience, "save", err, "Experience saved successfully!", "Failed to save experience")
}

// DeleteExperience removes the entry under key
func (w *Workspace) DeleteExperience(ctx context.Context, token, key string) error {
	err := w.Experience.Delete(ctx, key, func(ctx context.Context, id string) error {
		return w.api.DeleteExperience(ctx, token, id)
	})
	return w.report(models.SectionExperience, "delete", err, "Experience deleted", "Failed to delete experience")
}

// SaveEducation sends the education record
func (w *Workspace) SaveEducation(ctx context.Context, token string) error {
	err := w.Education.Submit(ctx, func(ctx context.Context, draft models.EducationRecord) (models.EducationRecord, error) {
		return draft, w.api.UpdateEducation(ctx, token, draft)
	})
	return w.report(models.SectionEducation, "update", err, "Education updated successfully!", "Error updating education")
}

// Notify records a failure that happened before any editor was involved,
// e.g. a rejected file pick
func (w *Workspace) Notify(section models.Section, err error, fallback string) {
	w.flashes.Push(w.sid, cache.FlashError, section.String(), FailureMessage(err, fallback))
}

func deref[T any](v *T) T {
	if v == nil {
		var zero T
		return zero
	}
	return *v
}
