package editor

import (
	"context"
	"errors"
	"testing"

	"github.com/folio-dev/folio/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleton_SkillsScenario(t *testing.T) {
	skills := NewSingleton("skills", models.SkillsSection{}.Clone())
	require.NoError(t, skills.Load(context.Background(), func(ctx context.Context) (models.SkillsSection, error) {
		return models.SkillsSection{Title: "Skills", Subtitle: "", Skills: []string{"Go"}}, nil
	}))

	var slot int
	require.NoError(t, skills.Update(func(s *models.SkillsSection) error {
		slot = AppendBlank(&s.Skills)
		return nil
	}))
	require.NoError(t, skills.Update(func(s *models.SkillsSection) error {
		return SetAt(&s.Skills, slot, "Rust")
	}))

	var puts []models.SkillsSection
	err := skills.Submit(context.Background(), func(ctx context.Context, s models.SkillsSection) (models.SkillsSection, error) {
		puts = append(puts, s)
		return s, nil
	})
	require.NoError(t, err)

	require.Len(t, puts, 1)
	assert.Equal(t, models.SkillsSection{Title: "Skills", Subtitle: "", Skills: []string{"Go", "Rust"}}, puts[0])
	assert.False(t, skills.Status().Dirty)
}

func TestSingleton_MissingRequiredFieldSendsNothing(t *testing.T) {
	education := NewSingleton("education", models.EducationRecord{})
	persisted := models.EducationRecord{Degree: "BSc", Year: "2020", CollegeName: "MIT"}
	require.NoError(t, education.Load(context.Background(), func(ctx context.Context) (models.EducationRecord, error) {
		return persisted, nil
	}))
	require.NoError(t, education.Update(func(e *models.EducationRecord) error {
		e.Degree = "  "
		return nil
	}))

	calls := 0
	err := education.Submit(context.Background(), func(ctx context.Context, e models.EducationRecord) (models.EducationRecord, error) {
		calls++
		return e, nil
	})

	require.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, calls)
	assert.Equal(t, persisted, education.Saved())
}

func TestSingleton_LoadFailureLeavesDefaults(t *testing.T) {
	home := NewSingleton("home", models.HomeProfile{})

	err := home.Load(context.Background(), func(ctx context.Context) (models.HomeProfile, error) {
		return models.HomeProfile{}, errors.New("timeout")
	})

	require.Error(t, err)
	assert.Equal(t, models.HomeProfile{}, home.Draft())
	status := home.Status()
	assert.True(t, status.Loaded)
	assert.Error(t, status.LoadErr)
}

func TestSingleton_FailedSubmitMarksUnsynced(t *testing.T) {
	skills := NewSingleton("skills", models.SkillsSection{Title: "Skills"}.Clone())
	require.NoError(t, skills.Update(func(s *models.SkillsSection) error {
		s.Subtitle = "things I use"
		return nil
	}))

	err := skills.Submit(context.Background(), func(ctx context.Context, s models.SkillsSection) (models.SkillsSection, error) {
		return s, errors.New("502")
	})
	require.Error(t, err)

	status := skills.Status()
	assert.True(t, status.Unsynced)
	assert.True(t, status.Dirty)
	assert.Equal(t, "things I use", skills.Draft().Subtitle)

	require.NoError(t, skills.Revert())
	assert.Empty(t, skills.Draft().Subtitle)
	assert.False(t, skills.Status().Unsynced)
}

func TestSingleton_StoredValueWins(t *testing.T) {
	home := NewSingleton("home", models.HomeProfile{Name: "Ada", Title: "Engineer"})

	err := home.Submit(context.Background(), func(ctx context.Context, h models.HomeProfile) (models.HomeProfile, error) {
		h.ProfilePicture = "https://cdn.example.com/ada.png"
		return h, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/ada.png", home.Draft().ProfilePicture)
	assert.Equal(t, "https://cdn.example.com/ada.png", home.Saved().ProfilePicture)
}

func TestSingleton_InFlightGuard(t *testing.T) {
	skills := NewSingleton("skills", models.SkillsSection{Title: "Skills"}.Clone())
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan error, 1)
	go func() {
		done <- skills.Submit(context.Background(), func(ctx context.Context, s models.SkillsSection) (models.SkillsSection, error) {
			close(started)
			<-release
			return s, nil
		})
	}()
	<-started

	assert.ErrorIs(t, skills.Submit(context.Background(), func(ctx context.Context, s models.SkillsSection) (models.SkillsSection, error) {
		t.Error("second submit must not reach the API")
		return s, nil
	}), ErrInFlight)
	assert.ErrorIs(t, skills.Update(func(*models.SkillsSection) error { return nil }), ErrInFlight)
	assert.True(t, skills.Status().InFlight)

	close(release)
	require.NoError(t, <-done)
}

func TestSingleton_UpdateErrorLeavesDraft(t *testing.T) {
	home := NewSingleton("home", models.HomeProfile{Links: models.Links{GitHub: "gh"}})

	err := home.Update(func(h *models.HomeProfile) error {
		h.Name = "changed"
		return h.Links.Set("myspace", "x")
	})

	require.Error(t, err)
	assert.Empty(t, home.Draft().Name)
}

func TestSingleton_NestedLinkEditKeepsSiblings(t *testing.T) {
	home := NewSingleton("home", models.HomeProfile{Links: models.Links{GitHub: "gh", LinkedIn: "li"}})

	require.NoError(t, home.Update(func(h *models.HomeProfile) error {
		return h.Links.Set("instagram", "ig")
	}))

	assert.Equal(t, models.Links{GitHub: "gh", LinkedIn: "li", Instagram: "ig"}, home.Draft().Links)
}
