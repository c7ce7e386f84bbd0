package editor

import (
	"sync"

	"github.com/folio-dev/folio/internal/models"
	"github.com/google/uuid"
)

// Attachments holds files picked in the dashboard but not uploaded yet.
// Each target (a form field such as "home.profile_picture" or a card key)
// holds at most one file; each file gets a preview id so the page can show
// it straight from memory.
type Attachments struct {
	mu       sync.Mutex
	byTarget map[string]*attachment
	byID     map[string]*attachment
}

type attachment struct {
	id     string
	target string
	file   models.FileUpload
}

func NewAttachments() *Attachments {
	return &Attachments{
		byTarget: map[string]*attachment{},
		byID:     map[string]*attachment{},
	}
}

// Attach stores file for target, replacing any earlier pick, and returns its preview id
func (a *Attachments) Attach(target string, file models.FileUpload) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.clear(target)
	att := &attachment{id: uuid.NewString(), target: target, file: file}
	a.byTarget[target] = att
	a.byID[att.id] = att
	return att.id
}

// Pending returns the file waiting for target
func (a *Attachments) Pending(target string) (*models.FileUpload, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	att, ok := a.byTarget[target]
	if !ok {
		return nil, false
	}
	file := att.file
	return &file, true
}

// PreviewID returns the preview id of the file waiting for target
func (a *Attachments) PreviewID(target string) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	if att, ok := a.byTarget[target]; ok {
		return att.id
	}
	return ""
}

// Preview looks a file up by preview id
func (a *Attachments) Preview(id string) (*models.FileUpload, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	att, ok := a.byID[id]
	if !ok {
		return nil, false
	}
	file := att.file
	return &file, true
}

// Clear drops the file waiting for target
func (a *Attachments) Clear(target string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.clear(target)
}

func (a *Attachments) clear(target string) {
	if old, ok := a.byTarget[target]; ok {
		delete(a.byID, old.id)
		delete(a.byTarget, target)
	}
}

// Len returns the number of pending files
func (a *Attachments) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.byTarget)
}
