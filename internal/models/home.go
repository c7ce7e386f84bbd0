package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// LinkKeys is the fixed set of social networks shown on the home section
var LinkKeys = []string{"github", "linkedin", "instagram"}

// Links maps a social network to its URL
type Links struct {
	GitHub    string `json:"github"`
	LinkedIn  string `json:"linkedin"`
	Instagram string `json:"instagram"`
}

// UnmarshalJSON accepts an object, a JSON-encoded object inside a string, or null.
// Anything unparseable decodes to empty links rather than failing the whole record.
func (l *Links) UnmarshalJSON(data []byte) error {
	*l = Links{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var encoded string
		if err := json.Unmarshal(data, &encoded); err != nil {
			return nil
		}
		data = []byte(encoded)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	l.GitHub, _ = raw["github"].(string)
	l.LinkedIn, _ = raw["linkedin"].(string)
	l.Instagram, _ = raw["instagram"].(string)
	return nil
}

// Get returns the URL stored under key
func (l Links) Get(key string) string {
	switch key {
	case "github":
		return l.GitHub
	case "linkedin":
		return l.LinkedIn
	case "instagram":
		return l.Instagram
	}
	return ""
}

// Set updates one link leaving the others untouched
func (l *Links) Set(key, value string) error {
	switch key {
	case "github":
		l.GitHub = value
	case "linkedin":
		l.LinkedIn = value
	case "instagram":
		l.Instagram = value
	default:
		return fmt.Errorf("unknown link %q", key)
	}
	return nil
}

// HomeProfile is the hero section of the portfolio
type HomeProfile struct {
	Name           string `json:"name" binding:"required"`
	Title          string `json:"title" binding:"required"`
	Description    string `json:"description"`
	Curriculum     string `json:"curriculum"`
	ProfilePicture string `json:"profile_picture"`
	Links          Links  `json:"links"`
}

func (h HomeProfile) Clone() HomeProfile {
	return h
}

// HomeUpdateResponse is the body returned by PUT /api/home
type HomeUpdateResponse struct {
	Home *HomeProfile `json:"home"`
}
