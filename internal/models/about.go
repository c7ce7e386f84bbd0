package models

import "slices"

// Technology is a child row of the about section
type Technology struct {
	ID          string `json:"_id,omitempty"`
	Title       string `json:"title" binding:"required"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

func (t Technology) Clone() Technology {
	return t
}

func (t Technology) CardID() string {
	return t.ID
}

// AboutSection is the about-me section with its technology rows
type AboutSection struct {
	ID           string       `json:"_id,omitempty"`
	SectionName  string       `json:"sectionName" binding:"required"`
	Picture      string       `json:"picture"`
	Description  string       `json:"description"`
	Technologies []Technology `json:"technologies"`
}

func (a AboutSection) Clone() AboutSection {
	a.Technologies = slices.Clone(a.Technologies)
	return a
}

// Persisted returns a copy holding only technologies the API already knows about
func (a AboutSection) Persisted() AboutSection {
	out := a.Clone()
	out.Technologies = slices.DeleteFunc(out.Technologies, func(t Technology) bool {
		return t.ID == ""
	})
	if out.Technologies == nil {
		out.Technologies = []Technology{}
	}
	return out
}
