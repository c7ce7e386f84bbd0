package models

import "slices"

// DefaultProjectsSectionName is used until the owner names the section
const DefaultProjectsSectionName = "Projects"

// ProjectCard is one project shown in the projects section.
// The misspelled "tecnologies" key is the API's wire name.
type ProjectCard struct {
	ID              string   `json:"_id,omitempty"`
	Image           string   `json:"image"`
	Name            string   `json:"name" binding:"required"`
	Description     string   `json:"description" binding:"required"`
	Tecnologies     []string `json:"tecnologies"`
	GithubLink      string   `json:"githubLink"`
	LiveProjectLink string   `json:"liveProjectLink"`
}

func (p ProjectCard) Clone() ProjectCard {
	p.Tecnologies = slices.Clone(p.Tecnologies)
	if p.Tecnologies == nil {
		p.Tecnologies = []string{}
	}
	return p
}

func (p ProjectCard) CardID() string {
	return p.ID
}

// ProjectsSection is the projects container; cards are saved one by one
type ProjectsSection struct {
	ID          string        `json:"_id,omitempty"`
	SectionName string        `json:"sectionName" binding:"required"`
	Cards       []ProjectCard `json:"cards"`
}

func (p ProjectsSection) Clone() ProjectsSection {
	cards := make([]ProjectCard, len(p.Cards))
	for i, c := range p.Cards {
		cards[i] = c.Clone()
	}
	p.Cards = cards
	return p
}

// ProjectsSectionName is the body for creating or renaming the section
type ProjectsSectionName struct {
	SectionName string        `json:"sectionName"`
	Cards       []ProjectCard `json:"cards,omitempty"`
}
