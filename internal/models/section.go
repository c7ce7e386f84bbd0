package models

import "fmt"

// Section names a portfolio content area backed by its own API resource
type Section string

const (
	SectionHome       Section = "home"
	SectionAbout      Section = "about"
	SectionSkills     Section = "skills"
	SectionProjects   Section = "projects"
	SectionExperience Section = "experience"
	SectionEducation  Section = "education"
)

// AllSections lists sections in page order
var AllSections = []Section{
	SectionHome,
	SectionAbout,
	SectionSkills,
	SectionProjects,
	SectionExperience,
	SectionEducation,
}

// ParseSection validates a section name taken from a URL
func ParseSection(name string) (Section, error) {
	for _, s := range AllSections {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown section %q", name)
}

func (s Section) String() string {
	return string(s)
}

// Title is the heading used in navigation
func (s Section) Title() string {
	switch s {
	case SectionHome:
		return "Home"
	case SectionAbout:
		return "About"
	case SectionSkills:
		return "Skills"
	case SectionProjects:
		return "Projects"
	case SectionExperience:
		return "Experience"
	case SectionEducation:
		return "Education"
	}
	return string(s)
}
