package models

import "slices"

// SkillsSection holds a positional list of skill names
type SkillsSection struct {
	Title    string   `json:"title" binding:"required"`
	Subtitle string   `json:"subtitle"`
	Skills   []string `json:"skills"`
}

func (s SkillsSection) Clone() SkillsSection {
	s.Skills = slices.Clone(s.Skills)
	if s.Skills == nil {
		s.Skills = []string{}
	}
	return s
}
