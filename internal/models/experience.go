package models

// ExperienceEntry is one job in the experience collection
type ExperienceEntry struct {
	ID         string `json:"_id,omitempty"`
	Position   string `json:"position" binding:"required"`
	Company    string `json:"company" binding:"required"`
	Duration   string `json:"duration" binding:"required"`
	Location   string `json:"location"`
	JobProfile string `json:"jobProfile" binding:"required"`
}

func (e ExperienceEntry) Clone() ExperienceEntry {
	return e
}

func (e ExperienceEntry) CardID() string {
	return e.ID
}
