package models

// EducationRecord is the single education entry
type EducationRecord struct {
	Degree      string `json:"degree" binding:"required"`
	Year        string `json:"year" binding:"required"`
	CollegeName string `json:"collegeName" binding:"required"`
}

func (e EducationRecord) Clone() EducationRecord {
	return e
}
