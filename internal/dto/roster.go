package dto

import "github.com/noah-isme/sma-absence-api/internal/models"

// StudentFilter captures GET /students query parameters.
type StudentFilter struct {
	Section  string `form:"section" validate:"required"`
	Division string `form:"division" validate:"required"`
	Class    string `form:"class" validate:"required"`
}

// ClassSummary is one class of a division with its roster size.
type ClassSummary struct {
	Class        string `json:"class"`
	DisplayName  string `json:"displayName"`
	StudentCount int    `json:"studentCount"`
}

// DivisionSummary is one division of a section with its roster size.
type DivisionSummary struct {
	Division     string `json:"division"`
	StudentCount int    `json:"studentCount"`
}

// StudentDetail is a student with the full absence history recorded under
// their identity key.
type StudentDetail struct {
	Student     models.Student            `json:"student"`
	Key         string                    `json:"key"`
	AbsentCount int                       `json:"absentCount"`
	Absences    []models.AttendanceRecord `json:"absences"`
}
