package dto

import "strings"

// SubmitAbsencesRequest marks a set of students absent for one class and day.
type SubmitAbsencesRequest struct {
	Section    string   `json:"section" validate:"required"`
	Division   string   `json:"division" validate:"required"`
	Class      string   `json:"class" validate:"required"`
	Date       string   `json:"date" validate:"required"`
	MarkedKeys []string `json:"markedKeys" validate:"required,min=1,dive,required"`
}

// SubmitAbsencesResult reports what was written to the sheet.
type SubmitAbsencesResult struct {
	BatchID  string   `json:"batchId,omitempty"`
	Date     string   `json:"date"`
	Recorded int      `json:"recorded"`
	Keys     []string `json:"keys"`
	Skipped  []string `json:"skipped"`
}

// DeleteAbsenceRequest identifies one absence row.
type DeleteAbsenceRequest struct {
	StudentID string `validate:"required"`
	Date      string `validate:"required"`
}

// AbsentKeysResponse lists identity keys recorded absent on a date.
type AbsentKeysResponse struct {
	Date string   `json:"date"`
	Keys []string `json:"keys"`
}

// Actor describes who triggered a mutation, for the audit trail.
type Actor struct {
	Division  string
	AllAccess bool
	IP        string
}

// CanAccess reports whether the actor may change records of division.
func (a Actor) CanAccess(division string) bool {
	if a.AllAccess {
		return true
	}
	return a.Division != "" && strings.EqualFold(strings.TrimSpace(a.Division), strings.TrimSpace(division))
}
