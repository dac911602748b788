package absence

import (
	"sort"

	"github.com/noah-isme/sma-absence-api/internal/models"
)

// ReportRow is one student's absences within a date range.
type ReportRow struct {
	Student     models.Student `json:"student"`
	AbsentCount int            `json:"absentCount"`
	AbsentDates []string       `json:"absentDates"`
}

// BuildRangeReport counts each student's absences in rng. Rows are ordered by
// descending count; ties keep the order of students.
func BuildRangeReport(students []models.Student, history *History, rng DateRange) []ReportRow {
	rows := make([]ReportRow, 0, len(students))
	for _, s := range students {
		absences := history.AbsencesInRange(StudentKey(s), rng)
		dates := make([]string, 0, len(absences))
		for _, a := range absences {
			dates = append(dates, TruncateDate(a.Date.String()))
		}
		sort.Strings(dates)
		rows = append(rows, ReportRow{
			Student:     s,
			AbsentCount: len(absences),
			AbsentDates: dates,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].AbsentCount > rows[j].AbsentCount
	})
	return rows
}

// TotalAbsences sums the counts of a report.
func TotalAbsences(rows []ReportRow) int {
	total := 0
	for _, r := range rows {
		total += r.AbsentCount
	}
	return total
}
