package absence

import (
	"math"

	"github.com/noah-isme/sma-absence-api/internal/models"
)

// NoAbsenceClass is reported as the most-absent class when nobody is absent.
const NoAbsenceClass = "none"

// ClassAbsence is the absence count of one class on the dashboard date.
type ClassAbsence struct {
	Class string `json:"class"`
	Count int    `json:"count"`
}

// DashboardStats summarises one division on one date.
type DashboardStats struct {
	Section              models.Section            `json:"section"`
	Division             string                    `json:"division"`
	Date                 string                    `json:"date"`
	TotalStudents        int                       `json:"totalStudents"`
	AbsentCount          int                       `json:"absentCount"`
	AttendancePercentage int                       `json:"attendancePercentage"`
	MaxAbsenceClass      string                    `json:"maxAbsenceClass"`
	MaxAbsenceCount      int                       `json:"maxAbsenceCount"`
	ClassBreakdown       []ClassAbsence            `json:"classBreakdown"`
	Absentees            []models.AttendanceRecord `json:"absentees"`
}

// ComputeDashboard builds the division summary for date.
//
// Absentees are matched on the placement stored on each record, so a student
// who changed division later still counts where they were. Duplicate rows are
// counted as they are. A division without students reports 100% attendance
// and no absentees, even when old records still name it.
func ComputeDashboard(roster *Roster, history *History, section models.Section, division, date string) DashboardStats {
	stats := DashboardStats{
		Section:              section,
		Division:             division,
		Date:                 TruncateDate(date),
		TotalStudents:        roster.Count(section, division),
		AttendancePercentage: 100,
		MaxAbsenceClass:      NoAbsenceClass,
		ClassBreakdown:       []ClassAbsence{},
		Absentees:            []models.AttendanceRecord{},
	}
	if stats.TotalStudents == 0 {
		return stats
	}

	absentees := history.OnDate(section, division, date)
	stats.AbsentCount = len(absentees)
	stats.Absentees = absentees
	present := float64(stats.TotalStudents-stats.AbsentCount) / float64(stats.TotalStudents)
	stats.AttendancePercentage = int(math.Round(present * 100))

	index := make(map[string]int)
	for _, r := range absentees {
		class := r.Class.String()
		i, ok := index[class]
		if !ok {
			i = len(stats.ClassBreakdown)
			index[class] = i
			stats.ClassBreakdown = append(stats.ClassBreakdown, ClassAbsence{Class: class})
		}
		stats.ClassBreakdown[i].Count++
	}
	// strict > keeps the first class to reach the maximum
	for _, c := range stats.ClassBreakdown {
		if c.Count > stats.MaxAbsenceCount {
			stats.MaxAbsenceCount = c.Count
			stats.MaxAbsenceClass = c.Class
		}
	}
	return stats
}
