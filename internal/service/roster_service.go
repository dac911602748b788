package service

import (
	"strings"

	"github.com/noah-isme/sma-absence-api/internal/absence"
	"github.com/noah-isme/sma-absence-api/internal/dto"
	"github.com/noah-isme/sma-absence-api/internal/models"
	appErrors "github.com/noah-isme/sma-absence-api/pkg/errors"
)

type snapshotReader interface {
	Snapshot() *Snapshot
}

// RosterService answers roster navigation queries.
type RosterService struct {
	data snapshotReader
}

// NewRosterService constructs a RosterService.
func NewRosterService(data snapshotReader) *RosterService {
	return &RosterService{data: data}
}

// Divisions lists the divisions of a section with their sizes.
func (s *RosterService) Divisions(section string) ([]dto.DivisionSummary, error) {
	sec, err := parseSection(section)
	if err != nil {
		return nil, err
	}
	roster := s.data.Snapshot().Roster
	divisions := roster.Divisions(sec)
	result := make([]dto.DivisionSummary, 0, len(divisions))
	for _, d := range divisions {
		result = append(result, dto.DivisionSummary{Division: d, StudentCount: roster.Count(sec, d)})
	}
	return result, nil
}

// Classes lists the classes of a division with their sizes.
func (s *RosterService) Classes(section, division string) ([]dto.ClassSummary, error) {
	sec, err := parseSection(section)
	if err != nil {
		return nil, err
	}
	roster := s.data.Snapshot().Roster
	classes := roster.Classes(sec, division)
	result := make([]dto.ClassSummary, 0, len(classes))
	for _, c := range classes {
		result = append(result, dto.ClassSummary{
			Class:        c,
			DisplayName:  absence.FormatClassName(c),
			StudentCount: roster.Count(sec, division, c),
		})
	}
	return result, nil
}

// Students lists one class in roster order.
func (s *RosterService) Students(filter dto.StudentFilter) ([]models.Student, error) {
	sec, err := parseSection(filter.Section)
	if err != nil {
		return nil, err
	}
	return s.data.Snapshot().Roster.Students(sec, filter.Division, filter.Class), nil
}

// Student finds a student by id together with their absence history.
func (s *RosterService) Student(id string) (*dto.StudentDetail, error) {
	if strings.TrimSpace(id) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}
	snap := s.data.Snapshot()
	student, ok := snap.Roster.Find(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	absences := snap.History.HistoryOf(student)
	return &dto.StudentDetail{
		Student:     student,
		Key:         absence.StudentKey(student),
		AbsentCount: len(absences),
		Absences:    absences,
	}, nil
}

func parseSection(raw string) (models.Section, error) {
	sec, ok := models.ParseSection(raw)
	if !ok {
		return "", appErrors.Clone(appErrors.ErrValidation, "section must be Boys or Girls")
	}
	return sec, nil
}

func parseDay(raw, field string) (string, error) {
	day := absence.TruncateDate(raw)
	if _, err := absence.ParseDate(day); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, field+" must be YYYY-MM-DD")
	}
	return day, nil
}
