package absence

import (
	"github.com/noah-isme/sma-absence-api/internal/models"
)

// Roster indexes the student list by section, division and class.
type Roster struct {
	students []models.Student
}

// NewRoster copies the students so later changes to the input do not leak in.
func NewRoster(students []models.Student) *Roster {
	cp := make([]models.Student, len(students))
	copy(cp, students)
	return &Roster{students: cp}
}

// Len returns the number of roster entries.
func (r *Roster) Len() int {
	if r == nil {
		return 0
	}
	return len(r.students)
}

// All returns a copy of every roster entry in roster order.
func (r *Roster) All() []models.Student {
	if r == nil {
		return []models.Student{}
	}
	out := make([]models.Student, len(r.students))
	copy(out, r.students)
	return out
}

// Divisions lists distinct non-empty divisions of a section in first-seen order.
func (r *Roster) Divisions(section models.Section) []string {
	out := []string{}
	if r == nil || section == "" {
		return out
	}
	seen := make(map[string]struct{})
	for _, s := range r.students {
		division := s.Division.String()
		if s.Section != section || division == "" {
			continue
		}
		if _, ok := seen[division]; ok {
			continue
		}
		seen[division] = struct{}{}
		out = append(out, division)
	}
	return out
}

// Classes lists distinct non-empty classes of a division in first-seen order.
func (r *Roster) Classes(section models.Section, division string) []string {
	out := []string{}
	if r == nil || section == "" || division == "" {
		return out
	}
	seen := make(map[string]struct{})
	for _, s := range r.students {
		class := s.Class.String()
		if s.Section != section || s.Division.String() != division || class == "" {
			continue
		}
		if _, ok := seen[class]; ok {
			continue
		}
		seen[class] = struct{}{}
		out = append(out, class)
	}
	return out
}

// Students returns the members of one class in roster order. Any empty filter
// yields an empty list.
func (r *Roster) Students(section models.Section, division, class string) []models.Student {
	out := []models.Student{}
	if r == nil || section == "" || division == "" || class == "" {
		return out
	}
	for _, s := range r.students {
		if s.Section == section && s.Division.String() == division && s.Class.String() == class {
			out = append(out, s)
		}
	}
	return out
}

// InDivision returns every member of a division in roster order, including
// students whose class is blank. An empty division yields an empty list.
func (r *Roster) InDivision(section models.Section, division string) []models.Student {
	out := []models.Student{}
	if r == nil || section == "" || division == "" {
		return out
	}
	for _, s := range r.students {
		if s.Section == section && s.Division.String() == division {
			out = append(out, s)
		}
	}
	return out
}

// Count returns the size of a section, or of a division (levels[0]) or a
// class (levels[1]) within it, without building the member list. A supplied
// but empty level counts nothing, matching Students.
func (r *Roster) Count(section models.Section, levels ...string) int {
	if r == nil || section == "" {
		return 0
	}
	for i, level := range levels {
		if i > 1 {
			break
		}
		if level == "" {
			return 0
		}
	}
	n := 0
	for _, s := range r.students {
		if s.Section != section {
			continue
		}
		if len(levels) > 0 && s.Division.String() != levels[0] {
			continue
		}
		if len(levels) > 1 && s.Class.String() != levels[1] {
			continue
		}
		n++
	}
	return n
}

// Find resolves a student by id only, ignoring case and surrounding spaces.
// The first roster match wins.
func (r *Roster) Find(id string) (models.Student, bool) {
	target := normaliseID(id)
	if r == nil || target == "" {
		return models.Student{}, false
	}
	for _, s := range r.students {
		if normaliseID(s.ID.String()) == target {
			return s, true
		}
	}
	return models.Student{}, false
}
