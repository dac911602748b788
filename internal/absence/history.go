package absence

import (
	"sort"

	"github.com/noah-isme/sma-absence-api/internal/models"
)

// KeySet is a set of identity keys.
type KeySet map[string]struct{}

// Has reports whether key is in the set.
func (s KeySet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Sorted returns the keys in ascending order.
func (s KeySet) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// History indexes attendance records by date and identity key.
type History struct {
	records []models.AttendanceRecord
}

// NewHistory copies the records so later changes to the input do not leak in.
func NewHistory(records []models.AttendanceRecord) *History {
	cp := make([]models.AttendanceRecord, len(records))
	copy(cp, records)
	return &History{records: cp}
}

// Len returns the number of records.
func (h *History) Len() int {
	if h == nil {
		return 0
	}
	return len(h.records)
}

// All returns a copy of every record in history order.
func (h *History) All() []models.AttendanceRecord {
	if h == nil {
		return []models.AttendanceRecord{}
	}
	out := make([]models.AttendanceRecord, len(h.records))
	copy(out, h.records)
	return out
}

// AbsentKeysOn returns the keys with at least one record on date. Matching is
// on the truncated string so rows with unparseable dates still participate.
func (h *History) AbsentKeysOn(date string) KeySet {
	keys := KeySet{}
	target := TruncateDate(date)
	if h == nil || target == "" {
		return keys
	}
	for _, r := range h.records {
		if TruncateDate(r.Date.String()) == target {
			keys[RecordKey(r)] = struct{}{}
		}
	}
	return keys
}

// AbsencesFor returns every record of one student across all dates.
func (h *History) AbsencesFor(key string) []models.AttendanceRecord {
	out := []models.AttendanceRecord{}
	if h == nil {
		return out
	}
	for _, r := range h.records {
		if RecordKey(r) == key {
			out = append(out, r)
		}
	}
	return out
}

// AbsencesInRange returns the student's records whose date lies within rng.
// Records with malformed dates are skipped.
func (h *History) AbsencesInRange(key string, rng DateRange) []models.AttendanceRecord {
	out := []models.AttendanceRecord{}
	if h == nil || rng.Empty() {
		return out
	}
	for _, r := range h.records {
		if RecordKey(r) != key {
			continue
		}
		day, err := ParseDate(r.Date.String())
		if err != nil {
			continue
		}
		if rng.Contains(day) {
			out = append(out, r)
		}
	}
	return out
}

// OnDate returns the records filed under section and division for date,
// using the placement stored on each record.
func (h *History) OnDate(section models.Section, division, date string) []models.AttendanceRecord {
	out := []models.AttendanceRecord{}
	target := TruncateDate(date)
	if h == nil || target == "" {
		return out
	}
	for _, r := range h.records {
		if r.Section == section && r.Division.String() == division && TruncateDate(r.Date.String()) == target {
			out = append(out, r)
		}
	}
	return out
}

// HistoryOf returns the full absence history of a roster entry.
func (h *History) HistoryOf(student models.Student) []models.AttendanceRecord {
	return h.AbsencesFor(StudentKey(student))
}

// With returns a new history with records appended.
func (h *History) With(records ...models.AttendanceRecord) *History {
	base := h.All()
	return &History{records: append(base, records...)}
}

// Lookup returns the record Without would remove.
func (h *History) Lookup(studentID, date string) (models.AttendanceRecord, bool) {
	i := h.lastMatch(studentID, date)
	if i < 0 {
		return models.AttendanceRecord{}, false
	}
	return h.records[i], true
}

// Without returns a new history minus one record matching the raw student id
// and truncated date. The last match is removed, mirroring the sheet script
// which scans from the bottom. The bool reports whether a record was removed.
func (h *History) Without(studentID, date string) (*History, bool) {
	all := h.All()
	i := h.lastMatch(studentID, date)
	if i < 0 {
		return &History{records: all}, false
	}
	out := make([]models.AttendanceRecord, 0, len(all)-1)
	out = append(out, all[:i]...)
	out = append(out, all[i+1:]...)
	return &History{records: out}, true
}

func (h *History) lastMatch(studentID, date string) int {
	if h == nil {
		return -1
	}
	target := TruncateDate(date)
	for i := len(h.records) - 1; i >= 0; i-- {
		r := h.records[i]
		if r.StudentID.String() == studentID && TruncateDate(r.Date.String()) == target {
			return i
		}
	}
	return -1
}
