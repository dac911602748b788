package absence

import (
	"strings"

	"github.com/noah-isme/sma-absence-api/internal/models"
)

// BuildBatch turns the keys marked absent in a class into attendance records
// stamped with the selected placement and date. Keys that match no class
// member fall back to the id and name encoded in the key itself.
func BuildBatch(classStudents []models.Student, markedKeys []string, placement models.Placement, date string) []models.AttendanceRecord {
	byKey := make(map[string]models.Student, len(classStudents))
	for _, s := range classStudents {
		key := StudentKey(s)
		if _, ok := byKey[key]; !ok {
			byKey[key] = s
		}
	}
	day := TruncateDate(date)
	records := make([]models.AttendanceRecord, 0, len(markedKeys))
	for _, key := range markedKeys {
		id, name := SplitKey(key)
		if s, ok := byKey[key]; ok {
			id, name = s.ID.String(), s.Name.String()
		}
		records = append(records, models.AttendanceRecord{
			Date:      models.FlexString(day),
			StudentID: models.FlexString(strings.TrimSpace(id)),
			Name:      models.FlexString(name),
			Section:   placement.Section,
			Class:     models.FlexString(placement.Class),
			Division:  models.FlexString(placement.Division),
		})
	}
	return records
}

// FormatClassName renders compact class names such as "10A" as "10 - A".
// Names that already contain a dash, or lack either part, are returned as is.
func FormatClassName(class string) string {
	if strings.Contains(class, "-") {
		return class
	}
	var digits, rest strings.Builder
	for _, r := range class {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		} else {
			rest.WriteRune(r)
		}
	}
	alpha := strings.TrimSpace(rest.String())
	if digits.Len() > 0 && alpha != "" {
		return digits.String() + " - " + alpha
	}
	return class
}
