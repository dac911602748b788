package absence

import "github.com/noah-isme/sma-absence-api/internal/models"

func student(id, name string, section models.Section, division, class string) models.Student {
	return models.Student{
		ID:       models.FlexString(id),
		Name:     models.FlexString(name),
		Section:  section,
		Division: models.FlexString(division),
		Class:    models.FlexString(class),
	}
}

func record(date, id, name string, section models.Section, division, class string) models.AttendanceRecord {
	return models.AttendanceRecord{
		Date:      models.FlexString(date),
		StudentID: models.FlexString(id),
		Name:      models.FlexString(name),
		Section:   section,
		Division:  models.FlexString(division),
		Class:     models.FlexString(class),
	}
}

var (
	alice = student("1", "Alice", models.SectionBoys, "A", "10-A")
	bob   = student("2", "Bob", models.SectionBoys, "A", "10-A")
)

func sampleRoster() []models.Student {
	return []models.Student{
		alice,
		bob,
		student("3", "Carl", models.SectionBoys, "A", "10-B"),
		student("4", "Dan", models.SectionBoys, "B", "9-A"),
		student("5", "Sara", models.SectionGirls, "Block 1", "10-A"),
		student("6", "Nora", models.SectionBoys, "", "8-C"),
		student("7", "Omar", models.SectionBoys, "B", ""),
	}
}
