package models

import "strings"

// Section is the top-level cohort a student belongs to.
type Section string

const (
	SectionBoys  Section = "Boys"
	SectionGirls Section = "Girls"
)

// Valid returns true when the section is a supported value.
func (s Section) Valid() bool {
	switch s {
	case SectionBoys, SectionGirls:
		return true
	default:
		return false
	}
}

// ParseSection resolves a section name case-insensitively.
func ParseSection(raw string) (Section, bool) {
	for _, s := range []Section{SectionBoys, SectionGirls} {
		if strings.EqualFold(strings.TrimSpace(raw), string(s)) {
			return s, true
		}
	}
	return "", false
}

// Student is a live roster entry as loaded from the Students sheet.
type Student struct {
	ID       FlexString `json:"id"`
	Name     FlexString `json:"name"`
	Section  Section    `json:"section"`
	Class    FlexString `json:"class"`
	Division FlexString `json:"division"`
}

// Placement is the section/division/class triple a group is addressed by.
type Placement struct {
	Section  Section `json:"section"`
	Division string  `json:"division"`
	Class    string  `json:"class"`
}
