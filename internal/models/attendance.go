package models

// AttendanceRecord is one absence row from the Attendance sheet.
//
// Section, Class and Division are a snapshot of the student's placement when
// the absence was recorded. They are never re-derived from the current roster.
type AttendanceRecord struct {
	Date      FlexString `json:"date"`
	StudentID FlexString `json:"studentId"`
	Name      FlexString `json:"name"`
	Section   Section    `json:"section"`
	Class     FlexString `json:"class"`
	Division  FlexString `json:"division"`
}

// SchoolData is the payload served by the spreadsheet endpoint.
type SchoolData struct {
	Students   []Student          `json:"students"`
	Attendance []AttendanceRecord `json:"attendance"`
}

// Clone returns a deep copy so callers can hand the data out safely.
func (d *SchoolData) Clone() *SchoolData {
	if d == nil {
		return &SchoolData{Students: []Student{}, Attendance: []AttendanceRecord{}}
	}
	students := make([]Student, len(d.Students))
	copy(students, d.Students)
	attendance := make([]AttendanceRecord, len(d.Attendance))
	copy(attendance, d.Attendance)
	return &SchoolData{Students: students, Attendance: attendance}
}

// DataSourceKind describes where the current snapshot came from.
type DataSourceKind string

const (
	DataSourceLive   DataSourceKind = "live"
	DataSourceSample DataSourceKind = "sample"
	DataSourceCache  DataSourceKind = "cache"
	DataSourceEmpty  DataSourceKind = "empty"
)
