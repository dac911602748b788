package dto

import "github.com/noah-isme/sma-absence-api/internal/absence"

// Export formats accepted by the report download endpoint.
const (
	ExportFormatCSV  = "csv"
	ExportFormatPDF  = "pdf"
	ExportFormatXLSX = "xlsx"
)

// ReportQuery captures range report parameters. Class is optional; when it
// is empty the whole division is reported.
type ReportQuery struct {
	Section  string `form:"section" validate:"required"`
	Division string `form:"division" validate:"required"`
	Class    string `form:"class"`
	Start    string `form:"start"`
	End      string `form:"end"`
	Format   string `form:"format"`
}

// AbsenceReport is the range report payload.
type AbsenceReport struct {
	Section       string              `json:"section"`
	Division      string              `json:"division"`
	Class         string              `json:"class,omitempty"`
	Start         string              `json:"start"`
	End           string              `json:"end"`
	TotalStudents int                 `json:"totalStudents"`
	TotalAbsences int                 `json:"totalAbsences"`
	Rows          []absence.ReportRow `json:"rows"`
}

// ExportFile is a rendered report download.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}
