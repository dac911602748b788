package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-absence-api/internal/absence"
	"github.com/noah-isme/sma-absence-api/internal/dto"
	appErrors "github.com/noah-isme/sma-absence-api/pkg/errors"
	"github.com/noah-isme/sma-absence-api/pkg/export"
)

// ReportExporter renders a dataset into a downloadable file.
type ReportExporter interface {
	ContentType() string
	Extension() string
	Render(data export.Dataset) ([]byte, error)
}

// ReportServiceConfig tunes report defaults.
type ReportServiceConfig struct {
	DefaultDays int
	Location    *time.Location
}

// ReportService builds range reports and their downloads.
type ReportService struct {
	data      snapshotReader
	exporters map[string]ReportExporter
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
	cfg       ReportServiceConfig
}

// ReportServiceParams groups constructor dependencies.
type ReportServiceParams struct {
	Data      snapshotReader
	Exporters map[string]ReportExporter
	Validator *validator.Validate
	Logger    *zap.Logger
	Now       func() time.Time
	Config    ReportServiceConfig
}

// DefaultExporters returns the CSV, PDF and XLSX renderers keyed by format.
func DefaultExporters() map[string]ReportExporter {
	return map[string]ReportExporter{
		dto.ExportFormatCSV:  export.NewCSVExporter(),
		dto.ExportFormatPDF:  export.NewPDFExporter(),
		dto.ExportFormatXLSX: export.NewXLSXExporter(),
	}
}

// NewReportService constructs a ReportService.
func NewReportService(params ReportServiceParams) *ReportService {
	svc := &ReportService{
		data:      params.Data,
		exporters: params.Exporters,
		validator: params.Validator,
		logger:    params.Logger,
		now:       params.Now,
		cfg:       params.Config,
	}
	if svc.exporters == nil {
		svc.exporters = DefaultExporters()
	}
	if svc.validator == nil {
		svc.validator = validator.New()
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	if svc.cfg.DefaultDays <= 0 {
		svc.cfg.DefaultDays = 7
	}
	if svc.cfg.Location == nil {
		svc.cfg.Location = time.Local
	}
	return svc
}

// Build produces the absence report for a class, or for every class of the
// division when no class is given. Missing bounds default to the last
// DefaultDays days; a start after the end yields zero counts.
func (s *ReportService) Build(query dto.ReportQuery) (*dto.AbsenceReport, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "section and division are required")
	}
	section, err := parseSection(query.Section)
	if err != nil {
		return nil, err
	}
	rng, err := s.resolveRange(query.Start, query.End)
	if err != nil {
		return nil, err
	}

	division := strings.TrimSpace(query.Division)
	class := strings.TrimSpace(query.Class)
	snap := s.data.Snapshot()

	students := snap.Roster.InDivision(section, division)
	if class != "" {
		students = snap.Roster.Students(section, division, class)
	}

	rows := absence.BuildRangeReport(students, snap.History, rng)
	return &dto.AbsenceReport{
		Section:       string(section),
		Division:      division,
		Class:         class,
		Start:         rng.Start.Format(absence.DateLayout),
		End:           rng.End.Format(absence.DateLayout),
		TotalStudents: len(students),
		TotalAbsences: absence.TotalAbsences(rows),
		Rows:          rows,
	}, nil
}

// Export renders the report in the requested format (csv when empty).
func (s *ReportService) Export(query dto.ReportQuery) (*dto.ExportFile, error) {
	format := strings.ToLower(strings.TrimSpace(query.Format))
	if format == "" {
		format = dto.ExportFormatCSV
	}
	exporter, ok := s.exporters[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv, pdf or xlsx")
	}

	report, err := s.Build(query)
	if err != nil {
		return nil, err
	}

	payload, err := exporter.Render(reportDataset(report))
	if err != nil {
		s.logger.Error("failed to render report", zap.String("format", format), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}

	scope := report.Division
	if report.Class != "" {
		scope += "-" + report.Class
	}
	return &dto.ExportFile{
		Filename:    fmt.Sprintf("absences-%s-%s-%s.%s", slug(scope), report.Start, report.End, exporter.Extension()),
		ContentType: exporter.ContentType(),
		Payload:     payload,
	}, nil
}

func (s *ReportService) resolveRange(start, end string) (absence.DateRange, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	fallback := absence.LastDays(s.now(), s.cfg.Location, s.cfg.DefaultDays)
	if start == "" {
		start = fallback.Start.Format(absence.DateLayout)
	}
	if end == "" {
		end = fallback.End.Format(absence.DateLayout)
	}
	rng, err := absence.NewDateRange(start, end)
	if err != nil {
		return absence.DateRange{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "start and end must be YYYY-MM-DD")
	}
	return rng, nil
}

var reportHeaders = []string{"Rank", "Student ID", "Name", "Class", "Absences", "Dates"}

func reportDataset(report *dto.AbsenceReport) export.Dataset {
	title := fmt.Sprintf("Absence report %s %s", report.Section, report.Division)
	if report.Class != "" {
		title += " " + absence.FormatClassName(report.Class)
	}
	title += fmt.Sprintf(" (%s to %s)", report.Start, report.End)

	rows := make([]map[string]string, 0, len(report.Rows))
	for i, r := range report.Rows {
		rows = append(rows, map[string]string{
			"Rank":       strconv.Itoa(i + 1),
			"Student ID": r.Student.ID.String(),
			"Name":       r.Student.Name.String(),
			"Class":      absence.FormatClassName(r.Student.Class.String()),
			"Absences":   strconv.Itoa(r.AbsentCount),
			"Dates":      strings.Join(r.AbsentDates, ", "),
		})
	}
	return export.Dataset{Title: title, Headers: reportHeaders, Rows: rows}
}

func slug(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(raw) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "report"
	}
	return b.String()
}
