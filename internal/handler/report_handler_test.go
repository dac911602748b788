package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-absence-api/internal/dto"
	appErrors "github.com/noah-isme/sma-absence-api/pkg/errors"
)

type fakeReportSrv struct {
	report *dto.AbsenceReport
	file   *dto.ExportFile
	err    error
	last   dto.ReportQuery
}

func (f *fakeReportSrv) Build(query dto.ReportQuery) (*dto.AbsenceReport, error) {
	f.last = query
	return f.report, f.err
}

func (f *fakeReportSrv) Export(query dto.ReportQuery) (*dto.ExportFile, error) {
	f.last = query
	return f.file, f.err
}

func TestReportHandlerAbsences(t *testing.T) {
	srv := &fakeReportSrv{report: &dto.AbsenceReport{Section: "Boys", Division: "Wing A", Start: "2024-03-01", End: "2024-03-05"}}
	handler := NewReportHandler(srv)
	c, rec := newTestContext(http.MethodGet, "/reports/absences?section=Boys&division=Wing%20A&start=2024-03-01&end=2024-03-05", "")

	handler.Absences(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-03-01", srv.last.Start)
	assert.Equal(t, float64(0), decodeEnvelope(t, rec).Meta["count"])
}

func TestReportHandlerExport(t *testing.T) {
	srv := &fakeReportSrv{file: &dto.ExportFile{Filename: "absences.csv", ContentType: "text/csv; charset=utf-8", Payload: []byte("ID\n")}}
	handler := NewReportHandler(srv)
	c, rec := newTestContext(http.MethodGet, "/reports/absences/export?section=Boys&division=Wing%20A&format=csv", "")

	handler.Export(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "csv", srv.last.Format)
	assert.Equal(t, `attachment; filename="absences.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "ID\n", rec.Body.String())
}

func TestReportHandlerExportError(t *testing.T) {
	handler := NewReportHandler(&fakeReportSrv{err: appErrors.Clone(appErrors.ErrValidation, "format must be csv, pdf or xlsx")})
	c, rec := newTestContext(http.MethodGet, "/reports/absences/export?format=doc", "")

	handler.Export(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
