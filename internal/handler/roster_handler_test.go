package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-absence-api/internal/dto"
	"github.com/noah-isme/sma-absence-api/internal/models"
	appErrors "github.com/noah-isme/sma-absence-api/pkg/errors"
)

type fakeRosterSrv struct {
	students   []models.Student
	detail     *dto.StudentDetail
	err        error
	lastFilter dto.StudentFilter
}

func (f *fakeRosterSrv) Divisions(section string) ([]dto.DivisionSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []dto.DivisionSummary{{Division: "Wing A", StudentCount: 2}}, nil
}

func (f *fakeRosterSrv) Classes(section, division string) ([]dto.ClassSummary, error) {
	return []dto.ClassSummary{{Class: "10A", DisplayName: "10 - A", StudentCount: 2}}, f.err
}

func (f *fakeRosterSrv) Students(filter dto.StudentFilter) ([]models.Student, error) {
	f.lastFilter = filter
	return f.students, f.err
}

func (f *fakeRosterSrv) Student(id string) (*dto.StudentDetail, error) {
	if f.detail == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return f.detail, nil
}

func TestRosterHandlerStudentsRequiresFilters(t *testing.T) {
	handler := NewRosterHandler(&fakeRosterSrv{})
	c, rec := newTestContext(http.MethodGet, "/students?section=Boys&division=Wing%20A", "")

	handler.Students(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeEnvelope(t, rec).Error["code"])
}

func TestRosterHandlerStudents(t *testing.T) {
	srv := &fakeRosterSrv{students: []models.Student{{ID: "101", Name: "Ahmed Khan", Section: models.SectionBoys}}}
	handler := NewRosterHandler(srv)
	c, rec := newTestContext(http.MethodGet, "/students?section=Boys&division=%20Wing%20A%20&class=10A", "")

	handler.Students(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Wing A", srv.lastFilter.Division)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, float64(1), envelope.Meta["count"])
	var students []models.Student
	require.NoError(t, json.Unmarshal(envelope.Data, &students))
	assert.Equal(t, "Ahmed Khan", students[0].Name.String())
}

func TestRosterHandlerDivisionsError(t *testing.T) {
	handler := NewRosterHandler(&fakeRosterSrv{err: appErrors.Clone(appErrors.ErrValidation, "section must be Boys or Girls")})
	c, rec := newTestContext(http.MethodGet, "/sections/Staff/divisions", "")
	c.Params = gin.Params{{Key: "section", Value: "Staff"}}

	handler.Divisions(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRosterHandlerStudentNotFound(t *testing.T) {
	handler := NewRosterHandler(&fakeRosterSrv{})
	c, rec := newTestContext(http.MethodGet, "/students/999", "")
	c.Params = gin.Params{{Key: "id", Value: "999"}}

	handler.Student(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
