package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-absence-api/internal/dto"
	appErrors "github.com/noah-isme/sma-absence-api/pkg/errors"
)

type fakeAttendanceSrv struct {
	result    *dto.SubmitAbsencesResult
	err       error
	lastDate  string
	lastReq   dto.SubmitAbsencesRequest
	lastDel   dto.DeleteAbsenceRequest
	lastActor dto.Actor
}

func (f *fakeAttendanceSrv) AbsentKeys(date string) (*dto.AbsentKeysResponse, error) {
	f.lastDate = date
	if f.err != nil {
		return nil, f.err
	}
	return &dto.AbsentKeysResponse{Date: date, Keys: []string{"101::ahmed khan"}}, nil
}

func (f *fakeAttendanceSrv) Submit(_ context.Context, req dto.SubmitAbsencesRequest, actor dto.Actor) (*dto.SubmitAbsencesResult, error) {
	f.lastReq = req
	f.lastActor = actor
	return f.result, f.err
}

func (f *fakeAttendanceSrv) Delete(_ context.Context, req dto.DeleteAbsenceRequest, actor dto.Actor) error {
	f.lastDel = req
	f.lastActor = actor
	return f.err
}

type fixedClock string

func (f fixedClock) Today() string { return string(f) }

func TestAttendanceHandlerAbsentKeysDefaultsToToday(t *testing.T) {
	srv := &fakeAttendanceSrv{}
	handler := NewAttendanceHandler(srv, fixedClock("2024-03-05"))
	c, rec := newTestContext(http.MethodGet, "/attendance/absent-keys", "")

	handler.AbsentKeys(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-03-05", srv.lastDate)
	assert.Equal(t, float64(1), decodeEnvelope(t, rec).Meta["count"])
}

func TestAttendanceHandlerSubmit(t *testing.T) {
	srv := &fakeAttendanceSrv{result: &dto.SubmitAbsencesResult{Recorded: 1, Keys: []string{"102::bilal ahmed"}}}
	handler := NewAttendanceHandler(srv, nil)
	c, rec := newTestContext(http.MethodPost, "/attendance",
		`{"section":"Boys","division":"Wing A","class":"10A","date":"2024-03-05","markedKeys":["102::bilal ahmed"]}`)
	withSession(c, "Wing A", false)

	handler.Submit(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []string{"102::bilal ahmed"}, srv.lastReq.MarkedKeys)
	assert.Equal(t, "Wing A", srv.lastActor.Division)
}

func TestAttendanceHandlerSubmitBadBodyAndUpstream(t *testing.T) {
	handler := NewAttendanceHandler(&fakeAttendanceSrv{}, nil)
	c, rec := newTestContext(http.MethodPost, "/attendance", `{"markedKeys":`)
	handler.Submit(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	handler = NewAttendanceHandler(&fakeAttendanceSrv{err: appErrors.Clone(appErrors.ErrUpstream, "failed to save attendance")}, nil)
	c, rec = newTestContext(http.MethodPost, "/attendance", `{"section":"Boys"}`)
	handler.Submit(c)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", decodeEnvelope(t, rec).Error["code"])
}

func TestAttendanceHandlerDelete(t *testing.T) {
	srv := &fakeAttendanceSrv{}
	handler := NewAttendanceHandler(srv, nil)
	c, rec := newTestContext(http.MethodDelete, "/attendance/101/2024-03-05", "")
	c.Params = gin.Params{{Key: "studentId", Value: "101"}, {Key: "date", Value: "2024-03-05"}}
	withSession(c, "", true)

	handler.Delete(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, dto.DeleteAbsenceRequest{StudentID: "101", Date: "2024-03-05"}, srv.lastDel)
	assert.True(t, srv.lastActor.AllAccess)
}
