package repository

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-absence-api/internal/models"
)

func newSheetServer(t *testing.T, handler http.HandlerFunc) (*SheetRepository, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	repo, err := NewSheetRepository(srv.URL+"/macros/s/abc/exec", time.Second, nil)
	require.NoError(t, err)
	return repo, srv
}

func TestValidateSheetURL(t *testing.T) {
	assert.NoError(t, ValidateSheetURL("https://script.google.com/macros/s/abc/exec"))
	assert.ErrorIs(t, ValidateSheetURL("https://script.google.com/macros/s/abc/edit"), ErrInvalidSheetURL)
	assert.ErrorIs(t, ValidateSheetURL("https://script.google.com/home/projects/abc"), ErrInvalidSheetURL)
	assert.ErrorIs(t, ValidateSheetURL("https://example.com/data.json"), ErrInvalidSheetURL)

	_, err := NewSheetRepository("https://script.google.com/d/abc/edit", 0, nil)
	assert.ErrorIs(t, err, ErrInvalidSheetURL)
}

func TestSheetRepositoryFetchDecodesLooseCells(t *testing.T) {
	repo, _ := newSheetServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = io.WriteString(w, `{"students":[{"id":101,"name":"Ahmed Khan","section":"Boys","class":"10-A","division":"Wing A"}],
			"attendance":[{"date":"2023-10-25T00:00:00.000Z","studentId":101,"name":"Ahmed Khan","section":"Boys","class":"10-A","division":null}]}`)
	})

	data, err := repo.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, data.Students, 1)
	assert.Equal(t, "101", data.Students[0].ID.String())
	require.Len(t, data.Attendance, 1)
	assert.Equal(t, "101", data.Attendance[0].StudentID.String())
	assert.Equal(t, "", data.Attendance[0].Division.String())
}

func TestSheetRepositoryFetchFillsMissingLists(t *testing.T) {
	repo, _ := newSheetServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})
	data, err := repo.Fetch(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, data.Students)
	assert.NotNil(t, data.Attendance)
}

func TestSheetRepositoryFetchFailures(t *testing.T) {
	repo, _ := newSheetServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err := repo.Fetch(context.Background())
	assert.Error(t, err)

	garbled, _ := newSheetServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `<html>`)
	})
	_, err = garbled.Fetch(context.Background())
	assert.Error(t, err)
}

func TestSheetRepositorySaveAttendanceSendsRecords(t *testing.T) {
	var received savePayload
	repo, _ := newSheetServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.Header.Get("Content-Type"), "text/plain")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_, _ = io.WriteString(w, `{"status":"success"}`)
	})

	records := []models.AttendanceRecord{{Date: "2024-03-01", StudentID: "101", Name: "Ahmed Khan", Section: models.SectionBoys, Class: "10-A", Division: "Wing A"}}
	require.NoError(t, repo.SaveAttendance(context.Background(), records))
	assert.Equal(t, records, received.Records)
}

func TestSheetRepositoryDeleteAttendance(t *testing.T) {
	var received deletePayload
	repo, _ := newSheetServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_, _ = io.WriteString(w, `{"status":"success","deleted":true}`)
	})

	require.NoError(t, repo.DeleteAttendance(context.Background(), "101", "2024-03-01"))
	assert.Equal(t, deletePayload{Action: "delete", StudentID: "101", Date: "2024-03-01"}, received)
}

func TestSheetRepositoryErrorReplyIsFailure(t *testing.T) {
	repo, _ := newSheetServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"status":"error","message":"Sheet locked"}`)
	})
	err := repo.SaveAttendance(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Sheet locked")

	down, _ := newSheetServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	assert.Error(t, down.DeleteAttendance(context.Background(), "101", "2024-03-01"))
}
