package service

import (
	"context"
	"encoding/json"
	"errors"
	"path"
	"sync"
	"time"

	"github.com/noah-isme/sma-absence-api/internal/models"
	appErrors "github.com/noah-isme/sma-absence-api/pkg/errors"
)

var errSheetDown = errors.New("sheet unreachable")

type stubCacheRepo struct {
	store map[string][]byte
}

func (s *stubCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	if s.store == nil {
		return appErrors.ErrCacheMiss
	}
	payload, ok := s.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (s *stubCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if s.store == nil {
		s.store = make(map[string][]byte)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.store[key] = payload
	return nil
}

func (s *stubCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	for key := range s.store {
		if ok, _ := path.Match(pattern, key); ok {
			delete(s.store, key)
		}
	}
	return nil
}

type fakeSource struct {
	kind      models.DataSourceKind
	data      *models.SchoolData
	fetchErr  error
	saveErr   error
	deleteErr error
	saveDelay time.Duration

	fetchCalls int
	saved      [][]models.AttendanceRecord
	deleted    []string
}

func (f *fakeSource) Kind() models.DataSourceKind {
	if f.kind == "" {
		return models.DataSourceLive
	}
	return f.kind
}

func (f *fakeSource) Fetch(context.Context) (*models.SchoolData, error) {
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.data.Clone(), nil
}

func (f *fakeSource) SaveAttendance(_ context.Context, records []models.AttendanceRecord) error {
	time.Sleep(f.saveDelay)
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, records)
	return nil
}

func (f *fakeSource) DeleteAttendance(_ context.Context, studentID, date string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, studentID+"@"+date)
	return nil
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []models.AuditLog
}

func (f *fakeAudit) Record(entry models.AuditLog) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
}

func fixtureData() *models.SchoolData {
	boys := models.SectionBoys
	return &models.SchoolData{
		Students: []models.Student{
			{ID: "101", Name: "Ahmed Khan", Section: boys, Division: "Wing A", Class: "10A"},
			{ID: "102", Name: "Bilal Ahmed", Section: boys, Division: "Wing A", Class: "10A"},
			{ID: "103", Name: "Charlie Davis", Section: boys, Division: "Wing A", Class: "9B"},
			{ID: "201", Name: "Sara Ali", Section: models.SectionGirls, Division: "Block 1", Class: "10-A"},
		},
		Attendance: []models.AttendanceRecord{
			{Date: "2024-03-04", StudentID: "101", Name: "Ahmed Khan", Section: boys, Division: "Wing A", Class: "10A"},
			{Date: "2024-03-05", StudentID: "101", Name: "Ahmed Khan", Section: boys, Division: "Wing A", Class: "10A"},
			{Date: "2024-03-05", StudentID: "103", Name: "Charlie Davis", Section: boys, Division: "Wing A", Class: "9B"},
		},
	}
}

func fixedNow() time.Time {
	return time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC)
}

// loadedData returns a state container already loaded from a fake source.
func loadedData(src *fakeSource) *SchoolDataService {
	if src.data == nil {
		src.data = fixtureData()
	}
	svc := NewSchoolDataService(SchoolDataServiceParams{Source: src, Now: fixedNow})
	svc.Load(context.Background())
	return svc
}
