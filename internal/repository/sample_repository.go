package repository

import (
	"context"
	"time"

	"github.com/noah-isme/sma-absence-api/internal/models"
)

// SampleRepository serves built-in data when no sheet is configured.
// Writes succeed without being stored; the caller keeps its own snapshot.
type SampleRepository struct {
	data  *models.SchoolData
	delay time.Duration
}

// NewSampleRepository constructs the sample source with an optional delay
// applied to every call.
func NewSampleRepository(delay time.Duration) *SampleRepository {
	return &SampleRepository{data: SampleData(), delay: delay}
}

// Kind reports the data source kind.
func (r *SampleRepository) Kind() models.DataSourceKind {
	return models.DataSourceSample
}

// Fetch returns a copy of the sample data.
func (r *SampleRepository) Fetch(ctx context.Context) (*models.SchoolData, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.data.Clone(), nil
}

// SaveAttendance accepts the batch.
func (r *SampleRepository) SaveAttendance(ctx context.Context, _ []models.AttendanceRecord) error {
	return r.wait(ctx)
}

// DeleteAttendance accepts the delete.
func (r *SampleRepository) DeleteAttendance(ctx context.Context, _, _ string) error {
	return r.wait(ctx)
}

func (r *SampleRepository) wait(ctx context.Context) error {
	if r.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(r.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// SampleData returns a fresh copy of the demo roster and history.
func SampleData() *models.SchoolData {
	boys := models.SectionBoys
	girls := models.SectionGirls
	return &models.SchoolData{
		Students: []models.Student{
			{ID: "101", Name: "Ahmed Khan", Section: boys, Class: "10-A", Division: "Wing A"},
			{ID: "102", Name: "Bilal Ahmed", Section: boys, Class: "10-A", Division: "Wing A"},
			{ID: "103", Name: "Charlie Davis", Section: boys, Class: "9-B", Division: "Wing B"},
			{ID: "104", Name: "David Smith", Section: boys, Class: "8-C", Division: "Wing C"},
			{ID: "201", Name: "Sara Ali", Section: girls, Class: "10-A", Division: "Block 1"},
			{ID: "202", Name: "Fatima Noor", Section: girls, Class: "10-B", Division: "Block 1"},
			{ID: "203", Name: "Zainab Bibi", Section: girls, Class: "9-A", Division: "Block 2"},
			{ID: "204", Name: "Ayesha Khan", Section: girls, Class: "8-C", Division: "Block 3"},
		},
		Attendance: []models.AttendanceRecord{
			{Date: "2023-10-25", StudentID: "101", Name: "Ahmed Khan", Section: boys, Class: "10-A", Division: "Wing A"},
			{Date: "2023-10-26", StudentID: "101", Name: "Ahmed Khan", Section: boys, Class: "10-A", Division: "Wing A"},
			{Date: "2023-10-25", StudentID: "201", Name: "Sara Ali", Section: girls, Class: "10-A", Division: "Block 1"},
		},
	}
}
