package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-absence-api/internal/absence"
	"github.com/noah-isme/sma-absence-api/internal/dto"
	"github.com/noah-isme/sma-absence-api/internal/models"
	appErrors "github.com/noah-isme/sma-absence-api/pkg/errors"
)

// SchoolDataSource loads the roster and history and accepts mutations.
type SchoolDataSource interface {
	Kind() models.DataSourceKind
	Fetch(ctx context.Context) (*models.SchoolData, error)
	SaveAttendance(ctx context.Context, records []models.AttendanceRecord) error
	DeleteAttendance(ctx context.Context, studentID, date string) error
}

// Snapshot is an immutable view of the school data. Mutations replace the
// whole snapshot, so holders never observe partial updates.
type Snapshot struct {
	Roster   *absence.Roster
	History  *absence.History
	Source   models.DataSourceKind
	LoadedAt time.Time
}

// SchoolDataService owns the in-memory roster and absence history.
type SchoolDataService struct {
	source  SchoolDataSource
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time

	mu        sync.RWMutex
	snapshot  *Snapshot
	loaded    bool
	lastError string

	writeMu sync.Mutex
}

// SchoolDataServiceParams groups constructor dependencies.
type SchoolDataServiceParams struct {
	Source  SchoolDataSource
	Cache   *CacheService
	Metrics *MetricsService
	Logger  *zap.Logger
	Now     func() time.Time
}

// NewSchoolDataService constructs the state container with an empty snapshot.
func NewSchoolDataService(params SchoolDataServiceParams) *SchoolDataService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &SchoolDataService{
		source:   params.Source,
		cache:    params.Cache,
		metrics:  params.Metrics,
		logger:   logger,
		now:      now,
		snapshot: emptySnapshot(models.DataSourceEmpty, time.Time{}),
	}
}

func emptySnapshot(source models.DataSourceKind, at time.Time) *Snapshot {
	return &Snapshot{
		Roster:   absence.NewRoster(nil),
		History:  absence.NewHistory(nil),
		Source:   source,
		LoadedAt: at,
	}
}

// Snapshot returns the current view. It is never nil.
func (s *SchoolDataService) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Ready reports whether a load has completed, whatever its outcome.
func (s *SchoolDataService) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Load fetches the data from the source. When that fails the last cached
// snapshot is used, and failing that an empty one. Load never returns an
// error: the outcome is reported through Status.
func (s *SchoolDataService) Load(ctx context.Context) dto.DataStatus {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	data, source, fetchErr := s.fetch(ctx)
	snap := &Snapshot{
		Roster:   absence.NewRoster(data.Students),
		History:  absence.NewHistory(data.Attendance),
		Source:   source,
		LoadedAt: s.now().UTC(),
	}

	s.mu.Lock()
	s.snapshot = snap
	s.loaded = true
	s.lastError = ""
	if fetchErr != nil {
		s.lastError = fetchErr.Error()
	}
	s.mu.Unlock()

	s.metrics.ObserveSnapshot(string(source), snap.Roster.Len(), snap.History.Len())
	s.logger.Info("school data loaded",
		zap.String("source", string(source)),
		zap.Int("students", snap.Roster.Len()),
		zap.Int("attendance", snap.History.Len()),
	)
	return s.Status()
}

// Refresh reloads the data. With purge the cached fallback is dropped first,
// so an unreachable sheet yields an empty snapshot instead of a stale one.
func (s *SchoolDataService) Refresh(ctx context.Context, purge bool) dto.DataStatus {
	if purge {
		if err := s.cache.PurgeSnapshots(ctx); err != nil {
			s.logger.Warn("failed to purge snapshot cache", zap.Error(err))
		}
	}
	return s.Load(ctx)
}

func (s *SchoolDataService) fetch(ctx context.Context) (*models.SchoolData, models.DataSourceKind, error) {
	if s.source == nil {
		return (*models.SchoolData)(nil).Clone(), models.DataSourceEmpty, nil
	}

	start := time.Now()
	data, err := s.source.Fetch(ctx)
	s.metrics.ObserveSheetCall("fetch", err, time.Since(start))
	if err == nil {
		s.cache.StoreSnapshot(ctx, data)
		return data, s.source.Kind(), nil
	}
	s.logger.Error("failed to fetch school data", zap.String("source", string(s.source.Kind())), zap.Error(err))

	if cached, ok := s.cache.LoadSnapshot(ctx); ok {
		s.logger.Warn("serving cached school data")
		return cached, models.DataSourceCache, err
	}
	return (*models.SchoolData)(nil).Clone(), models.DataSourceEmpty, err
}

// Status describes the current snapshot.
func (s *SchoolDataService) Status() dto.DataStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status := dto.DataStatus{
		Loaded:     s.loaded,
		Source:     s.snapshot.Source,
		Students:   s.snapshot.Roster.Len(),
		Attendance: s.snapshot.History.Len(),
		LastError:  s.lastError,
	}
	if s.source != nil {
		status.Upstream = s.source.Kind()
	}
	if !s.snapshot.LoadedAt.IsZero() {
		at := s.snapshot.LoadedAt
		status.LoadedAt = &at
	}
	return status
}

// RecordAbsences writes records to the source and, once it confirms, appends
// them to the in-memory history. On failure nothing local changes.
func (s *SchoolDataService) RecordAbsences(ctx context.Context, records []models.AttendanceRecord) error {
	_, err := s.RecordNew(ctx, func(*Snapshot) []models.AttendanceRecord { return records })
	return err
}

// RecordNew builds a batch from the current snapshot and records it, all under
// the write lock, so a batch never repeats rows that a concurrent write added
// between the read and the save. build may return no records.
func (s *SchoolDataService) RecordNew(ctx context.Context, build func(*Snapshot) []models.AttendanceRecord) ([]models.AttendanceRecord, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	records := build(s.Snapshot())
	if len(records) == 0 {
		return nil, nil
	}
	if s.source == nil {
		return nil, appErrors.Clone(appErrors.ErrUpstream, "no attendance source configured")
	}

	start := time.Now()
	err := s.source.SaveAttendance(ctx, records)
	s.metrics.ObserveSheetCall("save", err, time.Since(start))
	if err != nil {
		s.logger.Error("failed to save attendance", zap.Int("records", len(records)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to save attendance")
	}

	s.apply(ctx, func(h *absence.History) *absence.History { return h.With(records...) })
	return records, nil
}

// RemoveAbsence deletes one absence at the source and then locally. It
// returns ErrNotFound without contacting the source when no such row is held.
func (s *SchoolDataService) RemoveAbsence(ctx context.Context, studentID, date string) error {
	if s.source == nil {
		return appErrors.Clone(appErrors.ErrUpstream, "no attendance source configured")
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, found := s.Snapshot().History.Without(studentID, date); !found {
		return appErrors.Clone(appErrors.ErrNotFound, "absence not found")
	}

	start := time.Now()
	err := s.source.DeleteAttendance(ctx, studentID, absence.TruncateDate(date))
	s.metrics.ObserveSheetCall("delete", err, time.Since(start))
	if err != nil {
		s.logger.Error("failed to delete attendance", zap.String("student_id", studentID), zap.String("date", date), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to delete attendance")
	}

	s.apply(ctx, func(h *absence.History) *absence.History {
		next, _ := h.Without(studentID, date)
		return next
	})
	return nil
}

// apply swaps in a new history and refreshes the cached fallback. Callers
// hold writeMu.
func (s *SchoolDataService) apply(ctx context.Context, mutate func(*absence.History) *absence.History) {
	s.mu.Lock()
	current := s.snapshot
	next := &Snapshot{
		Roster:   current.Roster,
		History:  mutate(current.History),
		Source:   current.Source,
		LoadedAt: current.LoadedAt,
	}
	s.snapshot = next
	s.mu.Unlock()

	s.metrics.SetSnapshotAttendance(next.History.Len())
	if next.Source == models.DataSourceEmpty {
		return
	}
	s.cache.StoreSnapshot(ctx, &models.SchoolData{Students: next.Roster.All(), Attendance: next.History.All()})
}
