package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-absence-api/internal/models"
	appErrors "github.com/noah-isme/sma-absence-api/pkg/errors"
)

func TestSchoolDataServiceStartsEmpty(t *testing.T) {
	svc := NewSchoolDataService(SchoolDataServiceParams{})
	assert.False(t, svc.Ready())
	snap := svc.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, 0, snap.Roster.Len())
	assert.Equal(t, models.DataSourceEmpty, svc.Status().Source)
}

func TestSchoolDataServiceLoadCachesLiveData(t *testing.T) {
	src := &fakeSource{data: fixtureData()}
	cacheRepo := &stubCacheRepo{}
	svc := NewSchoolDataService(SchoolDataServiceParams{
		Source: src,
		Cache:  NewCacheService(cacheRepo, nil, 0, zap.NewNop()),
		Now:    fixedNow,
	})

	status := svc.Load(context.Background())
	assert.True(t, status.Loaded)
	assert.Equal(t, models.DataSourceLive, status.Source)
	assert.Equal(t, 4, status.Students)
	assert.Equal(t, 3, status.Attendance)
	assert.Empty(t, status.LastError)
	require.NotNil(t, status.LoadedAt)
	assert.Contains(t, cacheRepo.store, snapshotCacheKey)
}

func TestSchoolDataServiceFallsBackToCache(t *testing.T) {
	cacheRepo := &stubCacheRepo{}
	cache := NewCacheService(cacheRepo, nil, 0, zap.NewNop())
	require.NoError(t, cache.Set(context.Background(), snapshotCacheKey, fixtureData(), 0))

	svc := NewSchoolDataService(SchoolDataServiceParams{Source: &fakeSource{fetchErr: errSheetDown}, Cache: cache})
	status := svc.Load(context.Background())

	assert.Equal(t, models.DataSourceCache, status.Source)
	assert.Equal(t, 4, status.Students)
	assert.Contains(t, status.LastError, "sheet unreachable")
	assert.True(t, svc.Ready())
}

func TestSchoolDataServiceFallsBackToEmpty(t *testing.T) {
	svc := NewSchoolDataService(SchoolDataServiceParams{Source: &fakeSource{fetchErr: errSheetDown}})
	status := svc.Load(context.Background())

	assert.Equal(t, models.DataSourceEmpty, status.Source)
	assert.Equal(t, 0, status.Students)
	assert.True(t, status.Loaded)
}

func TestSchoolDataServiceRefreshWithPurgeDropsCache(t *testing.T) {
	cacheRepo := &stubCacheRepo{}
	cache := NewCacheService(cacheRepo, nil, 0, zap.NewNop())
	src := &fakeSource{data: fixtureData()}
	svc := NewSchoolDataService(SchoolDataServiceParams{Source: src, Cache: cache})
	svc.Load(context.Background())

	src.fetchErr = errSheetDown
	status := svc.Refresh(context.Background(), true)
	assert.Equal(t, models.DataSourceEmpty, status.Source)
	assert.Equal(t, 2, src.fetchCalls)
}

func TestSchoolDataServiceRecordAppliesAfterConfirm(t *testing.T) {
	src := &fakeSource{}
	svc := loadedData(src)
	before := svc.Snapshot()

	rec := models.AttendanceRecord{Date: "2024-03-06", StudentID: "102", Name: "Bilal Ahmed", Section: models.SectionBoys, Division: "Wing A", Class: "10A"}
	require.NoError(t, svc.RecordAbsences(context.Background(), []models.AttendanceRecord{rec}))

	assert.Len(t, src.saved, 1)
	assert.Equal(t, 4, svc.Snapshot().History.Len())
	assert.Equal(t, 3, before.History.Len(), "earlier snapshots stay untouched")
}

func TestSchoolDataServiceRecordFailureKeepsState(t *testing.T) {
	src := &fakeSource{saveErr: errSheetDown}
	svc := loadedData(src)

	err := svc.RecordAbsences(context.Background(), []models.AttendanceRecord{{Date: "2024-03-06", StudentID: "102"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrUpstream)
	assert.Equal(t, 3, svc.Snapshot().History.Len())
}

func TestSchoolDataServiceRemoveAbsence(t *testing.T) {
	src := &fakeSource{}
	svc := loadedData(src)

	err := svc.RemoveAbsence(context.Background(), "102", "2024-03-05")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Empty(t, src.deleted)

	require.NoError(t, svc.RemoveAbsence(context.Background(), "101", "2024-03-05"))
	assert.Equal(t, []string{"101@2024-03-05"}, src.deleted)
	assert.Equal(t, 2, svc.Snapshot().History.Len())
}

func TestSchoolDataServiceRemoveFailureKeepsState(t *testing.T) {
	src := &fakeSource{deleteErr: errSheetDown}
	svc := loadedData(src)

	err := svc.RemoveAbsence(context.Background(), "101", "2024-03-05")
	assert.ErrorIs(t, err, appErrors.ErrUpstream)
	assert.Equal(t, 3, svc.Snapshot().History.Len())
}
