package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-absence-api/internal/dto"
	"github.com/noah-isme/sma-absence-api/internal/models"
	appErrors "github.com/noah-isme/sma-absence-api/pkg/errors"
)

func newAttendanceFixture() (*AttendanceService, *fakeSource, *fakeAudit, *SchoolDataService) {
	src := &fakeSource{}
	data := loadedData(src)
	audit := &fakeAudit{}
	svc := NewAttendanceService(AttendanceServiceParams{Store: data, Audit: audit})
	return svc, src, audit, data
}

var wingA = dto.Actor{Division: "wing a", IP: "10.0.0.1"}

func TestAttendanceServiceAbsentKeys(t *testing.T) {
	svc, _, _, _ := newAttendanceFixture()

	resp, err := svc.AbsentKeys("2024-03-05T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", resp.Date)
	assert.Equal(t, []string{"101::ahmed khan", "103::charlie davis"}, resp.Keys)

	_, err = svc.AbsentKeys("yesterday")
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestAttendanceServiceSubmitSkipsRecordedAndRepeatedKeys(t *testing.T) {
	svc, src, audit, data := newAttendanceFixture()

	result, err := svc.Submit(context.Background(), dto.SubmitAbsencesRequest{
		Section:    "Boys",
		Division:   "Wing A",
		Class:      "10A",
		Date:       "2024-03-05",
		MarkedKeys: []string{"101::ahmed khan", "102::Bilal Ahmed", "102::bilal ahmed"},
	}, wingA)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Recorded)
	assert.Equal(t, []string{"102::bilal ahmed"}, result.Keys)
	assert.Equal(t, []string{"101::ahmed khan"}, result.Skipped)
	assert.NotEmpty(t, result.BatchID)

	require.Len(t, src.saved, 1)
	saved := src.saved[0][0]
	assert.Equal(t, "102", saved.StudentID.String())
	assert.Equal(t, "Bilal Ahmed", saved.Name.String())
	assert.Equal(t, "Wing A", saved.Division.String())
	assert.Equal(t, 4, data.Snapshot().History.Len())

	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionAbsenceRecord, audit.entries[0].Action)
}

func TestAttendanceServiceSubmitNothingNew(t *testing.T) {
	svc, src, _, _ := newAttendanceFixture()

	result, err := svc.Submit(context.Background(), dto.SubmitAbsencesRequest{
		Section: "Boys", Division: "Wing A", Class: "10A", Date: "2024-03-05",
		MarkedKeys: []string{"101::ahmed khan"},
	}, wingA)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Recorded)
	assert.Empty(t, src.saved)
}

func TestAttendanceServiceSubmitValidation(t *testing.T) {
	svc, _, _, _ := newAttendanceFixture()
	ctx := context.Background()

	_, err := svc.Submit(ctx, dto.SubmitAbsencesRequest{Section: "Boys", Division: "Wing A", Class: "10A", Date: "2024-03-05"}, wingA)
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Submit(ctx, dto.SubmitAbsencesRequest{Section: "Boys", Division: "Wing A", Class: "10A", Date: "05/03/2024", MarkedKeys: []string{"102::bilal ahmed"}}, wingA)
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Submit(ctx, dto.SubmitAbsencesRequest{Section: "Boys", Division: "Wing B", Class: "9B", Date: "2024-03-05", MarkedKeys: []string{"103::charlie davis"}}, wingA)
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
}

func TestAttendanceServiceSubmitUpstreamFailure(t *testing.T) {
	svc, src, audit, data := newAttendanceFixture()
	src.saveErr = errSheetDown

	_, err := svc.Submit(context.Background(), dto.SubmitAbsencesRequest{
		Section: "Boys", Division: "Wing A", Class: "10A", Date: "2024-03-06",
		MarkedKeys: []string{"102::bilal ahmed"},
	}, wingA)
	assert.ErrorIs(t, err, appErrors.ErrUpstream)
	assert.Equal(t, 3, data.Snapshot().History.Len())
	assert.Empty(t, audit.entries)
}

func TestAttendanceServiceDelete(t *testing.T) {
	svc, src, audit, data := newAttendanceFixture()
	ctx := context.Background()

	err := svc.Delete(ctx, dto.DeleteAbsenceRequest{StudentID: "101", Date: "2024-03-04"}, dto.Actor{Division: "Block 1"})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	err = svc.Delete(ctx, dto.DeleteAbsenceRequest{StudentID: "201", Date: "2024-03-04"}, dto.Actor{AllAccess: true})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, dto.DeleteAbsenceRequest{StudentID: "101", Date: "2024-03-04"}, wingA))
	assert.Equal(t, []string{"101@2024-03-04"}, src.deleted)
	assert.Equal(t, 2, data.Snapshot().History.Len())
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionAbsenceDelete, audit.entries[0].Action)
}

func TestAttendanceServiceConcurrentSubmitsRecordOnce(t *testing.T) {
	src := &fakeSource{saveDelay: 20 * time.Millisecond}
	data := loadedData(src)
	svc := NewAttendanceService(AttendanceServiceParams{Store: data})
	req := dto.SubmitAbsencesRequest{
		Section:    "Boys",
		Division:   "Wing A",
		Class:      "10A",
		Date:       "2030-01-01",
		MarkedKeys: []string{"101::ahmed khan"},
	}

	var wg sync.WaitGroup
	results := make([]*dto.SubmitAbsencesResult, 4)
	errs := make([]error, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Submit(context.Background(), req, wingA)
		}(i)
	}
	wg.Wait()

	recorded := 0
	for i := range results {
		require.NoError(t, errs[i])
		recorded += results[i].Recorded
	}
	assert.Equal(t, 1, recorded)
	assert.Len(t, src.saved, 1)
	assert.Equal(t, []string{"101::ahmed khan"}, data.Snapshot().History.AbsentKeysOn("2030-01-01").Sorted())
}
