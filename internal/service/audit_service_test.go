package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-absence-api/internal/dto"
	"github.com/noah-isme/sma-absence-api/internal/models"
	appErrors "github.com/noah-isme/sma-absence-api/pkg/errors"
	"github.com/noah-isme/sma-absence-api/pkg/jobs"
)

type mockAuditRepo struct {
	mu        sync.Mutex
	created   []models.AuditLog
	listErr   error
	listed    string
	failFirst bool
}

func (m *mockAuditRepo) Create(_ context.Context, log *models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFirst {
		m.failFirst = false
		return errors.New("connection reset")
	}
	m.created = append(m.created, *log)
	return nil
}

func (m *mockAuditRepo) ListRecent(_ context.Context, division string, _ int) ([]models.AuditLog, error) {
	m.listed = division
	if m.listErr != nil {
		return nil, m.listErr
	}
	return []models.AuditLog{{Action: models.AuditActionAbsenceRecord}}, nil
}

func (m *mockAuditRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.created)
}

func TestAuditServiceWritesInBackground(t *testing.T) {
	repo := &mockAuditRepo{failFirst: true}
	svc := NewAuditService(repo, nil, nil, jobs.QueueConfig{MaxRetries: 2, RetryDelay: time.Millisecond})
	svc.Start(context.Background())

	svc.Record(newAuditEntry(dto.Actor{Division: "Wing A", IP: "10.0.0.1"}, models.AuditActionAbsenceDelete, "attendance", "101", map[string]string{"date": "2024-03-05"}))

	assert.Eventually(t, func() bool { return repo.count() == 1 }, 2*time.Second, 5*time.Millisecond)
	svc.Stop()

	entry := repo.created[0]
	require.NotNil(t, entry.Division)
	assert.Equal(t, "Wing A", *entry.Division)
	require.NotNil(t, entry.ResourceID)
	assert.Equal(t, "101", *entry.ResourceID)
	assert.JSONEq(t, `{"date":"2024-03-05"}`, entry.NewValues)
}

func TestAuditServiceDisabled(t *testing.T) {
	svc := NewAuditService(nil, nil, nil, jobs.QueueConfig{})
	assert.False(t, svc.Enabled())
	svc.Start(context.Background())
	svc.Record(models.AuditLog{Action: models.AuditActionDivisionLogin})
	svc.Stop()

	logs, err := svc.Recent(context.Background(), dto.Actor{AllAccess: true}, 10)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestAuditServiceRecentScopesToDivision(t *testing.T) {
	repo := &mockAuditRepo{}
	svc := NewAuditService(repo, nil, nil, jobs.QueueConfig{})

	_, err := svc.Recent(context.Background(), dto.Actor{Division: "Wing A"}, 10)
	require.NoError(t, err)
	assert.Equal(t, "Wing A", repo.listed)

	_, err = svc.Recent(context.Background(), dto.Actor{Division: "Wing A", AllAccess: true}, 10)
	require.NoError(t, err)
	assert.Equal(t, "", repo.listed)

	repo.listErr = errors.New("db down")
	_, err = svc.Recent(context.Background(), dto.Actor{}, 10)
	assert.ErrorIs(t, err, appErrors.ErrInternal)
}
