package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-absence-api/internal/dto"
	"github.com/noah-isme/sma-absence-api/internal/models"
	appErrors "github.com/noah-isme/sma-absence-api/pkg/errors"
	"github.com/noah-isme/sma-absence-api/pkg/jobs"
)

const auditJobType = "audit.write"

type auditRepository interface {
	Create(ctx context.Context, log *models.AuditLog) error
	ListRecent(ctx context.Context, division string, limit int) ([]models.AuditLog, error)
}

// auditRecorder is what mutating services need from the audit trail.
type auditRecorder interface {
	Record(entry models.AuditLog)
}

// AuditService writes the audit trail off the request path.
type AuditService struct {
	repo    auditRepository
	queue   *jobs.Queue
	metrics *MetricsService
	logger  *zap.Logger
}

// NewAuditService constructs the service. A nil repo disables auditing.
func NewAuditService(repo auditRepository, metrics *MetricsService, logger *zap.Logger, cfg jobs.QueueConfig) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &AuditService{repo: repo, metrics: metrics, logger: logger}
	if repo != nil {
		if cfg.Logger == nil {
			cfg.Logger = logger
		}
		svc.queue = jobs.NewQueue("audit", svc.handle, cfg)
	}
	return svc
}

// Enabled reports whether entries are persisted.
func (s *AuditService) Enabled() bool {
	return s != nil && s.queue != nil
}

// Start launches the background writers.
func (s *AuditService) Start(ctx context.Context) {
	if s.Enabled() {
		s.queue.Start(ctx)
	}
}

// Stop flushes pending entries.
func (s *AuditService) Stop() {
	if s.Enabled() {
		s.queue.Stop()
	}
}

// Record queues an entry. Failures are logged, never returned.
func (s *AuditService) Record(entry models.AuditLog) {
	if !s.Enabled() {
		return
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if err := s.queue.Enqueue(jobs.Job{Type: auditJobType, Payload: entry}); err != nil {
		s.logger.Warn("failed to queue audit entry", zap.String("action", entry.Action), zap.Error(err))
	}
}

// Recent lists the newest entries visible to the actor.
func (s *AuditService) Recent(ctx context.Context, actor dto.Actor, limit int) ([]models.AuditLog, error) {
	if s == nil || s.repo == nil {
		return []models.AuditLog{}, nil
	}
	division := actor.Division
	if actor.AllAccess {
		division = ""
	}
	logs, err := s.repo.ListRecent(ctx, division, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list audit logs")
	}
	return logs, nil
}

func (s *AuditService) handle(ctx context.Context, job jobs.Job) error {
	entry, ok := job.Payload.(models.AuditLog)
	if !ok {
		s.logger.Error("unexpected audit payload", zap.String("job_id", job.ID))
		return nil
	}
	start := time.Now()
	err := s.repo.Create(ctx, &entry)
	s.metrics.ObserveAuditWrite(time.Since(start))
	return err
}

func newAuditEntry(actor dto.Actor, action, resource, resourceID string, values interface{}) models.AuditLog {
	entry := models.AuditLog{
		Action:    action,
		Resource:  resource,
		IPAddress: actor.IP,
		CreatedAt: time.Now().UTC(),
	}
	if actor.Division != "" {
		division := actor.Division
		entry.Division = &division
	}
	if resourceID != "" {
		id := resourceID
		entry.ResourceID = &id
	}
	if values != nil {
		if raw, err := json.Marshal(values); err == nil {
			entry.NewValues = string(raw)
		}
	}
	return entry
}
