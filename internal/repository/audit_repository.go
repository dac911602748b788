package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-absence-api/internal/models"
)

// AuditRepository persists the mutation audit trail.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository constructs the repository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create stores an audit log entry.
func (r *AuditRepository) Create(ctx context.Context, log *models.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	if log.NewValues == "" {
		log.NewValues = "{}"
	}
	const query = `INSERT INTO attendance_audit_logs (id, division, action, resource, resource_id, new_values, ip_address, created_at) VALUES (:id, :division, :action, :resource, :resource_id, CAST(:new_values AS JSONB), :ip_address, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}

// ListRecent returns the newest entries, optionally for one division.
func (r *AuditRepository) ListRecent(ctx context.Context, division string, limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	query := `SELECT id, division, action, resource, resource_id, COALESCE(new_values::text, '{}') AS new_values, ip_address, created_at FROM attendance_audit_logs`
	args := []interface{}{}
	if division != "" {
		query += ` WHERE LOWER(division) = LOWER($1)`
		args = append(args, division)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, limit)

	logs := []models.AuditLog{}
	if err := r.db.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return logs, nil
}
