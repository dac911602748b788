package models

import "time"

// AuditAction constants represent actions to be logged.
const (
	AuditActionDivisionLogin  = "DIVISION_LOGIN"
	AuditActionAbsenceRecord  = "ABSENCE_RECORD"
	AuditActionAbsenceDelete  = "ABSENCE_DELETE"
	AuditActionSnapshotReload = "SNAPSHOT_RELOAD"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	Division   *string   `db:"division" json:"division,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	NewValues  string    `db:"new_values" json:"new_values,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
