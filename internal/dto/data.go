package dto

import (
	"time"

	"github.com/noah-isme/sma-absence-api/internal/models"
)

// DataStatus describes the currently loaded snapshot.
type DataStatus struct {
	Loaded     bool                  `json:"loaded"`
	Source     models.DataSourceKind `json:"source"`
	Upstream   models.DataSourceKind `json:"upstream"`
	LoadedAt   *time.Time            `json:"loadedAt,omitempty"`
	Students   int                   `json:"students"`
	Attendance int                   `json:"attendance"`
	LastError  string                `json:"lastError,omitempty"`
}
