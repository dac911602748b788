package service

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/sma-absence-api/internal/absence"
	"github.com/noah-isme/sma-absence-api/internal/dto"
	appErrors "github.com/noah-isme/sma-absence-api/pkg/errors"
)

// DashboardService computes the per-division daily summary.
type DashboardService struct {
	data      snapshotReader
	validator *validator.Validate
	location  *time.Location
	now       func() time.Time
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Data      snapshotReader
	Validator *validator.Validate
	Location  *time.Location
	Now       func() time.Time
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	svc := &DashboardService{
		data:      params.Data,
		validator: params.Validator,
		location:  params.Location,
		now:       params.Now,
	}
	if svc.validator == nil {
		svc.validator = validator.New()
	}
	if svc.location == nil {
		svc.location = time.Local
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc
}

// Today returns the tracking date used when none is given.
func (s *DashboardService) Today() string {
	return absence.Today(s.now(), s.location)
}

// Summary computes the dashboard for one division. The date defaults to
// today in the school time zone.
func (s *DashboardService) Summary(query dto.DashboardQuery) (*absence.DashboardStats, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "section and division are required")
	}
	section, err := parseSection(query.Section)
	if err != nil {
		return nil, err
	}
	date := s.Today()
	if strings.TrimSpace(query.Date) != "" {
		if date, err = parseDay(query.Date, "date"); err != nil {
			return nil, err
		}
	}
	snap := s.data.Snapshot()
	stats := absence.ComputeDashboard(snap.Roster, snap.History, section, strings.TrimSpace(query.Division), date)
	return &stats, nil
}
