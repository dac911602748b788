package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-absence-api/internal/absence"
	"github.com/noah-isme/sma-absence-api/internal/dto"
	"github.com/noah-isme/sma-absence-api/internal/models"
	appErrors "github.com/noah-isme/sma-absence-api/pkg/errors"
)

type attendanceStore interface {
	Snapshot() *Snapshot
	RecordNew(ctx context.Context, build func(*Snapshot) []models.AttendanceRecord) ([]models.AttendanceRecord, error)
	RemoveAbsence(ctx context.Context, studentID, date string) error
}

// AttendanceService records and removes absences.
type AttendanceService struct {
	store     attendanceStore
	audit     auditRecorder
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// AttendanceServiceParams groups constructor dependencies.
type AttendanceServiceParams struct {
	Store     attendanceStore
	Audit     auditRecorder
	Metrics   *MetricsService
	Validator *validator.Validate
	Logger    *zap.Logger
}

// NewAttendanceService constructs an AttendanceService.
func NewAttendanceService(params AttendanceServiceParams) *AttendanceService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	return &AttendanceService{
		store:     params.Store,
		audit:     params.Audit,
		metrics:   params.Metrics,
		validator: validate,
		logger:    logger,
	}
}

// AbsentKeys lists the identity keys recorded absent on date, sorted.
func (s *AttendanceService) AbsentKeys(date string) (*dto.AbsentKeysResponse, error) {
	day, err := parseDay(date, "date")
	if err != nil {
		return nil, err
	}
	keys := s.store.Snapshot().History.AbsentKeysOn(day).Sorted()
	return &dto.AbsentKeysResponse{Date: day, Keys: keys}, nil
}

// Submit records the marked students of one class as absent. Keys already
// recorded for the date, and repeats within the request, are skipped.
func (s *AttendanceService) Submit(ctx context.Context, req dto.SubmitAbsencesRequest, actor dto.Actor) (*dto.SubmitAbsencesResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid absence payload")
	}
	section, err := parseSection(req.Section)
	if err != nil {
		return nil, err
	}
	day, err := parseDay(req.Date, "date")
	if err != nil {
		return nil, err
	}
	placement := models.Placement{
		Section:  section,
		Division: strings.TrimSpace(req.Division),
		Class:    strings.TrimSpace(req.Class),
	}
	if !actor.CanAccess(placement.Division) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "session is not allowed to edit this division")
	}

	// Keys are checked against the history the batch is written into, so
	// concurrent submits for the same day cannot both record a student.
	var keys, skipped []string
	records, err := s.store.RecordNew(ctx, func(snap *Snapshot) []models.AttendanceRecord {
		keys, skipped = newAbsenceKeys(snap.History.AbsentKeysOn(day), req.MarkedKeys)
		if len(keys) == 0 {
			return nil
		}
		classStudents := snap.Roster.Students(placement.Section, placement.Division, placement.Class)
		return absence.BuildBatch(classStudents, keys, placement, day)
	})
	if err != nil {
		return nil, err
	}

	result := &dto.SubmitAbsencesResult{Date: day, Keys: keys, Skipped: skipped}
	if len(records) == 0 {
		return result, nil
	}

	result.BatchID = uuid.NewString()
	result.Recorded = len(records)
	s.metrics.RecordAbsences("record", string(section), len(records))
	s.logger.Info("absences recorded",
		zap.String("batch_id", result.BatchID),
		zap.String("division", placement.Division),
		zap.String("class", placement.Class),
		zap.String("date", day),
		zap.Int("recorded", len(records)),
		zap.Int("skipped", len(skipped)),
	)
	if s.audit != nil {
		s.audit.Record(newAuditEntry(actor, models.AuditActionAbsenceRecord, "attendance", result.BatchID, map[string]interface{}{
			"placement": placement,
			"date":      day,
			"keys":      keys,
		}))
	}
	return result, nil
}

// newAbsenceKeys normalises the marked keys and splits them into keys to
// record and keys already recorded. Repeats are dropped.
func newAbsenceKeys(already absence.KeySet, marked []string) (keys, skipped []string) {
	seen := make(map[string]struct{}, len(marked))
	keys = make([]string, 0, len(marked))
	skipped = []string{}
	for _, raw := range marked {
		key := absence.IdentityKey(absence.SplitKey(raw))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if already.Has(key) {
			skipped = append(skipped, key)
			continue
		}
		keys = append(keys, key)
	}
	return keys, skipped
}

// Delete removes one absence of a student on a date.
func (s *AttendanceService) Delete(ctx context.Context, req dto.DeleteAbsenceRequest, actor dto.Actor) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid delete request")
	}
	day, err := parseDay(req.Date, "date")
	if err != nil {
		return err
	}
	studentID := strings.TrimSpace(req.StudentID)
	target, ok := s.store.Snapshot().History.Lookup(studentID, day)
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "absence not found")
	}
	if !actor.CanAccess(target.Division.String()) {
		return appErrors.Clone(appErrors.ErrForbidden, "session is not allowed to edit this division")
	}
	if err := s.store.RemoveAbsence(ctx, studentID, day); err != nil {
		return err
	}

	s.metrics.RecordAbsences("delete", string(target.Section), 1)
	s.logger.Info("absence deleted", zap.String("student_id", studentID), zap.String("date", day))
	if s.audit != nil {
		s.audit.Record(newAuditEntry(actor, models.AuditActionAbsenceDelete, "attendance", studentID, map[string]string{"date": day}))
	}
	return nil
}
