package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-absence-api/internal/dto"
	"github.com/noah-isme/sma-absence-api/internal/middleware"
	appErrors "github.com/noah-isme/sma-absence-api/pkg/errors"
	"github.com/noah-isme/sma-absence-api/pkg/response"
)

type attendanceService interface {
	AbsentKeys(date string) (*dto.AbsentKeysResponse, error)
	Submit(ctx context.Context, req dto.SubmitAbsencesRequest, actor dto.Actor) (*dto.SubmitAbsencesResult, error)
	Delete(ctx context.Context, req dto.DeleteAbsenceRequest, actor dto.Actor) error
}

type todayProvider interface {
	Today() string
}

// AttendanceHandler exposes absence marking endpoints.
type AttendanceHandler struct {
	service attendanceService
	clock   todayProvider
}

// NewAttendanceHandler constructs the handler. clock supplies the default
// date for absent key lookups.
func NewAttendanceHandler(service attendanceService, clock todayProvider) *AttendanceHandler {
	return &AttendanceHandler{service: service, clock: clock}
}

// AbsentKeys godoc
// @Summary Identity keys recorded absent on a date
// @Tags Attendance
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD). Defaults to today"
// @Success 200 {object} response.Envelope
// @Router /attendance/absent-keys [get]
func (h *AttendanceHandler) AbsentKeys(c *gin.Context) {
	start := time.Now()
	date := strings.TrimSpace(c.Query("date"))
	if date == "" && h.clock != nil {
		date = h.clock.Today()
	}
	resp, err := h.service.AbsentKeys(date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, withMeta(c, start, map[string]interface{}{"count": len(resp.Keys)}))
}

// Submit godoc
// @Summary Mark students of a class absent
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.SubmitAbsencesRequest true "Marked keys"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /attendance [post]
func (h *AttendanceHandler) Submit(c *gin.Context) {
	start := time.Now()
	var req dto.SubmitAbsencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	result, err := h.service.Submit(c.Request.Context(), req, middleware.Actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	status := http.StatusCreated
	if result.Recorded == 0 {
		status = http.StatusOK
	}
	response.JSON(c, status, result, withMeta(c, start, nil))
}

// Delete godoc
// @Summary Delete one absence
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /attendance/{studentId}/{date} [delete]
func (h *AttendanceHandler) Delete(c *gin.Context) {
	start := time.Now()
	req := dto.DeleteAbsenceRequest{StudentID: c.Param("studentId"), Date: c.Param("date")}
	if err := h.service.Delete(c.Request.Context(), req, middleware.Actor(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"deleted": true, "studentId": req.StudentID, "date": req.Date}, withMeta(c, start, nil))
}
