package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-absence-api/internal/dto"
	"github.com/noah-isme/sma-absence-api/pkg/response"
)

type reportService interface {
	Build(query dto.ReportQuery) (*dto.AbsenceReport, error)
	Export(query dto.ReportQuery) (*dto.ExportFile, error)
}

// ReportHandler exposes range reports.
type ReportHandler struct {
	service reportService
}

// NewReportHandler constructs the handler.
func NewReportHandler(service reportService) *ReportHandler {
	return &ReportHandler{service: service}
}

func reportQuery(c *gin.Context) dto.ReportQuery {
	return dto.ReportQuery{
		Section:  strings.TrimSpace(c.Query("section")),
		Division: strings.TrimSpace(c.Query("division")),
		Class:    strings.TrimSpace(c.Query("class")),
		Start:    strings.TrimSpace(c.Query("start")),
		End:      strings.TrimSpace(c.Query("end")),
		Format:   strings.TrimSpace(c.Query("format")),
	}
}

// Absences godoc
// @Summary Absence counts per student over a date range
// @Tags Reports
// @Produce json
// @Param section query string true "Boys or Girls"
// @Param division query string true "Division"
// @Param class query string false "Class. Whole division when empty"
// @Param start query string false "Start date. Defaults to 7 days ago"
// @Param end query string false "End date. Defaults to today"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /reports/absences [get]
func (h *ReportHandler) Absences(c *gin.Context) {
	start := time.Now()
	report, err := h.service.Build(reportQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, withMeta(c, start, map[string]interface{}{"count": len(report.Rows)}))
}

// Export godoc
// @Summary Download the absence report
// @Tags Reports
// @Produce octet-stream
// @Param section query string true "Boys or Girls"
// @Param division query string true "Division"
// @Param class query string false "Class"
// @Param start query string false "Start date"
// @Param end query string false "End date"
// @Param format query string false "csv, pdf or xlsx"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /reports/absences/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	file, err := h.service.Export(reportQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Payload)
}
