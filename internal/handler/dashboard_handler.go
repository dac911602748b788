package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-absence-api/internal/absence"
	"github.com/noah-isme/sma-absence-api/internal/dto"
	"github.com/noah-isme/sma-absence-api/pkg/response"
)

type dashboardService interface {
	Summary(query dto.DashboardQuery) (*absence.DashboardStats, error)
}

// DashboardHandler wires the division dashboard.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Summary godoc
// @Summary Division attendance summary for a day
// @Tags Dashboard
// @Produce json
// @Param section query string true "Boys or Girls"
// @Param division query string true "Division"
// @Param date query string false "Date (YYYY-MM-DD). Defaults to today"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	start := time.Now()
	stats, err := h.service.Summary(dto.DashboardQuery{
		Section:  strings.TrimSpace(c.Query("section")),
		Division: strings.TrimSpace(c.Query("division")),
		Date:     strings.TrimSpace(c.Query("date")),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, withMeta(c, start, nil))
}
