package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-absence-api/internal/dto"
	"github.com/noah-isme/sma-absence-api/internal/middleware"
	"github.com/noah-isme/sma-absence-api/internal/models"
	appErrors "github.com/noah-isme/sma-absence-api/pkg/errors"
	"github.com/noah-isme/sma-absence-api/pkg/response"
)

type dataService interface {
	Ready() bool
	Status() dto.DataStatus
	Refresh(ctx context.Context, purge bool) dto.DataStatus
}

type auditRecorder interface {
	Record(entry models.AuditLog)
}

// DataHandler reports and reloads the school data snapshot.
type DataHandler struct {
	service dataService
	audit   auditRecorder
}

// NewDataHandler constructs the handler.
func NewDataHandler(service dataService, audit auditRecorder) *DataHandler {
	return &DataHandler{service: service, audit: audit}
}

// Status godoc
// @Summary Current snapshot origin and size
// @Tags Data
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /data/status [get]
func (h *DataHandler) Status(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Status())
}

// Refresh godoc
// @Summary Reload roster and history from the sheet
// @Tags Data
// @Produce json
// @Security BearerAuth
// @Param purge query bool false "Drop the cached fallback first"
// @Success 200 {object} response.Envelope
// @Router /data/refresh [post]
func (h *DataHandler) Refresh(c *gin.Context) {
	purge, _ := strconv.ParseBool(c.DefaultQuery("purge", "false"))
	status := h.service.Refresh(c.Request.Context(), purge)
	if h.audit != nil {
		actor := middleware.Actor(c)
		entry := models.AuditLog{Action: models.AuditActionSnapshotReload, Resource: "snapshot", IPAddress: actor.IP}
		if actor.Division != "" {
			division := actor.Division
			entry.Division = &division
		}
		h.audit.Record(entry)
	}
	response.JSON(c, http.StatusOK, status)
}

// Health responds while the process is alive.
func (h *DataHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready responds 200 once the first load has finished.
func (h *DataHandler) Ready(c *gin.Context) {
	if !h.service.Ready() {
		response.Error(c, appErrors.ErrNotReady)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "source": h.service.Status().Source})
}
