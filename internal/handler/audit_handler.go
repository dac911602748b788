package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-absence-api/internal/dto"
	"github.com/noah-isme/sma-absence-api/internal/middleware"
	"github.com/noah-isme/sma-absence-api/internal/models"
	"github.com/noah-isme/sma-absence-api/pkg/response"
)

type auditService interface {
	Recent(ctx context.Context, actor dto.Actor, limit int) ([]models.AuditLog, error)
}

// AuditHandler lists the mutation audit trail.
type AuditHandler struct {
	service auditService
}

// NewAuditHandler constructs the handler.
func NewAuditHandler(service auditService) *AuditHandler {
	return &AuditHandler{service: service}
}

// Recent godoc
// @Summary Recent changes visible to the session
// @Tags Audit
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max entries (default 50)"
// @Success 200 {object} response.Envelope
// @Router /audit [get]
func (h *AuditHandler) Recent(c *gin.Context) {
	start := time.Now()
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	logs, err := h.service.Recent(c.Request.Context(), middleware.Actor(c), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, withMeta(c, start, map[string]interface{}{"count": len(logs)}))
}
