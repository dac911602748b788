package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-absence-api/internal/models"
	appErrors "github.com/noah-isme/sma-absence-api/pkg/errors"
	"github.com/noah-isme/sma-absence-api/pkg/response"
)

type authService interface {
	Login(ctx context.Context, req models.DivisionLoginRequest) (*models.DivisionLoginResponse, error)
}

// AuthHandler handles division unlock.
type AuthHandler struct {
	service authService
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(service authService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Division godoc
// @Summary Unlock a division for editing
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.DivisionLoginRequest true "Division password"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/division [post]
func (h *AuthHandler) Division(c *gin.Context) {
	var req models.DivisionLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	req.IP = c.ClientIP()
	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}
