package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-absence-api/internal/dto"
	appErrors "github.com/noah-isme/sma-absence-api/pkg/errors"
	"github.com/noah-isme/sma-absence-api/pkg/response"
)

type readiness interface {
	Ready() bool
}

// Actor describes the caller from the session claims and client address.
func Actor(c *gin.Context) dto.Actor {
	actor := dto.Actor{IP: c.ClientIP()}
	if claims := Claims(c); claims != nil {
		actor.Division = claims.Division
		actor.AllAccess = claims.AllAccess
	}
	return actor
}

// RequireReady rejects requests until the first data load has finished.
func RequireReady(state readiness) gin.HandlerFunc {
	return func(c *gin.Context) {
		if state != nil && !state.Ready() {
			response.Error(c, appErrors.ErrNotReady)
			c.Abort()
			return
		}
		c.Next()
	}
}
