package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-absence-api/internal/middleware"
)

// withMeta merges the request metadata with extra values.
func withMeta(c *gin.Context, start time.Time, extra map[string]interface{}) map[string]interface{} {
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	for k, v := range extra {
		meta[k] = v
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	return meta
}
