package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// NewMemory returns an in-process cache used when Redis is not configured.
func NewMemory(defaultTTL time.Duration) *gocache.Cache {
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	cleanup := defaultTTL / 2
	if cleanup < time.Minute {
		cleanup = time.Minute
	}
	return gocache.New(defaultTTL, cleanup)
}
