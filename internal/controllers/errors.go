package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rotisserie/eris"
	"gorm.io/gorm"
)

// Every error body follows the same shape: error, code, optional details and
// suggestion. The HTTP status carries the category.

// isConnectionError detects the driver-level failures that should surface as
// 503 instead of a generic 500.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "failed to connect") ||
		strings.Contains(msg, "broken pipe")
}

// storageFailure maps an unexpected storage-layer error onto the public
// taxonomy: unique violations become slug conflicts, connection failures
// become 503, everything else is a detail-free 500.
func storageFailure(c *gin.Context, err error) {
	switch {
	case eris.Is(err, gorm.ErrDuplicatedKey):
		c.JSON(http.StatusConflict, gin.H{
			"error": "This slug is already in use",
			"code":  "DUPLICATE_SLUG",
		})
	case isConnectionError(err):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Database temporarily unavailable",
			"code":    "DATABASE_UNAVAILABLE",
			"details": "Please try again in a few moments",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
			"code":  "INTERNAL_ERROR",
		})
	}
}

const (
	cacheControlPublic  = "public, s-maxage=300, stale-while-revalidate=60"
	cacheControlPrivate = "no-cache, no-store, must-revalidate"
)
