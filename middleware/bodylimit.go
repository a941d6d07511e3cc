package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// BodyLimit caps request bodies at limit bytes. A declared length over the
// cap is refused before anything is read; otherwise reads past the cap fail.
// A limit of zero or less disables the check.
func BodyLimit(limit int64, onReject gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 || c.Request.Body == nil || safeMethod(c.Request.Method) {
			c.Next()
			return
		}
		if c.Request.ContentLength > limit {
			reject(c, http.StatusRequestEntityTooLarge, "Request body too large", onReject)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}

// reject answers API requests with a JSON error and hands page requests to
// page, which writes its own status.
func reject(c *gin.Context, status int, message string, page gin.HandlerFunc) {
	if page == nil || strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.AbortWithStatusJSON(status, gin.H{"error": message})
		return
	}
	page(c)
	c.Abort()
}
