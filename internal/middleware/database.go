package middleware

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// RequireDatabase rejects requests with 503 when the server started without a
// database connection, or when the connection has since been lost. Flight
// search routes are not behind this gate, so the proxy keeps working in
// degraded mode.
func RequireDatabase(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Database unavailable"})
			return
		}
		// A dropped connection reads as 503 here instead of a 500 per handler
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Database unavailable"})
			return
		}
		c.Next()
	}
}
