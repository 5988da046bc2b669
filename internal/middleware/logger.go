package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger middleware logs HTTP requests
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Start timer
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		// Process request
		c.Next()

		latency := time.Since(start)

		if raw != "" {
			path = path + "?" + raw
		}

		subject := c.GetString(SubjectKey)
		if subject == "" {
			subject = "-"
		}

		log.Printf("[%s] %s %s %s %s %d %v %d %s",
			c.GetString(RequestIDKey),
			subject,
			c.Request.Method,
			path,
			c.ClientIP(),
			c.Writer.Status(),
			latency,
			c.Writer.Size(),
			c.Errors.String(),
		)
	}
}
