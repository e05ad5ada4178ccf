package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Recovery turns a panic in a handler into a JSON 500.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("[Recovery] %s %s panicked: %v", c.Request.Method, c.Request.URL.Path, recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error"})
	})
}

// RequestLogger logs one line per request, including any errors handlers
// attached with c.Error.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) > 0 {
			log.Printf("[HTTP] %s %s -> %d: %s", c.Request.Method, c.FullPath(), c.Writer.Status(), c.Errors.String())
			return
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Printf("[HTTP] %s %s -> %d", c.Request.Method, c.FullPath(), c.Writer.Status())
		}
	}
}
