package middlewares

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// HTTPErrorResponse is the error body shape returned by every endpoint.
type HTTPErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RespondJSON writes a JSON response to the client.
func RespondJSON(c *gin.Context, data interface{}, status int) {
	c.JSON(status, data)
}

// HttpError logs an error and writes the standard error body.
func HttpError(c *gin.Context, message string, status int, err error) {
	if err != nil {
		log.Printf("HTTP %d - %s: %v", status, message, err)
	}
	c.AbortWithStatusJSON(status, HTTPErrorResponse{Code: status, Message: message})
}

// EnforceJSON rejects mutating requests whose body is not JSON.
func EnforceJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodPost || c.Request.Method == http.MethodPut {
			contentType := c.GetHeader("Content-Type")
			if c.Request.ContentLength != 0 && !strings.HasPrefix(contentType, "application/json") {
				HttpError(c, "Unsupported media type", http.StatusUnsupportedMediaType, nil)
				return
			}
		}
		c.Next()
	}
}

// LoggingMiddleware logs information about incoming requests.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		log.Printf("Request: %s %s | Status: %d | Duration: %v",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
