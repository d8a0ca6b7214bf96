package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "doggy-rescue/internal/transport/http/response"
)

// MaxBodyBytes limits request bodies to n bytes.
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			c.AbortWithStatusJSON(resp.CodeTooLarge, resp.Error(resp.CodeTooLarge, "request body too large"))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
