package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ndutagrace25/esperanza-internal/internal/interfaces/http/dto"
)

// DefaultBodyLimit is the default maximum request body size (10 MiB),
// sized for receipt image uploads.
const DefaultBodyLimit int64 = 10 << 20

// BodyLimit returns a middleware that rejects requests with bodies larger
// than maxBytes. A zero or negative limit applies the default.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		maxBytes = DefaultBodyLimit
	}
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeBadRequest,
				"Request body too large",
				GetRequestID(c),
			))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
