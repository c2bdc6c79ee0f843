package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"worksphere/internal/shared/contextutil"
)

const requestIDHeader = "X-Request-ID"

// maxRequestIDLen bounds client-supplied ids before they reach logs and the
// outbox request_id column.
const maxRequestIDLen = 64

// RequestID propagates the caller's X-Request-ID, or mints a UUID when it is
// missing or unusable, and echoes it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if !usableRequestID(rid) {
			rid = uuid.NewString()
		}

		c.Request = c.Request.WithContext(contextutil.WithRequestID(c.Request.Context(), rid))
		c.Header(requestIDHeader, rid)
		c.Next()
	}
}

func usableRequestID(rid string) bool {
	if rid == "" || len(rid) > maxRequestIDLen {
		return false
	}
	for _, r := range rid {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}
