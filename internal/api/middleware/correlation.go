package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CorrelationIDHeader carries the request correlation ID between services.
const CorrelationIDHeader = "X-Correlation-ID"

// CorrelationIDKey is the gin context key the correlation ID is stored under.
const CorrelationIDKey = "correlation_id"

// CorrelationID tags every request with a correlation ID. A caller-supplied
// header value is trusted as-is so IDs survive hops through upstream
// services; otherwise a fresh UUID is minted. The ID is echoed back in the
// response header and stashed in the gin context for handlers and logging.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(CorrelationIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(CorrelationIDKey, id)
		c.Header(CorrelationIDHeader, id)
		c.Next()
	}
}

// GetCorrelationID returns the request's correlation ID, or "" when the
// middleware has not run.
func GetCorrelationID(c *gin.Context) string {
	v, ok := c.Get(CorrelationIDKey)
	if !ok {
		return ""
	}
	id, _ := v.(string)
	return id
}
