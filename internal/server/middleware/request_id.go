package middleware

import (
	"github.com/gin-gonic/gin"

	"campusai/internal/pkg/id"
)

// RequestIDHeader 请求ID header名
const RequestIDHeader = "X-Request-ID"

// RequestID 请求ID中间件
// 透传上游带来的请求ID，没有则生成一个，并回写到响应头
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = id.New()
		}

		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}
