package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"store-ops/pkg/response"
)

// BodyLimit 请求体大小限制中间件
// 声明长度超限的请求直接拒绝，未声明长度的请求在读取时截断
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.Fail(c, response.CodeBodyTooLarge)
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()
	}
}
