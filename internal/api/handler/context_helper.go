package handler

import (
	"github.com/gin-gonic/gin"

	"store-ops/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Fail(c, response.CodeUnauthorized)
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Fail(c, response.CodeUnauthorized)
		return "", false
	}
	return s, true
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get("role")
	if !exists {
		response.Fail(c, response.CodeUnauthorized)
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Fail(c, response.CodeUnauthorized)
		return "", false
	}
	return s, true
}

// GetCompanyID 读取 Token 中的 company_id，可能为空
func GetCompanyID(c *gin.Context) string {
	return c.GetString("company_id")
}
