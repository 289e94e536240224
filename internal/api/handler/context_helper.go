package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	pkgerrors "github.com/S3bast1an022/ClassScore-1.8/pkg/errors"
	"github.com/S3bast1an022/ClassScore-1.8/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// handleStorageError 存储不可用统一返回 503。
// 命中时返回 true，调用方应直接 return。
func handleStorageError(c *gin.Context, err error) bool {
	if errors.Is(err, pkgerrors.ErrStorageUnavailable) {
		response.ServiceUnavailable(c)
		return true
	}
	return false
}
