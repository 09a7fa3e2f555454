package shared

import (
	"github.com/lunapatch/storefront/internal/http/response"

	"github.com/gin-gonic/gin"
)

// SessionIDKey 会话 ID 在 gin 上下文中的键
const SessionIDKey = "session_id"

// GetSessionID 读取会话 ID，缺失时直接返回错误响应。
func GetSessionID(c *gin.Context) (string, bool) {
	sessionID := c.GetString(SessionIDKey)
	if sessionID == "" {
		RespondError(c, response.CodeBadRequest, "error.session_invalid", nil)
		return "", false
	}
	return sessionID, true
}
