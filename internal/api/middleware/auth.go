package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/khaifmono/memberbase/pkg/response"
	"github.com/khaifmono/memberbase/pkg/session"
)

// sessionKey gin.Context 中保存当前会话的键
const sessionKey = "session"

// SessionAuth 会话解析中间件
// 从 Cookie 或 Authorization: Bearer <token> 中提取令牌并解析服务端会话；
// 无令牌或会话无效时不拦截，由 RequireAdmin / RequireMember 决定是否放行
func SessionAuth(mgr *session.Manager, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c, cookieName)
		if token == "" {
			c.Next()
			return
		}

		sess, err := mgr.Resolve(c.Request.Context(), token)
		if err == nil {
			SetSession(c, sess)
		}

		c.Next()
	}
}

// TokenFromRequest 依次从 Cookie、Authorization 头读取会话令牌
func TokenFromRequest(c *gin.Context, cookieName string) string {
	if v, err := c.Cookie(cookieName); err == nil && v != "" {
		return v
	}

	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// SetSession 将会话写入上下文
func SetSession(c *gin.Context, sess *session.Session) {
	c.Set(sessionKey, sess)
}

// GetSession 读取 SessionAuth 注入的会话
func GetSession(c *gin.Context) (*session.Session, bool) {
	v, exists := c.Get(sessionKey)
	if !exists {
		return nil, false
	}
	sess, ok := v.(*session.Session)
	return sess, ok && sess != nil
}

// RequireAdmin 仅允许管理员会话
func RequireAdmin() gin.HandlerFunc {
	return requireKind(session.KindAdmin)
}

// RequireMember 仅允许会员会话
func RequireMember() gin.HandlerFunc {
	return requireKind(session.KindMember)
}

func requireKind(kind session.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := GetSession(c)
		if !ok || sess.Kind != kind {
			response.AbortUnauthorized(c)
			return
		}
		c.Next()
	}
}
