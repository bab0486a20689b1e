package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/khaifmono/memberbase/internal/api/middleware"
	"github.com/khaifmono/memberbase/pkg/response"
	"github.com/khaifmono/memberbase/pkg/session"
)

// MustGetAdminID 从 Gin 上下文中安全提取管理员 ID。
// 会话不存在或类型不符时写入 401 响应并返回 false，调用方应直接 return。
func MustGetAdminID(c *gin.Context) (uint, bool) {
	return mustGetSubject(c, session.KindAdmin)
}

// MustGetMemberID 从 Gin 上下文中安全提取会员 ID。
func MustGetMemberID(c *gin.Context) (uint, bool) {
	return mustGetSubject(c, session.KindMember)
}

func mustGetSubject(c *gin.Context, kind session.Kind) (uint, bool) {
	sess, ok := middleware.GetSession(c)
	if !ok || sess.Kind != kind || sess.SubjectID == 0 {
		response.Unauthorized(c)
		return 0, false
	}
	return sess.SubjectID, true
}

// parseIDParam 解析路径参数 :id，非法时写入 400 响应
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.ValidationError(c)
		return 0, false
	}
	return uint(id), true
}
