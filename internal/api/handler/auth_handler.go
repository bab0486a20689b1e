package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khaifmono/memberbase/internal/dto"
	"github.com/khaifmono/memberbase/internal/service"
	"github.com/khaifmono/memberbase/pkg/response"
	"github.com/khaifmono/memberbase/pkg/session"
)

// AdminAuthHandler 管理员认证 HTTP 处理器
type AdminAuthHandler struct {
	authSvc service.AdminAuthService
	issuer  *SessionIssuer
}

// NewAdminAuthHandler 创建 AdminAuthHandler
func NewAdminAuthHandler(authSvc service.AdminAuthService, issuer *SessionIssuer) *AdminAuthHandler {
	return &AdminAuthHandler{authSvc: authSvc, issuer: issuer}
}

// Login 管理员登录
// POST /api/admin/login
func (h *AdminAuthHandler) Login(c *gin.Context) {
	var req dto.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c)
		return
	}

	admin, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		response.InternalError(c)
		return
	}

	if err := h.issuer.Start(c, session.KindAdmin, admin.ID); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, dto.AdminLoginResponse{Token: dto.SessionToken, Admin: admin})
}

// Logout 管理员登出
// POST /api/admin/logout
func (h *AdminAuthHandler) Logout(c *gin.Context) {
	h.issuer.End(c)
	response.Message(c, "Logged out")
}

// Me 当前管理员信息
// GET /api/admin/me
func (h *AdminAuthHandler) Me(c *gin.Context) {
	adminID, ok := MustGetAdminID(c)
	if !ok {
		return
	}

	admin, err := h.authSvc.GetByID(c.Request.Context(), adminID)
	if err != nil {
		// 会话仍在但管理员已被删除
		if errors.Is(err, service.ErrAdminNotFound) {
			response.Unauthorized(c)
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, admin)
}
