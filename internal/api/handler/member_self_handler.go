package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/khaifmono/memberbase/internal/dto"
	"github.com/khaifmono/memberbase/internal/service"
	"github.com/khaifmono/memberbase/pkg/response"
)

// MemberSelfHandler 会员自助 HTTP 处理器
type MemberSelfHandler struct {
	memberSvc service.MemberService
	issuer    *SessionIssuer
}

// NewMemberSelfHandler 创建 MemberSelfHandler
func NewMemberSelfHandler(memberSvc service.MemberService, issuer *SessionIssuer) *MemberSelfHandler {
	return &MemberSelfHandler{memberSvc: memberSvc, issuer: issuer}
}

// GetMe 当前会员资料
// GET /api/member/me
func (h *MemberSelfHandler) GetMe(c *gin.Context) {
	memberID, ok := MustGetMemberID(c)
	if !ok {
		return
	}

	member, err := h.memberSvc.Get(c.Request.Context(), memberID)
	if err != nil {
		h.handleSelfError(c, err)
		return
	}

	response.OK(c, member)
}

// UpdateMe 更新本人资料
// PUT /api/member/me
func (h *MemberSelfHandler) UpdateMe(c *gin.Context) {
	memberID, ok := MustGetMemberID(c)
	if !ok {
		return
	}

	var req dto.UpdateSelfRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c)
		return
	}

	member, err := h.memberSvc.UpdateSelf(c.Request.Context(), memberID, &req)
	if err != nil {
		h.handleSelfError(c, err)
		return
	}

	response.OK(c, member)
}

// Logout 会员登出
// POST /api/member/logout
func (h *MemberSelfHandler) Logout(c *gin.Context) {
	h.issuer.End(c)
	response.Message(c, "Logged out")
}

func (h *MemberSelfHandler) handleSelfError(c *gin.Context, err error) {
	switch {
	// 会话仍在但会员已被管理员删除
	case errors.Is(err, service.ErrMemberNotFound):
		response.Unauthorized(c)
	case errors.Is(err, service.ErrInvalidClass):
		response.BadRequest(c, "Invalid class")
	default:
		response.InternalError(c)
	}
}
