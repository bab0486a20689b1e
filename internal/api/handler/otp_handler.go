package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/khaifmono/memberbase/internal/dto"
	"github.com/khaifmono/memberbase/internal/service"
	"github.com/khaifmono/memberbase/pkg/response"
	"github.com/khaifmono/memberbase/pkg/session"
)

// OtpHandler 会员 OTP 登录 / 自助登记 HTTP 处理器
type OtpHandler struct {
	regSvc service.RegistrationService
	issuer *SessionIssuer
}

// NewOtpHandler 创建 OtpHandler
func NewOtpHandler(regSvc service.RegistrationService, issuer *SessionIssuer) *OtpHandler {
	return &OtpHandler{regSvc: regSvc, issuer: issuer}
}

// Request 申请验证码
// POST /api/auth/otp/request
func (h *OtpHandler) Request(c *gin.Context) {
	var req dto.OtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c)
		return
	}

	result, err := h.regSvc.RequestOtp(c.Request.Context(), &req)
	if err != nil {
		h.handleOtpError(c, err)
		return
	}

	response.OK(c, result)
}

// Verify 校验验证码，识别 / 登记会员并建立会员会话
// POST /api/auth/otp/verify
func (h *OtpHandler) Verify(c *gin.Context) {
	var req dto.OtpVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c)
		return
	}

	member, err := h.regSvc.VerifyAndRegister(c.Request.Context(), &req)
	if err != nil {
		h.handleOtpError(c, err)
		return
	}

	if err := h.issuer.Start(c, session.KindMember, member.ID); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, dto.OtpVerifyResponse{Token: dto.SessionToken, Member: member})
}

func (h *OtpHandler) handleOtpError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidOtp):
		response.BadRequest(c, "Invalid or expired OTP")
	case errors.Is(err, service.ErrOtpRateLimited):
		response.TooManyRequests(c, "Too many OTP requests, please try again later")
	case errors.Is(err, service.ErrOtpNotOwner):
		response.BadRequest(c, "Invalid or expired OTP")
	case errors.Is(err, service.ErrEmailExists):
		response.Conflict(c, "Email already in use")
	case errors.Is(err, service.ErrOtpDelivery):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
