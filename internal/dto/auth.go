package dto

import "github.com/khaifmono/memberbase/internal/model"

// ── 管理员认证 DTO ──

// AdminLoginRequest 管理员登录请求
type AdminLoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AdminLoginResponse 管理员登录响应
// token 字段保持固定值 "session"，真实凭证通过 HttpOnly Cookie 下发
type AdminLoginResponse struct {
	Token string       `json:"token"`
	Admin *model.Admin `json:"admin"`
}

// ── 会员 OTP 认证 DTO ──

// OtpRequest 申请验证码请求
type OtpRequest struct {
	ICNumber string `json:"icNumber" binding:"required,max=32"`
	Email    string `json:"email"    binding:"required,email"`
}

// OtpRequestResponse 申请验证码响应
type OtpRequestResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}

// OtpVerifyRequest 校验验证码请求
type OtpVerifyRequest struct {
	ICNumber string `json:"icNumber" binding:"required,max=32"`
	Email    string `json:"email"    binding:"required,email"`
	Code     string `json:"code"     binding:"required,max=16"`
}

// OtpVerifyResponse 校验成功响应
type OtpVerifyResponse struct {
	Token  string        `json:"token"`
	Member *model.Member `json:"member"`
}

// SessionToken 登录响应中 token 字段的固定值
const SessionToken = "session"
