package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 对外错误文案（客户端依赖这些固定字符串）
const (
	MsgValidation   = "Validation error"
	MsgUnauthorized = "Unauthorized"
	MsgNotFound     = "Not found"
	MsgInternal     = "Internal server error"
)

// MessageBody 统一错误/提示响应体，只暴露文案，不暴露错误码
type MessageBody struct {
	Message string `json:"message"`
}

// ── 成功响应 ──

// OK 200 直接返回数据本体
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 201 创建成功
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Message 200 仅返回提示文案
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageBody{Message: message})
}

// ── 错误响应 ──

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, MessageBody{Message: message})
}

// ── 常见快捷方式 ──

// BadRequest 400
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// ValidationError 400 请求体校验失败，不透出字段细节
func ValidationError(c *gin.Context) {
	Error(c, http.StatusBadRequest, MsgValidation)
}

// Unauthorized 401
func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, MsgUnauthorized)
}

// NotFound 404
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// Conflict 409
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

// TooManyRequests 429
func TooManyRequests(c *gin.Context, message string) {
	Error(c, http.StatusTooManyRequests, message)
}

// InternalError 500
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, MsgInternal)
}

// AbortUnauthorized 401 并中止后续处理（中间件使用）
func AbortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, MessageBody{Message: MsgUnauthorized})
}
