package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/khaifmono/memberbase/internal/service"
	"github.com/khaifmono/memberbase/pkg/response"
)

// AuditHandler 审计日志 HTTP 处理器
type AuditHandler struct {
	auditSvc service.AuditService
}

// NewAuditHandler 创建 AuditHandler
func NewAuditHandler(auditSvc service.AuditService) *AuditHandler {
	return &AuditHandler{auditSvc: auditSvc}
}

// ListAuditLogs 最近 100 条审计日志
// GET /api/audit-logs
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	logs, err := h.auditSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, logs)
}
