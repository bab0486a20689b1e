package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/khaifmono/memberbase/internal/service"
	"github.com/khaifmono/memberbase/pkg/response"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportMembers 导出全部会员
// GET /api/members/export?format=csv|xlsx（默认 csv）
func (h *ExportHandler) ExportMembers(c *gin.Context) {
	var (
		export      func(ctx context.Context) (*bytes.Buffer, string, error)
		contentType string
	)
	switch c.DefaultQuery("format", "csv") {
	case "csv":
		export, contentType = h.exportSvc.ExportCSV, contentTypeCSV
	case "xlsx":
		export, contentType = h.exportSvc.ExportXLSX, contentTypeXLSX
	default:
		response.ValidationError(c)
		return
	}

	buf, filename, err := export(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	// 设置下载响应头
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
