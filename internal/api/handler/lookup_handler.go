package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/khaifmono/memberbase/internal/dto"
	"github.com/khaifmono/memberbase/internal/service"
	"github.com/khaifmono/memberbase/pkg/response"
)

// LookupHandler 基础数据 HTTP 处理器
type LookupHandler struct {
	lookupSvc service.LookupService
}

// NewLookupHandler 创建 LookupHandler
func NewLookupHandler(lookupSvc service.LookupService) *LookupHandler {
	return &LookupHandler{lookupSvc: lookupSvc}
}

// ────────────────────── 班级 ──────────────────────

// ListClasses GET /api/lookups/classes
func (h *LookupHandler) ListClasses(c *gin.Context) {
	classes, err := h.lookupSvc.ListClasses(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, classes)
}

// CreateClass POST /api/lookups/classes
func (h *LookupHandler) CreateClass(c *gin.Context) {
	adminID, ok := MustGetAdminID(c)
	if !ok {
		return
	}

	var req dto.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c)
		return
	}

	class, err := h.lookupSvc.CreateClass(c.Request.Context(), &req, adminID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.Created(c, class)
}

// DeleteClass DELETE /api/lookups/classes/:id
func (h *LookupHandler) DeleteClass(c *gin.Context) {
	h.deleteLookup(c, h.lookupSvc.DeleteClass)
}

// ────────────────────── 导师 ──────────────────────

// ListSupervisors GET /api/lookups/supervisors
func (h *LookupHandler) ListSupervisors(c *gin.Context) {
	supervisors, err := h.lookupSvc.ListSupervisors(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, supervisors)
}

// CreateSupervisor POST /api/lookups/supervisors
func (h *LookupHandler) CreateSupervisor(c *gin.Context) {
	adminID, ok := MustGetAdminID(c)
	if !ok {
		return
	}

	var req dto.CreateSupervisorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c)
		return
	}

	supervisor, err := h.lookupSvc.CreateSupervisor(c.Request.Context(), &req, adminID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.Created(c, supervisor)
}

// DeleteSupervisor DELETE /api/lookups/supervisors/:id
func (h *LookupHandler) DeleteSupervisor(c *gin.Context) {
	h.deleteLookup(c, h.lookupSvc.DeleteSupervisor)
}

// ────────────────────── 级别 ──────────────────────

// ListRanks GET /api/lookups/ranks
func (h *LookupHandler) ListRanks(c *gin.Context) {
	ranks, err := h.lookupSvc.ListRanks(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, ranks)
}

// CreateRank POST /api/lookups/ranks
func (h *LookupHandler) CreateRank(c *gin.Context) {
	adminID, ok := MustGetAdminID(c)
	if !ok {
		return
	}

	var req dto.CreateRankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c)
		return
	}

	rank, err := h.lookupSvc.CreateRank(c.Request.Context(), &req, adminID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.Created(c, rank)
}

// DeleteRank DELETE /api/lookups/ranks/:id
func (h *LookupHandler) DeleteRank(c *gin.Context) {
	h.deleteLookup(c, h.lookupSvc.DeleteRank)
}

// ── 内部辅助方法 ──

func (h *LookupHandler) deleteLookup(c *gin.Context, del func(ctx context.Context, id, adminID uint) error) {
	adminID, ok := MustGetAdminID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := del(c.Request.Context(), id, adminID); err != nil {
		if errors.Is(err, service.ErrLookupNotFound) {
			response.NotFound(c, response.MsgNotFound)
			return
		}
		response.InternalError(c)
		return
	}

	response.Message(c, "Deleted")
}
