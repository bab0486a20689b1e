package handler

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/khaifmono/memberbase/internal/dto"
	"github.com/khaifmono/memberbase/internal/service"
	"github.com/khaifmono/memberbase/pkg/response"
)

// MemberHandler 会员管理（管理员）HTTP 处理器
type MemberHandler struct {
	memberSvc service.MemberService
	regSvc    service.RegistrationService
}

// NewMemberHandler 创建 MemberHandler
func NewMemberHandler(memberSvc service.MemberService, regSvc service.RegistrationService) *MemberHandler {
	return &MemberHandler{memberSvc: memberSvc, regSvc: regSvc}
}

// ListMembers 会员分页列表
// GET /api/members?page=&limit=&search=&classId=
func (h *MemberHandler) ListMembers(c *gin.Context) {
	var req dto.MemberListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ValidationError(c)
		return
	}

	result, err := h.memberSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Stats 仪表盘统计
// GET /api/members/stats
func (h *MemberHandler) Stats(c *gin.Context) {
	stats, err := h.memberSvc.Stats(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, stats)
}

// GetMember 会员详情（含班级 ID）
// GET /api/members/:id
func (h *MemberHandler) GetMember(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	member, err := h.memberSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleMemberError(c, err)
		return
	}

	response.OK(c, member)
}

// PreRegister 预登记会员
// POST /api/members/pre-register
func (h *MemberHandler) PreRegister(c *gin.Context) {
	adminID, ok := MustGetAdminID(c)
	if !ok {
		return
	}

	var req dto.PreRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c)
		return
	}

	member, err := h.regSvc.PreRegister(c.Request.Context(), &req, adminID)
	if err != nil {
		h.handleMemberError(c, err)
		return
	}

	response.Created(c, member)
}

// UpdateMember 更新会员资料与班级
// PUT /api/members/:id
func (h *MemberHandler) UpdateMember(c *gin.Context) {
	adminID, ok := MustGetAdminID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c)
		return
	}

	member, err := h.memberSvc.Update(c.Request.Context(), id, &req, adminID)
	if err != nil {
		h.handleMemberError(c, err)
		return
	}

	response.OK(c, member)
}

// DeleteMember 删除会员
// DELETE /api/members/:id
func (h *MemberHandler) DeleteMember(c *gin.Context) {
	adminID, ok := MustGetAdminID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.memberSvc.Delete(c.Request.Context(), id, adminID); err != nil {
		h.handleMemberError(c, err)
		return
	}

	response.Message(c, "Deleted")
}

// ImportMembers 通过 Excel 批量预登记
// POST /api/members/import (multipart, 字段名 file)
func (h *MemberHandler) ImportMembers(c *gin.Context) {
	adminID, ok := MustGetAdminID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "File is required")
		return
	}
	if strings.ToLower(filepath.Ext(fileHeader.Filename)) != ".xlsx" {
		response.BadRequest(c, "Only .xlsx files are supported")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "File is required")
		return
	}
	defer file.Close()

	rows, err := h.regSvc.ParseImportFile(file)
	if err != nil {
		h.handleImportError(c, err)
		return
	}

	result, err := h.regSvc.ImportPreRegistrations(c.Request.Context(), rows, adminID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

func (h *MemberHandler) handleMemberError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMemberNotFound):
		response.NotFound(c, response.MsgNotFound)
	case errors.Is(err, service.ErrDuplicateIC):
		response.Conflict(c, "IC number already exists")
	case errors.Is(err, service.ErrEmailExists):
		response.Conflict(c, "Email already in use")
	case errors.Is(err, service.ErrInvalidClass):
		response.BadRequest(c, "Invalid class")
	default:
		response.InternalError(c)
	}
}

func (h *MemberHandler) handleImportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrImportNoData):
		response.BadRequest(c, "File contains no data rows")
	case errors.Is(err, service.ErrImportTooManyRows):
		response.BadRequest(c, "Too many rows")
	case errors.Is(err, service.ErrImportBadHeader):
		response.BadRequest(c, "Header must contain IC and Email columns")
	case errors.Is(err, service.ErrImportBadFile):
		response.BadRequest(c, "Unable to read Excel file")
	default:
		response.InternalError(c)
	}
}
