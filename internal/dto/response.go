package dto

import "github.com/khaifmono/memberbase/internal/model"

// ── 通用响应 ──

// MessageResponse 仅含提示文案的响应
type MessageResponse struct {
	Message string `json:"message"`
}

// ── 分页请求 ──

// 分页上限；MaxPage*MaxLimit 不会使偏移量溢出
const (
	MaxPage  = 1000000
	MaxLimit = 100
)

// PaginationRequest 通用分页参数
type PaginationRequest struct {
	Page  int `form:"page"  binding:"omitempty,min=1,max=1000000"`
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

// GetPage 获取页码（含默认值）
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	if p.Page > MaxPage {
		return MaxPage
	}
	return p.Page
}

// GetLimit 获取每页数量（含默认值）
func (p *PaginationRequest) GetLimit() int {
	if p.Limit <= 0 {
		return 10
	}
	if p.Limit > MaxLimit {
		return MaxLimit
	}
	return p.Limit
}

// GetOffset 计算偏移量
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetLimit()
}

// TotalPages 计算总页数 ceil(total/limit)
func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := int(total) / limit
	if int(total)%limit > 0 {
		pages++
	}
	return pages
}

// ── 会员目录响应 ──

// MemberWithClasses 会员信息附带所属班级 ID 列表
type MemberWithClasses struct {
	model.Member
	Classes []uint `json:"classes"`
}

// MemberListResponse 会员分页列表
type MemberListResponse struct {
	Data       []MemberWithClasses `json:"data"`
	Total      int64               `json:"total"`
	Page       int                 `json:"page"`
	TotalPages int                 `json:"totalPages"`
}
