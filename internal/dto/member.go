package dto

// ── 会员模块 DTO ──

// MemberListRequest 会员列表查询参数
type MemberListRequest struct {
	PaginationRequest
	Search  string `form:"search"  binding:"omitempty,max=100"`
	ClassID *uint  `form:"classId" binding:"omitempty,min=1"`
}

// PreRegisterRequest 管理员预登记请求
type PreRegisterRequest struct {
	ICNumber string  `json:"icNumber" binding:"required,max=32"`
	Email    string  `json:"email"    binding:"required,email"`
	Name     *string `json:"name"     binding:"omitempty,max=200"`
}

// MemberProfileFields 会员可编辑的个人资料字段（全部可选，nil 表示不修改）
type MemberProfileFields struct {
	FullName               *string `json:"fullName"               binding:"omitempty,max=200"`
	Nickname               *string `json:"nickname"               binding:"omitempty,max=100"`
	Gender                 *string `json:"gender"                 binding:"omitempty,max=20"`
	DOB                    *string `json:"dob"                    binding:"omitempty,max=20"`
	Phone                  *string `json:"phone"                  binding:"omitempty,max=30"`
	Address                *string `json:"address"                binding:"omitempty,max=500"`
	Postcode               *string `json:"postcode"               binding:"omitempty,max=10"`
	City                   *string `json:"city"                   binding:"omitempty,max=100"`
	State                  *string `json:"state"                  binding:"omitempty,max=100"`
	Occupation             *string `json:"occupation"             binding:"omitempty,max=200"`
	EmployerName           *string `json:"employerName"           binding:"omitempty,max=200"`
	EmployerAddress        *string `json:"employerAddress"        binding:"omitempty,max=500"`
	KinName                *string `json:"kinName"                binding:"omitempty,max=200"`
	KinRelation            *string `json:"kinRelation"            binding:"omitempty,max=100"`
	KinPhone               *string `json:"kinPhone"               binding:"omitempty,max=30"`
	HasSilatExperience     *bool   `json:"hasSilatExperience"`
	SilatExperienceDetails *string `json:"silatExperienceDetails" binding:"omitempty,max=1000"`
	CompletedCekak         *bool   `json:"completedCekak"`
	// ClassIDs 非 nil 时整体替换班级关联；空数组表示清空
	ClassIDs *[]uint `json:"classIds"`
}

// UpdateMemberRequest 管理员更新会员请求
// 注册状态只能通过 OTP 校验变更，这里不接受 isRegistered / isPreRegistered
type UpdateMemberRequest struct {
	ICNumber *string `json:"icNumber" binding:"omitempty,min=1,max=32"`
	Email    *string `json:"email"    binding:"omitempty,email"`
	MemberProfileFields
}

// UpdateSelfRequest 会员自助更新资料请求
type UpdateSelfRequest struct {
	MemberProfileFields
	// PDPAConsent 首次为 true 时记录同意时间
	PDPAConsent *bool `json:"pdpaConsent"`
}

// MemberStatsResponse 管理端仪表盘统计
type MemberStatsResponse struct {
	Total      int64 `json:"total"`
	Registered int64 `json:"registered"`
	Pending    int64 `json:"pending"`
}

// ImportMemberResponse 批量预登记响应
type ImportMemberResponse struct {
	Total   int                 `json:"total"`
	Success int                 `json:"success"`
	Failed  int                 `json:"failed"`
	Errors  []ImportMemberError `json:"errors,omitempty"`
}

// ImportMemberError 导入错误详情
type ImportMemberError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}
