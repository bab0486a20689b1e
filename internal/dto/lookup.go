package dto

// ── 基础数据（班级 / 导师 / 级别）DTO ──

// CreateClassRequest 创建班级请求
type CreateClassRequest struct {
	Name     string  `json:"name"     binding:"required,max=200"`
	Location *string `json:"location" binding:"omitempty,max=200"`
	IsActive *bool   `json:"isActive"`
}

// CreateSupervisorRequest 创建导师请求
type CreateSupervisorRequest struct {
	Name     string `json:"name"     binding:"required,max=200"`
	IsActive *bool  `json:"isActive"`
}

// CreateRankRequest 创建级别请求
type CreateRankRequest struct {
	Name     string `json:"name"     binding:"required,max=200"`
	Level    *int   `json:"level"    binding:"omitempty,min=0"`
	IsActive *bool  `json:"isActive"`
}
