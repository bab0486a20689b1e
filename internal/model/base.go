package model

import "time"

// Timestamps 通用时间字段（会员等可变实体嵌入）
type Timestamps struct {
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// Audit 动作与目标类型常量
const (
	AuditActionPreRegister  = "PRE_REGISTER"
	AuditActionUpdateMember = "UPDATE_MEMBER"
	AuditActionDeleteMember = "DELETE_MEMBER"
	AuditActionCreateLookup = "CREATE_LOOKUP"
	AuditActionDeleteLookup = "DELETE_LOOKUP"

	AuditTargetMember     = "MEMBER"
	AuditTargetClass      = "CLASS"
	AuditTargetSupervisor = "SUPERVISOR"
	AuditTargetRank       = "RANK"
)
