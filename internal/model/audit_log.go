package model

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog 审计日志表，对应 audit_logs，只追加不修改
type AuditLog struct {
	ID         uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	AdminID    *uint          `gorm:"index"                    json:"adminId"`
	Action     string         `gorm:"type:text;not null"       json:"action"`
	TargetType string         `gorm:"type:text;not null"       json:"targetType"`
	TargetID   uint           `gorm:"not null"                 json:"targetId"`
	Details    datatypes.JSON `json:"details"`
	CreatedAt  time.Time      `gorm:"not null;autoCreateTime;index" json:"createdAt"`

	Admin *Admin `gorm:"foreignKey:AdminID" json:"-"`
}

// TableName 指定表名
func (AuditLog) TableName() string { return "audit_logs" }
