package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/khaifmono/memberbase/internal/model"
)

// AuditLogRepository 审计日志数据访问接口（只追加，无更新/删除）
type AuditLogRepository interface {
	Create(ctx context.Context, log *model.AuditLog) error
	ListRecent(ctx context.Context, limit int) ([]model.AuditLog, error)
	CountByTarget(ctx context.Context, targetType string, targetID uint) (int64, error)
}

// auditLogRepo AuditLogRepository 的 GORM 实现
type auditLogRepo struct {
	db *gorm.DB
}

// NewAuditLogRepo 创建 AuditLogRepository 实例
func NewAuditLogRepo(db *gorm.DB) AuditLogRepository {
	return &auditLogRepo{db: db}
}

func (r *auditLogRepo) Create(ctx context.Context, log *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *auditLogRepo) ListRecent(ctx context.Context, limit int) ([]model.AuditLog, error) {
	var logs []model.AuditLog
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *auditLogRepo) CountByTarget(ctx context.Context, targetType string, targetID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.AuditLog{}).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Count(&count).Error
	return count, err
}
