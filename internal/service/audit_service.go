package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/khaifmono/memberbase/internal/model"
	"github.com/khaifmono/memberbase/internal/repository"
)

// auditListLimit 审计日志列表返回的最大条数
const auditListLimit = 100

// AuditService 审计日志查询接口
// 写入统一走 recordAudit，与业务变更共用同一事务
type AuditService interface {
	List(ctx context.Context) ([]model.AuditLog, error)
}

type auditService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAuditService 创建 AuditService 实例
func NewAuditService(repo *repository.Repository, logger *zap.Logger) AuditService {
	return &auditService{repo: repo, logger: logger}
}

func (s *auditService) List(ctx context.Context) ([]model.AuditLog, error) {
	logs, err := s.repo.AuditLog.ListRecent(ctx, auditListLimit)
	if err != nil {
		s.logger.Error("查询审计日志失败", zap.Error(err))
		return nil, err
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	return logs, nil
}

// recordAudit 写入一条审计日志；repo 可以是事务内的 Repository
func recordAudit(
	ctx context.Context,
	repo *repository.Repository,
	adminID uint,
	action, targetType string,
	targetID uint,
	details map[string]interface{},
) error {
	entry := &model.AuditLog{
		AdminID:    &adminID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
	}
	if details != nil {
		raw, err := json.Marshal(details)
		if err != nil {
			return err
		}
		entry.Details = datatypes.JSON(raw)
	}
	return repo.AuditLog.Create(ctx, entry)
}
