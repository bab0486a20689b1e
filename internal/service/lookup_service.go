package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/khaifmono/memberbase/internal/dto"
	"github.com/khaifmono/memberbase/internal/model"
	"github.com/khaifmono/memberbase/internal/repository"
)

var ErrLookupNotFound = errors.New("记录不存在")

// LookupService 基础数据（班级 / 导师 / 级别）业务接口
// 创建与删除均写审计日志，删除为物理删除
type LookupService interface {
	ListClasses(ctx context.Context) ([]model.Class, error)
	CreateClass(ctx context.Context, req *dto.CreateClassRequest, adminID uint) (*model.Class, error)
	DeleteClass(ctx context.Context, id, adminID uint) error

	ListSupervisors(ctx context.Context) ([]model.Supervisor, error)
	CreateSupervisor(ctx context.Context, req *dto.CreateSupervisorRequest, adminID uint) (*model.Supervisor, error)
	DeleteSupervisor(ctx context.Context, id, adminID uint) error

	ListRanks(ctx context.Context) ([]model.Rank, error)
	CreateRank(ctx context.Context, req *dto.CreateRankRequest, adminID uint) (*model.Rank, error)
	DeleteRank(ctx context.Context, id, adminID uint) error
}

type lookupService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewLookupService 创建 LookupService 实例
func NewLookupService(repo *repository.Repository, logger *zap.Logger) LookupService {
	return &lookupService{repo: repo, logger: logger}
}

// ────────────────────── 班级 ──────────────────────

func (s *lookupService) ListClasses(ctx context.Context) ([]model.Class, error) {
	classes, err := s.repo.Lookup.ListClasses(ctx)
	if err != nil {
		s.logger.Error("查询班级列表失败", zap.Error(err))
		return nil, err
	}
	if classes == nil {
		classes = []model.Class{}
	}
	return classes, nil
}

func (s *lookupService) CreateClass(ctx context.Context, req *dto.CreateClassRequest, adminID uint) (*model.Class, error) {
	class := &model.Class{
		Name:     strings.TrimSpace(req.Name),
		Location: trimmedOrNil(req.Location),
		IsActive: activeOrDefault(req.IsActive),
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Lookup.CreateClass(ctx, class); err != nil {
			return err
		}
		return recordAudit(ctx, tx, adminID, model.AuditActionCreateLookup, model.AuditTargetClass, class.ID,
			map[string]interface{}{"name": class.Name})
	})
	if err != nil {
		s.logger.Error("创建班级失败", zap.Error(err))
		return nil, err
	}
	return class, nil
}

// DeleteClass 同时移除该班级的全部会员关联
func (s *lookupService) DeleteClass(ctx context.Context, id, adminID uint) error {
	return s.deleteLookup(ctx, model.AuditTargetClass, id, adminID, func(tx *repository.Repository) (int64, error) {
		return tx.Lookup.DeleteClass(ctx, id)
	})
}

// ────────────────────── 导师 ──────────────────────

func (s *lookupService) ListSupervisors(ctx context.Context) ([]model.Supervisor, error) {
	supervisors, err := s.repo.Lookup.ListSupervisors(ctx)
	if err != nil {
		s.logger.Error("查询导师列表失败", zap.Error(err))
		return nil, err
	}
	if supervisors == nil {
		supervisors = []model.Supervisor{}
	}
	return supervisors, nil
}

func (s *lookupService) CreateSupervisor(ctx context.Context, req *dto.CreateSupervisorRequest, adminID uint) (*model.Supervisor, error) {
	supervisor := &model.Supervisor{
		Name:     strings.TrimSpace(req.Name),
		IsActive: activeOrDefault(req.IsActive),
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Lookup.CreateSupervisor(ctx, supervisor); err != nil {
			return err
		}
		return recordAudit(ctx, tx, adminID, model.AuditActionCreateLookup, model.AuditTargetSupervisor, supervisor.ID,
			map[string]interface{}{"name": supervisor.Name})
	})
	if err != nil {
		s.logger.Error("创建导师失败", zap.Error(err))
		return nil, err
	}
	return supervisor, nil
}

func (s *lookupService) DeleteSupervisor(ctx context.Context, id, adminID uint) error {
	return s.deleteLookup(ctx, model.AuditTargetSupervisor, id, adminID, func(tx *repository.Repository) (int64, error) {
		return tx.Lookup.DeleteSupervisor(ctx, id)
	})
}

// ────────────────────── 级别 ──────────────────────

func (s *lookupService) ListRanks(ctx context.Context) ([]model.Rank, error) {
	ranks, err := s.repo.Lookup.ListRanks(ctx)
	if err != nil {
		s.logger.Error("查询级别列表失败", zap.Error(err))
		return nil, err
	}
	if ranks == nil {
		ranks = []model.Rank{}
	}
	return ranks, nil
}

func (s *lookupService) CreateRank(ctx context.Context, req *dto.CreateRankRequest, adminID uint) (*model.Rank, error) {
	rank := &model.Rank{
		Name:     strings.TrimSpace(req.Name),
		Level:    req.Level,
		IsActive: activeOrDefault(req.IsActive),
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Lookup.CreateRank(ctx, rank); err != nil {
			return err
		}
		return recordAudit(ctx, tx, adminID, model.AuditActionCreateLookup, model.AuditTargetRank, rank.ID,
			map[string]interface{}{"name": rank.Name})
	})
	if err != nil {
		s.logger.Error("创建级别失败", zap.Error(err))
		return nil, err
	}
	return rank, nil
}

func (s *lookupService) DeleteRank(ctx context.Context, id, adminID uint) error {
	return s.deleteLookup(ctx, model.AuditTargetRank, id, adminID, func(tx *repository.Repository) (int64, error) {
		return tx.Lookup.DeleteRank(ctx, id)
	})
}

// ── 内部辅助方法 ──

// deleteLookup 在事务中删除并写审计；记录不存在时返回 ErrLookupNotFound 且不写审计
func (s *lookupService) deleteLookup(
	ctx context.Context,
	targetType string,
	id, adminID uint,
	del func(tx *repository.Repository) (int64, error),
) error {
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		affected, err := del(tx)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrLookupNotFound
		}
		return recordAudit(ctx, tx, adminID, model.AuditActionDeleteLookup, targetType, id, nil)
	})
	if err != nil && !errors.Is(err, ErrLookupNotFound) {
		s.logger.Error("删除基础数据失败", zap.String("target_type", targetType), zap.Uint("id", id), zap.Error(err))
	}
	return err
}

// activeOrDefault 未指定时默认启用
func activeOrDefault(v *bool) bool {
	if v == nil {
		return true
	}
	return *v
}
