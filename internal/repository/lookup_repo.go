package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/khaifmono/memberbase/internal/model"
)

// LookupRepository 基础数据（班级 / 导师 / 级别）数据访问接口
type LookupRepository interface {
	// ── 班级 ──
	ListClasses(ctx context.Context) ([]model.Class, error)
	CreateClass(ctx context.Context, class *model.Class) error
	// DeleteClass 先删除该班级的会员关联再删除班级，需在事务中调用
	DeleteClass(ctx context.Context, id uint) (int64, error)

	// ── 导师 ──
	ListSupervisors(ctx context.Context) ([]model.Supervisor, error)
	CreateSupervisor(ctx context.Context, supervisor *model.Supervisor) error
	DeleteSupervisor(ctx context.Context, id uint) (int64, error)

	// ── 级别 ──
	ListRanks(ctx context.Context) ([]model.Rank, error)
	CreateRank(ctx context.Context, rank *model.Rank) error
	DeleteRank(ctx context.Context, id uint) (int64, error)
}

// lookupRepo LookupRepository 的 GORM 实现
type lookupRepo struct {
	db *gorm.DB
}

// NewLookupRepo 创建 LookupRepository 实例
func NewLookupRepo(db *gorm.DB) LookupRepository {
	return &lookupRepo{db: db}
}

// ────────────────────── 班级 ──────────────────────

func (r *lookupRepo) ListClasses(ctx context.Context) ([]model.Class, error) {
	var classes []model.Class
	if err := r.db.WithContext(ctx).Order("name ASC, id ASC").Find(&classes).Error; err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *lookupRepo) CreateClass(ctx context.Context, class *model.Class) error {
	return r.db.WithContext(ctx).Create(class).Error
}

func (r *lookupRepo) DeleteClass(ctx context.Context, id uint) (int64, error) {
	db := r.db.WithContext(ctx)
	if err := db.Where("class_id = ?", id).Delete(&model.MemberClass{}).Error; err != nil {
		return 0, err
	}
	result := db.Delete(&model.Class{}, id)
	return result.RowsAffected, result.Error
}

// ────────────────────── 导师 ──────────────────────

func (r *lookupRepo) ListSupervisors(ctx context.Context) ([]model.Supervisor, error) {
	var supervisors []model.Supervisor
	if err := r.db.WithContext(ctx).Order("name ASC, id ASC").Find(&supervisors).Error; err != nil {
		return nil, err
	}
	return supervisors, nil
}

func (r *lookupRepo) CreateSupervisor(ctx context.Context, supervisor *model.Supervisor) error {
	return r.db.WithContext(ctx).Create(supervisor).Error
}

func (r *lookupRepo) DeleteSupervisor(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&model.Supervisor{}, id)
	return result.RowsAffected, result.Error
}

// ────────────────────── 级别 ──────────────────────

func (r *lookupRepo) ListRanks(ctx context.Context) ([]model.Rank, error) {
	var ranks []model.Rank
	if err := r.db.WithContext(ctx).Order("level ASC, id ASC").Find(&ranks).Error; err != nil {
		return nil, err
	}
	return ranks, nil
}

func (r *lookupRepo) CreateRank(ctx context.Context, rank *model.Rank) error {
	return r.db.WithContext(ctx).Create(rank).Error
}

func (r *lookupRepo) DeleteRank(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&model.Rank{}, id)
	return result.RowsAffected, result.Error
}
