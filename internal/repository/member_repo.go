package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/khaifmono/memberbase/internal/model"
)

// MemberFilter 会员目录查询条件
type MemberFilter struct {
	Search  string // 对 full_name / ic_number / email 做子串匹配（任一命中即可）
	ClassID *uint  // 只返回属于该班级的会员
}

// MemberStats 会员统计
type MemberStats struct {
	Total      int64
	Registered int64
}

// MemberRepository 会员数据访问接口
type MemberRepository interface {
	Create(ctx context.Context, member *model.Member) error
	GetByID(ctx context.Context, id uint) (*model.Member, error)
	GetByIC(ctx context.Context, icNumber string) (*model.Member, error)
	GetByEmail(ctx context.Context, email string) (*model.Member, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) (int64, error)
	List(ctx context.Context, filter MemberFilter, offset, limit int) ([]model.Member, int64, error)
	ListAll(ctx context.Context) ([]model.Member, error)
	Stats(ctx context.Context) (*MemberStats, error)

	// ── 班级关联 ──
	// ReplaceClasses 删除全部旧关联后逐条插入，需在事务中调用
	ReplaceClasses(ctx context.Context, memberID uint, classIDs []uint) error
	ClassIDs(ctx context.Context, memberID uint) ([]uint, error)
	ClassIDsByMembers(ctx context.Context, memberIDs []uint) (map[uint][]uint, error)
}

// memberRepo MemberRepository 的 GORM 实现
type memberRepo struct {
	db *gorm.DB
}

// NewMemberRepo 创建 MemberRepository 实例
func NewMemberRepo(db *gorm.DB) MemberRepository {
	return &memberRepo{db: db}
}

func (r *memberRepo) Create(ctx context.Context, member *model.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *memberRepo) GetByID(ctx context.Context, id uint) (*model.Member, error) {
	var member model.Member
	if err := r.db.WithContext(ctx).First(&member, id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepo) GetByIC(ctx context.Context, icNumber string) (*model.Member, error) {
	var member model.Member
	err := r.db.WithContext(ctx).
		Where("ic_number = ?", icNumber).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepo) GetByEmail(ctx context.Context, email string) (*model.Member, error) {
	var member model.Member
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepo) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.Member{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// Delete 先删除班级关联再删除会员，需在事务中调用
func (r *memberRepo) Delete(ctx context.Context, id uint) (int64, error) {
	db := r.db.WithContext(ctx)
	if err := db.Where("member_id = ?", id).Delete(&model.MemberClass{}).Error; err != nil {
		return 0, err
	}
	result := db.Delete(&model.Member{}, id)
	return result.RowsAffected, result.Error
}

// filtered 构造带筛选条件的查询；Count 与 Find 各自调用，避免共享语句状态
func (r *memberRepo) filtered(ctx context.Context, filter MemberFilter) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&model.Member{})

	if filter.Search != "" {
		pattern := "%" + escapeLike(filter.Search) + "%"
		db = db.Where(
			`full_name LIKE ? ESCAPE '\' OR ic_number LIKE ? ESCAPE '\' OR email LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern,
		)
	}

	if filter.ClassID != nil {
		db = db.Where(
			"EXISTS (SELECT 1 FROM member_classes mc WHERE mc.member_id = members.id AND mc.class_id = ?)",
			*filter.ClassID,
		)
	}

	return db
}

func (r *memberRepo) List(ctx context.Context, filter MemberFilter, offset, limit int) ([]model.Member, int64, error) {
	var members []model.Member
	var total int64

	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.filtered(ctx, filter).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&members).Error; err != nil {
		return nil, 0, err
	}

	return members, total, nil
}

func (r *memberRepo) ListAll(ctx context.Context) ([]model.Member, error) {
	var members []model.Member
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *memberRepo) Stats(ctx context.Context) (*MemberStats, error) {
	var stats MemberStats
	db := r.db.WithContext(ctx)
	if err := db.Model(&model.Member{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Member{}).Where("is_registered = ?", true).Count(&stats.Registered).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

// ────────────────────── 班级关联 ──────────────────────

func (r *memberRepo) ReplaceClasses(ctx context.Context, memberID uint, classIDs []uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("member_id = ?", memberID).Delete(&model.MemberClass{}).Error; err != nil {
		return err
	}
	if len(classIDs) == 0 {
		return nil
	}

	rows := make([]model.MemberClass, 0, len(classIDs))
	for _, classID := range classIDs {
		rows = append(rows, model.MemberClass{MemberID: memberID, ClassID: classID})
	}
	return db.Create(&rows).Error
}

func (r *memberRepo) ClassIDs(ctx context.Context, memberID uint) ([]uint, error) {
	ids := make([]uint, 0)
	err := r.db.WithContext(ctx).
		Model(&model.MemberClass{}).
		Where("member_id = ?", memberID).
		Order("id ASC").
		Pluck("class_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ClassIDsByMembers 一次查询取回一页会员的班级关联
func (r *memberRepo) ClassIDsByMembers(ctx context.Context, memberIDs []uint) (map[uint][]uint, error) {
	result := make(map[uint][]uint, len(memberIDs))
	if len(memberIDs) == 0 {
		return result, nil
	}

	var rows []model.MemberClass
	err := r.db.WithContext(ctx).
		Select("member_id", "class_id").
		Where("member_id IN ?", memberIDs).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.MemberID] = append(result[row.MemberID], row.ClassID)
	}
	return result, nil
}

// escapeLike 转义 LIKE 通配符，使搜索词按字面量匹配
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
