package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/khaifmono/memberbase/internal/model"
)

// OtpRepository 一次性验证码数据访问接口
type OtpRepository interface {
	Create(ctx context.Context, otp *model.OtpCode) error
	// Consume 原子地消费 (email, code) 匹配的最新未使用验证码
	// 返回 true 表示恰好一行被标记为已使用
	Consume(ctx context.Context, email, code string, now time.Time) (bool, error)
}

// otpRepo OtpRepository 的 GORM 实现
type otpRepo struct {
	db *gorm.DB
}

// NewOtpRepo 创建 OtpRepository 实例
func NewOtpRepo(db *gorm.DB) OtpRepository {
	return &otpRepo{db: db}
}

func (r *otpRepo) Create(ctx context.Context, otp *model.OtpCode) error {
	return r.db.WithContext(ctx).Create(otp).Error
}

// Consume 单条条件 UPDATE 完成"检查并标记"，并发请求中至多一个成功
// 选中的是最新的未使用匹配行；该行若已过期则校验失败（不会回退到更早的行）
func (r *otpRepo) Consume(ctx context.Context, email, code string, now time.Time) (bool, error) {
	db := r.db.WithContext(ctx)

	latest := db.Model(&model.OtpCode{}).
		Select("id").
		Where("email = ? AND code = ? AND used = ?", email, code, false).
		Order("created_at DESC, id DESC").
		Limit(1)

	result := db.Model(&model.OtpCode{}).
		Where("id = (?)", latest).
		Where("used = ?", false).
		Where("expires_at >= ?", now).
		Update("used", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
