package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	Admin    AdminRepository
	Member   MemberRepository
	Lookup   LookupRepository
	Otp      OtpRepository
	AuditLog AuditLogRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:       db,
		Admin:    NewAdminRepo(db),
		Member:   NewMemberRepo(db),
		Lookup:   NewLookupRepo(db),
		Otp:      NewOtpRepo(db),
		AuditLog: NewAuditLogRepo(db),
	}
}

// Transaction 在同一数据库事务中执行 fn
// fn 收到的 txRepo 中所有 Repository 都绑定到该事务；fn 返回错误即整体回滚
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// Ping 数据库健康检查
func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
