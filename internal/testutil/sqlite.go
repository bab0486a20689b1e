package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/khaifmono/memberbase/internal/model"
)

// Models 需要迁移的全部模型
var Models = []interface{}{
	&model.Admin{},
	&model.Member{},
	&model.Class{},
	&model.Supervisor{},
	&model.Rank{},
	&model.MemberClass{},
	&model.OtpCode{},
	&model.AuditLog{},
}

var dbSeq int64

// NewSQLiteDB 为单个测试创建独立的内存 SQLite 数据库并完成建表
// 单连接：事务内外共用同一连接，避免共享缓存模式下的表锁
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb%d?mode=memory&cache=shared&_foreign_keys=on", atomic.AddInt64(&dbSeq, 1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("打开 SQLite 失败: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取底层连接失败: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(Models...); err != nil {
		t.Fatalf("AutoMigrate 失败: %v", err)
	}
	return db
}

// SeedAdmin 插入一个测试管理员
func SeedAdmin(t testing.TB, db *gorm.DB) *model.Admin {
	t.Helper()
	admin := &model.Admin{Email: "admin@test.local", PasswordHash: "x", Name: "Test Admin"}
	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("创建管理员失败: %v", err)
	}
	return admin
}

// SeedClass 插入一个测试班级
func SeedClass(t testing.TB, db *gorm.DB, name string) *model.Class {
	t.Helper()
	class := &model.Class{Name: name, IsActive: true}
	if err := db.Create(class).Error; err != nil {
		t.Fatalf("创建班级失败: %v", err)
	}
	return class
}

// StrPtr 返回字符串指针
func StrPtr(s string) *string { return &s }
