package model

import "time"

// Admin 管理员表，对应 admins
type Admin struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"        json:"id"`
	Email        string    `gorm:"type:text;not null;uniqueIndex"  json:"email"`
	PasswordHash string    `gorm:"column:password_hash;not null"   json:"-"`
	Name         string    `gorm:"type:text;not null"              json:"name"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime"         json:"createdAt"`
}

// TableName 指定表名
func (Admin) TableName() string { return "admins" }
