package model

import "time"

// OtpCode 一次性验证码表，对应 otp_codes
// 仅当 used=false 且当前时间 <= ExpiresAt 时可用；同一邮箱可并存多个有效码
type OtpCode struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	Email     string    `gorm:"type:text;not null;index"  json:"email"`
	Code      string    `gorm:"type:text;not null"        json:"-"`
	ExpiresAt time.Time `gorm:"not null"                  json:"expiresAt"`
	Used      bool      `gorm:"not null"                  json:"used"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"   json:"createdAt"`
}

// TableName 指定表名
func (OtpCode) TableName() string { return "otp_codes" }
