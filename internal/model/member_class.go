package model

// MemberClass 会员-班级关联表，对应 member_classes
// 更新时整体替换（先删后插），不做增量比对
type MemberClass struct {
	ID       uint `gorm:"primaryKey;autoIncrement" json:"id"`
	MemberID uint `gorm:"not null;index"           json:"memberId"`
	ClassID  uint `gorm:"not null;index"           json:"classId"`

	// 关联（仅用于建立外键约束）
	Member *Member `gorm:"foreignKey:MemberID" json:"-"`
	Class  *Class  `gorm:"foreignKey:ClassID"  json:"-"`
}

// TableName 指定表名
func (MemberClass) TableName() string { return "member_classes" }
