package model

import "time"

// Member 会员表，对应 members
// IC 号码是持久身份键；邮箱可在 OTP 验证时被改写
type Member struct {
	ID              uint   `gorm:"primaryKey;autoIncrement"       json:"id"`
	ICNumber        string `gorm:"type:text;not null;uniqueIndex" json:"icNumber"`
	Email           string `gorm:"type:text;not null;uniqueIndex" json:"email"`
	IsPreRegistered bool   `gorm:"not null"                       json:"isPreRegistered"`
	IsRegistered    bool   `gorm:"not null"                       json:"isRegistered"`

	// 个人信息
	FullName *string `gorm:"type:text" json:"fullName"`
	Nickname *string `gorm:"type:text" json:"nickname"`
	Gender   *string `gorm:"type:text" json:"gender"`
	DOB      *string `gorm:"column:dob;type:text" json:"dob"`
	Phone    *string `gorm:"type:text" json:"phone"`
	Address  *string `gorm:"type:text" json:"address"`
	Postcode *string `gorm:"type:text" json:"postcode"`
	City     *string `gorm:"type:text" json:"city"`
	State    *string `gorm:"type:text" json:"state"`

	// 职业信息
	Occupation      *string `gorm:"type:text" json:"occupation"`
	EmployerName    *string `gorm:"type:text" json:"employerName"`
	EmployerAddress *string `gorm:"type:text" json:"employerAddress"`

	// 紧急联系人
	KinName     *string `gorm:"type:text" json:"kinName"`
	KinRelation *string `gorm:"type:text" json:"kinRelation"`
	KinPhone    *string `gorm:"type:text" json:"kinPhone"`

	// 武术经历
	HasSilatExperience     bool    `gorm:"not null"  json:"hasSilatExperience"`
	SilatExperienceDetails *string `gorm:"type:text" json:"silatExperienceDetails"`
	CompletedCekak         bool    `gorm:"not null"  json:"completedCekak"`

	// 个人资料保护法（PDPA）同意时间
	PDPAConsentAt *time.Time `gorm:"column:pdpa_consent_at" json:"pdpaConsentAt"`

	Timestamps
}

// TableName 指定表名
func (Member) TableName() string { return "members" }

// DisplayName 导出等场景使用的姓名，未填写时为空串
func (m *Member) DisplayName() string {
	if m.FullName == nil {
		return ""
	}
	return *m.FullName
}
