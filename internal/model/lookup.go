package model

// Class 班级表，对应 classes
type Class struct {
	ID       uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string  `gorm:"type:text;not null"       json:"name"`
	Location *string `gorm:"type:text"                json:"location"`
	IsActive bool    `gorm:"not null"                 json:"isActive"`
}

// TableName 指定表名
func (Class) TableName() string { return "classes" }

// Supervisor 导师表，对应 supervisors
type Supervisor struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"type:text;not null"       json:"name"`
	IsActive bool   `gorm:"not null"                 json:"isActive"`
}

// TableName 指定表名
func (Supervisor) TableName() string { return "supervisors" }

// Rank 级别表，对应 ranks，按 level 排序
type Rank struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"type:text;not null"       json:"name"`
	Level    *int   `json:"level"`
	IsActive bool   `gorm:"not null"                 json:"isActive"`
}

// TableName 指定表名
func (Rank) TableName() string { return "ranks" }
