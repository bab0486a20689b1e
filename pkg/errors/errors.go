package errors

import (
	"errors"

	"gorm.io/gorm"
)

// 存储层错误分类
// 依赖 gorm.Config.TranslateError=true，由驱动将约束冲突翻译为 gorm 标准错误

// IsNotFound 记录不存在
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicate 唯一约束冲突
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// IsForeignKey 外键约束冲突（例如引用了不存在的班级）
func IsForeignKey(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}
