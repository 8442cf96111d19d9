package model

import (
	"time"

	"gorm.io/gorm"
)

// UserRole 后台账号角色
const (
	UserRoleAdmin    = "admin"    // 管理员
	UserRoleOperator = "operator" // 运营（可管理订单/槽位，不能动设置）
)

// UserStatus 后台账号状态
const (
	UserStatusDisabled = 0
	UserStatusActive   = 1
)

// SysUser 后台管理账号
type SysUser struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Username string `gorm:"size:100;uniqueIndex;not null"`
	Password string `gorm:"size:255;not null"` // bcrypt 哈希
	Email    string `gorm:"size:255"`

	// Status 为值类型，挂 default 标签会让 Create 丢弃停用（0）状态，
	// 由创建方显式赋值
	Role   string `gorm:"size:20;default:operator"`
	Status int

	LastLoginAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (*SysUser) TableName() string {
	return "sys_users"
}

// IsActive 账号是否可用
func (u *SysUser) IsActive() bool {
	return u.Status == UserStatusActive
}
