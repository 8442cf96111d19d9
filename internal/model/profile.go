package model

import (
	"time"

	"gorm.io/gorm"
)

// ProfileRole 会员角色
const (
	ProfileRoleMember = "member"
	ProfileRoleAdmin  = "admin"
)

// Profile 会员资料（认证身份由外部托管，这里只存业务侧记录）
type Profile struct {
	ID int64 `gorm:"primaryKey;autoIncrement"`

	// 外部认证侧的用户标识
	AuthUID string `gorm:"size:64;uniqueIndex"`

	Name  string `gorm:"size:100"`
	Email string `gorm:"size:255;uniqueIndex;not null"`
	Phone string `gorm:"size:32"`
	Role  string `gorm:"size:20;default:member"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (*Profile) TableName() string {
	return "profiles"
}
