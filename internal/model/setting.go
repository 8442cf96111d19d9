package model

import (
	"time"

	"gorm.io/gorm"
)

// ==================== 站点设置键 ====================

// 站点设置常用键
const (
	SettingKeySenderEmail = "sender_email" // 邮件发件人
	SettingKeySiteName    = "site_name"
	SettingKeyOrderNotify = "order_notify_email" // 新订单通知收件人
)

// SiteSetting 站点设置（键值对）
type SiteSetting struct {
	ID    int64  `gorm:"primaryKey;autoIncrement"`
	Key   string `gorm:"size:100;uniqueIndex;not null"`
	Value string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (*SiteSetting) TableName() string {
	return "site_settings"
}

// ==================== BankAccount 收款账户 ====================

// BankAccount 结算页展示的入金银行账户
type BankAccount struct {
	ID            int64  `gorm:"primaryKey;autoIncrement"`
	BankName      string `gorm:"size:100;not null"`
	AccountNumber string `gorm:"size:64;not null"`
	HolderName    string `gorm:"size:100;not null"`

	IsActive  bool `gorm:"default:true;index"`
	SortOrder int  `gorm:"default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (*BankAccount) TableName() string {
	return "bank_accounts"
}
