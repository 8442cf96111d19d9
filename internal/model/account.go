package model

import (
	"time"

	"gorm.io/gorm"
)

// ==================== 槽位常量 ====================

// DefaultMaxSlots 每个共享账号固定 6 个槽位（0-5）
const DefaultMaxSlots = 6

// MasterSlotNumber 0 号槽约定为主账号槽
const MasterSlotNumber = 0

// SlotType 槽位类型
const (
	SlotTypeMaster = "master" // 主账号（0 号槽）
	SlotTypeUser   = "user"   // 子账号
)

// ==================== Account 共享账号组 ====================

// Account 共享登录凭证组，持有 6 个可分配槽位
type Account struct {
	ID int64 `gorm:"primaryKey;autoIncrement"`

	// 主登录凭证
	LoginEmail    string `gorm:"size:255;not null;index"`
	LoginPassword string `gorm:"size:255"`

	// 槽位容量。UsedSlots 为冗余计数，每次变更后按 order_accounts
	// 实际行数重算回写，绝不做增减运算
	MaxSlots  int `gorm:"default:6"`
	UsedSlots int `gorm:"default:0"`

	// 组级付款信息（该共享账号自身的续费）
	PaymentEmail string `gorm:"size:255"`
	PaymentDay   int    `gorm:"default:0"` // 每月扣款日，0 表示未设置

	Memo string `gorm:"type:text"`

	// 不挂 default 标签：值类型字段带 default 时 Create 会丢弃零值，
	// 停用状态（false）写不进库。创建方负责显式赋值
	IsActive bool `gorm:"index"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	// 关联
	Assignments []OrderAccount `gorm:"foreignKey:AccountID"`
}

func (*Account) TableName() string {
	return "accounts"
}

// IsFull 槽位是否已满
func (a *Account) IsFull() bool {
	return a.UsedSlots >= a.MaxSlots
}

// ==================== OrderAccount 槽位分配 ====================

// OrderAccount 订单与 (账号, 槽位) 的分配记录
type OrderAccount struct {
	ID      int64 `gorm:"primaryKey;autoIncrement"`
	OrderID int64 `gorm:"index;not null"`

	// 目标槽位。部分唯一索引保证同一 (account_id, slot_number)
	// 至多一条未删除记录，数据库层兜底事务内的占用检查
	AccountID  int64 `gorm:"not null;uniqueIndex:uniq_account_slot,where:deleted_at IS NULL"`
	SlotNumber int   `gorm:"not null;uniqueIndex:uniq_account_slot,where:deleted_at IS NULL"`

	// 该槽位实际交付给买家的子账号凭证
	TidalID       string `gorm:"size:255"`
	TidalPassword string `gorm:"size:255"`

	// master: 0 号槽主账号, user: 子账号
	Type string `gorm:"size:10;default:user"`

	// 买家快照（冗余自订单，列表页免 JOIN）
	OrderNumber string `gorm:"size:32"`
	BuyerName   string `gorm:"size:100"`
	BuyerEmail  string `gorm:"size:255;index"`
	BuyerPhone  string `gorm:"size:32"`

	// 订阅期间
	StartDate *time.Time
	EndDate   *time.Time `gorm:"index"`

	// 同 Account.IsActive：不挂 default，创建方显式赋值
	IsActive bool `gorm:"index"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (*OrderAccount) TableName() string {
	return "order_accounts"
}

// SlotTypeFor 槽位号对应的默认类型
func SlotTypeFor(slotNumber int) string {
	if slotNumber == MasterSlotNumber {
		return SlotTypeMaster
	}
	return SlotTypeUser
}

// IsExpired 是否已过期
func (oa *OrderAccount) IsExpired(now time.Time) bool {
	return oa.EndDate != nil && oa.EndDate.Before(now)
}
