package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ==================== 订单状态常量 ====================

// PaymentStatus 支付状态（人工银行转账，状态由管理员手动推进）
const (
	PaymentStatusPending   = "pending"   // 待入金确认
	PaymentStatusPaid      = "paid"      // 已入金
	PaymentStatusFailed    = "failed"    // 入金失败
	PaymentStatusCancelled = "cancelled" // 已取消
	PaymentStatusRefunded  = "refunded"  // 已退款
)

// AssignmentStatus 槽位分配状态
const (
	AssignmentStatusWaiting  = "waiting"  // 等待分配
	AssignmentStatusAssigned = "assigned" // 已分配
	AssignmentStatusExpired  = "expired"  // 已过期
	AssignmentStatusReplaced = "replaced" // 已更换
)

// OrderType 订单类型
const (
	OrderTypeNew       = "new"       // 新购
	OrderTypeExtension = "extension" // 续费（延长既有订单）
)

// ==================== Order 订单主表 ====================

// Order 订单
type Order struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	OrderNumber string `gorm:"size:32;uniqueIndex;not null"`

	// 买家信息（会员下单时关联 Profile，访客下单时只填快照字段）
	ProfileID  *int64 `gorm:"index"`
	BuyerName  string `gorm:"size:100"`
	BuyerEmail string `gorm:"size:255;index"`
	BuyerPhone string `gorm:"size:32"`

	// 入金人姓名（银行转账对账用，可能与买家姓名不同）
	DepositorName string `gorm:"size:100"`

	// 商品与套餐
	ProductID int64 `gorm:"index;not null"`
	PlanID    int64 `gorm:"index;not null"`

	// 金额（韩元，无小数位）
	Amount   int64
	Currency string `gorm:"size:10;default:KRW"`

	// 状态
	PaymentStatus    string `gorm:"size:20;index;default:pending"`
	AssignmentStatus string `gorm:"size:20;index;default:waiting"`

	// 订单类型（续费订单通过 RelatedOrderID 指向被延长的订单）
	OrderType      string `gorm:"size:20;default:new"`
	RelatedOrderID *int64 `gorm:"index"`

	// 订阅期间
	StartDate *time.Time
	EndDate   *time.Time

	// 时间节点
	PaidAt     *time.Time
	AssignedAt *time.Time

	// 管理员备注
	Memo string `gorm:"type:text"`

	// 下单时的原始请求快照（PostgreSQL JSONB，排查纠纷用）
	CheckoutRaw datatypes.JSON `gorm:"type:jsonb"`

	// 审计字段
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	// 关联
	Product *Product     `gorm:"foreignKey:ProductID"`
	Plan    *ProductPlan `gorm:"foreignKey:PlanID"`
	Profile *Profile     `gorm:"foreignKey:ProfileID"`
}

func (*Order) TableName() string {
	return "orders"
}

// IsGuest 是否访客订单（未关联会员）
func (o *Order) IsGuest() bool {
	return o.ProfileID == nil
}

// IsExtension 是否续费订单
func (o *Order) IsExtension() bool {
	return o.OrderType == OrderTypeExtension
}

// IsPaid 是否已入金
func (o *Order) IsPaid() bool {
	return o.PaymentStatus == PaymentStatusPaid
}

// CanCancel 是否可以取消
func (o *Order) CanCancel() bool {
	return o.PaymentStatus == PaymentStatusPending || o.PaymentStatus == PaymentStatusPaid
}
