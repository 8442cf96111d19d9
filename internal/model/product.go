package model

import (
	"time"

	"gorm.io/gorm"
)

// ==================== Product 订阅商品 ====================

// Product 订阅商品（如 Tidal HiFi 共享、Netflix Premium 共享）
type Product struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"size:100;not null"`
	Slug        string `gorm:"size:100;uniqueIndex;not null"`
	Description string `gorm:"type:text"`
	ImageURL    string `gorm:"size:500"`

	// 基准价（韩元/月，展示用，实际成交价取 Plan）
	BasePrice int64

	// 展示控制
	IsVisible bool `gorm:"default:true;index"`
	IsSoldOut bool `gorm:"default:false"`
	SortOrder int  `gorm:"default:0"`

	// 审计
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	// 关联
	Plans []ProductPlan `gorm:"foreignKey:ProductID"`
}

func (*Product) TableName() string {
	return "products"
}

// ==================== ProductPlan 套餐 ====================

// ProductPlan 期限/价格套餐（1 个月、3 个月、12 个月……）
type ProductPlan struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	ProductID int64  `gorm:"index;not null"`
	Name      string `gorm:"size:100"`

	// 订阅时长（月）
	DurationMonths int `gorm:"not null;default:1"`

	// 价格（韩元）与折扣率（百分比整数，0-100）
	Price        int64
	DiscountRate int `gorm:"default:0"`

	IsVisible bool `gorm:"default:true"`
	SortOrder int  `gorm:"default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (*ProductPlan) TableName() string {
	return "product_plans"
}

// FinalPrice 折后成交价（韩元）
func (p *ProductPlan) FinalPrice() int64 {
	if p.DiscountRate <= 0 {
		return p.Price
	}
	return p.Price - p.Price*int64(p.DiscountRate)/100
}

// EndDateFrom 按套餐时长推算到期日
func (p *ProductPlan) EndDateFrom(start time.Time) time.Time {
	return start.AddDate(0, p.DurationMonths, 0)
}
