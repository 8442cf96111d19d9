package repository

import (
	"context"
	"time"

	"tidalshare_v1_202608/internal/model"

	"gorm.io/gorm"
)

// ==================== 过滤条件 ====================

// OrderFilter 订单过滤条件
type OrderFilter struct {
	ProfileID        int64
	ProductID        int64
	PaymentStatus    string
	AssignmentStatus string
	OrderType        string
	StartDate        *time.Time
	EndDate          *time.Time
	Keyword          string
	Page             int
	PageSize         int
}

// OrderStats 订单统计
type OrderStats struct {
	TotalOrders     int64
	TotalRevenue    int64
	PendingOrders   int64
	PaidOrders      int64
	CancelledOrders int64
	WaitingAssign   int64
}

// ==================== OrderRepository 订单仓库 ====================

// OrderRepository 订单仓库接口
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*model.Order, error)
	GetByIDWithRelations(ctx context.Context, id int64) (*model.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error)
	Update(ctx context.Context, order *model.Order) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error

	// 统计
	GetStats(ctx context.Context, startDate, endDate time.Time) (*OrderStats, error)
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).Where("order_number = ?", orderNumber).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByIDWithRelations(ctx context.Context, id int64) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Plan").
		Preload("Profile").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Order{})

	// 应用过滤条件
	if filter.ProfileID > 0 {
		db = db.Where("profile_id = ?", filter.ProfileID)
	}
	if filter.ProductID > 0 {
		db = db.Where("product_id = ?", filter.ProductID)
	}
	if filter.PaymentStatus != "" {
		db = db.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.AssignmentStatus != "" {
		db = db.Where("assignment_status = ?", filter.AssignmentStatus)
	}
	if filter.OrderType != "" {
		db = db.Where("order_type = ?", filter.OrderType)
	}
	if filter.StartDate != nil {
		db = db.Where("created_at >= ?", filter.StartDate)
	}
	if filter.EndDate != nil {
		db = db.Where("created_at <= ?", filter.EndDate)
	}
	if filter.Keyword != "" {
		keyword := "%" + filter.Keyword + "%"
		db = db.Where("buyer_name LIKE ? OR buyer_email LIKE ? OR order_number LIKE ? OR depositor_name LIKE ?",
			keyword, keyword, keyword, keyword)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	err := db.
		Preload("Product").
		Preload("Plan").
		Order("created_at DESC").
		Limit(filter.PageSize).
		Offset(offset).
		Find(&orders).Error

	return orders, total, err
}

func (r *orderRepository) Update(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *orderRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", id).Updates(fields).Error
}

func (r *orderRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Order{}, id).Error
}

func (r *orderRepository) GetStats(ctx context.Context, startDate, endDate time.Time) (*OrderStats, error) {
	var stats OrderStats

	base := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("created_at BETWEEN ? AND ?", startDate, endDate)

	if err := base.Session(&gorm.Session{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}

	// 已入金订单的合计金额
	var revenue struct {
		Amount int64
	}
	if err := base.Session(&gorm.Session{}).
		Where("payment_status = ?", model.PaymentStatusPaid).
		Select("COALESCE(SUM(amount), 0) as amount").
		Scan(&revenue).Error; err != nil {
		return nil, err
	}
	stats.TotalRevenue = revenue.Amount

	// 各状态订单数
	type statusCount struct {
		Status string
		Count  int64
	}
	var counts []statusCount
	if err := base.Session(&gorm.Session{}).
		Select("payment_status as status, COUNT(*) as count").
		Group("payment_status").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	for _, sc := range counts {
		switch sc.Status {
		case model.PaymentStatusPending:
			stats.PendingOrders = sc.Count
		case model.PaymentStatusPaid:
			stats.PaidOrders = sc.Count
		case model.PaymentStatusCancelled:
			stats.CancelledOrders = sc.Count
		}
	}

	if err := base.Session(&gorm.Session{}).
		Where("payment_status = ? AND assignment_status = ?",
			model.PaymentStatusPaid, model.AssignmentStatusWaiting).
		Count(&stats.WaitingAssign).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
