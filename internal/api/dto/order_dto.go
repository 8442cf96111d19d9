package dto

import "time"

// ==================== 结算下单 ====================

// CreateOrderRequest 下单请求（会员带 profile_id，访客填快照字段）
// 金额由服务端按套餐价/折扣计算，不信任客户端
type CreateOrderRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	PlanID    int64 `json:"plan_id" binding:"required"`

	ProfileID  *int64 `json:"profile_id"`
	BuyerName  string `json:"buyer_name"`
	BuyerEmail string `json:"buyer_email" binding:"omitempty,email"`
	BuyerPhone string `json:"buyer_phone"`

	DepositorName string `json:"depositor_name"`

	// 续费订单指向被延长的订单
	OrderType      string `json:"order_type" binding:"omitempty,oneof=new extension"`
	RelatedOrderID *int64 `json:"related_order_id"`

	Memo string `json:"memo"`
}

// ==================== 列表与详情 ====================

// ListOrdersRequest 订单列表请求
type ListOrdersRequest struct {
	ProfileID        int64  `form:"profile_id"`
	ProductID        int64  `form:"product_id"`
	PaymentStatus    string `form:"payment_status"`
	AssignmentStatus string `form:"assignment_status"`
	OrderType        string `form:"order_type"`
	StartDate        string `form:"start_date"`
	EndDate          string `form:"end_date"`
	Keyword          string `form:"keyword"`
	Page             int    `form:"page"`
	PageSize         int    `form:"page_size"`
}

// OrderVO 订单视图
type OrderVO struct {
	ID               int64      `json:"id"`
	OrderNumber      string     `json:"order_number"`
	ProfileID        *int64     `json:"profile_id"`
	BuyerName        string     `json:"buyer_name"`
	BuyerEmail       string     `json:"buyer_email"`
	BuyerPhone       string     `json:"buyer_phone"`
	DepositorName    string     `json:"depositor_name"`
	ProductID        int64      `json:"product_id"`
	ProductName      string     `json:"product_name"`
	PlanID           int64      `json:"plan_id"`
	PlanName         string     `json:"plan_name"`
	DurationMonths   int        `json:"duration_months"`
	Amount           int64      `json:"amount"`
	Currency         string     `json:"currency"`
	PaymentStatus    string     `json:"payment_status"`
	AssignmentStatus string     `json:"assignment_status"`
	OrderType        string     `json:"order_type"`
	RelatedOrderID   *int64     `json:"related_order_id"`
	StartDate        *time.Time `json:"start_date"`
	EndDate          *time.Time `json:"end_date"`
	PaidAt           *time.Time `json:"paid_at"`
	AssignedAt       *time.Time `json:"assigned_at"`
	Memo             string     `json:"memo"`
	CreatedAt        time.Time  `json:"created_at"`
}

// ListOrdersResponse 订单列表响应
type ListOrdersResponse struct {
	Total int64     `json:"total"`
	List  []OrderVO `json:"list"`
}

// ==================== 状态更新 ====================

// UpdatePaymentStatusRequest 更新支付状态请求
type UpdatePaymentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending paid failed cancelled refunded"`
}

// UpdateOrderMemoRequest 更新订单备注请求
type UpdateOrderMemoRequest struct {
	Memo string `json:"memo"`
}

// ==================== 统计 ====================

// OrderStatsRequest 订单统计请求
type OrderStatsRequest struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

// OrderStatsResponse 订单统计响应
type OrderStatsResponse struct {
	TotalOrders     int64 `json:"total_orders"`
	TotalRevenue    int64 `json:"total_revenue"`
	PendingOrders   int64 `json:"pending_orders"`
	PaidOrders      int64 `json:"paid_orders"`
	CancelledOrders int64 `json:"cancelled_orders"`
	WaitingAssign   int64 `json:"waiting_assign"`
}
