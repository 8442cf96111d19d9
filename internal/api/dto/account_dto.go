package dto

import "time"

// ==================== 共享账号 CRUD ====================

// CreateAccountRequest 创建共享账号请求
type CreateAccountRequest struct {
	LoginEmail    string `json:"login_email" binding:"required,email"`
	LoginPassword string `json:"login_password" binding:"required"`
	MaxSlots      int    `json:"max_slots" binding:"omitempty,min=1,max=6"`
	PaymentEmail  string `json:"payment_email" binding:"omitempty,email"`
	PaymentDay    int    `json:"payment_day" binding:"omitempty,min=1,max=31"`
	Memo          string `json:"memo"`
}

// UpdateAccountRequest 更新共享账号请求
type UpdateAccountRequest struct {
	LoginEmail    string `json:"login_email" binding:"omitempty,email"`
	LoginPassword string `json:"login_password"`
	PaymentEmail  string `json:"payment_email" binding:"omitempty,email"`
	PaymentDay    *int   `json:"payment_day" binding:"omitempty,min=0,max=31"`
	Memo          *string `json:"memo"`
	IsActive      *bool   `json:"is_active"`
}

// ListAccountsRequest 共享账号列表请求
type ListAccountsRequest struct {
	ActiveOnly   bool   `form:"active_only"`
	HasFreeSlots bool   `form:"has_free_slots"`
	Keyword      string `form:"keyword"`
	Page         int    `form:"page"`
	PageSize     int    `form:"page_size"`
}

// AccountVO 共享账号视图
type AccountVO struct {
	ID           int64    `json:"id"`
	LoginEmail   string   `json:"login_email"`
	MaxSlots     int      `json:"max_slots"`
	UsedSlots    int      `json:"used_slots"`
	PaymentEmail string   `json:"payment_email"`
	PaymentDay   int      `json:"payment_day"`
	Memo         string   `json:"memo"`
	IsActive     bool     `json:"is_active"`
	Slots        []SlotVO `json:"slots"`
	CreatedAt    time.Time `json:"created_at"`
}

// SlotVO 槽位视图
type SlotVO struct {
	AssignmentID int64      `json:"assignment_id"`
	SlotNumber   int        `json:"slot_number"`
	Type         string     `json:"type"`
	TidalID      string     `json:"tidal_id"`
	OrderID      int64      `json:"order_id"`
	OrderNumber  string     `json:"order_number"`
	BuyerName    string     `json:"buyer_name"`
	BuyerEmail   string     `json:"buyer_email"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	IsActive     bool       `json:"is_active"`
}

// ListAccountsResponse 共享账号列表响应
type ListAccountsResponse struct {
	Total int64       `json:"total"`
	List  []AccountVO `json:"list"`
}

// ==================== 槽位分配 ====================

// AssignSlotRequest 槽位分配请求
// OrderID 缺省但带买家信息时，走手工录入路径：先造零元访客订单再分配
type AssignSlotRequest struct {
	OrderID    *int64 `json:"order_id"`
	SlotNumber *int   `json:"slot_number" binding:"required,min=0,max=5"`

	// 槽位凭证（缺省沿用已有值）
	TidalID       string `json:"tidal_id"`
	TidalPassword string `json:"tidal_password"`
	Type          string `json:"type" binding:"omitempty,oneof=master user"`

	// 手工录入时的买家信息
	BuyerName  string `json:"buyer_name"`
	BuyerPhone string `json:"buyer_phone"`
	BuyerEmail string `json:"buyer_email" binding:"omitempty,email"`

	// 显式期间（YYYY-MM-DD，缺省从订单/套餐推算）
	StartDate string `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
}

// MoveSlotRequest 槽位迁移请求
type MoveSlotRequest struct {
	OrderID             int64  `json:"order_id" binding:"required"`
	TargetAccountID     int64  `json:"target_account_id" binding:"required"`
	TargetSlotNumber    *int   `json:"target_slot_number" binding:"required,min=0,max=5"`
	TargetTidalPassword string `json:"target_tidal_password"`
}

// ==================== 到期批量通知 ====================

// NotifyExpiryRequest 到期通知请求
// 模板支持 {buyer_name} {tidal_id} {end_date} 占位符
type NotifyExpiryRequest struct {
	AssignmentIDs []int64 `json:"assignment_ids" binding:"required,min=1"`
	Subject       string  `json:"subject"`
	Template      string  `json:"template" binding:"required"`
}

// NotifyFailure 单条发送失败明细
type NotifyFailure struct {
	AssignmentID int64  `json:"assignment_id"`
	Email        string `json:"email"`
	Reason       string `json:"reason"`
}

// NotifyExpiryResponse 到期通知结果
type NotifyExpiryResponse struct {
	Sent     int             `json:"sent"`
	Failed   int             `json:"failed"`
	Failures []NotifyFailure `json:"failures"`
}
