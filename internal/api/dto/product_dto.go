package dto

import "time"

// ==================== 商品 ====================

// CreateProductRequest 创建商品请求
type CreateProductRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Slug        string `json:"slug" binding:"required,max=100"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	BasePrice   int64  `json:"base_price" binding:"omitempty,min=0"`
	IsVisible   *bool  `json:"is_visible"`
	SortOrder   int    `json:"sort_order"`
}

// UpdateProductRequest 更新商品请求
type UpdateProductRequest struct {
	Name        string `json:"name" binding:"omitempty,max=100"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
	BasePrice   *int64  `json:"base_price" binding:"omitempty,min=0"`
	IsVisible   *bool   `json:"is_visible"`
	IsSoldOut   *bool   `json:"is_sold_out"`
	SortOrder   *int    `json:"sort_order"`
}

// ListProductsRequest 商品列表请求
type ListProductsRequest struct {
	Keyword  string `form:"keyword"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// ProductVO 商品视图
type ProductVO struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	BasePrice   int64     `json:"base_price"`
	IsVisible   bool      `json:"is_visible"`
	IsSoldOut   bool      `json:"is_sold_out"`
	SortOrder   int       `json:"sort_order"`
	Plans       []PlanVO  `json:"plans"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListProductsResponse 商品列表响应
type ListProductsResponse struct {
	Total int64       `json:"total"`
	List  []ProductVO `json:"list"`
}

// ==================== 套餐 ====================

// CreatePlanRequest 创建套餐请求
type CreatePlanRequest struct {
	Name           string `json:"name"`
	DurationMonths int    `json:"duration_months" binding:"required,min=1,max=36"`
	Price          int64  `json:"price" binding:"required,min=0"`
	DiscountRate   int    `json:"discount_rate" binding:"omitempty,min=0,max=100"`
	IsVisible      *bool  `json:"is_visible"`
	SortOrder      int    `json:"sort_order"`
}

// UpdatePlanRequest 更新套餐请求
type UpdatePlanRequest struct {
	Name           string `json:"name"`
	DurationMonths *int   `json:"duration_months" binding:"omitempty,min=1,max=36"`
	Price          *int64 `json:"price" binding:"omitempty,min=0"`
	DiscountRate   *int   `json:"discount_rate" binding:"omitempty,min=0,max=100"`
	IsVisible      *bool  `json:"is_visible"`
	SortOrder      *int   `json:"sort_order"`
}

// PlanVO 套餐视图
type PlanVO struct {
	ID             int64  `json:"id"`
	ProductID      int64  `json:"product_id"`
	Name           string `json:"name"`
	DurationMonths int    `json:"duration_months"`
	Price          int64  `json:"price"`
	DiscountRate   int    `json:"discount_rate"`
	FinalPrice     int64  `json:"final_price"`
	IsVisible      bool   `json:"is_visible"`
	SortOrder      int    `json:"sort_order"`
}
