package dto

import "time"

// ==================== 会员 ====================

// SaveProfileRequest 创建/更新会员请求
type SaveProfileRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"omitempty,max=32"`
	Role  string `json:"role" binding:"omitempty,oneof=member admin"`
}

// ListProfilesRequest 会员列表请求
type ListProfilesRequest struct {
	Role     string `form:"role"`
	Keyword  string `form:"keyword"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// ProfileVO 会员视图
type ProfileVO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ListProfilesResponse 会员列表响应
type ListProfilesResponse struct {
	Total int64       `json:"total"`
	List  []ProfileVO `json:"list"`
}
