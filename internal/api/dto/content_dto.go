package dto

import "time"

// ==================== 公告 ====================

// SaveNoticeRequest 创建/更新公告请求
type SaveNoticeRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Content     string `json:"content"`
	Category    string `json:"category" binding:"omitempty,max=50"`
	IsPublished *bool  `json:"is_published"`
	IsPinned    *bool  `json:"is_pinned"`
	SortOrder   int    `json:"sort_order"`
}

// NoticeVO 公告视图
type NoticeVO struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Category    string    `json:"category"`
	IsPublished bool      `json:"is_published"`
	IsPinned    bool      `json:"is_pinned"`
	CreatedAt   time.Time `json:"created_at"`
}

// ==================== FAQ ====================

// SaveFAQRequest 创建/更新 FAQ 请求
type SaveFAQRequest struct {
	Question    string `json:"question" binding:"required,max=500"`
	Answer      string `json:"answer"`
	Category    string `json:"category" binding:"omitempty,max=50"`
	IsPublished *bool  `json:"is_published"`
	SortOrder   int    `json:"sort_order"`
}

// FAQVO FAQ 视图
type FAQVO struct {
	ID          int64  `json:"id"`
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	Category    string `json:"category"`
	IsPublished bool   `json:"is_published"`
	SortOrder   int    `json:"sort_order"`
}

// ==================== 咨询 ====================

// CreateQnaRequest 提交咨询请求（公开接口）
type CreateQnaRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Category string `json:"category" binding:"omitempty,max=50"`
	Title    string `json:"title" binding:"required,max=255"`
	Content  string `json:"content" binding:"required"`
	IsSecret bool   `json:"is_secret"`
}

// AnswerQnaRequest 回复咨询请求
type AnswerQnaRequest struct {
	Answer string `json:"answer" binding:"required"`
}

// ListQnaRequest 咨询列表请求
type ListQnaRequest struct {
	Status   string `form:"status"`
	Category string `form:"category"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// QnaVO 咨询视图
type QnaVO struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Category   string     `json:"category"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	IsSecret   bool       `json:"is_secret"`
	Status     string     `json:"status"`
	Answer     string     `json:"answer"`
	AnsweredAt *time.Time `json:"answered_at"`
	CreatedAt  time.Time  `json:"created_at"`
}
