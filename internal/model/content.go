package model

import (
	"time"

	"gorm.io/gorm"
)

// ==================== Notice 公告 ====================

// Notice 站点公告
type Notice struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Title    string `gorm:"size:255;not null"`
	Content  string `gorm:"type:text"`
	Category string `gorm:"size:50;index"`

	IsPublished bool `gorm:"default:true;index"`
	IsPinned    bool `gorm:"default:false"`
	SortOrder   int  `gorm:"default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (*Notice) TableName() string {
	return "notices"
}

// ==================== FAQ 常见问题 ====================

// FAQ 常见问题
type FAQ struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Question string `gorm:"size:500;not null"`
	Answer   string `gorm:"type:text"`
	Category string `gorm:"size:50;index"`

	IsPublished bool `gorm:"default:true;index"`
	SortOrder   int  `gorm:"default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (*FAQ) TableName() string {
	return "faqs"
}

// ==================== QnA 一对一咨询 ====================

// QnaStatus 咨询状态
const (
	QnaStatusPending  = "pending"  // 待回复
	QnaStatusAnswered = "answered" // 已回复
)

// Qna 用户提交的一对一咨询
type Qna struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Name     string `gorm:"size:100"`
	Email    string `gorm:"size:255;index"`
	Category string `gorm:"size:50;index"`
	Title    string `gorm:"size:255;not null"`
	Content  string `gorm:"type:text"`

	// 非公开咨询（仅本人与管理员可见）
	IsSecret bool `gorm:"default:false"`

	Status     string `gorm:"size:20;index;default:pending"`
	Answer     string `gorm:"type:text"`
	AnsweredAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (*Qna) TableName() string {
	return "qna"
}
