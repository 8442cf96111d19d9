package repository

import (
	"context"

	"tidalshare_v1_202608/internal/model"

	"gorm.io/gorm"
)

// ==================== 过滤条件 ====================

// ContentFilter 公告/FAQ 通用过滤条件
type ContentFilter struct {
	Category      string
	PublishedOnly bool
	Page          int
	PageSize      int
}

// QnaFilter 咨询过滤条件
type QnaFilter struct {
	Status   string
	Category string
	Email    string
	Page     int
	PageSize int
}

// ==================== NoticeRepository 公告仓库 ====================

// NoticeRepository 公告仓库接口
type NoticeRepository interface {
	Create(ctx context.Context, notice *model.Notice) error
	GetByID(ctx context.Context, id int64) (*model.Notice, error)
	List(ctx context.Context, filter ContentFilter) ([]model.Notice, int64, error)
	Update(ctx context.Context, notice *model.Notice) error
	Delete(ctx context.Context, id int64) error
}

type noticeRepository struct {
	db *gorm.DB
}

// NewNoticeRepository 创建公告仓库
func NewNoticeRepository(db *gorm.DB) NoticeRepository {
	return &noticeRepository{db: db}
}

func (r *noticeRepository) Create(ctx context.Context, notice *model.Notice) error {
	return r.db.WithContext(ctx).Create(notice).Error
}

func (r *noticeRepository) GetByID(ctx context.Context, id int64) (*model.Notice, error) {
	var notice model.Notice
	err := r.db.WithContext(ctx).First(&notice, id).Error
	if err != nil {
		return nil, err
	}
	return &notice, nil
}

func (r *noticeRepository) List(ctx context.Context, filter ContentFilter) ([]model.Notice, int64, error) {
	var notices []model.Notice
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Notice{})
	if filter.Category != "" {
		db = db.Where("category = ?", filter.Category)
	}
	if filter.PublishedOnly {
		db = db.Where("is_published = ?", true)
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
		Order("is_pinned DESC, sort_order ASC, created_at DESC").
		Limit(filter.PageSize).
		Offset(offset).
		Find(&notices).Error

	return notices, total, err
}

func (r *noticeRepository) Update(ctx context.Context, notice *model.Notice) error {
	return r.db.WithContext(ctx).Save(notice).Error
}

func (r *noticeRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Notice{}, id).Error
}

// ==================== FAQRepository FAQ 仓库 ====================

// FAQRepository FAQ 仓库接口
type FAQRepository interface {
	Create(ctx context.Context, faq *model.FAQ) error
	GetByID(ctx context.Context, id int64) (*model.FAQ, error)
	List(ctx context.Context, filter ContentFilter) ([]model.FAQ, int64, error)
	Update(ctx context.Context, faq *model.FAQ) error
	Delete(ctx context.Context, id int64) error
}

type faqRepository struct {
	db *gorm.DB
}

// NewFAQRepository 创建 FAQ 仓库
func NewFAQRepository(db *gorm.DB) FAQRepository {
	return &faqRepository{db: db}
}

func (r *faqRepository) Create(ctx context.Context, faq *model.FAQ) error {
	return r.db.WithContext(ctx).Create(faq).Error
}

func (r *faqRepository) GetByID(ctx context.Context, id int64) (*model.FAQ, error) {
	var faq model.FAQ
	err := r.db.WithContext(ctx).First(&faq, id).Error
	if err != nil {
		return nil, err
	}
	return &faq, nil
}

func (r *faqRepository) List(ctx context.Context, filter ContentFilter) ([]model.FAQ, int64, error) {
	var faqs []model.FAQ
	var total int64

	db := r.db.WithContext(ctx).Model(&model.FAQ{})
	if filter.Category != "" {
		db = db.Where("category = ?", filter.Category)
	}
	if filter.PublishedOnly {
		db = db.Where("is_published = ?", true)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}
	offset := (filter.Page - 1) * filter.PageSize

	err := db.
		Order("sort_order ASC, id ASC").
		Limit(filter.PageSize).
		Offset(offset).
		Find(&faqs).Error

	return faqs, total, err
}

func (r *faqRepository) Update(ctx context.Context, faq *model.FAQ) error {
	return r.db.WithContext(ctx).Save(faq).Error
}

func (r *faqRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.FAQ{}, id).Error
}

// ==================== QnaRepository 咨询仓库 ====================

// QnaRepository 咨询仓库接口
type QnaRepository interface {
	Create(ctx context.Context, qna *model.Qna) error
	GetByID(ctx context.Context, id int64) (*model.Qna, error)
	List(ctx context.Context, filter QnaFilter) ([]model.Qna, int64, error)
	Update(ctx context.Context, qna *model.Qna) error
	Delete(ctx context.Context, id int64) error
}

type qnaRepository struct {
	db *gorm.DB
}

// NewQnaRepository 创建咨询仓库
func NewQnaRepository(db *gorm.DB) QnaRepository {
	return &qnaRepository{db: db}
}

func (r *qnaRepository) Create(ctx context.Context, qna *model.Qna) error {
	return r.db.WithContext(ctx).Create(qna).Error
}

func (r *qnaRepository) GetByID(ctx context.Context, id int64) (*model.Qna, error) {
	var qna model.Qna
	err := r.db.WithContext(ctx).First(&qna, id).Error
	if err != nil {
		return nil, err
	}
	return &qna, nil
}

func (r *qnaRepository) List(ctx context.Context, filter QnaFilter) ([]model.Qna, int64, error) {
	var list []model.Qna
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Qna{})
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		db = db.Where("category = ?", filter.Category)
	}
	if filter.Email != "" {
		db = db.Where("email = ?", filter.Email)
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
		Order("created_at DESC").
		Limit(filter.PageSize).
		Offset(offset).
		Find(&list).Error

	return list, total, err
}

func (r *qnaRepository) Update(ctx context.Context, qna *model.Qna) error {
	return r.db.WithContext(ctx).Save(qna).Error
}

func (r *qnaRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Qna{}, id).Error
}
