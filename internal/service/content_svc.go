package service

import (
	"context"
	"errors"
	"log"
	"time"

	"tidalshare_v1_202608/internal/api/dto"
	"tidalshare_v1_202608/internal/model"
	"tidalshare_v1_202608/internal/repository"

	"gorm.io/gorm"
)

// ==================== ContentService 内容服务 ====================

// ContentService 公告 / FAQ / 一对一咨询
type ContentService struct {
	noticeRepo repository.NoticeRepository
	faqRepo    repository.FAQRepository
	qnaRepo    repository.QnaRepository
	mail       *MailService
}

// NewContentService 创建内容服务
func NewContentService(
	noticeRepo repository.NoticeRepository,
	faqRepo repository.FAQRepository,
	qnaRepo repository.QnaRepository,
	mail *MailService,
) *ContentService {
	return &ContentService{
		noticeRepo: noticeRepo,
		faqRepo:    faqRepo,
		qnaRepo:    qnaRepo,
		mail:       mail,
	}
}

// ==================== 公告 ====================

// CreateNotice 创建公告
func (s *ContentService) CreateNotice(ctx context.Context, req *dto.SaveNoticeRequest) (*model.Notice, error) {
	notice := &model.Notice{
		Title:       req.Title,
		Content:     req.Content,
		Category:    req.Category,
		IsPublished: req.IsPublished == nil || *req.IsPublished,
		IsPinned:    req.IsPinned != nil && *req.IsPinned,
		SortOrder:   req.SortOrder,
	}
	if err := s.noticeRepo.Create(ctx, notice); err != nil {
		return nil, err
	}
	return notice, nil
}

// GetNotice 公告详情
func (s *ContentService) GetNotice(ctx context.Context, id int64) (*model.Notice, error) {
	notice, err := s.noticeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	return notice, nil
}

// ListNotices 公告列表
func (s *ContentService) ListNotices(ctx context.Context, filter repository.ContentFilter) ([]model.Notice, int64, error) {
	return s.noticeRepo.List(ctx, filter)
}

// UpdateNotice 更新公告
func (s *ContentService) UpdateNotice(ctx context.Context, id int64, req *dto.SaveNoticeRequest) error {
	notice, err := s.noticeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrContentNotFound
		}
		return err
	}

	notice.Title = req.Title
	notice.Content = req.Content
	notice.Category = req.Category
	if req.IsPublished != nil {
		notice.IsPublished = *req.IsPublished
	}
	if req.IsPinned != nil {
		notice.IsPinned = *req.IsPinned
	}
	notice.SortOrder = req.SortOrder

	return s.noticeRepo.Update(ctx, notice)
}

// DeleteNotice 删除公告
func (s *ContentService) DeleteNotice(ctx context.Context, id int64) error {
	if _, err := s.noticeRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrContentNotFound
		}
		return err
	}
	return s.noticeRepo.Delete(ctx, id)
}

// ==================== FAQ ====================

// CreateFAQ 创建 FAQ
func (s *ContentService) CreateFAQ(ctx context.Context, req *dto.SaveFAQRequest) (*model.FAQ, error) {
	faq := &model.FAQ{
		Question:    req.Question,
		Answer:      req.Answer,
		Category:    req.Category,
		IsPublished: req.IsPublished == nil || *req.IsPublished,
		SortOrder:   req.SortOrder,
	}
	if err := s.faqRepo.Create(ctx, faq); err != nil {
		return nil, err
	}
	return faq, nil
}

// ListFAQs FAQ 列表
func (s *ContentService) ListFAQs(ctx context.Context, filter repository.ContentFilter) ([]model.FAQ, int64, error) {
	return s.faqRepo.List(ctx, filter)
}

// UpdateFAQ 更新 FAQ
func (s *ContentService) UpdateFAQ(ctx context.Context, id int64, req *dto.SaveFAQRequest) error {
	faq, err := s.faqRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrContentNotFound
		}
		return err
	}

	faq.Question = req.Question
	faq.Answer = req.Answer
	faq.Category = req.Category
	if req.IsPublished != nil {
		faq.IsPublished = *req.IsPublished
	}
	faq.SortOrder = req.SortOrder

	return s.faqRepo.Update(ctx, faq)
}

// DeleteFAQ 删除 FAQ
func (s *ContentService) DeleteFAQ(ctx context.Context, id int64) error {
	if _, err := s.faqRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrContentNotFound
		}
		return err
	}
	return s.faqRepo.Delete(ctx, id)
}

// ==================== 咨询 ====================

// CreateQna 提交咨询（公开接口）
func (s *ContentService) CreateQna(ctx context.Context, req *dto.CreateQnaRequest) (*model.Qna, error) {
	qna := &model.Qna{
		Name:     req.Name,
		Email:    req.Email,
		Category: req.Category,
		Title:    req.Title,
		Content:  req.Content,
		IsSecret: req.IsSecret,
		Status:   model.QnaStatusPending,
	}
	if err := s.qnaRepo.Create(ctx, qna); err != nil {
		return nil, err
	}
	return qna, nil
}

// GetQna 咨询详情
func (s *ContentService) GetQna(ctx context.Context, id int64) (*model.Qna, error) {
	qna, err := s.qnaRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	return qna, nil
}

// ListQna 咨询列表
func (s *ContentService) ListQna(ctx context.Context, req *dto.ListQnaRequest) ([]model.Qna, int64, error) {
	return s.qnaRepo.List(ctx, repository.QnaFilter{
		Status:   req.Status,
		Category: req.Category,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
}

// AnswerQna 回复咨询并通知提问者
func (s *ContentService) AnswerQna(ctx context.Context, id int64, req *dto.AnswerQnaRequest) error {
	qna, err := s.qnaRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrContentNotFound
		}
		return err
	}

	now := time.Now()
	qna.Answer = req.Answer
	qna.Status = model.QnaStatusAnswered
	qna.AnsweredAt = &now
	if err := s.qnaRepo.Update(ctx, qna); err != nil {
		return err
	}

	// 邮件通知失败不回滚回复
	if s.mail != nil && qna.Email != "" {
		if err := s.mail.SendQnaAnswered(ctx, qna); err != nil {
			log.Printf("[Mail] 咨询回复通知发送失败 qna=%d: %v", qna.ID, err)
		}
	}
	return nil
}

// DeleteQna 删除咨询
func (s *ContentService) DeleteQna(ctx context.Context, id int64) error {
	if _, err := s.qnaRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrContentNotFound
		}
		return err
	}
	return s.qnaRepo.Delete(ctx, id)
}

// ==================== 错误定义 ====================

var (
	ErrContentNotFound = errors.New("게시글을 찾을 수 없습니다")
)
