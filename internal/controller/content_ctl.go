package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tidalshare_v1_202608/internal/api/dto"
	"tidalshare_v1_202608/internal/model"
	"tidalshare_v1_202608/internal/repository"
	"tidalshare_v1_202608/internal/service"
)

// ContentController 公告/FAQ/咨询控制器
type ContentController struct {
	svc *service.ContentService
}

// NewContentController 创建内容控制器
func NewContentController(svc *service.ContentService) *ContentController {
	return &ContentController{svc: svc}
}

// ==================== 公告 ====================

// ListNoticesPublic 店面公告列表
// GET /api/notices
func (c *ContentController) ListNoticesPublic(ctx *gin.Context) {
	notices, total, err := c.svc.ListNotices(ctx, repository.ContentFilter{
		Category:      ctx.Query("category"),
		PublishedOnly: true,
		Page:          parseIntQuery(ctx, "page"),
		PageSize:      parseIntQuery(ctx, "page_size"),
	})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"total": total, "list": toNoticeVOs(notices)}})
}

// GetNotice 公告详情
// GET /api/notices/:id
func (c *ContentController) GetNotice(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 ID입니다"})
		return
	}

	notice, err := c.svc.GetNotice(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrContentNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": toNoticeVO(notice)})
}

// ListNotices 后台公告列表（含未发布）
// GET /api/admin/notices
func (c *ContentController) ListNotices(ctx *gin.Context) {
	notices, total, err := c.svc.ListNotices(ctx, repository.ContentFilter{
		Category: ctx.Query("category"),
		Page:     parseIntQuery(ctx, "page"),
		PageSize: parseIntQuery(ctx, "page_size"),
	})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"total": total, "list": toNoticeVOs(notices)}})
}

// CreateNotice 创建公告
// POST /api/admin/notices
func (c *ContentController) CreateNotice(ctx *gin.Context) {
	var req dto.SaveNoticeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notice, err := c.svc.CreateNotice(ctx, &req)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": toNoticeVO(notice)})
}

// UpdateNotice 更新公告
// PUT /api/admin/notices/:id
func (c *ContentController) UpdateNotice(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 ID입니다"})
		return
	}

	var req dto.SaveNoticeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := c.svc.UpdateNotice(ctx, id, &req); err != nil {
		if errors.Is(err, service.ErrContentNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "공지사항이 수정되었습니다"})
}

// DeleteNotice 删除公告
// DELETE /api/admin/notices/:id
func (c *ContentController) DeleteNotice(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 ID입니다"})
		return
	}

	if err := c.svc.DeleteNotice(ctx, id); err != nil {
		if errors.Is(err, service.ErrContentNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "공지사항이 삭제되었습니다"})
}

// ==================== FAQ ====================

// ListFAQsPublic 店面 FAQ 列表
// GET /api/faqs
func (c *ContentController) ListFAQsPublic(ctx *gin.Context) {
	faqs, total, err := c.svc.ListFAQs(ctx, repository.ContentFilter{
		Category:      ctx.Query("category"),
		PublishedOnly: true,
		Page:          parseIntQuery(ctx, "page"),
		PageSize:      parseIntQuery(ctx, "page_size"),
	})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"total": total, "list": toFAQVOs(faqs)}})
}

// ListFAQs 后台 FAQ 列表
// GET /api/admin/faqs
func (c *ContentController) ListFAQs(ctx *gin.Context) {
	faqs, total, err := c.svc.ListFAQs(ctx, repository.ContentFilter{
		Category: ctx.Query("category"),
		Page:     parseIntQuery(ctx, "page"),
		PageSize: parseIntQuery(ctx, "page_size"),
	})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"total": total, "list": toFAQVOs(faqs)}})
}

// CreateFAQ 创建 FAQ
// POST /api/admin/faqs
func (c *ContentController) CreateFAQ(ctx *gin.Context) {
	var req dto.SaveFAQRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	faq, err := c.svc.CreateFAQ(ctx, &req)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": toFAQVO(faq)})
}

// UpdateFAQ 更新 FAQ
// PUT /api/admin/faqs/:id
func (c *ContentController) UpdateFAQ(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 ID입니다"})
		return
	}

	var req dto.SaveFAQRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := c.svc.UpdateFAQ(ctx, id, &req); err != nil {
		if errors.Is(err, service.ErrContentNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "FAQ가 수정되었습니다"})
}

// DeleteFAQ 删除 FAQ
// DELETE /api/admin/faqs/:id
func (c *ContentController) DeleteFAQ(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 ID입니다"})
		return
	}

	if err := c.svc.DeleteFAQ(ctx, id); err != nil {
		if errors.Is(err, service.ErrContentNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "FAQ가 삭제되었습니다"})
}

// ==================== 咨询 ====================

// CreateQna 提交咨询（店面）
// POST /api/qna
func (c *ContentController) CreateQna(ctx *gin.Context) {
	var req dto.CreateQnaRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	qna, err := c.svc.CreateQna(ctx, &req)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data":    toQnaVO(qna),
		"message": "문의가 등록되었습니다",
	})
}

// ListQna 后台咨询列表
// GET /api/admin/qna
func (c *ContentController) ListQna(ctx *gin.Context) {
	var req dto.ListQnaRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list, total, err := c.svc.ListQna(ctx, &req)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	vos := make([]dto.QnaVO, len(list))
	for i := range list {
		vos[i] = toQnaVO(&list[i])
	}

	ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"total": total, "list": vos}})
}

// GetQna 后台咨询详情
// GET /api/admin/qna/:id
func (c *ContentController) GetQna(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 ID입니다"})
		return
	}

	qna, err := c.svc.GetQna(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrContentNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": toQnaVO(qna)})
}

// AnswerQna 回复咨询
// POST /api/admin/qna/:id/answer
func (c *ContentController) AnswerQna(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 ID입니다"})
		return
	}

	var req dto.AnswerQnaRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := c.svc.AnswerQna(ctx, id, &req); err != nil {
		if errors.Is(err, service.ErrContentNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "답변이 등록되었습니다"})
}

// DeleteQna 删除咨询
// DELETE /api/admin/qna/:id
func (c *ContentController) DeleteQna(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 ID입니다"})
		return
	}

	if err := c.svc.DeleteQna(ctx, id); err != nil {
		if errors.Is(err, service.ErrContentNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "문의가 삭제되었습니다"})
}

// ==================== VO 转换 ====================

func toNoticeVO(n *model.Notice) dto.NoticeVO {
	return dto.NoticeVO{
		ID:          n.ID,
		Title:       n.Title,
		Content:     n.Content,
		Category:    n.Category,
		IsPublished: n.IsPublished,
		IsPinned:    n.IsPinned,
		CreatedAt:   n.CreatedAt,
	}
}

func toNoticeVOs(notices []model.Notice) []dto.NoticeVO {
	list := make([]dto.NoticeVO, len(notices))
	for i := range notices {
		list[i] = toNoticeVO(&notices[i])
	}
	return list
}

func toFAQVO(f *model.FAQ) dto.FAQVO {
	return dto.FAQVO{
		ID:          f.ID,
		Question:    f.Question,
		Answer:      f.Answer,
		Category:    f.Category,
		IsPublished: f.IsPublished,
		SortOrder:   f.SortOrder,
	}
}

func toFAQVOs(faqs []model.FAQ) []dto.FAQVO {
	list := make([]dto.FAQVO, len(faqs))
	for i := range faqs {
		list[i] = toFAQVO(&faqs[i])
	}
	return list
}

func toQnaVO(q *model.Qna) dto.QnaVO {
	return dto.QnaVO{
		ID:         q.ID,
		Name:       q.Name,
		Email:      q.Email,
		Category:   q.Category,
		Title:      q.Title,
		Content:    q.Content,
		IsSecret:   q.IsSecret,
		Status:     q.Status,
		Answer:     q.Answer,
		AnsweredAt: q.AnsweredAt,
		CreatedAt:  q.CreatedAt,
	}
}

// parseIntQuery 查询参数转 int，非法值按 0 处理
func parseIntQuery(ctx *gin.Context, key string) int {
	v, _ := strconv.Atoi(ctx.Query(key))
	return v
}
