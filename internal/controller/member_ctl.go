package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tidalshare_v1_202608/internal/api/dto"
	"tidalshare_v1_202608/internal/model"
	"tidalshare_v1_202608/internal/service"
)

// MemberController 会员控制器
type MemberController struct {
	svc *service.MemberService
}

// NewMemberController 创建会员控制器
func NewMemberController(svc *service.MemberService) *MemberController {
	return &MemberController{svc: svc}
}

// List 会员列表
// GET /api/admin/members
func (c *MemberController) List(ctx *gin.Context) {
	var req dto.ListProfilesRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profiles, total, err := c.svc.List(ctx, &req)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	list := make([]dto.ProfileVO, len(profiles))
	for i := range profiles {
		list[i] = toProfileVO(&profiles[i])
	}

	ctx.JSON(http.StatusOK, gin.H{"data": dto.ListProfilesResponse{
		Total: total,
		List:  list,
	}})
}

// GetByID 会员详情
// GET /api/admin/members/:id
func (c *MemberController) GetByID(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 ID입니다"})
		return
	}

	profile, err := c.svc.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": toProfileVO(profile)})
}

// Create 创建会员
// POST /api/admin/members
func (c *MemberController) Create(ctx *gin.Context) {
	var req dto.SaveProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := c.svc.Create(ctx, &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailExists) {
			ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": toProfileVO(profile)})
}

// Update 更新会员
// PUT /api/admin/members/:id
func (c *MemberController) Update(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 ID입니다"})
		return
	}

	var req dto.SaveProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := c.svc.Update(ctx, id, &req); err != nil {
		switch {
		case errors.Is(err, service.ErrProfileNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrEmailExists):
			ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "회원 정보가 수정되었습니다"})
}

// Delete 删除会员
// DELETE /api/admin/members/:id
func (c *MemberController) Delete(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 ID입니다"})
		return
	}

	if err := c.svc.Delete(ctx, id); err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "회원이 삭제되었습니다"})
}

// ListOrders 会员订单历史
// GET /api/admin/members/:id/orders
func (c *MemberController) ListOrders(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 ID입니다"})
		return
	}

	orders, total, err := c.svc.ListOrders(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	list := make([]dto.OrderVO, len(orders))
	for i := range orders {
		list[i] = toOrderVO(&orders[i])
	}

	ctx.JSON(http.StatusOK, gin.H{"data": dto.ListOrdersResponse{
		Total: total,
		List:  list,
	}})
}

// ==================== VO 转换 ====================

func toProfileVO(p *model.Profile) dto.ProfileVO {
	return dto.ProfileVO{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		Phone:     p.Phone,
		Role:      p.Role,
		CreatedAt: p.CreatedAt,
	}
}
