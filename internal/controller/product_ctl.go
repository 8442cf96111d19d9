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

// ProductController 商品控制器
type ProductController struct {
	svc *service.ProductService
}

// NewProductController 创建商品控制器
func NewProductController(svc *service.ProductService) *ProductController {
	return &ProductController{svc: svc}
}

// ==================== 店面接口 ====================

// ListPublic 店面商品列表（只含可见商品）
// GET /api/products
func (c *ProductController) ListPublic(ctx *gin.Context) {
	var req dto.ListProductsRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	products, total, err := c.svc.List(ctx, &req, true)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": dto.ListProductsResponse{
		Total: total,
		List:  toProductVOs(products),
	}})
}

// GetBySlug 店面商品详情
// GET /api/products/:slug
func (c *ProductController) GetBySlug(ctx *gin.Context) {
	product, err := c.svc.GetBySlug(ctx, ctx.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": toProductVO(product)})
}

// ==================== 后台接口 ====================

// List 后台商品列表（含隐藏商品）
// GET /api/admin/products
func (c *ProductController) List(ctx *gin.Context) {
	var req dto.ListProductsRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	products, total, err := c.svc.List(ctx, &req, false)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": dto.ListProductsResponse{
		Total: total,
		List:  toProductVOs(products),
	}})
}

// GetByID 后台商品详情
// GET /api/admin/products/:id
func (c *ProductController) GetByID(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 ID입니다"})
		return
	}

	product, err := c.svc.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": toProductVO(product)})
}

// Create 创建商品
// POST /api/admin/products
func (c *ProductController) Create(ctx *gin.Context) {
	var req dto.CreateProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := c.svc.Create(ctx, &req)
	if err != nil {
		if errors.Is(err, service.ErrSlugExists) {
			ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": toProductVO(product)})
}

// Update 更新商品
// PUT /api/admin/products/:id
func (c *ProductController) Update(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 ID입니다"})
		return
	}

	var req dto.UpdateProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := c.svc.Update(ctx, id, &req); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "상품이 수정되었습니다"})
}

// Delete 删除商品
// DELETE /api/admin/products/:id
func (c *ProductController) Delete(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 ID입니다"})
		return
	}

	if err := c.svc.Delete(ctx, id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "상품이 삭제되었습니다"})
}

// ==================== 套餐 ====================

// CreatePlan 添加套餐
// POST /api/admin/products/:id/plans
func (c *ProductController) CreatePlan(ctx *gin.Context) {
	productID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 ID입니다"})
		return
	}

	var req dto.CreatePlanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := c.svc.CreatePlan(ctx, productID, &req)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": toPlanVO(plan)})
}

// UpdatePlan 更新套餐
// PUT /api/admin/plans/:id
func (c *ProductController) UpdatePlan(ctx *gin.Context) {
	planID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 ID입니다"})
		return
	}

	var req dto.UpdatePlanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := c.svc.UpdatePlan(ctx, planID, &req); err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "요금제가 수정되었습니다"})
}

// DeletePlan 删除套餐
// DELETE /api/admin/plans/:id
func (c *ProductController) DeletePlan(ctx *gin.Context) {
	planID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 ID입니다"})
		return
	}

	if err := c.svc.DeletePlan(ctx, planID); err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "요금제가 삭제되었습니다"})
}

// ==================== VO 转换 ====================

func toProductVO(p *model.Product) dto.ProductVO {
	plans := make([]dto.PlanVO, len(p.Plans))
	for i := range p.Plans {
		plans[i] = toPlanVO(&p.Plans[i])
	}
	return dto.ProductVO{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		BasePrice:   p.BasePrice,
		IsVisible:   p.IsVisible,
		IsSoldOut:   p.IsSoldOut,
		SortOrder:   p.SortOrder,
		Plans:       plans,
		CreatedAt:   p.CreatedAt,
	}
}

func toProductVOs(products []model.Product) []dto.ProductVO {
	list := make([]dto.ProductVO, len(products))
	for i := range products {
		list[i] = toProductVO(&products[i])
	}
	return list
}

func toPlanVO(p *model.ProductPlan) dto.PlanVO {
	return dto.PlanVO{
		ID:             p.ID,
		ProductID:      p.ProductID,
		Name:           p.Name,
		DurationMonths: p.DurationMonths,
		Price:          p.Price,
		DiscountRate:   p.DiscountRate,
		FinalPrice:     p.FinalPrice(),
		IsVisible:      p.IsVisible,
		SortOrder:      p.SortOrder,
	}
}
