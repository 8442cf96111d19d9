package service

import (
	"context"
	"errors"

	"tidalshare_v1_202608/internal/api/dto"
	"tidalshare_v1_202608/internal/model"
	"tidalshare_v1_202608/internal/repository"

	"gorm.io/gorm"
)

// ==================== ProductService 商品服务 ====================

// ProductService 商品与套餐服务
type ProductService struct {
	productRepo repository.ProductRepository
	planRepo    repository.PlanRepository
}

// NewProductService 创建商品服务
func NewProductService(productRepo repository.ProductRepository, planRepo repository.PlanRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		planRepo:    planRepo,
	}
}

// ==================== 商品 ====================

// Create 创建商品
func (s *ProductService) Create(ctx context.Context, req *dto.CreateProductRequest) (*model.Product, error) {
	if existing, err := s.productRepo.GetBySlug(ctx, req.Slug); err == nil && existing != nil {
		return nil, ErrSlugExists
	}

	visible := true
	if req.IsVisible != nil {
		visible = *req.IsVisible
	}

	product := &model.Product{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		BasePrice:   req.BasePrice,
		IsVisible:   visible,
		SortOrder:   req.SortOrder,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetByID 商品详情
func (s *ProductService) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// GetBySlug 店面商品详情（只带可见套餐）
func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// List 商品列表
func (s *ProductService) List(ctx context.Context, req *dto.ListProductsRequest, visibleOnly bool) ([]model.Product, int64, error) {
	return s.productRepo.List(ctx, repository.ProductFilter{
		VisibleOnly: visibleOnly,
		Keyword:     req.Keyword,
		Page:        req.Page,
		PageSize:    req.PageSize,
	})
}

// Update 更新商品
func (s *ProductService) Update(ctx context.Context, id int64, req *dto.UpdateProductRequest) error {
	if _, err := s.productRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	fields := map[string]interface{}{}
	if req.Name != "" {
		fields["name"] = req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.ImageURL != nil {
		fields["image_url"] = *req.ImageURL
	}
	if req.BasePrice != nil {
		fields["base_price"] = *req.BasePrice
	}
	if req.IsVisible != nil {
		fields["is_visible"] = *req.IsVisible
	}
	if req.IsSoldOut != nil {
		fields["is_sold_out"] = *req.IsSoldOut
	}
	if req.SortOrder != nil {
		fields["sort_order"] = *req.SortOrder
	}
	if len(fields) == 0 {
		return nil
	}

	return s.productRepo.UpdateFields(ctx, id, fields)
}

// Delete 删除商品（套餐一并删除）
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	for _, plan := range product.Plans {
		if err := s.planRepo.Delete(ctx, plan.ID); err != nil {
			return err
		}
	}
	return s.productRepo.Delete(ctx, id)
}

// ==================== 套餐 ====================

// CreatePlan 为商品添加套餐
func (s *ProductService) CreatePlan(ctx context.Context, productID int64, req *dto.CreatePlanRequest) (*model.ProductPlan, error) {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	visible := true
	if req.IsVisible != nil {
		visible = *req.IsVisible
	}

	plan := &model.ProductPlan{
		ProductID:      productID,
		Name:           req.Name,
		DurationMonths: req.DurationMonths,
		Price:          req.Price,
		DiscountRate:   req.DiscountRate,
		IsVisible:      visible,
		SortOrder:      req.SortOrder,
	}
	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// UpdatePlan 更新套餐
func (s *ProductService) UpdatePlan(ctx context.Context, planID int64, req *dto.UpdatePlanRequest) error {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPlanNotFound
		}
		return err
	}

	if req.Name != "" {
		plan.Name = req.Name
	}
	if req.DurationMonths != nil {
		plan.DurationMonths = *req.DurationMonths
	}
	if req.Price != nil {
		plan.Price = *req.Price
	}
	if req.DiscountRate != nil {
		plan.DiscountRate = *req.DiscountRate
	}
	if req.IsVisible != nil {
		plan.IsVisible = *req.IsVisible
	}
	if req.SortOrder != nil {
		plan.SortOrder = *req.SortOrder
	}

	return s.planRepo.Update(ctx, plan)
}

// DeletePlan 删除套餐
func (s *ProductService) DeletePlan(ctx context.Context, planID int64) error {
	if _, err := s.planRepo.GetByID(ctx, planID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	return s.planRepo.Delete(ctx, planID)
}

// ==================== 错误定义 ====================

var (
	ErrSlugExists = errors.New("이미 사용 중인 슬러그입니다")
)
