package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"tidalshare_v1_202608/internal/api/dto"
	"tidalshare_v1_202608/internal/model"
	"tidalshare_v1_202608/internal/repository"

	"gorm.io/gorm"
)

// ==================== OrderService 订单服务 ====================

// OrderService 订单服务
type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	planRepo    repository.PlanRepository
	profileRepo repository.ProfileRepository
	mail        *MailService
}

// NewOrderService 创建订单服务
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	planRepo repository.PlanRepository,
	profileRepo repository.ProfileRepository,
	mail *MailService,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		planRepo:    planRepo,
		profileRepo: profileRepo,
		mail:        mail,
	}
}

// ==================== 下单 ====================

// Checkout 结算下单（会员/访客/续费通用）
// 金额一律按套餐现价折后计算，忽略客户端传值
func (s *OrderService) Checkout(ctx context.Context, req *dto.CreateOrderRequest) (*model.Order, error) {
	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if product.IsSoldOut || !product.IsVisible {
		return nil, ErrProductUnavailable
	}

	plan, err := s.planRepo.GetByID(ctx, req.PlanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.ProductID != product.ID {
		return nil, ErrPlanNotFound
	}

	// 买家信息：会员下单从 Profile 补齐，访客必须自带
	buyerName, buyerEmail, buyerPhone := req.BuyerName, req.BuyerEmail, req.BuyerPhone
	if req.ProfileID != nil {
		profile, err := s.profileRepo.GetByID(ctx, *req.ProfileID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProfileNotFound
			}
			return nil, err
		}
		buyerName = firstNonEmpty(buyerName, profile.Name)
		buyerEmail = firstNonEmpty(buyerEmail, profile.Email)
		buyerPhone = firstNonEmpty(buyerPhone, profile.Phone)
	}
	if buyerName == "" || buyerEmail == "" {
		return nil, ErrBuyerRequired
	}

	orderType := req.OrderType
	if orderType == "" {
		orderType = model.OrderTypeNew
	}

	// 续费订单：必须指向一张既有订单，开始日衔接其到期日
	var startDate *time.Time
	if orderType == model.OrderTypeExtension {
		if req.RelatedOrderID == nil {
			return nil, ErrRelatedOrderRequired
		}
		related, err := s.orderRepo.GetByID(ctx, *req.RelatedOrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrRelatedOrderNotFound
			}
			return nil, err
		}
		if related.EndDate != nil {
			startDate = related.EndDate
		}
	}

	raw, _ := json.Marshal(req)

	order := &model.Order{
		OrderNumber:      GenerateOrderNumber(),
		ProfileID:        req.ProfileID,
		BuyerName:        buyerName,
		BuyerEmail:       buyerEmail,
		BuyerPhone:       buyerPhone,
		DepositorName:    firstNonEmpty(req.DepositorName, buyerName),
		ProductID:        product.ID,
		PlanID:           plan.ID,
		Amount:           plan.FinalPrice(),
		Currency:         "KRW",
		PaymentStatus:    model.PaymentStatusPending,
		AssignmentStatus: model.AssignmentStatusWaiting,
		OrderType:        orderType,
		RelatedOrderID:   req.RelatedOrderID,
		StartDate:        startDate,
		Memo:             req.Memo,
		CheckoutRaw:      raw,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("주문 생성에 실패했습니다: %w", err)
	}

	// 尽力而为的下单确认邮件
	if s.mail != nil {
		if err := s.mail.SendOrderReceived(ctx, order, product.Name); err != nil {
			log.Printf("[Order] 주문 확인 메일 발송 실패 (order=%s): %v", order.OrderNumber, err)
		}
	}

	return order, nil
}

// ==================== 查询 ====================

// List 订单列表
func (s *OrderService) List(ctx context.Context, req *dto.ListOrdersRequest) ([]model.Order, int64, error) {
	filter := repository.OrderFilter{
		ProfileID:        req.ProfileID,
		ProductID:        req.ProductID,
		PaymentStatus:    req.PaymentStatus,
		AssignmentStatus: req.AssignmentStatus,
		OrderType:        req.OrderType,
		Keyword:          req.Keyword,
		Page:             req.Page,
		PageSize:         req.PageSize,
	}

	if req.StartDate != "" {
		if t, err := time.Parse("2006-01-02", req.StartDate); err == nil {
			filter.StartDate = &t
		}
	}
	if req.EndDate != "" {
		if t, err := time.Parse("2006-01-02", req.EndDate); err == nil {
			endOfDay := t.Add(24*time.Hour - time.Second)
			filter.EndDate = &endOfDay
		}
	}

	return s.orderRepo.List(ctx, filter)
}

// GetDetail 订单详情（带商品/套餐/会员）
func (s *OrderService) GetDetail(ctx context.Context, id int64) (*model.Order, error) {
	order, err := s.orderRepo.GetByIDWithRelations(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// GetByOrderNumber 按订单号查询（访客查单）
func (s *OrderService) GetByOrderNumber(ctx context.Context, orderNumber string) (*model.Order, error) {
	order, err := s.orderRepo.GetByOrderNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// ==================== 状态更新 ====================

// UpdatePaymentStatus 管理员推进支付状态（入金确认等）
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, id int64, status string) error {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	fields := map[string]interface{}{"payment_status": status}
	if status == model.PaymentStatusPaid && order.PaidAt == nil {
		now := time.Now()
		fields["paid_at"] = &now
	}

	return s.orderRepo.UpdateFields(ctx, id, fields)
}

// UpdateMemo 更新管理员备注
func (s *OrderService) UpdateMemo(ctx context.Context, id int64, memo string) error {
	if _, err := s.orderRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	return s.orderRepo.UpdateFields(ctx, id, map[string]interface{}{"memo": memo})
}

// ==================== 统计 ====================

// GetStats 订单统计（默认最近 30 天）
func (s *OrderService) GetStats(ctx context.Context, req *dto.OrderStatsRequest) (*dto.OrderStatsResponse, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -30)

	if req.StartDate != "" {
		if t, err := time.Parse("2006-01-02", req.StartDate); err == nil {
			start = t
		}
	}
	if req.EndDate != "" {
		if t, err := time.Parse("2006-01-02", req.EndDate); err == nil {
			end = t.Add(24*time.Hour - time.Second)
		}
	}

	stats, err := s.orderRepo.GetStats(ctx, start, end)
	if err != nil {
		return nil, err
	}

	return &dto.OrderStatsResponse{
		TotalOrders:     stats.TotalOrders,
		TotalRevenue:    stats.TotalRevenue,
		PendingOrders:   stats.PendingOrders,
		PaidOrders:      stats.PaidOrders,
		CancelledOrders: stats.CancelledOrders,
		WaitingAssign:   stats.WaitingAssign,
	}, nil
}

// ==================== 订单号 ====================

// GenerateOrderNumber 生成订单号：ORD-YYYYMMDD-6 位随机数
func GenerateOrderNumber() string {
	return fmt.Sprintf("ORD-%s-%06d", time.Now().Format("20060102"), rand.Intn(1000000))
}

// ==================== 错误定义 ====================

var (
	ErrProductNotFound      = errors.New("상품을 찾을 수 없습니다")
	ErrProductUnavailable   = errors.New("판매 중인 상품이 아닙니다")
	ErrPlanNotFound         = errors.New("요금제를 찾을 수 없습니다")
	ErrProfileNotFound      = errors.New("회원 정보를 찾을 수 없습니다")
	ErrBuyerRequired        = errors.New("구매자 이름과 이메일이 필요합니다")
	ErrRelatedOrderRequired = errors.New("연장할 주문을 선택해 주세요")
	ErrRelatedOrderNotFound = errors.New("연장 대상 주문을 찾을 수 없습니다")
)
