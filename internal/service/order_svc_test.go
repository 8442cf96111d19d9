package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"gorm.io/gorm"

	"tidalshare_v1_202608/internal/api/dto"
	"tidalshare_v1_202608/internal/model"
	"tidalshare_v1_202608/internal/repository"
)

func newOrderService(db *gorm.DB) *OrderService {
	return NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db),
		repository.NewPlanRepository(db),
		repository.NewProfileRepository(db),
		nil,
	)
}

func createDiscountedPlan(t *testing.T, db *gorm.DB) *model.ProductPlan {
	t.Helper()
	product := &model.Product{Name: "Tidal HiFi", Slug: "tidal-hifi", IsVisible: true}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("创建测试商品失败: %v", err)
	}
	plan := &model.ProductPlan{
		ProductID:      product.ID,
		DurationMonths: 3,
		Price:          10000,
		DiscountRate:   10,
	}
	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("创建测试套餐失败: %v", err)
	}
	return plan
}

func TestCheckoutComputesAmountServerSide(t *testing.T) {
	db := setupServiceDB(t)
	svc := newOrderService(db)
	plan := createDiscountedPlan(t, db)

	order, err := svc.Checkout(context.Background(), &dto.CreateOrderRequest{
		ProductID:  plan.ProductID,
		PlanID:     plan.ID,
		BuyerName:  "김철수",
		BuyerEmail: "chulsu@example.com",
	})
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}

	// 10000 원打 9 折
	if order.Amount != 9000 {
		t.Errorf("Amount = %d, want 9000", order.Amount)
	}
	if order.Currency != "KRW" {
		t.Errorf("Currency = %q, want KRW", order.Currency)
	}
	if order.PaymentStatus != model.PaymentStatusPending {
		t.Errorf("PaymentStatus = %q, want %q", order.PaymentStatus, model.PaymentStatusPending)
	}
	if order.AssignmentStatus != model.AssignmentStatusWaiting {
		t.Errorf("AssignmentStatus = %q, want %q", order.AssignmentStatus, model.AssignmentStatusWaiting)
	}
	// 未填入金人时回落到买家姓名
	if order.DepositorName != "김철수" {
		t.Errorf("DepositorName = %q, want 김철수", order.DepositorName)
	}
}

func TestCheckoutOrderNumberFormat(t *testing.T) {
	db := setupServiceDB(t)
	svc := newOrderService(db)
	plan := createDiscountedPlan(t, db)

	order, err := svc.Checkout(context.Background(), &dto.CreateOrderRequest{
		ProductID:  plan.ProductID,
		PlanID:     plan.ID,
		BuyerName:  "김철수",
		BuyerEmail: "chulsu@example.com",
	})
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}

	pattern := regexp.MustCompile(`^ORD-\d{8}-\d{6}$`)
	if !pattern.MatchString(order.OrderNumber) {
		t.Errorf("OrderNumber = %q, 格式应为 ORD-YYYYMMDD-XXXXXX", order.OrderNumber)
	}
}

func TestCheckoutMemberFillsBuyerFromProfile(t *testing.T) {
	db := setupServiceDB(t)
	svc := newOrderService(db)
	plan := createDiscountedPlan(t, db)

	profile := &model.Profile{Name: "박민수", Email: "minsu@example.com", Phone: "010-1234-5678"}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("创建测试会员失败: %v", err)
	}

	order, err := svc.Checkout(context.Background(), &dto.CreateOrderRequest{
		ProductID: plan.ProductID,
		PlanID:    plan.ID,
		ProfileID: &profile.ID,
	})
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}

	if order.BuyerName != "박민수" || order.BuyerEmail != "minsu@example.com" {
		t.Errorf("买家快照 = (%q, %q), 应从会员资料补齐", order.BuyerName, order.BuyerEmail)
	}
	if order.ProfileID == nil || *order.ProfileID != profile.ID {
		t.Error("ProfileID 未关联会员")
	}
}

func TestCheckoutGuestRequiresBuyer(t *testing.T) {
	db := setupServiceDB(t)
	svc := newOrderService(db)
	plan := createDiscountedPlan(t, db)

	_, err := svc.Checkout(context.Background(), &dto.CreateOrderRequest{
		ProductID: plan.ProductID,
		PlanID:    plan.ID,
	})
	if !errors.Is(err, ErrBuyerRequired) {
		t.Errorf("Checkout() error = %v, want ErrBuyerRequired", err)
	}
}

func TestCheckoutRejectsUnavailableProduct(t *testing.T) {
	db := setupServiceDB(t)
	svc := newOrderService(db)
	plan := createDiscountedPlan(t, db)

	db.Model(&model.Product{}).Where("id = ?", plan.ProductID).Update("is_sold_out", true)

	_, err := svc.Checkout(context.Background(), &dto.CreateOrderRequest{
		ProductID:  plan.ProductID,
		PlanID:     plan.ID,
		BuyerName:  "김철수",
		BuyerEmail: "chulsu@example.com",
	})
	if !errors.Is(err, ErrProductUnavailable) {
		t.Errorf("Checkout() error = %v, want ErrProductUnavailable", err)
	}
}

func TestCheckoutRejectsForeignPlan(t *testing.T) {
	db := setupServiceDB(t)
	svc := newOrderService(db)
	plan := createDiscountedPlan(t, db)

	other := &model.Product{Name: "Other", Slug: "other", IsVisible: true}
	db.Create(other)

	_, err := svc.Checkout(context.Background(), &dto.CreateOrderRequest{
		ProductID:  other.ID,
		PlanID:     plan.ID,
		BuyerName:  "김철수",
		BuyerEmail: "chulsu@example.com",
	})
	if !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("Checkout() error = %v, 套餐不属于该商品时 want ErrPlanNotFound", err)
	}
}

func TestCheckoutExtensionChainsStartDate(t *testing.T) {
	db := setupServiceDB(t)
	svc := newOrderService(db)
	plan := createDiscountedPlan(t, db)

	end := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	related := &model.Order{
		OrderNumber:      GenerateOrderNumber(),
		BuyerName:        "김철수",
		BuyerEmail:       "chulsu@example.com",
		ProductID:        plan.ProductID,
		PlanID:           plan.ID,
		PaymentStatus:    model.PaymentStatusPaid,
		AssignmentStatus: model.AssignmentStatusAssigned,
		OrderType:        model.OrderTypeNew,
		EndDate:          &end,
	}
	if err := db.Create(related).Error; err != nil {
		t.Fatalf("创建原订单失败: %v", err)
	}

	order, err := svc.Checkout(context.Background(), &dto.CreateOrderRequest{
		ProductID:      plan.ProductID,
		PlanID:         plan.ID,
		BuyerName:      "김철수",
		BuyerEmail:     "chulsu@example.com",
		OrderType:      model.OrderTypeExtension,
		RelatedOrderID: &related.ID,
	})
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}

	// 续费从原订单到期日衔接
	if order.StartDate == nil || !order.StartDate.Equal(end) {
		t.Errorf("StartDate = %v, want %v", order.StartDate, end)
	}
	if order.RelatedOrderID == nil || *order.RelatedOrderID != related.ID {
		t.Error("RelatedOrderID 未指向原订单")
	}
}

func TestCheckoutExtensionRequiresRelatedOrder(t *testing.T) {
	db := setupServiceDB(t)
	svc := newOrderService(db)
	plan := createDiscountedPlan(t, db)

	_, err := svc.Checkout(context.Background(), &dto.CreateOrderRequest{
		ProductID:  plan.ProductID,
		PlanID:     plan.ID,
		BuyerName:  "김철수",
		BuyerEmail: "chulsu@example.com",
		OrderType:  model.OrderTypeExtension,
	})
	if !errors.Is(err, ErrRelatedOrderRequired) {
		t.Errorf("Checkout() error = %v, want ErrRelatedOrderRequired", err)
	}
}

func TestUpdatePaymentStatusSetsPaidAtOnce(t *testing.T) {
	db := setupServiceDB(t)
	svc := newOrderService(db)
	plan := createDiscountedPlan(t, db)

	order, err := svc.Checkout(context.Background(), &dto.CreateOrderRequest{
		ProductID:  plan.ProductID,
		PlanID:     plan.ID,
		BuyerName:  "김철수",
		BuyerEmail: "chulsu@example.com",
	})
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}

	if err := svc.UpdatePaymentStatus(context.Background(), order.ID, model.PaymentStatusPaid); err != nil {
		t.Fatalf("UpdatePaymentStatus() error = %v", err)
	}

	var got model.Order
	db.First(&got, order.ID)
	if got.PaymentStatus != model.PaymentStatusPaid {
		t.Errorf("PaymentStatus = %q, want %q", got.PaymentStatus, model.PaymentStatusPaid)
	}
	if got.PaidAt == nil {
		t.Fatal("PaidAt = nil, want 入金时间")
	}
	firstPaidAt := *got.PaidAt

	// 重复确认不刷新入金时间
	if err := svc.UpdatePaymentStatus(context.Background(), order.ID, model.PaymentStatusPaid); err != nil {
		t.Fatalf("二次 UpdatePaymentStatus() error = %v", err)
	}
	db.First(&got, order.ID)
	if !got.PaidAt.Equal(firstPaidAt) {
		t.Errorf("PaidAt 被刷新: %v -> %v", firstPaidAt, got.PaidAt)
	}
}

func TestUpdatePaymentStatusNotFound(t *testing.T) {
	db := setupServiceDB(t)
	svc := newOrderService(db)

	if err := svc.UpdatePaymentStatus(context.Background(), 9999, model.PaymentStatusPaid); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("UpdatePaymentStatus() error = %v, want ErrOrderNotFound", err)
	}
}
