package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tidalshare_v1_202608/internal/api/dto"
	"tidalshare_v1_202608/internal/model"
	"tidalshare_v1_202608/internal/repository"
)

// ==================== 测试辅助 ====================

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	if err := db.AutoMigrate(
		&model.Product{}, &model.ProductPlan{},
		&model.Profile{}, &model.Order{},
		&model.Account{}, &model.OrderAccount{},
	); err != nil {
		t.Fatalf("自动建表失败: %v", err)
	}
	return db
}

func newAssignmentService(db *gorm.DB) *AssignmentService {
	return NewAssignmentService(repository.NewAssignmentUnitOfWork(db), nil)
}

func createTestAccount(t *testing.T, db *gorm.DB) *model.Account {
	t.Helper()
	account := &model.Account{
		LoginEmail:    "shared@tidal.test",
		LoginPassword: "pw",
		MaxSlots:      model.DefaultMaxSlots,
		IsActive:      true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("创建测试账号失败: %v", err)
	}
	return account
}

func createTestPlan(t *testing.T, db *gorm.DB, months int) *model.ProductPlan {
	t.Helper()
	product := &model.Product{Name: "Tidal HiFi", Slug: "tidal-hifi", IsVisible: true}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("创建测试商品失败: %v", err)
	}
	plan := &model.ProductPlan{
		ProductID:      product.ID,
		DurationMonths: months,
		Price:          10000,
	}
	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("创建测试套餐失败: %v", err)
	}
	return plan
}

func createTestOrder(t *testing.T, db *gorm.DB, plan *model.ProductPlan, mutate func(o *model.Order)) *model.Order {
	t.Helper()
	order := &model.Order{
		OrderNumber:      GenerateOrderNumber(),
		BuyerName:        "김철수",
		BuyerEmail:       "chulsu@example.com",
		ProductID:        plan.ProductID,
		PlanID:           plan.ID,
		Amount:           plan.FinalPrice(),
		Currency:         "KRW",
		PaymentStatus:    model.PaymentStatusPaid,
		AssignmentStatus: model.AssignmentStatusWaiting,
		OrderType:        model.OrderTypeNew,
	}
	if mutate != nil {
		mutate(order)
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("创建测试订单失败: %v", err)
	}
	return order
}

func slotNum(n int) *int { return &n }

// ==================== 分配 ====================

func TestAssignCreatesAssignmentAndSyncsUsedSlots(t *testing.T) {
	db := setupServiceDB(t)
	svc := newAssignmentService(db)
	account := createTestAccount(t, db)
	plan := createTestPlan(t, db, 3)

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	order := createTestOrder(t, db, plan, func(o *model.Order) {
		o.StartDate = &start
	})

	assignment, err := svc.Assign(context.Background(), account.ID, &dto.AssignSlotRequest{
		OrderID:       &order.ID,
		SlotNumber:    slotNum(1),
		TidalID:       "slot1@tidal.test",
		TidalPassword: "slot-pw",
	})
	if err != nil {
		t.Fatalf("Assign() error = %v", err)
	}

	if assignment.SlotNumber != 1 {
		t.Errorf("SlotNumber = %d, want 1", assignment.SlotNumber)
	}
	if assignment.Type != model.SlotTypeUser {
		t.Errorf("Type = %q, want %q", assignment.Type, model.SlotTypeUser)
	}
	if assignment.BuyerName != "김철수" {
		t.Errorf("BuyerName = %q, want 김철수", assignment.BuyerName)
	}

	// 到期日按套餐时长推算：2025-01-01 + 3 个月 = 2025-04-01
	if assignment.EndDate == nil {
		t.Fatal("EndDate = nil, want 2025-04-01")
	}
	want := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	if !assignment.EndDate.Equal(want) {
		t.Errorf("EndDate = %v, want %v", assignment.EndDate, want)
	}

	// used_slots 按实际行数重算
	var got model.Account
	db.First(&got, account.ID)
	if got.UsedSlots != 1 {
		t.Errorf("UsedSlots = %d, want 1", got.UsedSlots)
	}

	// 订单翻转为已分配
	var gotOrder model.Order
	db.First(&gotOrder, order.ID)
	if gotOrder.AssignmentStatus != model.AssignmentStatusAssigned {
		t.Errorf("AssignmentStatus = %q, want %q", gotOrder.AssignmentStatus, model.AssignmentStatusAssigned)
	}
	if gotOrder.AssignedAt == nil {
		t.Error("AssignedAt = nil, want set")
	}
}

func TestAssignMasterSlotType(t *testing.T) {
	db := setupServiceDB(t)
	svc := newAssignmentService(db)
	account := createTestAccount(t, db)
	plan := createTestPlan(t, db, 1)
	order := createTestOrder(t, db, plan, nil)

	assignment, err := svc.Assign(context.Background(), account.ID, &dto.AssignSlotRequest{
		OrderID:    &order.ID,
		SlotNumber: slotNum(0),
	})
	if err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	if assignment.Type != model.SlotTypeMaster {
		t.Errorf("Type = %q, want %q", assignment.Type, model.SlotTypeMaster)
	}
}

func TestAssignConflictLeavesExistingUntouched(t *testing.T) {
	db := setupServiceDB(t)
	svc := newAssignmentService(db)
	account := createTestAccount(t, db)
	plan := createTestPlan(t, db, 1)

	first := createTestOrder(t, db, plan, nil)
	if _, err := svc.Assign(context.Background(), account.ID, &dto.AssignSlotRequest{
		OrderID:    &first.ID,
		SlotNumber: slotNum(2),
		TidalID:    "occupied@tidal.test",
	}); err != nil {
		t.Fatalf("首次 Assign() error = %v", err)
	}

	// 无关订单抢同一槽位
	intruder := createTestOrder(t, db, plan, func(o *model.Order) {
		o.BuyerName = "이영희"
		o.BuyerEmail = "younghee@example.com"
	})
	_, err := svc.Assign(context.Background(), account.ID, &dto.AssignSlotRequest{
		OrderID:    &intruder.ID,
		SlotNumber: slotNum(2),
	})

	var conflict *SlotConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Assign() error = %v, want SlotConflictError", err)
	}
	if conflict.OrderNumber != first.OrderNumber {
		t.Errorf("conflict.OrderNumber = %q, want %q", conflict.OrderNumber, first.OrderNumber)
	}

	// 既有分配原封不动，计数不变，冲突订单仍在等待
	var existing model.OrderAccount
	db.Where("account_id = ? AND slot_number = ?", account.ID, 2).First(&existing)
	if existing.OrderID != first.ID {
		t.Errorf("existing.OrderID = %d, want %d", existing.OrderID, first.ID)
	}

	var got model.Account
	db.First(&got, account.ID)
	if got.UsedSlots != 1 {
		t.Errorf("UsedSlots = %d, want 1", got.UsedSlots)
	}

	var gotIntruder model.Order
	db.First(&gotIntruder, intruder.ID)
	if gotIntruder.AssignmentStatus != model.AssignmentStatusWaiting {
		t.Errorf("intruder.AssignmentStatus = %q, want %q",
			gotIntruder.AssignmentStatus, model.AssignmentStatusWaiting)
	}
}

func TestAssignOverwriteByRelatedOrder(t *testing.T) {
	db := setupServiceDB(t)
	svc := newAssignmentService(db)
	account := createTestAccount(t, db)
	plan := createTestPlan(t, db, 1)

	original := createTestOrder(t, db, plan, nil)
	if _, err := svc.Assign(context.Background(), account.ID, &dto.AssignSlotRequest{
		OrderID:       &original.ID,
		SlotNumber:    slotNum(3),
		TidalID:       "keep@tidal.test",
		TidalPassword: "keep-pw",
	}); err != nil {
		t.Fatalf("首次 Assign() error = %v", err)
	}

	// 续费单指向原订单，允许覆写且沿用凭证
	renewal := createTestOrder(t, db, plan, func(o *model.Order) {
		o.OrderType = model.OrderTypeExtension
		o.RelatedOrderID = &original.ID
	})
	assignment, err := svc.Assign(context.Background(), account.ID, &dto.AssignSlotRequest{
		OrderID:    &renewal.ID,
		SlotNumber: slotNum(3),
	})
	if err != nil {
		t.Fatalf("续费 Assign() error = %v", err)
	}

	if assignment.OrderID != renewal.ID {
		t.Errorf("OrderID = %d, want %d", assignment.OrderID, renewal.ID)
	}
	if assignment.TidalID != "keep@tidal.test" {
		t.Errorf("TidalID = %q, want keep@tidal.test", assignment.TidalID)
	}

	// 仍然只有一条分配，计数不变
	var count int64
	db.Model(&model.OrderAccount{}).Where("account_id = ?", account.ID).Count(&count)
	if count != 1 {
		t.Errorf("分配行数 = %d, want 1", count)
	}

	var got model.Account
	db.First(&got, account.ID)
	if got.UsedSlots != 1 {
		t.Errorf("UsedSlots = %d, want 1", got.UsedSlots)
	}
}

func TestAssignOverwriteByBuyerMatch(t *testing.T) {
	db := setupServiceDB(t)
	svc := newAssignmentService(db)
	account := createTestAccount(t, db)
	plan := createTestPlan(t, db, 1)

	original := createTestOrder(t, db, plan, nil)
	if _, err := svc.Assign(context.Background(), account.ID, &dto.AssignSlotRequest{
		OrderID:    &original.ID,
		SlotNumber: slotNum(4),
	}); err != nil {
		t.Fatalf("首次 Assign() error = %v", err)
	}

	// 同一买家的续费单（邮箱大小写不同也要命中）
	renewal := createTestOrder(t, db, plan, func(o *model.Order) {
		o.OrderType = model.OrderTypeExtension
		o.BuyerEmail = "CHULSU@example.com"
	})
	assignment, err := svc.Assign(context.Background(), account.ID, &dto.AssignSlotRequest{
		OrderID:    &renewal.ID,
		SlotNumber: slotNum(4),
	})
	if err != nil {
		t.Fatalf("续费 Assign() error = %v", err)
	}
	if assignment.OrderID != renewal.ID {
		t.Errorf("OrderID = %d, want %d", assignment.OrderID, renewal.ID)
	}
}

func TestAssignWithoutOrderSynthesizesGuestOrder(t *testing.T) {
	db := setupServiceDB(t)
	svc := newAssignmentService(db)
	account := createTestAccount(t, db)

	assignment, err := svc.Assign(context.Background(), account.ID, &dto.AssignSlotRequest{
		SlotNumber: slotNum(5),
		BuyerName:  "박민수",
		BuyerEmail: "minsu@example.com",
		StartDate:  "2025-02-01",
		EndDate:    "2025-03-01",
	})
	if err != nil {
		t.Fatalf("Assign() error = %v", err)
	}

	var order model.Order
	if err := db.First(&order, assignment.OrderID).Error; err != nil {
		t.Fatalf("合成订单不存在: %v", err)
	}
	if order.Amount != 0 {
		t.Errorf("Amount = %d, want 0", order.Amount)
	}
	if order.PaymentStatus != model.PaymentStatusPaid {
		t.Errorf("PaymentStatus = %q, want %q", order.PaymentStatus, model.PaymentStatusPaid)
	}
	if order.ProfileID != nil {
		t.Error("ProfileID != nil, want 访客订单")
	}
}

func TestAssignWithoutOrderOrBuyerRejected(t *testing.T) {
	db := setupServiceDB(t)
	svc := newAssignmentService(db)
	account := createTestAccount(t, db)

	_, err := svc.Assign(context.Background(), account.ID, &dto.AssignSlotRequest{
		SlotNumber: slotNum(1),
	})
	if !errors.Is(err, ErrOrderRequired) {
		t.Errorf("Assign() error = %v, want ErrOrderRequired", err)
	}
}

func TestAssignAccountNotFound(t *testing.T) {
	db := setupServiceDB(t)
	svc := newAssignmentService(db)
	plan := createTestPlan(t, db, 1)
	order := createTestOrder(t, db, plan, nil)

	_, err := svc.Assign(context.Background(), 9999, &dto.AssignSlotRequest{
		OrderID:    &order.ID,
		SlotNumber: slotNum(1),
	})
	if !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("Assign() error = %v, want ErrAccountNotFound", err)
	}
}

// ==================== 解除分配 ====================

func TestUnassignResetsOrderAndCount(t *testing.T) {
	db := setupServiceDB(t)
	svc := newAssignmentService(db)
	account := createTestAccount(t, db)
	plan := createTestPlan(t, db, 1)
	order := createTestOrder(t, db, plan, nil)

	assignment, err := svc.Assign(context.Background(), account.ID, &dto.AssignSlotRequest{
		OrderID:    &order.ID,
		SlotNumber: slotNum(1),
	})
	if err != nil {
		t.Fatalf("Assign() error = %v", err)
	}

	if err := svc.Unassign(context.Background(), assignment.ID); err != nil {
		t.Fatalf("Unassign() error = %v", err)
	}

	var got model.Account
	db.First(&got, account.ID)
	if got.UsedSlots != 0 {
		t.Errorf("UsedSlots = %d, want 0", got.UsedSlots)
	}

	var gotOrder model.Order
	db.First(&gotOrder, order.ID)
	if gotOrder.AssignmentStatus != model.AssignmentStatusWaiting {
		t.Errorf("AssignmentStatus = %q, want %q", gotOrder.AssignmentStatus, model.AssignmentStatusWaiting)
	}
	if gotOrder.AssignedAt != nil {
		t.Error("AssignedAt != nil, want 清空")
	}
}

func TestUnassignNotFound(t *testing.T) {
	db := setupServiceDB(t)
	svc := newAssignmentService(db)

	if err := svc.Unassign(context.Background(), 42); !errors.Is(err, ErrAssignmentNotFound) {
		t.Errorf("Unassign() error = %v, want ErrAssignmentNotFound", err)
	}
}

// ==================== 迁移 ====================

func TestMoveToAnotherAccount(t *testing.T) {
	db := setupServiceDB(t)
	svc := newAssignmentService(db)
	source := createTestAccount(t, db)
	plan := createTestPlan(t, db, 1)
	order := createTestOrder(t, db, plan, nil)

	target := &model.Account{LoginEmail: "target@tidal.test", MaxSlots: model.DefaultMaxSlots, IsActive: true}
	db.Create(target)

	if _, err := svc.Assign(context.Background(), source.ID, &dto.AssignSlotRequest{
		OrderID:    &order.ID,
		SlotNumber: slotNum(1),
	}); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}

	err := svc.Move(context.Background(), &dto.MoveSlotRequest{
		OrderID:          order.ID,
		TargetAccountID:  target.ID,
		TargetSlotNumber: slotNum(0),
	})
	if err != nil {
		t.Fatalf("Move() error = %v", err)
	}

	var assignment model.OrderAccount
	db.Where("order_id = ?", order.ID).First(&assignment)
	if assignment.AccountID != target.ID || assignment.SlotNumber != 0 {
		t.Errorf("迁移后位置 = (%d, %d), want (%d, 0)", assignment.AccountID, assignment.SlotNumber, target.ID)
	}
	// 0 号槽类型翻成主账号
	if assignment.Type != model.SlotTypeMaster {
		t.Errorf("Type = %q, want %q", assignment.Type, model.SlotTypeMaster)
	}

	// 两侧计数都重算
	var gotSource, gotTarget model.Account
	db.First(&gotSource, source.ID)
	db.First(&gotTarget, target.ID)
	if gotSource.UsedSlots != 0 {
		t.Errorf("source.UsedSlots = %d, want 0", gotSource.UsedSlots)
	}
	if gotTarget.UsedSlots != 1 {
		t.Errorf("target.UsedSlots = %d, want 1", gotTarget.UsedSlots)
	}
}

func TestMoveToFullAccountRejected(t *testing.T) {
	db := setupServiceDB(t)
	svc := newAssignmentService(db)
	source := createTestAccount(t, db)
	plan := createTestPlan(t, db, 1)
	order := createTestOrder(t, db, plan, nil)

	// 目标账号已满
	target := &model.Account{LoginEmail: "full@tidal.test", MaxSlots: 1, UsedSlots: 1, IsActive: true}
	db.Create(target)

	if _, err := svc.Assign(context.Background(), source.ID, &dto.AssignSlotRequest{
		OrderID:    &order.ID,
		SlotNumber: slotNum(1),
	}); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}

	err := svc.Move(context.Background(), &dto.MoveSlotRequest{
		OrderID:          order.ID,
		TargetAccountID:  target.ID,
		TargetSlotNumber: slotNum(0),
	})
	if !errors.Is(err, ErrAccountFull) {
		t.Errorf("Move() error = %v, want ErrAccountFull", err)
	}
}

func TestMoveToOccupiedSlotRejected(t *testing.T) {
	db := setupServiceDB(t)
	svc := newAssignmentService(db)
	account := createTestAccount(t, db)
	plan := createTestPlan(t, db, 1)

	first := createTestOrder(t, db, plan, nil)
	second := createTestOrder(t, db, plan, func(o *model.Order) {
		o.BuyerName = "이영희"
		o.BuyerEmail = "younghee@example.com"
	})

	if _, err := svc.Assign(context.Background(), account.ID, &dto.AssignSlotRequest{
		OrderID:    &first.ID,
		SlotNumber: slotNum(1),
	}); err != nil {
		t.Fatalf("Assign(first) error = %v", err)
	}
	if _, err := svc.Assign(context.Background(), account.ID, &dto.AssignSlotRequest{
		OrderID:    &second.ID,
		SlotNumber: slotNum(2),
	}); err != nil {
		t.Fatalf("Assign(second) error = %v", err)
	}

	err := svc.Move(context.Background(), &dto.MoveSlotRequest{
		OrderID:          second.ID,
		TargetAccountID:  account.ID,
		TargetSlotNumber: slotNum(1),
	})
	var conflict *SlotConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Move() error = %v, want SlotConflictError", err)
	}
}

func TestMoveSameSlotRejected(t *testing.T) {
	db := setupServiceDB(t)
	svc := newAssignmentService(db)
	account := createTestAccount(t, db)
	plan := createTestPlan(t, db, 1)
	order := createTestOrder(t, db, plan, nil)

	if _, err := svc.Assign(context.Background(), account.ID, &dto.AssignSlotRequest{
		OrderID:    &order.ID,
		SlotNumber: slotNum(1),
	}); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}

	err := svc.Move(context.Background(), &dto.MoveSlotRequest{
		OrderID:          order.ID,
		TargetAccountID:  account.ID,
		TargetSlotNumber: slotNum(1),
	})
	if !errors.Is(err, ErrSameSlot) {
		t.Errorf("Move() error = %v, want ErrSameSlot", err)
	}
}

// ==================== 过期清理 ====================

func TestExpireOverdueMarksInactiveButKeepsSlot(t *testing.T) {
	db := setupServiceDB(t)
	svc := newAssignmentService(db)
	account := createTestAccount(t, db)
	plan := createTestPlan(t, db, 1)

	past := time.Now().AddDate(0, 0, -10)
	order := createTestOrder(t, db, plan, func(o *model.Order) {
		o.StartDate = &past
	})

	end := time.Now().AddDate(0, 0, -1)
	if _, err := svc.Assign(context.Background(), account.ID, &dto.AssignSlotRequest{
		OrderID:    &order.ID,
		SlotNumber: slotNum(1),
		EndDate:    end.Format("2006-01-02"),
	}); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}

	count, err := svc.ExpireOverdue(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("ExpireOverdue() error = %v", err)
	}
	if count != 1 {
		t.Errorf("处理条数 = %d, want 1", count)
	}

	var assignment model.OrderAccount
	db.Where("order_id = ?", order.ID).First(&assignment)
	if assignment.IsActive {
		t.Error("IsActive = true, want false")
	}

	var gotOrder model.Order
	db.First(&gotOrder, order.ID)
	if gotOrder.AssignmentStatus != model.AssignmentStatusExpired {
		t.Errorf("AssignmentStatus = %q, want %q", gotOrder.AssignmentStatus, model.AssignmentStatusExpired)
	}

	// 槽位不自动释放
	var got model.Account
	db.First(&got, account.ID)
	if got.UsedSlots != 1 {
		t.Errorf("UsedSlots = %d, want 1（到期不释放槽位）", got.UsedSlots)
	}
}

func TestExpireOverdueIdempotent(t *testing.T) {
	db := setupServiceDB(t)
	svc := newAssignmentService(db)
	account := createTestAccount(t, db)
	plan := createTestPlan(t, db, 1)
	order := createTestOrder(t, db, plan, nil)

	end := time.Now().AddDate(0, 0, -1)
	if _, err := svc.Assign(context.Background(), account.ID, &dto.AssignSlotRequest{
		OrderID:    &order.ID,
		SlotNumber: slotNum(1),
		EndDate:    end.Format("2006-01-02"),
	}); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}

	if _, err := svc.ExpireOverdue(context.Background(), time.Now()); err != nil {
		t.Fatalf("首轮 ExpireOverdue() error = %v", err)
	}
	count, err := svc.ExpireOverdue(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("次轮 ExpireOverdue() error = %v", err)
	}
	if count != 0 {
		t.Errorf("次轮处理条数 = %d, want 0", count)
	}
}

// ==================== 到期通知 ====================

func TestNotifyExpirySendsAndReportsFailures(t *testing.T) {
	db := setupServiceDB(t)
	account := createTestAccount(t, db)
	plan := createTestPlan(t, db, 1)

	var sentTo []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req sendRequest
		json.NewDecoder(r.Body).Decode(&req)
		sentTo = append(sentTo, req.To...)
		w.Write([]byte(`{"id":"mail_1"}`))
	}))
	defer srv.Close()

	mail := NewMailService(&MailConfig{BaseURL: srv.URL, APIKey: "test-key", Sender: "x"})
	svc := NewAssignmentService(repository.NewAssignmentUnitOfWork(db), mail)

	withEmail := createTestOrder(t, db, plan, nil)
	a1, err := svc.Assign(context.Background(), account.ID, &dto.AssignSlotRequest{
		OrderID:    &withEmail.ID,
		SlotNumber: slotNum(1),
		TidalID:    "slot1@tidal.test",
	})
	if err != nil {
		t.Fatalf("Assign() error = %v", err)
	}

	noEmail := createTestOrder(t, db, plan, func(o *model.Order) {
		o.BuyerName = "이영희"
		o.BuyerEmail = ""
	})
	a2, err := svc.Assign(context.Background(), account.ID, &dto.AssignSlotRequest{
		OrderID:    &noEmail.ID,
		SlotNumber: slotNum(2),
	})
	if err != nil {
		t.Fatalf("Assign() error = %v", err)
	}

	// Assign 自身会发配置完成邮件，清掉后只统计到期提醒
	sentTo = nil

	resp, err := svc.NotifyExpiry(context.Background(), &dto.NotifyExpiryRequest{
		AssignmentIDs: []int64{a1.ID, a2.ID},
		Template:      "{buyer_name}님, {tidal_id} 이용권이 {end_date}에 만료됩니다",
	})
	if err != nil {
		t.Fatalf("NotifyExpiry() error = %v", err)
	}

	if resp.Sent != 1 || resp.Failed != 1 {
		t.Errorf("Sent/Failed = %d/%d, want 1/1", resp.Sent, resp.Failed)
	}
	if len(sentTo) != 1 || sentTo[0] != "chulsu@example.com" {
		t.Errorf("实际收件人 = %v, want [chulsu@example.com]", sentTo)
	}
	if len(resp.Failures) != 1 || resp.Failures[0].AssignmentID != a2.ID {
		t.Fatalf("Failures = %+v, want 缺邮箱的那条", resp.Failures)
	}
	if resp.Failures[0].Reason != "이메일 주소가 없습니다" {
		t.Errorf("Reason = %q", resp.Failures[0].Reason)
	}
}

func TestNotifyExpiryWithoutMailService(t *testing.T) {
	db := setupServiceDB(t)
	svc := newAssignmentService(db)

	_, err := svc.NotifyExpiry(context.Background(), &dto.NotifyExpiryRequest{
		AssignmentIDs: []int64{1},
		Template:      "{buyer_name}",
	})
	if !errors.Is(err, ErrMailNotConfigured) {
		t.Errorf("NotifyExpiry() error = %v, want ErrMailNotConfigured", err)
	}
}
