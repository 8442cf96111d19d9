package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tidalshare_v1_202608/internal/model"
	"tidalshare_v1_202608/internal/repository"
	"tidalshare_v1_202608/internal/service"
)

// ==================== 测试辅助 ====================

func setupAccountTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(
		&model.Product{}, &model.ProductPlan{},
		&model.Order{}, &model.Account{}, &model.OrderAccount{},
	); err != nil {
		t.Fatalf("自动建表失败: %v", err)
	}
	return db
}

func setupAccountRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)

	accountSvc := service.NewAccountService(
		repository.NewAccountRepository(db),
		repository.NewAssignmentRepository(db),
	)
	assignmentSvc := service.NewAssignmentService(repository.NewAssignmentUnitOfWork(db), nil)
	ctl := NewAccountController(accountSvc, assignmentSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	admin := r.Group("/api/admin")
	{
		admin.GET("/accounts/:id", ctl.GetByID)
		admin.POST("/accounts", ctl.Create)
		admin.POST("/accounts/:id/assign", ctl.AssignSlot)
		admin.DELETE("/assignments/:id", ctl.Unassign)
	}
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("编码请求体失败: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedAccountAndOrder(t *testing.T, db *gorm.DB) (*model.Account, *model.Order) {
	t.Helper()

	account := &model.Account{LoginEmail: "shared@tidal.test", MaxSlots: model.DefaultMaxSlots, IsActive: true}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("创建测试账号失败: %v", err)
	}

	product := &model.Product{Name: "Tidal HiFi", Slug: "tidal-hifi", IsVisible: true}
	db.Create(product)
	plan := &model.ProductPlan{ProductID: product.ID, DurationMonths: 1, Price: 10000}
	db.Create(plan)

	order := &model.Order{
		OrderNumber:      service.GenerateOrderNumber(),
		BuyerName:        "김철수",
		BuyerEmail:       "chulsu@example.com",
		ProductID:        product.ID,
		PlanID:           plan.ID,
		Amount:           10000,
		Currency:         "KRW",
		PaymentStatus:    model.PaymentStatusPaid,
		AssignmentStatus: model.AssignmentStatusWaiting,
		OrderType:        model.OrderTypeNew,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("创建测试订单失败: %v", err)
	}
	return account, order
}

// ==================== 槽位分配接口 ====================

func TestAssignSlotEndpoint(t *testing.T) {
	db := setupAccountTestDB(t)
	r := setupAccountRouter(db)
	account, order := seedAccountAndOrder(t, db)

	w := doJSON(t, r, http.MethodPost,
		fmt.Sprintf("/api/admin/accounts/%d/assign", account.ID),
		gin.H{"order_id": order.ID, "slot_number": 1, "tidal_id": "slot1@tidal.test"})

	if w.Code != http.StatusOK {
		t.Fatalf("状态码 = %d, want 200, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			SlotNumber int    `json:"slot_number"`
			TidalID    string `json:"tidal_id"`
			OrderID    int64  `json:"order_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if resp.Data.SlotNumber != 1 || resp.Data.OrderID != order.ID {
		t.Errorf("响应 = %+v", resp.Data)
	}
}

func TestAssignSlotConflictReturns409(t *testing.T) {
	db := setupAccountTestDB(t)
	r := setupAccountRouter(db)
	account, order := seedAccountAndOrder(t, db)

	w := doJSON(t, r, http.MethodPost,
		fmt.Sprintf("/api/admin/accounts/%d/assign", account.ID),
		gin.H{"order_id": order.ID, "slot_number": 1})
	if w.Code != http.StatusOK {
		t.Fatalf("首次分配状态码 = %d, body = %s", w.Code, w.Body.String())
	}

	// 无关订单抢同一槽位
	intruder := &model.Order{
		OrderNumber:      service.GenerateOrderNumber(),
		BuyerName:        "이영희",
		BuyerEmail:       "younghee@example.com",
		ProductID:        order.ProductID,
		PlanID:           order.PlanID,
		PaymentStatus:    model.PaymentStatusPaid,
		AssignmentStatus: model.AssignmentStatusWaiting,
		OrderType:        model.OrderTypeNew,
	}
	db.Create(intruder)

	w = doJSON(t, r, http.MethodPost,
		fmt.Sprintf("/api/admin/accounts/%d/assign", account.ID),
		gin.H{"order_id": intruder.ID, "slot_number": 1})

	if w.Code != http.StatusConflict {
		t.Fatalf("状态码 = %d, want 409, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Error string `json:"error"`
		Data  struct {
			SlotNumber  int    `json:"slot_number"`
			OrderNumber string `json:"order_number"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if resp.Error == "" {
		t.Error("error 为空")
	}
	if resp.Data.OrderNumber != order.OrderNumber {
		t.Errorf("冲突订单号 = %q, want %q", resp.Data.OrderNumber, order.OrderNumber)
	}
}

func TestAssignSlotMissingSlotNumberRejected(t *testing.T) {
	db := setupAccountTestDB(t)
	r := setupAccountRouter(db)
	account, order := seedAccountAndOrder(t, db)

	w := doJSON(t, r, http.MethodPost,
		fmt.Sprintf("/api/admin/accounts/%d/assign", account.ID),
		gin.H{"order_id": order.ID})

	if w.Code != http.StatusBadRequest {
		t.Errorf("状态码 = %d, want 400", w.Code)
	}
}

func TestAssignSlotAccountNotFound(t *testing.T) {
	db := setupAccountTestDB(t)
	r := setupAccountRouter(db)
	_, order := seedAccountAndOrder(t, db)

	w := doJSON(t, r, http.MethodPost, "/api/admin/accounts/9999/assign",
		gin.H{"order_id": order.ID, "slot_number": 1})

	if w.Code != http.StatusNotFound {
		t.Errorf("状态码 = %d, want 404, body = %s", w.Code, w.Body.String())
	}
}

func TestCreateAccountEndpoint(t *testing.T) {
	db := setupAccountTestDB(t)
	r := setupAccountRouter(db)

	w := doJSON(t, r, http.MethodPost, "/api/admin/accounts",
		gin.H{"login_email": "new@tidal.test", "login_password": "pw"})

	if w.Code != http.StatusOK {
		t.Fatalf("状态码 = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			LoginEmail string `json:"login_email"`
			MaxSlots   int    `json:"max_slots"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if resp.Data.MaxSlots != model.DefaultMaxSlots {
		t.Errorf("MaxSlots = %d, want %d", resp.Data.MaxSlots, model.DefaultMaxSlots)
	}
}
