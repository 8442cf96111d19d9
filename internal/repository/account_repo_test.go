package repository

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tidalshare_v1_202608/internal/model"
)

func setupAccountRepoDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.Account{}, &model.OrderAccount{}); err != nil {
		t.Fatalf("自动建表失败: %v", err)
	}
	return db
}

func TestSyncUsedSlots(t *testing.T) {
	db := setupAccountRepoDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	account := &model.Account{LoginEmail: "a@tidal.test", MaxSlots: model.DefaultMaxSlots, UsedSlots: 99, IsActive: true}
	if err := repo.Create(ctx, account); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	for slot := 0; slot < 3; slot++ {
		db.Create(&model.OrderAccount{OrderID: int64(slot + 1), AccountID: account.ID, SlotNumber: slot, IsActive: true})
	}

	// 计数按实际行数重算，不看旧值
	count, err := repo.SyncUsedSlots(ctx, account.ID)
	if err != nil {
		t.Fatalf("SyncUsedSlots() error = %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}

	got, err := repo.GetByID(ctx, account.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.UsedSlots != 3 {
		t.Errorf("UsedSlots = %d, want 3", got.UsedSlots)
	}
}

func TestAccountListFilters(t *testing.T) {
	db := setupAccountRepoDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	db.Create(&model.Account{LoginEmail: "full@tidal.test", MaxSlots: 6, UsedSlots: 6, IsActive: true})
	db.Create(&model.Account{LoginEmail: "free@tidal.test", MaxSlots: 6, UsedSlots: 2, IsActive: true})
	db.Create(&model.Account{LoginEmail: "off@tidal.test", MaxSlots: 6, UsedSlots: 0, IsActive: false})

	accounts, total, err := repo.List(ctx, AccountFilter{HasFreeSlots: true, ActiveOnly: true})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 1 || len(accounts) != 1 {
		t.Fatalf("total = %d, len = %d, want 1/1", total, len(accounts))
	}
	if accounts[0].LoginEmail != "free@tidal.test" {
		t.Errorf("LoginEmail = %q, want free@tidal.test", accounts[0].LoginEmail)
	}

	_, total, err = repo.List(ctx, AccountFilter{Keyword: "off"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 1 {
		t.Errorf("关键词过滤 total = %d, want 1", total)
	}
}

func TestFindActiveExpired(t *testing.T) {
	db := setupAccountRepoDB(t)
	repo := NewAssignmentRepository(db)
	ctx := context.Background()

	yesterday := time.Now().AddDate(0, 0, -1)
	tomorrow := time.Now().AddDate(0, 0, 1)

	db.Create(&model.OrderAccount{OrderID: 1, AccountID: 1, SlotNumber: 1, EndDate: &yesterday, IsActive: true})
	db.Create(&model.OrderAccount{OrderID: 2, AccountID: 1, SlotNumber: 2, EndDate: &tomorrow, IsActive: true})
	// 已停用的不再重复处理
	db.Create(&model.OrderAccount{OrderID: 3, AccountID: 1, SlotNumber: 3, EndDate: &yesterday, IsActive: false})
	// 无到期日视为长期有效
	db.Create(&model.OrderAccount{OrderID: 4, AccountID: 1, SlotNumber: 4, IsActive: true})

	expired, err := repo.FindActiveExpired(ctx, time.Now())
	if err != nil {
		t.Fatalf("FindActiveExpired() error = %v", err)
	}
	if len(expired) != 1 {
		t.Fatalf("len = %d, want 1", len(expired))
	}
	if expired[0].OrderID != 1 {
		t.Errorf("OrderID = %d, want 1", expired[0].OrderID)
	}
}

func TestSlotUniqueIndexBlocksDuplicateAssignment(t *testing.T) {
	db := setupAccountRepoDB(t)

	first := &model.OrderAccount{OrderID: 1, AccountID: 1, SlotNumber: 2, IsActive: true}
	if err := db.Create(first).Error; err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// 同一账号同一槽位的未删除记录只能有一条，数据库层直接拒绝
	dup := &model.OrderAccount{OrderID: 2, AccountID: 1, SlotNumber: 2, IsActive: true}
	if err := db.Create(dup).Error; err == nil {
		t.Fatal("重复占用同一槽位应触发唯一索引冲突")
	}

	// 软删除后的行不受索引约束，槽位可以重新分配
	if err := db.Delete(first).Error; err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	again := &model.OrderAccount{OrderID: 3, AccountID: 1, SlotNumber: 2, IsActive: true}
	if err := db.Create(again).Error; err != nil {
		t.Fatalf("软删除后重新分配失败: %v", err)
	}
}

func TestAssignmentUnitOfWorkRollback(t *testing.T) {
	db := setupAccountRepoDB(t)
	uow := NewAssignmentUnitOfWork(db)
	ctx := context.Background()

	account := &model.Account{LoginEmail: "a@tidal.test", MaxSlots: 6, IsActive: true}
	db.Create(account)

	wantErr := context.Canceled
	err := uow.Transaction(ctx, func(tx *AssignmentUnitOfWork) error {
		if err := tx.Assignments.Create(ctx, &model.OrderAccount{
			OrderID: 1, AccountID: account.ID, SlotNumber: 1, IsActive: true,
		}); err != nil {
			return err
		}
		return wantErr
	})
	if err != wantErr {
		t.Fatalf("Transaction() error = %v, want %v", err, wantErr)
	}

	// 事务内的写入应随错误回滚
	var count int64
	db.Model(&model.OrderAccount{}).Count(&count)
	if count != 0 {
		t.Errorf("分配行数 = %d, 事务失败后应回滚为 0", count)
	}
}
