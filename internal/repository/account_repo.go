package repository

import (
	"context"
	"time"

	"tidalshare_v1_202608/internal/model"

	"gorm.io/gorm"
)

// ==================== 过滤条件 ====================

// AccountFilter 共享账号过滤条件
type AccountFilter struct {
	ActiveOnly   bool
	HasFreeSlots bool
	Keyword      string
	Page         int
	PageSize     int
}

// ==================== AccountRepository 共享账号仓库 ====================

// AccountRepository 共享账号仓库接口
type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	GetByID(ctx context.Context, id int64) (*model.Account, error)
	GetByIDWithAssignments(ctx context.Context, id int64) (*model.Account, error)
	List(ctx context.Context, filter AccountFilter) ([]model.Account, int64, error)
	Update(ctx context.Context, account *model.Account) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error

	// SyncUsedSlots 按分配行数重算 used_slots 并回写，返回最新计数。
	// 冗余计数一律走这里，不做增减
	SyncUsedSlots(ctx context.Context, accountID int64) (int, error)
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository 创建共享账号仓库
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *model.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *accountRepository) GetByID(ctx context.Context, id int64) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).First(&account, id).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) GetByIDWithAssignments(ctx context.Context, id int64) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).
		Preload("Assignments", func(db *gorm.DB) *gorm.DB {
			return db.Order("slot_number ASC")
		}).
		First(&account, id).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) List(ctx context.Context, filter AccountFilter) ([]model.Account, int64, error) {
	var accounts []model.Account
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Account{})

	if filter.ActiveOnly {
		db = db.Where("is_active = ?", true)
	}
	if filter.HasFreeSlots {
		db = db.Where("used_slots < max_slots")
	}
	if filter.Keyword != "" {
		keyword := "%" + filter.Keyword + "%"
		db = db.Where("login_email LIKE ? OR memo LIKE ?", keyword, keyword)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	err := db.
		Preload("Assignments", func(db *gorm.DB) *gorm.DB {
			return db.Order("slot_number ASC")
		}).
		Order("id ASC").
		Limit(filter.PageSize).
		Offset(offset).
		Find(&accounts).Error

	return accounts, total, err
}

func (r *accountRepository) Update(ctx context.Context, account *model.Account) error {
	return r.db.WithContext(ctx).Save(account).Error
}

func (r *accountRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Account{}).Where("id = ?", id).Updates(fields).Error
}

func (r *accountRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Account{}, id).Error
}

func (r *accountRepository) SyncUsedSlots(ctx context.Context, accountID int64) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.OrderAccount{}).
		Where("account_id = ?", accountID).
		Count(&count).Error; err != nil {
		return 0, err
	}

	err := r.db.WithContext(ctx).Model(&model.Account{}).
		Where("id = ?", accountID).
		Update("used_slots", count).Error
	return int(count), err
}

// ==================== AssignmentRepository 槽位分配仓库 ====================

// AssignmentRepository 槽位分配仓库接口
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *model.OrderAccount) error
	GetByID(ctx context.Context, id int64) (*model.OrderAccount, error)
	GetBySlot(ctx context.Context, accountID int64, slotNumber int) (*model.OrderAccount, error)
	GetByOrderID(ctx context.Context, orderID int64) ([]model.OrderAccount, error)
	GetByIDs(ctx context.Context, ids []int64) ([]model.OrderAccount, error)
	ListByAccount(ctx context.Context, accountID int64) ([]model.OrderAccount, error)
	Update(ctx context.Context, assignment *model.OrderAccount) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
	CountByAccount(ctx context.Context, accountID int64) (int64, error)
	CountByOrder(ctx context.Context, orderID int64) (int64, error)

	// 过期清理相关
	FindActiveExpired(ctx context.Context, before time.Time) ([]model.OrderAccount, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository 创建槽位分配仓库
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *model.OrderAccount) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepository) GetByID(ctx context.Context, id int64) (*model.OrderAccount, error) {
	var assignment model.OrderAccount
	err := r.db.WithContext(ctx).First(&assignment, id).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepository) GetBySlot(ctx context.Context, accountID int64, slotNumber int) (*model.OrderAccount, error) {
	var assignment model.OrderAccount
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND slot_number = ?", accountID, slotNumber).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepository) GetByOrderID(ctx context.Context, orderID int64) ([]model.OrderAccount, error) {
	var assignments []model.OrderAccount
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.OrderAccount, error) {
	var assignments []model.OrderAccount
	if len(ids) == 0 {
		return assignments, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepository) ListByAccount(ctx context.Context, accountID int64) ([]model.OrderAccount, error) {
	var assignments []model.OrderAccount
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("slot_number ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepository) Update(ctx context.Context, assignment *model.OrderAccount) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

func (r *assignmentRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.OrderAccount{}).Where("id = ?", id).Updates(fields).Error
}

func (r *assignmentRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.OrderAccount{}, id).Error
}

func (r *assignmentRepository) CountByAccount(ctx context.Context, accountID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.OrderAccount{}).
		Where("account_id = ?", accountID).
		Count(&count).Error
	return count, err
}

func (r *assignmentRepository) CountByOrder(ctx context.Context, orderID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.OrderAccount{}).
		Where("order_id = ?", orderID).
		Count(&count).Error
	return count, err
}

func (r *assignmentRepository) FindActiveExpired(ctx context.Context, before time.Time) ([]model.OrderAccount, error) {
	var assignments []model.OrderAccount
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("end_date IS NOT NULL AND end_date < ?", before).
		Find(&assignments).Error
	return assignments, err
}

// ==================== AssignmentUnitOfWork 分配工作单元 ====================

// AssignmentUnitOfWork 槽位分配工作单元（事务）
// 占用检查、分配写入、used_slots 重算、订单状态翻转必须同生共死
type AssignmentUnitOfWork struct {
	db          *gorm.DB
	Accounts    AccountRepository
	Assignments AssignmentRepository
	Orders      OrderRepository
	Plans       PlanRepository
}

// NewAssignmentUnitOfWork 创建工作单元
func NewAssignmentUnitOfWork(db *gorm.DB) *AssignmentUnitOfWork {
	return &AssignmentUnitOfWork{
		db:          db,
		Accounts:    NewAccountRepository(db),
		Assignments: NewAssignmentRepository(db),
		Orders:      NewOrderRepository(db),
		Plans:       NewPlanRepository(db),
	}
}

// Transaction 执行事务
func (u *AssignmentUnitOfWork) Transaction(ctx context.Context, fn func(uow *AssignmentUnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txUow := &AssignmentUnitOfWork{
			db:          tx,
			Accounts:    NewAccountRepository(tx),
			Assignments: NewAssignmentRepository(tx),
			Orders:      NewOrderRepository(tx),
			Plans:       NewPlanRepository(tx),
		}
		return fn(txUow)
	})
}
