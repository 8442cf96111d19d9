package repository

import (
	"context"
	"errors"

	"tidalshare_v1_202608/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ==================== SettingRepository 站点设置仓库 ====================

// SettingRepository 站点设置仓库接口
type SettingRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	GetAll(ctx context.Context) (map[string]string, error)
}

type settingRepository struct {
	db *gorm.DB
}

// NewSettingRepository 创建站点设置仓库
func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

// Get 读取设置值，键不存在时返回空串
func (r *settingRepository) Get(ctx context.Context, key string) (string, error) {
	var setting model.SiteSetting
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}

func (r *settingRepository) Set(ctx context.Context, key, value string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&model.SiteSetting{Key: key, Value: value}).Error
}

func (r *settingRepository) GetAll(ctx context.Context) (map[string]string, error) {
	var settings []model.SiteSetting
	if err := r.db.WithContext(ctx).Find(&settings).Error; err != nil {
		return nil, err
	}

	result := make(map[string]string, len(settings))
	for _, s := range settings {
		result[s.Key] = s.Value
	}
	return result, nil
}

// ==================== BankAccountRepository 收款账户仓库 ====================

// BankAccountRepository 收款账户仓库接口
type BankAccountRepository interface {
	Create(ctx context.Context, account *model.BankAccount) error
	GetByID(ctx context.Context, id int64) (*model.BankAccount, error)
	List(ctx context.Context, activeOnly bool) ([]model.BankAccount, error)
	Update(ctx context.Context, account *model.BankAccount) error
	Delete(ctx context.Context, id int64) error
}

type bankAccountRepository struct {
	db *gorm.DB
}

// NewBankAccountRepository 创建收款账户仓库
func NewBankAccountRepository(db *gorm.DB) BankAccountRepository {
	return &bankAccountRepository{db: db}
}

func (r *bankAccountRepository) Create(ctx context.Context, account *model.BankAccount) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *bankAccountRepository) GetByID(ctx context.Context, id int64) (*model.BankAccount, error) {
	var account model.BankAccount
	err := r.db.WithContext(ctx).First(&account, id).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *bankAccountRepository) List(ctx context.Context, activeOnly bool) ([]model.BankAccount, error) {
	var accounts []model.BankAccount
	db := r.db.WithContext(ctx)
	if activeOnly {
		db = db.Where("is_active = ?", true)
	}
	err := db.Order("sort_order ASC, id ASC").Find(&accounts).Error
	return accounts, err
}

func (r *bankAccountRepository) Update(ctx context.Context, account *model.BankAccount) error {
	return r.db.WithContext(ctx).Save(account).Error
}

func (r *bankAccountRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.BankAccount{}, id).Error
}
