package service

import (
	"context"
	"errors"

	"tidalshare_v1_202608/internal/api/dto"
	"tidalshare_v1_202608/internal/model"
	"tidalshare_v1_202608/internal/repository"

	"gorm.io/gorm"
)

// ==================== SettingService 站点设置服务 ====================

// SettingService 站点设置 + 收款账户
type SettingService struct {
	settingRepo repository.SettingRepository
	bankRepo    repository.BankAccountRepository
	mail        *MailService
}

// NewSettingService 创建站点设置服务
func NewSettingService(
	settingRepo repository.SettingRepository,
	bankRepo repository.BankAccountRepository,
	mail *MailService,
) *SettingService {
	return &SettingService{
		settingRepo: settingRepo,
		bankRepo:    bankRepo,
		mail:        mail,
	}
}

// ==================== 键值设置 ====================

// GetAll 全部设置
func (s *SettingService) GetAll(ctx context.Context) (map[string]string, error) {
	return s.settingRepo.GetAll(ctx)
}

// Update 批量更新设置；发件人变更同步到邮件服务
func (s *SettingService) Update(ctx context.Context, req *dto.UpdateSettingsRequest) error {
	for key, value := range req.Settings {
		if err := s.settingRepo.Set(ctx, key, value); err != nil {
			return err
		}
	}

	if sender, ok := req.Settings[model.SettingKeySenderEmail]; ok && s.mail != nil {
		s.mail.SetSender(sender)
	}
	return nil
}

// ==================== 收款账户 ====================

// CreateBankAccount 创建收款账户
func (s *SettingService) CreateBankAccount(ctx context.Context, req *dto.SaveBankAccountRequest) (*model.BankAccount, error) {
	account := &model.BankAccount{
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		HolderName:    req.HolderName,
		IsActive:      req.IsActive == nil || *req.IsActive,
		SortOrder:     req.SortOrder,
	}
	if err := s.bankRepo.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// ListBankAccounts 收款账户列表
func (s *SettingService) ListBankAccounts(ctx context.Context, activeOnly bool) ([]model.BankAccount, error) {
	return s.bankRepo.List(ctx, activeOnly)
}

// UpdateBankAccount 更新收款账户
func (s *SettingService) UpdateBankAccount(ctx context.Context, id int64, req *dto.SaveBankAccountRequest) error {
	account, err := s.bankRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBankAccountNotFound
		}
		return err
	}

	account.BankName = req.BankName
	account.AccountNumber = req.AccountNumber
	account.HolderName = req.HolderName
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	account.SortOrder = req.SortOrder

	return s.bankRepo.Update(ctx, account)
}

// DeleteBankAccount 删除收款账户
func (s *SettingService) DeleteBankAccount(ctx context.Context, id int64) error {
	if _, err := s.bankRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBankAccountNotFound
		}
		return err
	}
	return s.bankRepo.Delete(ctx, id)
}

// ==================== 错误定义 ====================

var (
	ErrBankAccountNotFound = errors.New("입금 계좌를 찾을 수 없습니다")
)
