package service

import (
	"context"
	"errors"

	"tidalshare_v1_202608/internal/api/dto"
	"tidalshare_v1_202608/internal/model"
	"tidalshare_v1_202608/internal/repository"

	"gorm.io/gorm"
)

// ==================== AccountService 共享账号服务 ====================

// AccountService 共享账号 CRUD
type AccountService struct {
	accountRepo    repository.AccountRepository
	assignmentRepo repository.AssignmentRepository
}

// NewAccountService 创建共享账号服务
func NewAccountService(accountRepo repository.AccountRepository, assignmentRepo repository.AssignmentRepository) *AccountService {
	return &AccountService{
		accountRepo:    accountRepo,
		assignmentRepo: assignmentRepo,
	}
}

// Create 创建共享账号组
func (s *AccountService) Create(ctx context.Context, req *dto.CreateAccountRequest) (*model.Account, error) {
	maxSlots := req.MaxSlots
	if maxSlots <= 0 {
		maxSlots = model.DefaultMaxSlots
	}

	account := &model.Account{
		LoginEmail:    req.LoginEmail,
		LoginPassword: req.LoginPassword,
		MaxSlots:      maxSlots,
		UsedSlots:     0,
		PaymentEmail:  req.PaymentEmail,
		PaymentDay:    req.PaymentDay,
		Memo:          req.Memo,
		IsActive:      true,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// GetDetail 账号详情（带全部槽位）
func (s *AccountService) GetDetail(ctx context.Context, id int64) (*model.Account, error) {
	account, err := s.accountRepo.GetByIDWithAssignments(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

// List 账号列表
func (s *AccountService) List(ctx context.Context, req *dto.ListAccountsRequest) ([]model.Account, int64, error) {
	return s.accountRepo.List(ctx, repository.AccountFilter{
		ActiveOnly:   req.ActiveOnly,
		HasFreeSlots: req.HasFreeSlots,
		Keyword:      req.Keyword,
		Page:         req.Page,
		PageSize:     req.PageSize,
	})
}

// Update 更新账号信息
func (s *AccountService) Update(ctx context.Context, id int64, req *dto.UpdateAccountRequest) error {
	if _, err := s.accountRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccountNotFound
		}
		return err
	}

	fields := map[string]interface{}{}
	if req.LoginEmail != "" {
		fields["login_email"] = req.LoginEmail
	}
	if req.LoginPassword != "" {
		fields["login_password"] = req.LoginPassword
	}
	if req.PaymentEmail != "" {
		fields["payment_email"] = req.PaymentEmail
	}
	if req.PaymentDay != nil {
		fields["payment_day"] = *req.PaymentDay
	}
	if req.Memo != nil {
		fields["memo"] = *req.Memo
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if len(fields) == 0 {
		return nil
	}

	return s.accountRepo.UpdateFields(ctx, id, fields)
}

// Delete 删除账号组。还有分配挂在上面时拒绝
func (s *AccountService) Delete(ctx context.Context, id int64) error {
	if _, err := s.accountRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccountNotFound
		}
		return err
	}

	count, err := s.assignmentRepo.CountByAccount(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrAccountInUse
	}

	return s.accountRepo.Delete(ctx, id)
}

// ==================== 错误定义 ====================

var (
	ErrAccountInUse = errors.New("배정된 슬롯이 남아 있어 삭제할 수 없습니다")
)
