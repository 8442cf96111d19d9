package service

import (
	"context"
	"errors"

	"tidalshare_v1_202608/internal/api/dto"
	"tidalshare_v1_202608/internal/model"
	"tidalshare_v1_202608/internal/repository"

	"gorm.io/gorm"
)

// ==================== MemberService 会员服务 ====================

// MemberService 会员档案服务（身份认证由外部网关处理，这里只管档案）
type MemberService struct {
	profileRepo repository.ProfileRepository
	orderRepo   repository.OrderRepository
}

// NewMemberService 创建会员服务
func NewMemberService(profileRepo repository.ProfileRepository, orderRepo repository.OrderRepository) *MemberService {
	return &MemberService{
		profileRepo: profileRepo,
		orderRepo:   orderRepo,
	}
}

// Create 创建会员档案
func (s *MemberService) Create(ctx context.Context, req *dto.SaveProfileRequest) (*model.Profile, error) {
	existing, err := s.profileRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	role := req.Role
	if role == "" {
		role = model.ProfileRoleMember
	}

	profile := &model.Profile{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Role:  role,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// GetByID 会员详情
func (s *MemberService) GetByID(ctx context.Context, id int64) (*model.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// List 会员列表
func (s *MemberService) List(ctx context.Context, req *dto.ListProfilesRequest) ([]model.Profile, int64, error) {
	return s.profileRepo.List(ctx, repository.ProfileFilter{
		Role:     req.Role,
		Keyword:  req.Keyword,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
}

// Update 更新会员档案
func (s *MemberService) Update(ctx context.Context, id int64, req *dto.SaveProfileRequest) error {
	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProfileNotFound
		}
		return err
	}

	if req.Email != profile.Email {
		existing, err := s.profileRepo.GetByEmail(ctx, req.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrEmailExists
		}
	}

	fields := map[string]interface{}{
		"name":  req.Name,
		"email": req.Email,
		"phone": req.Phone,
	}
	if req.Role != "" {
		fields["role"] = req.Role
	}
	return s.profileRepo.UpdateFields(ctx, id, fields)
}

// Delete 删除会员档案（历史订单保留，订单上的会员引用置空）
func (s *MemberService) Delete(ctx context.Context, id int64) error {
	if _, err := s.profileRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProfileNotFound
		}
		return err
	}
	return s.profileRepo.Delete(ctx, id)
}

// ListOrders 会员订单历史
func (s *MemberService) ListOrders(ctx context.Context, profileID int64) ([]model.Order, int64, error) {
	if _, err := s.profileRepo.GetByID(ctx, profileID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrProfileNotFound
		}
		return nil, 0, err
	}
	return s.orderRepo.List(ctx, repository.OrderFilter{
		ProfileID: profileID,
		PageSize:  100,
	})
}

// ==================== 错误定义 ====================

var (
	ErrEmailExists = errors.New("이미 등록된 이메일입니다")
)
