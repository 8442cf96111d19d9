package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"tidalshare_v1_202608/internal/api/dto"
	"tidalshare_v1_202608/internal/middleware"
	"tidalshare_v1_202608/internal/model"
	"tidalshare_v1_202608/internal/repository"
)

// ==================== UserService 后台账号服务 ====================

// UserService 后台账号服务
type UserService struct {
	userRepo repository.UserRepository
	mail     *MailService

	// username -> *resetCode，重置码只存内存，重启即作废
	resetCodes sync.Map
}

// resetCode 密码重置码
type resetCode struct {
	code      string
	expiresAt time.Time
}

// 重置码有效期
const resetCodeTTL = 10 * time.Minute

// NewUserService 创建后台账号服务
func NewUserService(userRepo repository.UserRepository, mail *MailService) *UserService {
	return &UserService{userRepo: userRepo, mail: mail}
}

// Login 后台登录
func (s *UserService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive() {
		return nil, ErrUserDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, refreshToken, err := middleware.GenerateTokenPair(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}

	_ = s.userRepo.UpdateLastLogin(ctx, user.ID)

	cfg := middleware.GetJWTConfig()
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(cfg.AccessTokenTTL),
		User:         s.toUserInfo(user),
	}, nil
}

// RefreshToken 刷新 Token
func (s *UserService) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.RefreshTokenResponse, error) {
	claims, err := middleware.ParseToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.Subject != "refresh" {
		return nil, ErrInvalidToken
	}

	// 确认账号仍然有效
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive() {
		return nil, ErrUserDisabled
	}

	accessToken, refreshToken, err := middleware.GenerateTokenPair(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}

	cfg := middleware.GetJWTConfig()
	return &dto.RefreshTokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(cfg.AccessTokenTTL),
	}, nil
}

// ChangePassword 修改密码
func (s *UserService) ChangePassword(ctx context.Context, userID int64, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		return ErrInvalidOldPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.userRepo.UpdatePassword(ctx, userID, string(hashed))
}

// ==================== 密码重置 ====================

// RequestPasswordReset 发送密码重置码到账号邮箱
func (s *UserService) RequestPasswordReset(ctx context.Context, username string) error {
	if s.mail == nil {
		return ErrMailNotConfigured
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if user == nil || !user.IsActive() {
		return ErrUserNotFound
	}
	if user.Email == "" {
		return ErrNoResetEmail
	}

	code := fmt.Sprintf("%06d", rand.Intn(1000000))
	s.resetCodes.Store(username, &resetCode{
		code:      code,
		expiresAt: time.Now().Add(resetCodeTTL),
	})

	return s.mail.SendPasswordReset(ctx, user.Email, code)
}

// ConfirmPasswordReset 校验重置码并设置新密码
func (s *UserService) ConfirmPasswordReset(ctx context.Context, req *dto.ConfirmPasswordResetRequest) error {
	stored, ok := s.resetCodes.Load(req.Username)
	if !ok {
		return ErrInvalidResetCode
	}
	rc := stored.(*resetCode)
	if rc.code != req.Code || time.Now().After(rc.expiresAt) {
		return ErrInvalidResetCode
	}

	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, string(hashed)); err != nil {
		return err
	}

	// 重置码一次性使用
	s.resetCodes.Delete(req.Username)
	return nil
}

// GetProfile 获取当前账号信息
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.toUserInfo(user), nil
}

// EnsureAdmin 首次启动时创建默认管理员（已有账号则跳过）
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.userRepo.Create(ctx, &model.SysUser{
		Username: username,
		Password: string(hashed),
		Role:     model.UserRoleAdmin,
		Status:   model.UserStatusActive,
	})
}

// ==================== 辅助方法 ====================

// toUserInfo 转换为 DTO
func (s *UserService) toUserInfo(user *model.SysUser) *dto.UserInfo {
	info := &dto.UserInfo{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		Status:    user.Status,
		CreatedAt: user.CreatedAt,
	}
	if user.LastLoginAt != nil {
		info.LastLoginAt = *user.LastLoginAt
	}
	return info
}

// ==================== 错误定义 ====================

var (
	ErrInvalidCredentials = errors.New("아이디 또는 비밀번호가 올바르지 않습니다")
	ErrUserDisabled       = errors.New("비활성화된 계정입니다")
	ErrInvalidToken       = errors.New("유효하지 않은 토큰입니다")
	ErrUserNotFound       = errors.New("계정을 찾을 수 없습니다")
	ErrInvalidOldPassword = errors.New("기존 비밀번호가 올바르지 않습니다")
	ErrNoResetEmail       = errors.New("계정에 등록된 이메일이 없습니다")
	ErrInvalidResetCode   = errors.New("재설정 코드가 올바르지 않거나 만료되었습니다")
)
