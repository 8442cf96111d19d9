package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tidalshare_v1_202608/internal/api/dto"
	"tidalshare_v1_202608/internal/model"
	"tidalshare_v1_202608/internal/service"
)

// SettingController 站点设置控制器
type SettingController struct {
	svc *service.SettingService
}

// NewSettingController 创建站点设置控制器
func NewSettingController(svc *service.SettingService) *SettingController {
	return &SettingController{svc: svc}
}

// ==================== 键值设置 ====================

// GetAll 全部设置
// GET /api/admin/settings
func (c *SettingController) GetAll(ctx *gin.Context) {
	settings, err := c.svc.GetAll(ctx)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": settings})
}

// Update 批量更新设置
// PUT /api/admin/settings
func (c *SettingController) Update(ctx *gin.Context) {
	var req dto.UpdateSettingsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := c.svc.Update(ctx, &req); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "설정이 저장되었습니다"})
}

// ==================== 收款账户 ====================

// ListBankAccountsPublic 店面收款账户列表（结算页展示，仅启用账户）
// GET /api/settings/bank-accounts
func (c *SettingController) ListBankAccountsPublic(ctx *gin.Context) {
	accounts, err := c.svc.ListBankAccounts(ctx, true)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": toBankAccountVOs(accounts)})
}

// ListBankAccounts 后台收款账户列表
// GET /api/admin/settings/bank-accounts
func (c *SettingController) ListBankAccounts(ctx *gin.Context) {
	accounts, err := c.svc.ListBankAccounts(ctx, false)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": toBankAccountVOs(accounts)})
}

// CreateBankAccount 创建收款账户
// POST /api/admin/settings/bank-accounts
func (c *SettingController) CreateBankAccount(ctx *gin.Context) {
	var req dto.SaveBankAccountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := c.svc.CreateBankAccount(ctx, &req)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": toBankAccountVO(account)})
}

// UpdateBankAccount 更新收款账户
// PUT /api/admin/settings/bank-accounts/:id
func (c *SettingController) UpdateBankAccount(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 ID입니다"})
		return
	}

	var req dto.SaveBankAccountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := c.svc.UpdateBankAccount(ctx, id, &req); err != nil {
		if errors.Is(err, service.ErrBankAccountNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "입금 계좌가 수정되었습니다"})
}

// DeleteBankAccount 删除收款账户
// DELETE /api/admin/settings/bank-accounts/:id
func (c *SettingController) DeleteBankAccount(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 ID입니다"})
		return
	}

	if err := c.svc.DeleteBankAccount(ctx, id); err != nil {
		if errors.Is(err, service.ErrBankAccountNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "입금 계좌가 삭제되었습니다"})
}

// ==================== VO 转换 ====================

func toBankAccountVO(a *model.BankAccount) dto.BankAccountVO {
	return dto.BankAccountVO{
		ID:            a.ID,
		BankName:      a.BankName,
		AccountNumber: a.AccountNumber,
		HolderName:    a.HolderName,
		IsActive:      a.IsActive,
		SortOrder:     a.SortOrder,
	}
}

func toBankAccountVOs(accounts []model.BankAccount) []dto.BankAccountVO {
	list := make([]dto.BankAccountVO, len(accounts))
	for i := range accounts {
		list[i] = toBankAccountVO(&accounts[i])
	}
	return list
}
