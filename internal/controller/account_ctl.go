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

// AccountController 共享账号与槽位控制器
type AccountController struct {
	svc           *service.AccountService
	assignmentSvc *service.AssignmentService
}

// NewAccountController 创建共享账号控制器
func NewAccountController(svc *service.AccountService, assignmentSvc *service.AssignmentService) *AccountController {
	return &AccountController{
		svc:           svc,
		assignmentSvc: assignmentSvc,
	}
}

// ==================== 账号 CRUD ====================

// List 账号列表
// GET /api/admin/accounts
func (c *AccountController) List(ctx *gin.Context) {
	var req dto.ListAccountsRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	accounts, total, err := c.svc.List(ctx, &req)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	list := make([]dto.AccountVO, len(accounts))
	for i := range accounts {
		list[i] = toAccountVO(&accounts[i])
	}

	ctx.JSON(http.StatusOK, gin.H{"data": dto.ListAccountsResponse{
		Total: total,
		List:  list,
	}})
}

// GetByID 账号详情（含全部槽位）
// GET /api/admin/accounts/:id
func (c *AccountController) GetByID(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 ID입니다"})
		return
	}

	account, err := c.svc.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": toAccountVO(account)})
}

// Create 创建账号组
// POST /api/admin/accounts
func (c *AccountController) Create(ctx *gin.Context) {
	var req dto.CreateAccountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := c.svc.Create(ctx, &req)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": toAccountVO(account)})
}

// Update 更新账号信息
// PUT /api/admin/accounts/:id
func (c *AccountController) Update(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 ID입니다"})
		return
	}

	var req dto.UpdateAccountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := c.svc.Update(ctx, id, &req); err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "계정 정보가 수정되었습니다"})
}

// Delete 删除账号组
// DELETE /api/admin/accounts/:id
func (c *AccountController) Delete(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 ID입니다"})
		return
	}

	if err := c.svc.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, service.ErrAccountNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrAccountInUse):
			ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "계정이 삭제되었습니다"})
}

// ==================== 槽位操作 ====================

// AssignSlot 把订单分配到指定槽位
// POST /api/admin/accounts/:id/assign
func (c *AccountController) AssignSlot(ctx *gin.Context) {
	accountID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 ID입니다"})
		return
	}

	var req dto.AssignSlotRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assignment, err := c.assignmentSvc.Assign(ctx, accountID, &req)
	if err != nil {
		var conflict *service.SlotConflictError
		switch {
		case errors.As(err, &conflict):
			ctx.JSON(http.StatusConflict, gin.H{
				"error": conflict.Error(),
				"data": gin.H{
					"account_id":   conflict.AccountID,
					"slot_number":  conflict.SlotNumber,
					"order_number": conflict.OrderNumber,
					"buyer_name":   conflict.BuyerName,
				},
			})
		case errors.Is(err, service.ErrAccountNotFound), errors.Is(err, service.ErrOrderNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrOrderRequired):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data":    toSlotVO(assignment),
		"message": "슬롯이 배정되었습니다",
	})
}

// MoveSlot 把订单迁移到另一账号/槽位
// POST /api/admin/accounts/move
func (c *AccountController) MoveSlot(ctx *gin.Context) {
	var req dto.MoveSlotRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := c.assignmentSvc.Move(ctx, &req); err != nil {
		var conflict *service.SlotConflictError
		switch {
		case errors.As(err, &conflict):
			ctx.JSON(http.StatusConflict, gin.H{"error": conflict.Error()})
		case errors.Is(err, service.ErrAccountNotFound),
			errors.Is(err, service.ErrAssignmentNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrSingleAssignmentRequired),
			errors.Is(err, service.ErrSameSlot):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrAccountFull):
			ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "슬롯이 이동되었습니다"})
}

// Unassign 解除槽位分配
// DELETE /api/admin/assignments/:id
func (c *AccountController) Unassign(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 ID입니다"})
		return
	}

	if err := c.assignmentSvc.Unassign(ctx, id); err != nil {
		if errors.Is(err, service.ErrAssignmentNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "배정이 해제되었습니다"})
}

// NotifyExpiry 批量发送到期通知
// POST /api/admin/assignments/notify
func (c *AccountController) NotifyExpiry(ctx *gin.Context) {
	var req dto.NotifyExpiryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := c.assignmentSvc.NotifyExpiry(ctx, &req)
	if err != nil {
		if errors.Is(err, service.ErrMailNotConfigured) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": result})
}

// ==================== VO 转换 ====================

func toAccountVO(a *model.Account) dto.AccountVO {
	slots := make([]dto.SlotVO, len(a.Assignments))
	for i := range a.Assignments {
		slots[i] = toSlotVO(&a.Assignments[i])
	}
	return dto.AccountVO{
		ID:           a.ID,
		LoginEmail:   a.LoginEmail,
		MaxSlots:     a.MaxSlots,
		UsedSlots:    a.UsedSlots,
		PaymentEmail: a.PaymentEmail,
		PaymentDay:   a.PaymentDay,
		Memo:         a.Memo,
		IsActive:     a.IsActive,
		Slots:        slots,
		CreatedAt:    a.CreatedAt,
	}
}

func toSlotVO(oa *model.OrderAccount) dto.SlotVO {
	return dto.SlotVO{
		AssignmentID: oa.ID,
		SlotNumber:   oa.SlotNumber,
		Type:         oa.Type,
		TidalID:      oa.TidalID,
		OrderID:      oa.OrderID,
		OrderNumber:  oa.OrderNumber,
		BuyerName:    oa.BuyerName,
		BuyerEmail:   oa.BuyerEmail,
		StartDate:    oa.StartDate,
		EndDate:      oa.EndDate,
		IsActive:     oa.IsActive,
	}
}
