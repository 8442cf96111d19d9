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

// OrderController 订单控制器
type OrderController struct {
	svc *service.OrderService
}

// NewOrderController 创建订单控制器
func NewOrderController(svc *service.OrderService) *OrderController {
	return &OrderController{svc: svc}
}

// ==================== 店面接口 ====================

// Checkout 结算下单
// POST /api/orders
func (c *OrderController) Checkout(ctx *gin.Context) {
	var req dto.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := c.svc.Checkout(ctx, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound),
			errors.Is(err, service.ErrPlanNotFound),
			errors.Is(err, service.ErrProfileNotFound),
			errors.Is(err, service.ErrRelatedOrderNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrProductUnavailable),
			errors.Is(err, service.ErrBuyerRequired),
			errors.Is(err, service.ErrRelatedOrderRequired):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data":    toOrderVO(order),
		"message": "주문이 접수되었습니다",
	})
}

// GetByOrderNumber 访客查单
// GET /api/orders/:orderNumber
func (c *OrderController) GetByOrderNumber(ctx *gin.Context) {
	order, err := c.svc.GetByOrderNumber(ctx, ctx.Param("orderNumber"))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": toOrderVO(order)})
}

// ==================== 后台接口 ====================

// List 订单列表
// GET /api/admin/orders
func (c *OrderController) List(ctx *gin.Context) {
	var req dto.ListOrdersRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orders, total, err := c.svc.List(ctx, &req)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	list := make([]dto.OrderVO, len(orders))
	for i := range orders {
		list[i] = toOrderVO(&orders[i])
	}

	ctx.JSON(http.StatusOK, gin.H{"data": dto.ListOrdersResponse{
		Total: total,
		List:  list,
	}})
}

// GetByID 订单详情
// GET /api/admin/orders/:id
func (c *OrderController) GetByID(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 ID입니다"})
		return
	}

	order, err := c.svc.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": toOrderVO(order)})
}

// UpdatePaymentStatus 更新支付状态
// PUT /api/admin/orders/:id/payment-status
func (c *OrderController) UpdatePaymentStatus(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 ID입니다"})
		return
	}

	var req dto.UpdatePaymentStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := c.svc.UpdatePaymentStatus(ctx, id, req.Status); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "결제 상태가 변경되었습니다"})
}

// UpdateMemo 更新订单备注
// PUT /api/admin/orders/:id/memo
func (c *OrderController) UpdateMemo(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 ID입니다"})
		return
	}

	var req dto.UpdateOrderMemoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := c.svc.UpdateMemo(ctx, id, req.Memo); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "메모가 저장되었습니다"})
}

// GetStats 订单统计
// GET /api/admin/orders/stats
func (c *OrderController) GetStats(ctx *gin.Context) {
	var req dto.OrderStatsRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stats, err := c.svc.GetStats(ctx, &req)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": stats})
}

// ==================== VO 转换 ====================

func toOrderVO(o *model.Order) dto.OrderVO {
	vo := dto.OrderVO{
		ID:               o.ID,
		OrderNumber:      o.OrderNumber,
		ProfileID:        o.ProfileID,
		BuyerName:        o.BuyerName,
		BuyerEmail:       o.BuyerEmail,
		BuyerPhone:       o.BuyerPhone,
		DepositorName:    o.DepositorName,
		ProductID:        o.ProductID,
		PlanID:           o.PlanID,
		Amount:           o.Amount,
		Currency:         o.Currency,
		PaymentStatus:    o.PaymentStatus,
		AssignmentStatus: o.AssignmentStatus,
		OrderType:        o.OrderType,
		RelatedOrderID:   o.RelatedOrderID,
		StartDate:        o.StartDate,
		EndDate:          o.EndDate,
		PaidAt:           o.PaidAt,
		AssignedAt:       o.AssignedAt,
		Memo:             o.Memo,
		CreatedAt:        o.CreatedAt,
	}
	if o.Product != nil {
		vo.ProductName = o.Product.Name
	}
	if o.Plan != nil {
		vo.PlanName = o.Plan.Name
		vo.DurationMonths = o.Plan.DurationMonths
	}
	return vo
}
