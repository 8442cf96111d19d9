package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"tidalshare_v1_202608/internal/api/dto"
	"tidalshare_v1_202608/internal/model"
	"tidalshare_v1_202608/internal/repository"

	"gorm.io/gorm"
)

// ==================== AssignmentService 槽位分配服务 ====================

// AssignmentService 槽位分配服务
// 占用检查 → 分配写入 → used_slots 重算 → 订单状态翻转，整段跑在一个事务里。
// used_slots 永远按 order_accounts 行数重算回写，不做增减
type AssignmentService struct {
	uow  *repository.AssignmentUnitOfWork
	mail *MailService // 可为 nil（未配置邮件时跳过通知）
}

// NewAssignmentService 创建槽位分配服务
func NewAssignmentService(uow *repository.AssignmentUnitOfWork, mail *MailService) *AssignmentService {
	return &AssignmentService{uow: uow, mail: mail}
}

// ==================== 槽位冲突错误 ====================

// SlotConflictError 槽位被无关订单占用
type SlotConflictError struct {
	AccountID   int64
	SlotNumber  int
	OrderNumber string
	BuyerName   string
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("이미 사용 중인 슬롯입니다 (주문번호: %s, 구매자: %s)", e.OrderNumber, e.BuyerName)
}

// ==================== 分配 ====================

// Assign 把订单分配到 (account, slot)
// order_id 缺省但带买家信息时，先在同一事务里造一张零元访客订单再分配
func (s *AssignmentService) Assign(ctx context.Context, accountID int64, req *dto.AssignSlotRequest) (*model.OrderAccount, error) {
	var result *model.OrderAccount

	err := s.uow.Transaction(ctx, func(uow *repository.AssignmentUnitOfWork) error {
		if _, err := uow.Accounts.GetByID(ctx, accountID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAccountNotFound
			}
			return err
		}

		// 1. 解析或合成订单
		order, err := s.resolveOrder(ctx, uow, req)
		if err != nil {
			return err
		}

		// 2. 补齐缺省字段：买家快照、开始/到期日
		buyerName := firstNonEmpty(req.BuyerName, order.BuyerName)
		buyerEmail := firstNonEmpty(req.BuyerEmail, order.BuyerEmail)
		buyerPhone := firstNonEmpty(req.BuyerPhone, order.BuyerPhone)

		startDate, endDate, err := s.resolvePeriod(ctx, uow, req, order)
		if err != nil {
			return err
		}

		// 3. 占用检查
		slotNumber := *req.SlotNumber
		existing, err := uow.Assignments.GetBySlot(ctx, accountID, slotNumber)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		slotType := req.Type
		if slotType == "" {
			slotType = model.SlotTypeFor(slotNumber)
		}

		if existing != nil {
			if !canOverwriteSlot(existing, order) {
				return &SlotConflictError{
					AccountID:   accountID,
					SlotNumber:  slotNumber,
					OrderNumber: existing.OrderNumber,
					BuyerName:   existing.BuyerName,
				}
			}

			// 同单/续费覆写：换绑订单并更新快照，凭证缺省沿用旧值
			existing.OrderID = order.ID
			existing.OrderNumber = order.OrderNumber
			existing.BuyerName = buyerName
			existing.BuyerEmail = buyerEmail
			existing.BuyerPhone = buyerPhone
			if req.TidalID != "" {
				existing.TidalID = req.TidalID
			}
			if req.TidalPassword != "" {
				existing.TidalPassword = req.TidalPassword
			}
			existing.Type = slotType
			existing.StartDate = startDate
			existing.EndDate = endDate
			existing.IsActive = true

			if err := uow.Assignments.Update(ctx, existing); err != nil {
				return err
			}
			result = existing
		} else {
			assignment := &model.OrderAccount{
				OrderID:       order.ID,
				AccountID:     accountID,
				SlotNumber:    slotNumber,
				TidalID:       req.TidalID,
				TidalPassword: req.TidalPassword,
				Type:          slotType,
				OrderNumber:   order.OrderNumber,
				BuyerName:     buyerName,
				BuyerEmail:    buyerEmail,
				BuyerPhone:    buyerPhone,
				StartDate:     startDate,
				EndDate:       endDate,
				IsActive:      true,
			}
			if err := uow.Assignments.Create(ctx, assignment); err != nil {
				return err
			}
			result = assignment
		}

		// 4. 按实际行数重算 used_slots
		if _, err := uow.Accounts.SyncUsedSlots(ctx, accountID); err != nil {
			return err
		}

		// 5. 订单置为已分配
		now := time.Now()
		return uow.Orders.UpdateFields(ctx, order.ID, map[string]interface{}{
			"assignment_status": model.AssignmentStatusAssigned,
			"assigned_at":       &now,
			"start_date":        startDate,
			"end_date":          endDate,
		})
	})
	if err != nil {
		return nil, err
	}

	// 事务提交后尽力而为地发凭证邮件
	if s.mail != nil && result.BuyerEmail != "" && result.TidalID != "" {
		if err := s.mail.SendAssignmentReady(ctx, result); err != nil {
			log.Printf("[Assign] 배정 확인 메일 발송 실패 (assignment=%d): %v", result.ID, err)
		}
	}

	return result, nil
}

// resolveOrder 取出目标订单；没有 order_id 时按买家信息合成零元访客订单
func (s *AssignmentService) resolveOrder(ctx context.Context, uow *repository.AssignmentUnitOfWork, req *dto.AssignSlotRequest) (*model.Order, error) {
	if req.OrderID != nil {
		order, err := uow.Orders.GetByID(ctx, *req.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrOrderNotFound
			}
			return nil, err
		}
		return order, nil
	}

	if req.BuyerName == "" && req.BuyerEmail == "" {
		return nil, ErrOrderRequired
	}

	// 线下/手工成交：订单系统外完成收款，这里补一张占位订单
	order := &model.Order{
		OrderNumber:      GenerateOrderNumber(),
		BuyerName:        req.BuyerName,
		BuyerEmail:       req.BuyerEmail,
		BuyerPhone:       req.BuyerPhone,
		Amount:           0,
		PaymentStatus:    model.PaymentStatusPaid,
		AssignmentStatus: model.AssignmentStatusWaiting,
		OrderType:        model.OrderTypeNew,
		Memo:             "수동 배정으로 생성된 주문",
	}
	if err := uow.Orders.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// resolvePeriod 确定分配的开始/到期日
// 优先级：请求显式值 > 订单已有值 > 开始日默认今天；到期日按套餐时长推算
func (s *AssignmentService) resolvePeriod(ctx context.Context, uow *repository.AssignmentUnitOfWork, req *dto.AssignSlotRequest, order *model.Order) (*time.Time, *time.Time, error) {
	var startDate *time.Time
	if req.StartDate != "" {
		t, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return nil, nil, fmt.Errorf("시작일 형식이 잘못되었습니다: %w", err)
		}
		startDate = &t
	} else if order.StartDate != nil {
		startDate = order.StartDate
	} else {
		now := time.Now().Truncate(24 * time.Hour)
		startDate = &now
	}

	var endDate *time.Time
	if req.EndDate != "" {
		t, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			return nil, nil, fmt.Errorf("만료일 형식이 잘못되었습니다: %w", err)
		}
		endDate = &t
	} else if order.PlanID > 0 {
		plan, err := uow.Plans.GetByID(ctx, order.PlanID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, err
			}
		} else {
			t := plan.EndDateFrom(*startDate)
			endDate = &t
		}
	} else if order.EndDate != nil {
		endDate = order.EndDate
	}

	return startDate, endDate, nil
}

// canOverwriteSlot 已占用槽位的覆写规则：
// (a) 同一订单；(b) 目标订单是占用订单的续费单；
// (c) 目标订单为续费类型且买家身份（邮箱或姓名）与占用者一致
func canOverwriteSlot(existing *model.OrderAccount, order *model.Order) bool {
	if existing.OrderID == order.ID {
		return true
	}
	if order.RelatedOrderID != nil && *order.RelatedOrderID == existing.OrderID {
		return true
	}
	if order.IsExtension() {
		if order.BuyerEmail != "" && strings.EqualFold(existing.BuyerEmail, order.BuyerEmail) {
			return true
		}
		if order.BuyerName != "" && existing.BuyerName == order.BuyerName {
			return true
		}
	}
	return false
}

// ==================== 迁移 ====================

// Move 把订单的分配迁到另一个 (account, slot)
// 前提：订单恰好 1 条分配、目标账号未满、目标槽位空闲
func (s *AssignmentService) Move(ctx context.Context, req *dto.MoveSlotRequest) error {
	return s.uow.Transaction(ctx, func(uow *repository.AssignmentUnitOfWork) error {
		assignments, err := uow.Assignments.GetByOrderID(ctx, req.OrderID)
		if err != nil {
			return err
		}
		if len(assignments) != 1 {
			return ErrSingleAssignmentRequired
		}
		assignment := &assignments[0]

		target, err := uow.Accounts.GetByID(ctx, req.TargetAccountID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAccountNotFound
			}
			return err
		}

		targetSlot := *req.TargetSlotNumber
		if assignment.AccountID == target.ID && assignment.SlotNumber == targetSlot {
			return ErrSameSlot
		}
		if target.IsFull() {
			return ErrAccountFull
		}

		occupying, err := uow.Assignments.GetBySlot(ctx, target.ID, targetSlot)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if occupying != nil {
			return &SlotConflictError{
				AccountID:   target.ID,
				SlotNumber:  targetSlot,
				OrderNumber: occupying.OrderNumber,
				BuyerName:   occupying.BuyerName,
			}
		}

		sourceAccountID := assignment.AccountID

		assignment.AccountID = target.ID
		assignment.SlotNumber = targetSlot
		assignment.Type = model.SlotTypeFor(targetSlot)
		if req.TargetTidalPassword != "" {
			assignment.TidalPassword = req.TargetTidalPassword
		}
		if err := uow.Assignments.Update(ctx, assignment); err != nil {
			return err
		}

		// 源、目标两侧都重算
		if _, err := uow.Accounts.SyncUsedSlots(ctx, sourceAccountID); err != nil {
			return err
		}
		if _, err := uow.Accounts.SyncUsedSlots(ctx, target.ID); err != nil {
			return err
		}
		return nil
	})
}

// ==================== 解除分配 ====================

// Unassign 删除分配，订单退回待分配，计数重算
func (s *AssignmentService) Unassign(ctx context.Context, assignmentID int64) error {
	return s.uow.Transaction(ctx, func(uow *repository.AssignmentUnitOfWork) error {
		assignment, err := uow.Assignments.GetByID(ctx, assignmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssignmentNotFound
			}
			return err
		}

		if err := uow.Assignments.Delete(ctx, assignment.ID); err != nil {
			return err
		}

		if _, err := uow.Accounts.SyncUsedSlots(ctx, assignment.AccountID); err != nil {
			return err
		}

		return uow.Orders.UpdateFields(ctx, assignment.OrderID, map[string]interface{}{
			"assignment_status": model.AssignmentStatusWaiting,
			"assigned_at":       nil,
		})
	})
}

// ==================== 到期批量通知 ====================

// NotifyExpiry 对选中的分配逐条发到期提醒，统计成功/失败。不重试
func (s *AssignmentService) NotifyExpiry(ctx context.Context, req *dto.NotifyExpiryRequest) (*dto.NotifyExpiryResponse, error) {
	if s.mail == nil {
		return nil, ErrMailNotConfigured
	}

	assignments, err := s.uow.Assignments.GetByIDs(ctx, req.AssignmentIDs)
	if err != nil {
		return nil, err
	}

	subject := req.Subject
	if subject == "" {
		subject = "[이용 만료 안내] 구독 만료 예정 안내"
	}

	resp := &dto.NotifyExpiryResponse{}
	for i := range assignments {
		assignment := &assignments[i]

		if assignment.BuyerEmail == "" {
			resp.Failed++
			resp.Failures = append(resp.Failures, dto.NotifyFailure{
				AssignmentID: assignment.ID,
				Reason:       "이메일 주소가 없습니다",
			})
			continue
		}

		endDate := ""
		if assignment.EndDate != nil {
			endDate = assignment.EndDate.Format("2006-01-02")
		}
		body := RenderTemplate(req.Template, map[string]string{
			"buyer_name": assignment.BuyerName,
			"tidal_id":   assignment.TidalID,
			"end_date":   endDate,
		})

		if err := s.mail.Send(ctx, assignment.BuyerEmail, subject, body); err != nil {
			resp.Failed++
			resp.Failures = append(resp.Failures, dto.NotifyFailure{
				AssignmentID: assignment.ID,
				Email:        assignment.BuyerEmail,
				Reason:       err.Error(),
			})
			continue
		}
		resp.Sent++
	}

	return resp, nil
}

// ==================== 过期清理 ====================

// ExpireOverdue 把到期仍激活的分配置为失效，订单状态翻成 expired
// 槽位本身不释放（运营确认后手动解除），返回处理条数
func (s *AssignmentService) ExpireOverdue(ctx context.Context, now time.Time) (int, error) {
	var processed int

	err := s.uow.Transaction(ctx, func(uow *repository.AssignmentUnitOfWork) error {
		expired, err := uow.Assignments.FindActiveExpired(ctx, now)
		if err != nil {
			return err
		}

		for i := range expired {
			assignment := &expired[i]
			if err := uow.Assignments.UpdateFields(ctx, assignment.ID, map[string]interface{}{
				"is_active": false,
			}); err != nil {
				return err
			}
			if err := uow.Orders.UpdateFields(ctx, assignment.OrderID, map[string]interface{}{
				"assignment_status": model.AssignmentStatusExpired,
			}); err != nil {
				return err
			}
			processed++
		}
		return nil
	})

	return processed, err
}

// firstNonEmpty 返回第一个非空串
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ==================== 错误定义 ====================

var (
	ErrAccountNotFound          = errors.New("계정 그룹을 찾을 수 없습니다")
	ErrOrderNotFound            = errors.New("주문을 찾을 수 없습니다")
	ErrOrderRequired            = errors.New("주문 번호 또는 구매자 정보가 필요합니다")
	ErrAssignmentNotFound       = errors.New("배정 내역을 찾을 수 없습니다")
	ErrSingleAssignmentRequired = errors.New("주문에 배정 내역이 정확히 1건이어야 이동할 수 있습니다")
	ErrSameSlot                 = errors.New("현재 슬롯과 동일한 위치입니다")
	ErrAccountFull              = errors.New("대상 계정의 슬롯이 가득 찼습니다")
	ErrMailNotConfigured        = errors.New("메일 서비스가 설정되지 않았습니다")
)
