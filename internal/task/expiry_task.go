package task

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"tidalshare_v1_202608/internal/service"
)

// ==================== ExpirySweepTask 到期槽位巡检任务 ====================

// ExpirySweepTask 到期槽位巡检
// 每天凌晨把 end_date 已过的分配标记为失效，并把对应订单推进到过期状态。
// 槽位本身不自动释放，由管理员确认后手动解除
type ExpirySweepTask struct {
	assignmentSvc *service.AssignmentService
	cron          *cron.Cron

	// cron 表达式（含秒位），默认每天 04:00
	schedule string
}

// NewExpirySweepTask 创建到期巡检任务
func NewExpirySweepTask(assignmentSvc *service.AssignmentService) *ExpirySweepTask {
	return &ExpirySweepTask{
		assignmentSvc: assignmentSvc,
		cron:          cron.New(cron.WithSeconds()),
		schedule:      "0 0 4 * * *",
	}
}

// SetSchedule 覆盖默认调度表达式
func (t *ExpirySweepTask) SetSchedule(schedule string) {
	if schedule != "" {
		t.schedule = schedule
	}
}

// Start 启动定时任务
func (t *ExpirySweepTask) Start() {
	// 首次执行
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		log.Println("[ExpirySweepTask] 执行首次到期巡检...")
		t.sweep(ctx)
	}()

	_, err := t.cron.AddFunc(t.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		t.sweep(ctx)
	})
	if err != nil {
		log.Printf("[ExpirySweepTask] 定时任务启动失败: %v", err)
		return
	}

	t.cron.Start()
	log.Printf("[ExpirySweepTask] 已启动 (%s)", t.schedule)
}

// Stop 停止任务
func (t *ExpirySweepTask) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
	log.Println("[ExpirySweepTask] 已停止")
}

// sweep 执行一轮巡检
func (t *ExpirySweepTask) sweep(ctx context.Context) {
	count, err := t.assignmentSvc.ExpireOverdue(ctx, time.Now())
	if err != nil {
		log.Printf("[ExpirySweepTask] 到期巡检失败: %v", err)
		return
	}
	if count > 0 {
		log.Printf("[ExpirySweepTask] 本轮标记过期分配 %d 条", count)
	}
}
