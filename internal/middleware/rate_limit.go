package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// ==================== SubmitRateLimiter 提交限流器 ====================

// SubmitRateLimiter 公开接口提交限流器
// 防止同一来源短时间内重复下单 / 重复提交咨询
type SubmitRateLimiter struct {
	locks sync.Map // key -> *lockEntry
}

// lockEntry 锁条目
type lockEntry struct {
	lastTime time.Time
	mu       sync.Mutex
}

// 全局限流器实例
var globalLimiter = &SubmitRateLimiter{}

// GetLimiter 获取全局限流器
func GetLimiter() *SubmitRateLimiter {
	return globalLimiter
}

// CheckResult 检查结果
type CheckResult struct {
	Allowed    bool          // 是否允许
	RetryAfter time.Duration // 剩余冷却时间
}

// Check 检查是否允许执行，允许时更新最后执行时间
// key: 限流键，如 "checkout:1.2.3.4"
func (r *SubmitRateLimiter) Check(key string, interval time.Duration) CheckResult {
	actual, _ := r.locks.LoadOrStore(key, &lockEntry{})
	entry := actual.(*lockEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(entry.lastTime)

	if elapsed < interval {
		return CheckResult{
			Allowed:    false,
			RetryAfter: interval - elapsed,
		}
	}

	entry.lastTime = now
	return CheckResult{
		Allowed:    true,
		RetryAfter: 0,
	}
}

// Reset 重置指定 key 的限流
func (r *SubmitRateLimiter) Reset(key string) {
	r.locks.Delete(key)
}

// SubmitKey 生成来源级限流 Key
func SubmitKey(scope, clientIP string) string {
	return fmt.Sprintf("%s:%s", scope, clientIP)
}

// ==================== Gin 中间件 ====================

// ThrottleSubmit 按来源 IP 限制提交频率
// scope 区分接口（checkout / qna），超限返回 429
func ThrottleSubmit(scope string, interval time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := globalLimiter.Check(SubmitKey(scope, c.ClientIP()), interval)
		if !result.Allowed {
			c.Header("Retry-After", fmt.Sprintf("%d", int(result.RetryAfter.Seconds())+1))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "요청이 너무 잦습니다. 잠시 후 다시 시도해 주세요",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
