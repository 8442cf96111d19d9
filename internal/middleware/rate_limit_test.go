package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestSubmitRateLimiterCheck(t *testing.T) {
	limiter := &SubmitRateLimiter{}
	key := SubmitKey("checkout", "1.2.3.4")

	if result := limiter.Check(key, time.Minute); !result.Allowed {
		t.Fatal("首次提交应放行")
	}
	result := limiter.Check(key, time.Minute)
	if result.Allowed {
		t.Fatal("冷却期内应拦截")
	}
	if result.RetryAfter <= 0 || result.RetryAfter > time.Minute {
		t.Errorf("RetryAfter = %v, 应在 (0, 1m] 内", result.RetryAfter)
	}

	// 不同来源互不影响
	if result := limiter.Check(SubmitKey("checkout", "5.6.7.8"), time.Minute); !result.Allowed {
		t.Error("其他 IP 不应被波及")
	}
	// 同 IP 不同接口互不影响
	if result := limiter.Check(SubmitKey("qna", "1.2.3.4"), time.Minute); !result.Allowed {
		t.Error("其他接口不应被波及")
	}
}

func TestSubmitRateLimiterReset(t *testing.T) {
	limiter := &SubmitRateLimiter{}
	key := SubmitKey("qna", "1.2.3.4")

	limiter.Check(key, time.Minute)
	limiter.Reset(key)
	if result := limiter.Check(key, time.Minute); !result.Allowed {
		t.Error("Reset 后应放行")
	}
}

func TestThrottleSubmitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/submit", ThrottleSubmit("test-submit", time.Minute), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/submit", nil)
		req.RemoteAddr = "9.9.9.9:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	if w := do(); w.Code != http.StatusOK {
		t.Fatalf("首次状态码 = %d, want 200", w.Code)
	}
	w := do()
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("状态码 = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("缺少 Retry-After 响应头")
	}

	GetLimiter().Reset(SubmitKey("test-submit", "9.9.9.9"))
}
