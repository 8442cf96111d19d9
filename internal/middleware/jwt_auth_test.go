package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func setupAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", JWTAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c), "role": GetUserRole(c)})
	})
	r.GET("/admin-only", JWTAuth(), RequireRole("admin"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doAuthed(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMissingHeader(t *testing.T) {
	r := setupAuthRouter()
	if w := doAuthed(r, "/me", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("状态码 = %d, want 401", w.Code)
	}
}

func TestJWTAuthMalformedHeader(t *testing.T) {
	r := setupAuthRouter()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Basic abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("状态码 = %d, want 401", w.Code)
	}
}

func TestJWTAuthValidToken(t *testing.T) {
	r := setupAuthRouter()
	token, err := GenerateAccessToken(7, "admin", "admin")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	if w := doAuthed(r, "/me", token); w.Code != http.StatusOK {
		t.Errorf("状态码 = %d, want 200, body = %s", w.Code, w.Body.String())
	}
}

func TestJWTAuthRejectsRefreshToken(t *testing.T) {
	r := setupAuthRouter()
	token, err := GenerateRefreshToken(7, "admin", "admin")
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error = %v", err)
	}
	if w := doAuthed(r, "/me", token); w.Code != http.StatusUnauthorized {
		t.Errorf("状态码 = %d, refresh token 不能当 access 用", w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	r := setupAuthRouter()

	adminToken, _ := GenerateAccessToken(1, "admin", "admin")
	if w := doAuthed(r, "/admin-only", adminToken); w.Code != http.StatusOK {
		t.Errorf("admin 状态码 = %d, want 200", w.Code)
	}

	operatorToken, _ := GenerateAccessToken(2, "op", "operator")
	if w := doAuthed(r, "/admin-only", operatorToken); w.Code != http.StatusForbidden {
		t.Errorf("operator 状态码 = %d, want 403", w.Code)
	}
}

func TestParseTokenRejectsTampered(t *testing.T) {
	token, _ := GenerateAccessToken(1, "admin", "admin")
	if _, err := ParseToken(token + "x"); err == nil {
		t.Error("ParseToken() error = nil, 被篡改的 token 应被拒绝")
	}
}
