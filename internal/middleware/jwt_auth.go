package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ==================== JWT 配置 ====================

// token 用途，写进 Subject 声明里区分
const (
	subjectAccess  = "access"
	subjectRefresh = "refresh"
)

// JWTConfig JWT 配置
type JWTConfig struct {
	SecretKey       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	Issuer          string
}

// DefaultJWTConfig 默认配置，生产环境必须通过配置覆盖密钥
func DefaultJWTConfig() *JWTConfig {
	return &JWTConfig{
		SecretKey:       "tidalshare-secret-key-change-in-production",
		AccessTokenTTL:  2 * time.Hour,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		Issuer:          "tidalshare",
	}
}

var jwtConfig = DefaultJWTConfig()

// SetJWTConfig 启动时注入配置
func SetJWTConfig(cfg *JWTConfig) {
	jwtConfig = cfg
}

// GetJWTConfig 读取当前配置
func GetJWTConfig() *JWTConfig {
	return jwtConfig
}

// ==================== Token 签发与解析 ====================

// UserClaims 后台账号声明
type UserClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// issueToken 按用途签发 token，access / refresh 只差 Subject 和有效期
func issueToken(userID int64, username, role, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &UserClaims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtConfig.Issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtConfig.SecretKey))
}

// GenerateAccessToken 签发 Access Token
func GenerateAccessToken(userID int64, username, role string) (string, error) {
	return issueToken(userID, username, role, subjectAccess, jwtConfig.AccessTokenTTL)
}

// GenerateRefreshToken 签发 Refresh Token
func GenerateRefreshToken(userID int64, username, role string) (string, error) {
	return issueToken(userID, username, role, subjectRefresh, jwtConfig.RefreshTokenTTL)
}

// GenerateTokenPair 一次签发 access + refresh
func GenerateTokenPair(userID int64, username, role string) (accessToken, refreshToken string, err error) {
	if accessToken, err = GenerateAccessToken(userID, username, role); err != nil {
		return "", "", err
	}
	if refreshToken, err = GenerateRefreshToken(userID, username, role); err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

var errTokenInvalid = errors.New("invalid token")

// ParseToken 解析并校验签名，过期或算法不符都返回错误
func ParseToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errTokenInvalid
		}
		return []byte(jwtConfig.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return nil, errTokenInvalid
	}
	return claims, nil
}

// ==================== Gin 中间件 ====================

// 认证信息在 gin.Context 里的键
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUsername = "username"
	ContextKeyRole     = "role"
	ContextKeyClaims   = "claims"
)

// JWTAuth Bearer 认证，只放行 access token
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abortUnauthorized(c, "인증 정보가 없거나 형식이 올바르지 않습니다")
			return
		}

		claims, err := ParseToken(token)
		if err != nil {
			abortUnauthorized(c, "토큰이 유효하지 않거나 만료되었습니다")
			return
		}
		if claims.Subject != subjectAccess {
			abortUnauthorized(c, "토큰 유형이 올바르지 않습니다")
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyUsername, claims.Username)
		c.Set(ContextKeyRole, claims.Role)
		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// RequireRole 角色白名单，挂在 JWTAuth 之后
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		current := GetUserRole(c)
		if current == "" {
			abortUnauthorized(c, "사용자 역할을 확인할 수 없습니다")
			return
		}

		for _, role := range roles {
			if current == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "접근 권한이 없습니다"})
		c.Abort()
	}
}

// bearerToken 从 Authorization 头取出 Bearer token
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
	c.Abort()
}

// ==================== Context 辅助 ====================

// GetUserID 当前登录账号 ID，未登录返回 0
func GetUserID(c *gin.Context) int64 {
	if id, exists := c.Get(ContextKeyUserID); exists {
		return id.(int64)
	}
	return 0
}

// GetUsername 当前登录账号名
func GetUsername(c *gin.Context) string {
	if name, exists := c.Get(ContextKeyUsername); exists {
		return name.(string)
	}
	return ""
}

// GetUserRole 当前登录账号角色
func GetUserRole(c *gin.Context) string {
	if role, exists := c.Get(ContextKeyRole); exists {
		return role.(string)
	}
	return ""
}
