package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/SquadUp/middleware/jwt"
)

// gin.Context 中保存调用者身份的键
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"

	// TokenCookie 页面请求携带令牌的 cookie 名
	TokenCookie = "squadup_token"
)

// RequireAuth JWT 认证中间件，没有合法令牌直接返回 401
// 只接受 Authorization 头，cookie 会被跨站请求自动携带，不能用于写接口
func RequireAuth(tm *jwt.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing authentication token"})
			return
		}

		claims, err := tm.ParseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuth 读接口使用：令牌缺失或无效时按匿名用户处理，页面请求可通过 cookie 携带令牌
func OptionalAuth(tm *jwt.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractToken(c); token != "" {
			if claims, err := tm.ParseToken(token); err == nil {
				setIdentity(c, claims)
			}
		}
		c.Next()
	}
}

// UserID 返回当前调用者，匿名时为空字符串
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

func setIdentity(c *gin.Context, claims *jwt.Claims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextUsername, claims.Username)
}

// extractToken 先读 Authorization 头，再读 cookie（页面请求）
func extractToken(c *gin.Context) string {
	if c.GetHeader("Authorization") != "" {
		return bearerToken(c)
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie
	}
	return ""
}

func bearerToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
