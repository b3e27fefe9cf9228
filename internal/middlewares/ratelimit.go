package middlewares

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	logger "github.com/Gopher0727/SquadUp/middleware/log"
	"github.com/Gopher0727/SquadUp/utils/ratelimit"
)

// UserRateLimit 按调用者（未登录时按 IP）做固定窗口限流
// limiter 为 nil 时不限流，适用于未启用 Redis 的本地运行
func UserRateLimit(limiter ratelimit.Limiter, endpoint string, rule ratelimit.Rule, log *logger.Logger) gin.HandlerFunc {
	if limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		caller := UserID(c)
		if caller == "" {
			caller = "ip:" + c.ClientIP()
		}
		key := endpoint + ":" + caller
		ctx := c.Request.Context()

		allowed, err := limiter.Allow(ctx, key, rule)
		if err != nil {
			// 限流器不可用时放行
			log.WarnContext(ctx, "rate limiter unavailable", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rule.Limit))
		if remaining, err := limiter.Remaining(ctx, key, rule); err == nil {
			c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests, please try again later",
			})
			return
		}
		c.Next()
	}
}
