package middlewares

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// NewLimiter 创建进程内令牌桶
// qps: 每秒补充的令牌数; burst: 突发流量容量
func NewLimiter(qps float64, burst int) *rate.Limiter {
	if qps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(qps), burst)
}

// RateLimitMiddleware 全局限流中间件
// 等待令牌而不是直接拒绝，能吸收瞬时尖峰；waitTimeout 内拿不到令牌则返回 429
// waitTimeout <= 0 时不等待，没有令牌立即拒绝
func RateLimitMiddleware(limiter *rate.Limiter, waitTimeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if waitTimeout <= 0 {
			if !limiter.Allow() {
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
					"error": "Too many requests, please try again later",
				})
				return
			}
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), waitTimeout)
		defer cancel()

		if err := limiter.Wait(ctx); err != nil {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests, please try again later",
			})
			return
		}
		c.Next()
	}
}

// MaxConcurrencyMiddleware 最大并发控制中间件
// 用带缓冲的 channel 作为信号量，超出上限直接返回 503
func MaxConcurrencyMiddleware(maxConcurrent int) gin.HandlerFunc {
	if maxConcurrent <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	sem := make(chan struct{}, maxConcurrent)

	return func(c *gin.Context) {
		select {
		case sem <- struct{}{}:
			defer func() { <-sem }()
			c.Next()
		default:
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error": "Service unavailable, too many concurrent requests",
			})
		}
	}
}
