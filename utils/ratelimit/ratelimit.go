// Package ratelimit implements a redis-backed fixed window limiter shared by all API instances.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Gopher0727/SquadUp/config"
)

// Limiter decides whether the caller identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string, rule Rule) (bool, error)
	Remaining(ctx context.Context, key string, rule Rule) (int, error)
	Reset(ctx context.Context, key string, rule Rule) error
}

// Rule allows Limit requests per Window.
type Rule struct {
	Limit  int
	Window time.Duration
}

// Endpoint names used as rule keys.
const (
	EndpointCreateGroup = "create_group"
	EndpointMembership  = "membership"
	EndpointAPI         = "api"
)

// RulesFromConfig maps configured per-minute quotas onto endpoint rules.
// A zero or negative quota falls back to 100 per minute.
func RulesFromConfig(cfg config.RateLimitConfig) map[string]Rule {
	perMinute := func(n int) Rule {
		if n <= 0 {
			n = 100
		}
		return Rule{Limit: n, Window: time.Minute}
	}
	return map[string]Rule{
		EndpointCreateGroup: perMinute(cfg.CreateGroupPerMinute),
		EndpointMembership:  perMinute(cfg.MembershipPerMinute),
		EndpointAPI:         perMinute(cfg.APIPerMinute),
	}
}

// WindowLimiter counts requests per key in fixed windows using INCRBY + EXPIRE.
type WindowLimiter struct {
	client   *redis.Client
	logger   *zap.Logger
	failOpen bool
	now      func() time.Time
}

// NewWindowLimiter creates a limiter. With failOpen set, redis errors let requests through.
func NewWindowLimiter(client *redis.Client, logger *zap.Logger, failOpen bool) *WindowLimiter {
	return &WindowLimiter{
		client:   client,
		logger:   logger,
		failOpen: failOpen,
		now:      time.Now,
	}
}

// Allow consumes one request from key's current window.
func (l *WindowLimiter) Allow(ctx context.Context, key string, rule Rule) (bool, error) {
	bucket := l.bucketKey(key, rule.Window)

	pipe := l.client.TxPipeline()
	incr := pipe.IncrBy(ctx, bucket, 1)
	pipe.Expire(ctx, bucket, rule.Window+time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		if l.failOpen {
			l.logger.Warn("rate limit check failed, allowing request",
				zap.String("key", key),
				zap.Error(err),
			)
			return true, nil
		}
		return false, fmt.Errorf("rate limit check: %w", err)
	}

	count := incr.Val()
	if count > int64(rule.Limit) {
		l.logger.Debug("rate limit exceeded",
			zap.String("key", key),
			zap.Int64("count", count),
			zap.Int("limit", rule.Limit),
		)
		return false, nil
	}
	return true, nil
}

// Remaining reports how many requests key may still make in the current window.
func (l *WindowLimiter) Remaining(ctx context.Context, key string, rule Rule) (int, error) {
	count, err := l.client.Get(ctx, l.bucketKey(key, rule.Window)).Int()
	if err == redis.Nil {
		return rule.Limit, nil
	}
	if err != nil {
		return 0, fmt.Errorf("rate limit remaining: %w", err)
	}
	return max(rule.Limit-count, 0), nil
}

// Reset clears key's current window.
func (l *WindowLimiter) Reset(ctx context.Context, key string, rule Rule) error {
	if err := l.client.Del(ctx, l.bucketKey(key, rule.Window)).Err(); err != nil {
		return fmt.Errorf("rate limit reset %s: %w", key, err)
	}
	return nil
}

func (l *WindowLimiter) bucketKey(key string, window time.Duration) string {
	if window <= 0 {
		window = time.Minute
	}
	return fmt.Sprintf("ratelimit:%s:%d", key, l.now().UnixNano()/int64(window))
}
