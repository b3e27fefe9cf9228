package routers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/SquadUp/config"
	"github.com/Gopher0727/SquadUp/internal/handlers"
	"github.com/Gopher0727/SquadUp/internal/metrics"
	"github.com/Gopher0727/SquadUp/internal/middlewares"
	"github.com/Gopher0727/SquadUp/middleware/jwt"
	logger "github.com/Gopher0727/SquadUp/middleware/log"
	pkgmw "github.com/Gopher0727/SquadUp/pkg/middlewares"
	"github.com/Gopher0727/SquadUp/utils/ratelimit"
)

// Deps 路由依赖
type Deps struct {
	RateLimit config.RateLimitConfig
	Tokens    *jwt.TokenManager
	Metrics   *metrics.Metrics
	Log       *logger.Logger
	// Limiter 按用户限流，nil 表示不启用（未配置 Redis）
	Limiter ratelimit.Limiter

	Groups *handlers.GroupHandler
	Games  *handlers.GameHandler
	Pages  *handlers.PageHandler
	Health *handlers.HealthHandler
}

// SetupRoutes 设置所有路由
func SetupRoutes(r *gin.Engine, d Deps) {
	r.Use(
		middlewares.TraceID(),
		middlewares.RequestLogger(d.Log),
		middlewares.Recovery(d.Log),
		d.Metrics.GinMiddleware(),
	)

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"}
	r.Use(cors.New(corsConfig))

	// 健康检查与指标不参与限流
	r.GET("/health", d.Health.Health)
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	// 全局限流 + 并发上限
	limited := r.Group("")
	limited.Use(
		pkgmw.RateLimitMiddleware(
			pkgmw.NewLimiter(d.RateLimit.QPS, d.RateLimit.Burst),
			time.Duration(d.RateLimit.WaitTimeoutMS)*time.Millisecond,
		),
		pkgmw.MaxConcurrencyMiddleware(d.RateLimit.MaxConcurrency),
	)

	rules := ratelimit.RulesFromConfig(d.RateLimit)
	RegisterGroupRoutes(limited, d, rules)
	RegisterGameRoutes(limited, d)
	RegisterPageRoutes(limited, d)
}

// RegisterGroupRoutes 队伍接口
func RegisterGroupRoutes(r *gin.RouterGroup, d Deps, rules map[string]ratelimit.Rule) {
	optional := middlewares.OptionalAuth(d.Tokens)
	required := middlewares.RequireAuth(d.Tokens)
	apiLimit := middlewares.UserRateLimit(d.Limiter, ratelimit.EndpointAPI, rules[ratelimit.EndpointAPI], d.Log)
	createLimit := middlewares.UserRateLimit(d.Limiter, ratelimit.EndpointCreateGroup, rules[ratelimit.EndpointCreateGroup], d.Log)
	memberLimit := middlewares.UserRateLimit(d.Limiter, ratelimit.EndpointMembership, rules[ratelimit.EndpointMembership], d.Log)

	groups := r.Group("/groups")
	{
		groups.GET("", optional, apiLimit, d.Groups.ListGroups)   // 列表
		groups.GET("/:id", optional, apiLimit, d.Groups.GetGroup) // 详情

		groups.POST("", required, createLimit, d.Groups.CreateGroup)          // 创建
		groups.POST("/:id/join", required, memberLimit, d.Groups.JoinGroup)   // 加入
		groups.POST("/:id/leave", required, memberLimit, d.Groups.LeaveGroup) // 离开
		groups.DELETE("/:id", required, apiLimit, d.Groups.DeleteGroup)       // 删除
	}
}

// RegisterGameRoutes 游戏目录
func RegisterGameRoutes(r *gin.RouterGroup, d Deps) {
	games := r.Group("/games")
	{
		games.GET("", d.Games.ListGames)
		games.GET("/:id", d.Games.GetGame)
	}
}

// RegisterPageRoutes 页面
func RegisterPageRoutes(r *gin.RouterGroup, d Deps) {
	optional := middlewares.OptionalAuth(d.Tokens)

	r.GET("/", d.Pages.Index)
	ui := r.Group("/ui", optional)
	{
		ui.GET("/groups", d.Pages.Groups)
		ui.GET("/groups/:id", d.Pages.GroupDetail)
	}
}
