package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Gopher0727/SquadUp/config"
	"github.com/Gopher0727/SquadUp/internal/events"
	"github.com/Gopher0727/SquadUp/internal/handlers"
	"github.com/Gopher0727/SquadUp/internal/metrics"
	"github.com/Gopher0727/SquadUp/internal/repositories"
	"github.com/Gopher0727/SquadUp/internal/repositories/memory"
	"github.com/Gopher0727/SquadUp/internal/routers"
	"github.com/Gopher0727/SquadUp/internal/services"
	"github.com/Gopher0727/SquadUp/internal/storage"
	"github.com/Gopher0727/SquadUp/middleware/jwt"
	logger "github.com/Gopher0727/SquadUp/middleware/log"
	"github.com/Gopher0727/SquadUp/utils/ratelimit"
	"github.com/Gopher0727/SquadUp/utils/snowflake"
)

// stores 三类仓储，postgres 与 memory 两种实现
type stores struct {
	groups  repositories.GroupStore
	catalog repositories.CatalogStore
	users   repositories.UserStore
	checks  map[string]handlers.HealthCheck
	closers []func() error
}

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("加载 .env 失败: %v", err)
	}
	cfg, err := config.LoadConfig("./config.toml")
	if err != nil {
		log.Fatalf("配置初始化失败: %v", err)
	}

	appLog, err := logger.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("日志初始化失败: %v", err)
	}
	defer appLog.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	ids, err := snowflake.NewGenerator(cfg.Server.NodeID)
	if err != nil {
		appLog.Fatal("snowflake 初始化失败", zap.Error(err))
	}

	// 初始化存储
	var (
		st  *stores
		rdb *redis.Client
	)
	switch cfg.Storage.Driver {
	case "memory":
		st, err = memoryStores(ctx, ids, appLog)
	default:
		st, rdb, err = postgresStores(ctx, cfg, appLog, m)
	}
	if err != nil {
		appLog.Fatal("存储初始化失败", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer func() {
		for _, closeFn := range st.closers {
			if err := closeFn(); err != nil {
				appLog.Warn("关闭资源失败", zap.Error(err))
			}
		}
	}()

	// 事件发布，Kafka 不可用时降级为不发布
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Kafka.Enabled {
		kp, err := events.NewKafkaPublisher(cfg.Kafka)
		if err != nil {
			appLog.Warn("Kafka 生产者初始化失败，事件不会发布", zap.Error(err))
		} else {
			publisher = kp
		}
	}
	defer publisher.Close()

	// 初始化服务层
	groupService := services.NewGroupService(st.groups, st.catalog, st.users, ids,
		services.WithPublisher(publisher),
		services.WithMetrics(m),
		services.WithLogger(appLog.Named("groups")),
	)
	catalogService := services.NewCatalogService(st.catalog, ids, appLog.Named("catalog"))

	deps := routers.Deps{
		RateLimit: cfg.RateLimit,
		Tokens:    jwt.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpireHours),
		Metrics:   m,
		Log:       appLog,
		Groups:    handlers.NewGroupHandler(groupService, appLog),
		Games:     handlers.NewGameHandler(catalogService, appLog),
		Pages:     handlers.NewPageHandler(groupService, catalogService, appLog),
		Health:    handlers.NewHealthHandler(st.checks),
	}
	// 按用户限流依赖 Redis
	if rdb != nil {
		deps.Limiter = ratelimit.NewWindowLimiter(rdb, appLog.Named("ratelimit").Logger, true)
	}

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	routers.SetupRoutes(r, deps)

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		appLog.Info("正在启动服务器", zap.Int("port", cfg.Server.Port), zap.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal("启动服务器失败", zap.Error(err))
		}
	}()

	<-ctx.Done()
	appLog.Info("收到退出信号，开始关闭")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("服务器关闭失败", zap.Error(err))
	}
}

// memoryStores 进程内存储，启动时写入游戏目录和演示用户
func memoryStores(ctx context.Context, ids services.IDGenerator, appLog *logger.Logger) (*stores, error) {
	store := memory.NewStore()
	if err := services.NewCatalogService(store, ids, appLog).Seed(ctx, services.DefaultCatalog()); err != nil {
		return nil, err
	}
	for _, u := range services.DemoUsers() {
		if err := store.UpsertUser(ctx, &u); err != nil {
			return nil, err
		}
	}
	appLog.Warn("使用内存存储，重启后数据丢失")
	return &stores{
		groups:  store,
		catalog: store,
		users:   store.Users(),
		checks:  map[string]handlers.HealthCheck{},
	}, nil
}

func postgresStores(ctx context.Context, cfg *config.Config, appLog *logger.Logger, m *metrics.Metrics) (*stores, *redis.Client, error) {
	db, err := storage.InitPostgres(cfg.Postgres, appLog)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}

	st := &stores{
		groups: repositories.NewGroupRepository(db),
		users:  repositories.NewUserRepository(db),
		checks: map[string]handlers.HealthCheck{
			"postgres": func(ctx context.Context) error { return pingDB(ctx, db) },
		},
		closers: []func() error{sqlDB.Close},
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = storage.InitRedis(ctx, cfg.Redis)
		if err != nil {
			// 缓存和限流可以缺席，数据库不行
			appLog.Warn("Redis 不可用，关闭目录缓存与按用户限流", zap.Error(err))
			rdb = nil
		} else {
			st.checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
			st.closers = append(st.closers, rdb.Close)
		}
	}

	ttl := time.Duration(cfg.Catalog.CacheTTLSeconds) * time.Second
	st.catalog = repositories.NewGameRepository(db, rdb, ttl, appLog.Named("catalog"), m)
	return st, rdb, nil
}

func pingDB(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
