package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/Gopher0727/SquadUp/config"
	"github.com/Gopher0727/SquadUp/internal/repositories"
	"github.com/Gopher0727/SquadUp/internal/services"
	"github.com/Gopher0727/SquadUp/internal/storage"
	logger "github.com/Gopher0727/SquadUp/middleware/log"
	"github.com/Gopher0727/SquadUp/utils/snowflake"
)

// seed 写入游戏目录与演示用户，可重复执行
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

	db, err := storage.InitPostgres(cfg.Postgres, appLog)
	if err != nil {
		appLog.Fatal("postgres 初始化失败", zap.Error(err))
	}

	ids, err := snowflake.NewGenerator(cfg.Server.NodeID)
	if err != nil {
		appLog.Fatal("snowflake 初始化失败", zap.Error(err))
	}

	ctx := context.Background()
	// seed 不连接 Redis，运行中的服务缓存会在 TTL 后过期
	catalog := services.NewCatalogService(repositories.NewGameRepository(db, nil, 0, appLog, nil), ids, appLog)
	if err := catalog.Seed(ctx, services.DefaultCatalog()); err != nil {
		appLog.Fatal("写入游戏目录失败", zap.Error(err))
	}

	users := repositories.NewUserRepository(db)
	for _, u := range services.DemoUsers() {
		if err := users.Upsert(ctx, &u); err != nil {
			appLog.Fatal("写入演示用户失败", zap.String("user_id", u.ID), zap.Error(err))
		}
	}
	appLog.Info("seed 完成", zap.Int("users", len(services.DemoUsers())))
}
