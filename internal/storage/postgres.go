package storage

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Gopher0727/SquadUp/config"
	"github.com/Gopher0727/SquadUp/internal/models"
	logger "github.com/Gopher0727/SquadUp/middleware/log"
)

// InitPostgres 初始化 PostgreSQL 连接
// TranslateError 打开后唯一约束冲突会变成 gorm.ErrDuplicatedKey，由仓储层统一转换
func InitPostgres(cfg config.PostgresConfig, log *logger.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         NewGormLogger(log, cfg.LogLevel, 200*time.Millisecond),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取 sql.DB 失败: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// 生产环境使用 cmd/migrate，AutoMigrate 只用于本地开发
	if cfg.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			return nil, err
		}
		log.Info("模型迁移完成", zap.String("dbname", cfg.DBName))
	}
	return db, nil
}

// AutoMigrate 按模型建表，顺序满足外键依赖
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Game{},
		&models.GameMode{},
		&models.Group{},
		&models.GroupMember{},
	)
	if err != nil {
		return fmt.Errorf("模型迁移失败: %w", err)
	}
	return nil
}
