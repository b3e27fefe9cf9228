package main

import (
	"errors"
	"flag"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/Gopher0727/SquadUp/config"
)

func main() {
	dir := flag.String("path", "db/migrations", "迁移文件目录")
	steps := flag.Int("steps", 0, "执行的步数，负数表示回滚，0 表示全部升级")
	down := flag.Bool("down", false, "回滚全部迁移")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("加载 .env 失败: %v", err)
	}
	cfg, err := config.LoadConfig("./config.toml")
	if err != nil {
		log.Fatalf("配置初始化失败: %v", err)
	}

	m, err := migrate.New("file://"+*dir, cfg.Postgres.URL())
	if err != nil {
		log.Fatalf("迁移初始化失败: %v", err)
	}
	defer m.Close()

	switch {
	case *down:
		err = m.Down()
	case *steps != 0:
		err = m.Steps(*steps)
	default:
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		log.Fatalf("读取迁移版本失败: %v", err)
	}
	log.Printf("数据库迁移完成，当前版本 %d (dirty=%v)", version, dirty)
}
