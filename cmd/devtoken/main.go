package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/Gopher0727/SquadUp/config"
	"github.com/Gopher0727/SquadUp/middleware/jwt"
)

// devtoken 为本地调试签发令牌，用户身份由外部系统负责
func main() {
	userID := flag.String("user", "1", "用户 ID")
	username := flag.String("name", "", "用户名，写入令牌声明")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("加载 .env 失败: %v", err)
	}
	cfg, err := config.LoadConfig("./config.toml")
	if err != nil {
		log.Fatalf("配置初始化失败: %v", err)
	}

	token, err := jwt.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpireHours).GenerateToken(*userID, *username)
	if err != nil {
		log.Fatalf("生成令牌失败: %v", err)
	}
	fmt.Println(token)
}
