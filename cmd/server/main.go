package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/vixenblog/internal/config"
	"github.com/vixenblog/internal/db"
	"github.com/vixenblog/internal/handler"
	"github.com/vixenblog/internal/router"
	"github.com/vixenblog/internal/schedule"
)

func main() {
	// .env 不存在时静默跳过，环境变量仍然生效
	_ = godotenv.Load()

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// 按配置确保超级管理员存在
	if err := db.EnsureUser(cfg.SuperRootUserName, cfg.SuperRootPassword); err != nil {
		log.Fatalf("failed to ensure root user: %v", err)
	}

	api := handler.NewAPI(db.DB, cfg)

	// 启动进程内的定时发布扫描
	scheduler := schedule.NewManager(api.Posts(), cfg.PublishSweepSpec)
	if err := scheduler.Register(); err != nil {
		log.Fatalf("failed to register scheduler: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(api, cfg)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
