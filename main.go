// @title Arkiv Quests 后端 API
// @version 1.0
// @description Arkiv Quests 学习社区的后端服务器。

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"arkiv_quests_backend/internal/app"
	"arkiv_quests_backend/internal/config"
	"arkiv_quests_backend/pkg/configwatcher"
	"arkiv_quests_backend/pkg/logger"
	"flag"
	"log"
)

func main() {
	// 命令行参数
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	migrate := flag.Bool("migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly
	config.SetCurrent(cfg)

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 配置热更新：整体换指针发布，请求侧通过 config.Current() 读快照，
	// JWT密钥等改动无需重启
	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(newCfg interface{}) {
		if c, ok := newCfg.(*config.Config); ok {
			c.ForceMigrate = cfg.ForceMigrate
			c.MigrateOnly = cfg.MigrateOnly
			config.SetCurrent(c)
			logger.Log.Info("Config reloaded")
		}
	})

	// 迁移完成后直接退出
	if *migrateOnly {
		log.Println("数据库迁移完成，退出程序")
		return
	}

	application.Run()
}
