package main

import (
	"flag"
	"fmt"
	"os"
	"syscall"

	"github.com/lunapatch/storefront/internal/app"
	"github.com/lunapatch/storefront/internal/config"
	"github.com/lunapatch/storefront/internal/logger"
	"github.com/lunapatch/storefront/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiDim    = "\033[2m"
	ansiGreen  = "\033[32m"
	ansiCyan   = "\033[36m"
	ansiPurple = "\033[35m"
)

func main() {
	printStartupBanner()

	// .env 仅用于本地开发，缺失时忽略
	_ = godotenv.Load()

	// 解析命令行参数
	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.Parse()

	// 加载配置
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	// 目录或购物车使用数据库时才初始化数据库
	if cfg.NeedsDatabase() {
		if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
			MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
			MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
			ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
			ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
		}); err != nil {
			stdLog.Fatalf("数据库初始化失败: %v", err)
		}
		if err := models.AutoMigrate(nil); err != nil {
			stdLog.Fatalf("数据库迁移失败: %v", err)
		}
	}

	// 设置 Gin 模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

func printStartupBanner() {
	fmt.Println(ansiPurple + "╔════════════════════════════════════════════════╗" + ansiReset)
	fmt.Println(ansiPurple + "║          🌙 LunaPatch Storefront API           ║" + ansiReset)
	fmt.Println(ansiPurple + "╚════════════════════════════════════════════════╝" + ansiReset)
	fmt.Println(ansiCyan + "  Sleep · Focus · Mood · Collection" + ansiReset)
	fmt.Println(ansiGreen + ansiBold + "Modes: all | api | worker" + ansiReset)
	fmt.Println(ansiDim + "--------------------------------------------------" + ansiReset)
}
