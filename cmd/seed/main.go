package main

import (
	"flag"

	"github.com/lunapatch/storefront/internal/catalog"
	"github.com/lunapatch/storefront/internal/config"
	"github.com/lunapatch/storefront/internal/logger"
	"github.com/lunapatch/storefront/internal/models"
	"github.com/lunapatch/storefront/internal/repository"

	"github.com/joho/godotenv"
)

// seed 将商品目录文件写入数据库，供 catalog.source=database 使用
func main() {
	_ = godotenv.Load()

	var path string
	flag.StringVar(&path, "catalog", "", "商品目录 JSON 文件路径（为空时使用内置目录）")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(nil); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	if path == "" {
		path = cfg.Catalog.Path
	}
	provider, err := catalog.NewFileProvider(path)
	if err != nil {
		stdLog.Fatalf("Failed to load catalog: %v", err)
	}
	products := provider.Products()

	repo := repository.NewProductRepository(models.DB)
	if err := repo.ReplaceAll(products); err != nil {
		stdLog.Fatalf("Failed to seed products: %v", err)
	}
	count, err := repo.Count()
	if err != nil {
		stdLog.Fatalf("Failed to count products: %v", err)
	}
	logger.Infow("seed_catalog_done", "source", path, "products", count)
}
