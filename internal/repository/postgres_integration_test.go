//go:build integration
// +build integration

package repository

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/lunapatch/storefront/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	cleanupModels := []interface{}{
		&models.ProductVariant{},
		&models.Product{},
		&models.KVEntry{},
	}
	_ = db.Migrator().DropTable(cleanupModels...)

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestPostgresProductRepositoryReplaceAll(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewProductRepository(db)

	if err := repo.ReplaceAll(sampleProducts()); err != nil {
		t.Fatalf("replace all failed: %v", err)
	}
	// 二次写入应整体替换而不是追加
	if err := repo.ReplaceAll(sampleProducts()[:1]); err != nil {
		t.Fatalf("second replace all failed: %v", err)
	}

	products, err := repo.ListAll()
	if err != nil {
		t.Fatalf("list all failed: %v", err)
	}
	if len(products) != 1 || products[0].ID != "p-sleep" {
		t.Fatalf("unexpected products: %+v", products)
	}
	if len(products[0].Variants) != 2 || products[0].Variants[0].ID != "s-7" {
		t.Fatalf("variants should keep their order, got %+v", products[0].Variants)
	}
	if len(products[0].Images) != 1 || products[0].Images[0] != "sleep.jpg" {
		t.Fatalf("json array column should round trip, got %v", products[0].Images)
	}
}

func TestPostgresKVRepositoryUpsert(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewKVRepository(db)
	ctx := context.Background()

	if err := repo.Put(ctx, "lunapatch-cart:s1", []byte(`{"items":[]}`)); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := repo.Put(ctx, "lunapatch-cart:s1", []byte(`{"items":[{"product_id":"p"}]}`)); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	value, ok, err := repo.Get(ctx, "lunapatch-cart:s1")
	if err != nil || !ok {
		t.Fatalf("get failed: ok=%v err=%v", ok, err)
	}
	if !strings.Contains(string(value), `"product_id":"p"`) {
		t.Fatalf("upsert should overwrite value, got %s", string(value))
	}
}
