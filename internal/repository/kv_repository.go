package repository

import (
	"context"
	"errors"
	"time"

	"github.com/lunapatch/storefront/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVRepository 键值数据访问接口
type KVRepository interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// GormKVRepository GORM 实现
type GormKVRepository struct {
	db *gorm.DB
}

// NewKVRepository 创建键值仓库
func NewKVRepository(db *gorm.DB) *GormKVRepository {
	return &GormKVRepository{db: db}
}

// Get 读取键值，第二个返回值表示是否存在
func (r *GormKVRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry models.KVEntry
	err := r.db.WithContext(ctx).Where("kv_key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return entry.Value, true, nil
}

// Put 写入键值（存在则覆盖）
func (r *GormKVRepository) Put(ctx context.Context, key string, value []byte) error {
	now := time.Now()
	entry := models.KVEntry{
		Key:       key,
		Value:     value,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kv_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

// Delete 删除键值
func (r *GormKVRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("kv_key = ?", key).Delete(&models.KVEntry{}).Error
}
