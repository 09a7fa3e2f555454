package cache

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// ErrRedisDisabled Redis 未启用
var ErrRedisDisabled = errors.New("redis is not enabled")

// BlobStorage 以整块字节存储的 Redis 后端（不设置过期时间）
type BlobStorage struct {
	client *redis.Client
}

// NewBlobStorage 使用全局客户端创建存储
func NewBlobStorage() (*BlobStorage, error) {
	if !Enabled() {
		return nil, ErrRedisDisabled
	}
	return &BlobStorage{client: redisClient}, nil
}

// Load 读取整块数据，第二个返回值表示是否存在
func (s *BlobStorage) Load(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, BuildKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Save 覆盖写入整块数据
func (s *BlobStorage) Save(ctx context.Context, key string, blob []byte) error {
	return s.client.Set(ctx, BuildKey(key), blob, 0).Err()
}
