package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DefaultOrderConfirmationTTL 订单确认页数据缓存时长
const DefaultOrderConfirmationTTL = 24 * time.Hour

func orderConfirmationKey(orderNo string) string {
	return fmt.Sprintf("order_confirmation:%s", strings.TrimSpace(orderNo))
}

// SetOrderConfirmation 缓存订单确认快照
func SetOrderConfirmation(ctx context.Context, orderNo string, confirmation interface{}, ttl time.Duration) error {
	if strings.TrimSpace(orderNo) == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = DefaultOrderConfirmationTTL
	}
	return SetJSON(ctx, orderConfirmationKey(orderNo), confirmation, ttl)
}

// GetOrderConfirmation 读取订单确认快照
func GetOrderConfirmation(ctx context.Context, orderNo string, dest interface{}) (bool, error) {
	if strings.TrimSpace(orderNo) == "" {
		return false, nil
	}
	return GetJSON(ctx, orderConfirmationKey(orderNo), dest)
}
