package service

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lunapatch/storefront/internal/constants"
)

// OrderNoGenerator 订单号生成器：LP + 毫秒时间戳末 8 位
// 进程内保证单调递增；跨进程或时钟回拨时仍可能重复
type OrderNoGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewOrderNoGenerator 创建生成器，now 为空时使用系统时钟
func NewOrderNoGenerator(now func() time.Time) *OrderNoGenerator {
	if now == nil {
		now = time.Now
	}
	return &OrderNoGenerator{now: now}
}

// Next 生成下一个订单号
func (g *OrderNoGenerator) Next() string {
	g.mu.Lock()
	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	g.mu.Unlock()
	return FormatOrderNo(ms)
}

// FormatOrderNo 按毫秒时间戳格式化订单号
func FormatOrderNo(ms int64) string {
	digits := strconv.FormatInt(ms, 10)
	if len(digits) > constants.OrderNoDigits {
		digits = digits[len(digits)-constants.OrderNoDigits:]
	}
	if len(digits) < constants.OrderNoDigits {
		digits = strings.Repeat("0", constants.OrderNoDigits-len(digits)) + digits
	}
	return constants.OrderNoPrefix + digits
}
