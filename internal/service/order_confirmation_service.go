package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lunapatch/storefront/internal/cache"
	"github.com/lunapatch/storefront/internal/events"
	"github.com/lunapatch/storefront/internal/logger"
	"github.com/lunapatch/storefront/internal/queue"
)

// OrderConfirmationService 订单确认分发：缓存确认页数据并发布下单事件
type OrderConfirmationService struct {
	queueClient *queue.Client
	publisher   events.Publisher
	ttl         time.Duration
}

// NewOrderConfirmationService 创建订单确认服务
func NewOrderConfirmationService(queueClient *queue.Client, publisher events.Publisher, ttl time.Duration) *OrderConfirmationService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if ttl <= 0 {
		ttl = cache.DefaultOrderConfirmationTTL
	}
	return &OrderConfirmationService{
		queueClient: queueClient,
		publisher:   publisher,
		ttl:         ttl,
	}
}

// Dispatch 队列启用时异步处理，否则同步处理
func (s *OrderConfirmationService) Dispatch(ctx context.Context, confirmation *OrderConfirmation) error {
	if confirmation == nil {
		return nil
	}
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return s.Handle(ctx, confirmation)
	}
	body, err := json.Marshal(confirmation)
	if err != nil {
		return fmt.Errorf("marshal order confirmation: %w", err)
	}
	if err := s.queueClient.EnqueueOrderConfirmation(queue.OrderConfirmationPayload{
		OrderNo:      confirmation.OrderNo,
		Confirmation: body,
	}); err != nil {
		logger.Warnw("order_confirmation_enqueue_failed", "order_no", confirmation.OrderNo, "error", err)
		return s.Handle(ctx, confirmation)
	}
	return nil
}

// Handle 写入确认页缓存并发布事件
func (s *OrderConfirmationService) Handle(ctx context.Context, confirmation *OrderConfirmation) error {
	if confirmation == nil || strings.TrimSpace(confirmation.OrderNo) == "" {
		return nil
	}
	if err := cache.SetOrderConfirmation(ctx, confirmation.OrderNo, confirmation, s.ttl); err != nil {
		return fmt.Errorf("cache order confirmation: %w", err)
	}
	event := events.NewOrderPlaced(confirmation.OrderNo, confirmation.PlacedAt)
	event.TotalItems = confirmation.TotalItems
	event.Subtotal = confirmation.Summary.Subtotal
	event.Shipping = confirmation.Summary.Shipping
	event.Total = confirmation.Summary.Total
	event.City = confirmation.Customer.City
	event.State = confirmation.Customer.State
	if err := s.publisher.PublishOrderPlaced(ctx, event); err != nil {
		return err
	}
	logger.Infow("order_confirmation_dispatched", "order_no", confirmation.OrderNo, "total", confirmation.Summary.Total)
	return nil
}

// Get 读取缓存的订单确认
func (s *OrderConfirmationService) Get(ctx context.Context, orderNo string) (*OrderConfirmation, bool, error) {
	var confirmation OrderConfirmation
	ok, err := cache.GetOrderConfirmation(ctx, orderNo, &confirmation)
	if err != nil || !ok {
		return nil, false, err
	}
	return &confirmation, true, nil
}
