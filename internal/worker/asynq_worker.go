package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lunapatch/storefront/internal/logger"
	"github.com/lunapatch/storefront/internal/provider"
	"github.com/lunapatch/storefront/internal/queue"
	"github.com/lunapatch/storefront/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderConfirmation, c.handleOrderConfirmation)
}

func (c *Consumer) handleOrderConfirmation(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_confirmation_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseOrderConfirmationPayload(task)
	if err != nil {
		logger.Warnw("worker_order_confirmation_unmarshal_failed", "error", err)
		// 载荷损坏重试无意义
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	confirmation, err := decodeOrderConfirmation(payload)
	if err != nil {
		logger.Warnw("worker_order_confirmation_decode_failed", "order_no", payload.OrderNo, "error", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if c.OrderConfirmationService == nil {
		logger.Debugw("worker_order_confirmation_skip_no_service", "order_no", payload.OrderNo)
		return nil
	}
	if err := c.OrderConfirmationService.Handle(ctx, confirmation); err != nil {
		logger.Warnw("worker_order_confirmation_handle_failed", "order_no", payload.OrderNo, "error", err)
		return err
	}
	return nil
}

func decodeOrderConfirmation(payload queue.OrderConfirmationPayload) (*service.OrderConfirmation, error) {
	if len(payload.Confirmation) == 0 {
		return nil, fmt.Errorf("order %s: empty confirmation", payload.OrderNo)
	}
	var confirmation service.OrderConfirmation
	if err := json.Unmarshal(payload.Confirmation, &confirmation); err != nil {
		return nil, err
	}
	if confirmation.OrderNo != payload.OrderNo {
		return nil, fmt.Errorf("order no mismatch: payload %s, confirmation %s", payload.OrderNo, confirmation.OrderNo)
	}
	return &confirmation, nil
}
