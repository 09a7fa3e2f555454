package queue

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/lunapatch/storefront/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderConfirmation 订单确认任务（缓存确认页数据并发布事件）
	TaskOrderConfirmation = constants.TaskOrderConfirmation
)

// OrderConfirmationPayload 订单确认任务载荷
type OrderConfirmationPayload struct {
	OrderNo      string          `json:"order_no"`
	Confirmation json.RawMessage `json:"confirmation"`
}

// NewOrderConfirmationTask 创建订单确认任务
func NewOrderConfirmationTask(payload OrderConfirmationPayload) (*asynq.Task, error) {
	if strings.TrimSpace(payload.OrderNo) == "" {
		return nil, errors.New("order confirmation payload missing order_no")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderConfirmation, body), nil
}

// ParseOrderConfirmationPayload 解析任务载荷
func ParseOrderConfirmationPayload(task *asynq.Task) (OrderConfirmationPayload, error) {
	var payload OrderConfirmationPayload
	if task == nil {
		return payload, errors.New("task is nil")
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, err
	}
	return payload, nil
}
