package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lunapatch/storefront/internal/config"
	"github.com/lunapatch/storefront/internal/constants"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// OrderPlaced 下单完成事件
type OrderPlaced struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	OrderNo    string    `json:"order_no"`
	TotalItems int       `json:"total_items"`
	Subtotal   int64     `json:"subtotal"`
	Shipping   int64     `json:"shipping"`
	Total      int64     `json:"total"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewOrderPlaced 创建事件并分配事件 ID
func NewOrderPlaced(orderNo string, occurredAt time.Time) OrderPlaced {
	return OrderPlaced{
		EventID:    uuid.NewString(),
		Type:       constants.EventTypeOrderPlaced,
		OrderNo:    orderNo,
		OccurredAt: occurredAt.UTC(),
	}
}

// Publisher 事件发布接口
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, event OrderPlaced) error
	Close() error
}

// NopPublisher 未启用事件时使用
type NopPublisher struct{}

// PublishOrderPlaced 不做任何处理
func (NopPublisher) PublishOrderPlaced(context.Context, OrderPlaced) error { return nil }

// Close 不做任何处理
func (NopPublisher) Close() error { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher 基于 kafka-go 的同步发布者，以订单号为消息键
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

// NewPublisher 根据配置创建发布者，未启用时返回 NopPublisher
func NewPublisher(cfg *config.EventsConfig) (Publisher, error) {
	if cfg == nil || !cfg.Enabled {
		return NopPublisher{}, nil
	}
	brokers := make([]string, 0, len(cfg.Brokers))
	for _, broker := range cfg.Brokers {
		if trimmed := strings.TrimSpace(broker); trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}
	if len(brokers) == 0 {
		return nil, errors.New("events enabled but no kafka brokers configured")
	}
	topic := strings.TrimSpace(cfg.Topic)
	if topic == "" {
		return nil, errors.New("events enabled but kafka topic is empty")
	}
	return newKafkaPublisher(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}, topic), nil
}

func newKafkaPublisher(writer messageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, topic: topic}
}

// PublishOrderPlaced 发布下单事件
func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, event OrderPlaced) error {
	if event.Type == "" {
		event.Type = constants.EventTypeOrderPlaced
	}
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order placed event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(event.OrderNo),
		Value: payload,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "event_id", Value: []byte(event.EventID)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish order placed event to %s: %w", p.topic, err)
	}
	return nil
}

// Close 关闭底层 writer
func (p *KafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
