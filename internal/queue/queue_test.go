package queue

import (
	"encoding/json"
	"testing"

	"github.com/lunapatch/storefront/internal/config"
)

func TestOrderConfirmationTaskRoundTrip(t *testing.T) {
	task, err := NewOrderConfirmationTask(OrderConfirmationPayload{
		OrderNo:      "LP12345678",
		Confirmation: json.RawMessage(`{"order_no":"LP12345678"}`),
	})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if task.Type() != TaskOrderConfirmation {
		t.Fatalf("unexpected task type: %s", task.Type())
	}
	payload, err := ParseOrderConfirmationPayload(task)
	if err != nil {
		t.Fatalf("parse payload failed: %v", err)
	}
	if payload.OrderNo != "LP12345678" || string(payload.Confirmation) != `{"order_no":"LP12345678"}` {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestOrderConfirmationTaskRequiresOrderNo(t *testing.T) {
	if _, err := NewOrderConfirmationTask(OrderConfirmationPayload{OrderNo: " "}); err == nil {
		t.Fatalf("expected error for blank order_no")
	}
	if _, err := ParseOrderConfirmationPayload(nil); err == nil {
		t.Fatalf("expected error for nil task")
	}
}

func TestDisabledClientIsNoop(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("client should be disabled")
	}
	if err := client.EnqueueOrderConfirmation(OrderConfirmationPayload{OrderNo: "LP1"}); err != nil {
		t.Fatalf("disabled enqueue should be noop: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(&config.QueueConfig{Host: " redis ", Port: 6380, DB: 2})
	if opt.Addr != "redis:6380" || opt.DB != 2 {
		t.Fatalf("unexpected redis opt: %+v", opt)
	}
	if cfg.Concurrency != 10 || cfg.Queues[DefaultQueue] != 1 {
		t.Fatalf("unexpected server config: %+v", cfg)
	}

	_, custom := BuildServerConfig(&config.QueueConfig{Concurrency: 3, Queues: map[string]int{"critical": 5}})
	if custom.Concurrency != 3 || custom.Queues["critical"] != 5 {
		t.Fatalf("unexpected custom config: %+v", custom)
	}
}
