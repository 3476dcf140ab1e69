package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/catalog-orders/internal/domain"
)

func TestNewOrderEvent(t *testing.T) {
	before := time.Now().UTC()
	event := NewOrderEvent(EventTypeOrderCreated, "order-1", "user-1", "pending")
	after := time.Now().UTC()

	if event.EventType != EventTypeOrderCreated {
		t.Errorf("expected event type %s, got %s", EventTypeOrderCreated, event.EventType)
	}
	if event.OrderID != "order-1" || event.UserID != "user-1" || event.Status != "pending" {
		t.Errorf("unexpected event fields: %+v", event)
	}
	if event.Timestamp.Before(before) || event.Timestamp.After(after) {
		t.Errorf("timestamp %v outside [%v, %v]", event.Timestamp, before, after)
	}
}

func TestOrderEvent_JSON(t *testing.T) {
	event := NewOrderEvent(EventTypeOrderCreated, "order-1", "user-1", "pending")

	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if decoded["event_type"] != "order.created" {
		t.Errorf("expected event_type order.created, got %v", decoded["event_type"])
	}
	if _, ok := decoded["metadata"]; ok {
		t.Error("empty metadata should be omitted")
	}
}

func TestOutboxPublisher_NotInitialized(t *testing.T) {
	msg := domain.OutboxMessage{ID: "msg-1", EventType: string(EventTypeOrderCreated)}

	var p *OutboxTopicPublisher
	if err := p.Publish(msg); err == nil {
		t.Fatal("nil publisher must reject publish")
	}

	uninitialized := &OutboxTopicPublisher{}
	if err := uninitialized.Publish(msg); err == nil {
		t.Fatal("publisher without producer must reject publish")
	}
}
