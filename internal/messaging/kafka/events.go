package kafka

import "time"

// EventType определяет тип события заказа.
type EventType string

const (
	// EventTypeOrderCreated — заказ прошёл валидацию и сверку цен и сохранён.
	EventTypeOrderCreated EventType = "order.created"
)

// Topics для Kafka.
const (
	TopicOrderEvents     = "orders.events"
	TopicDeadLetterQueue = "orders.dlq" // события, не доставленные после всех retry
)

// OrderEvent представляет событие заказа для внешних потребителей.
type OrderEvent struct {
	EventType EventType              `json:"event_type"`
	OrderID   string                 `json:"order_id"`
	UserID    string                 `json:"user_id"`
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewOrderEvent создаёт событие заказа с текущим временем.
func NewOrderEvent(eventType EventType, orderID, userID, status string) OrderEvent {
	return OrderEvent{
		EventType: eventType,
		OrderID:   orderID,
		UserID:    userID,
		Status:    status,
		Timestamp: time.Now().UTC(),
	}
}
