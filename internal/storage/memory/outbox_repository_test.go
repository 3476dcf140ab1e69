package memory

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/catalog-orders/internal/domain"
)

func TestOutboxRepository_EnqueuePull(t *testing.T) {
	repo := NewOutboxRepository()

	msg, err := repo.Enqueue(domain.OutboxMessage{
		AggregateType: "order",
		AggregateID:   "order-1",
		EventType:     "order.created",
		Payload:       []byte(`{"order_id":"order-1"}`),
	})
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	if msg.ID == "" {
		t.Fatal("enqueue should assign an id")
	}

	pending, err := repo.PullPending(10)
	if err != nil {
		t.Fatalf("pull failed: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != msg.ID {
		t.Fatalf("unexpected pending set: %+v", pending)
	}
}

func TestOutboxRepository_MarkSent(t *testing.T) {
	repo := NewOutboxRepository()
	msg, _ := repo.Enqueue(domain.OutboxMessage{EventType: "order.created"})

	if err := repo.MarkSent(msg.ID); err != nil {
		t.Fatalf("mark sent failed: %v", err)
	}

	pending, err := repo.PullPending(10)
	if err != nil {
		t.Fatalf("pull failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("sent message still pending: %+v", pending)
	}
}

func TestOutboxRepository_MarkUnknown(t *testing.T) {
	repo := NewOutboxRepository()

	if err := repo.MarkSent("missing"); err == nil {
		t.Fatal("expected error for unknown message id")
	}
	if err := repo.MarkFailed("missing"); err == nil {
		t.Fatal("expected error for unknown message id")
	}
}

func TestOutboxRepository_Stats(t *testing.T) {
	repo := NewOutboxRepository()

	stats, err := repo.Stats()
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.PendingCount != 0 {
		t.Fatalf("expected empty backlog, got %d", stats.PendingCount)
	}

	if _, err := repo.Enqueue(domain.OutboxMessage{EventType: "order.created"}); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	stats, err = repo.Stats()
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.PendingCount != 1 {
		t.Fatalf("expected 1 pending, got %d", stats.PendingCount)
	}
	if stats.OldestPendingAt.IsZero() || time.Since(stats.OldestPendingAt) < 0 {
		t.Fatalf("unexpected oldest pending timestamp: %v", stats.OldestPendingAt)
	}
}
