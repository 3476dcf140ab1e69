package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// CatalogItem — результат разрешения ссылки на товар: существование и доверенная цена.
type CatalogItem struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
}

// CatalogLookup разрешает идентификатор товара в авторитетную цену каталога.
type CatalogLookup interface {
	// Resolve возвращает ErrInvalidProductID для некорректного идентификатора
	// и ErrProductNotFound, если товара нет. Обе ошибки несут идентификатор позиции.
	Resolve(ctx context.Context, productID string) (CatalogItem, error)
}

// TokenVerifier сопоставляет предъявленный токен со стабильным идентификатором пользователя.
// Выпуск токенов и регистрация пользователей — зона ответственности внешнего сервиса.
type TokenVerifier interface {
	// Verify возвращает идентификатор пользователя или ErrInvalidToken.
	Verify(ctx context.Context, token string) (string, error)
}

// OutboxPublisher публикует события из transactional outbox.
type OutboxPublisher interface {
	// Publish передаёт событие наружу; должен быть идемпотентным.
	Publish(event OutboxMessage) error
}

// OutboxRepository позволяет сохранять события для последующей публикации.
type OutboxRepository interface {
	Enqueue(msg OutboxMessage) (OutboxMessage, error)
	PullPending(limit int) ([]OutboxMessage, error)
	Stats() (OutboxStats, error)
	MarkSent(id string) error
	MarkFailed(id string) error
}

// OutboxMessage хранит данные для публикуемого события.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// OutboxStats описывает текущее состояние backlog transactional outbox.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}
