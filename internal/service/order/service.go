package order

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/catalog-orders/internal/domain"
	"github.com/vladislavdragonenkov/catalog-orders/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/catalog-orders/internal/metrics"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// Pagination описывает страницу выдачи списка заказов.
type Pagination struct {
	Page  int
	Limit int
	Total int
	Pages int
}

// Service оркестрирует оформление заказа: валидация → сверка цен → сохранение,
// и чтение заказов с проверкой владельца.
type Service struct {
	orders     domain.OrderRepository
	reconciler *Reconciler
	outbox     domain.OutboxRepository
	logger     *log.Entry
	metrics    *metrics.OrderMetrics
}

// NewService конструирует сервис заказов. outbox и metrics опциональны.
func NewService(
	orders domain.OrderRepository,
	reconciler *Reconciler,
	outbox domain.OutboxRepository,
	logger *log.Entry,
	m *metrics.OrderMetrics,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "order-service")
	}
	return &Service{
		orders:     orders,
		reconciler: reconciler,
		outbox:     outbox,
		logger:     logger,
		metrics:    m,
	}
}

// Submit проводит запрос через валидацию и сверку цен и сохраняет заказ.
// Конвейер останавливается на первой отказавшей стадии; до сохранения
// ничего не персистится.
func (s *Service) Submit(ctx context.Context, userID string, req SubmitRequest) (domain.Order, error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordSubmitDuration(time.Since(start))
	}()

	if userID == "" {
		return domain.Order{}, domain.ErrUserRequired
	}

	if errs := Validate(req); len(errs) > 0 {
		s.metrics.RecordValidationRejected()
		return domain.Order{}, errs
	}

	items, total, err := s.reconciler.Reconcile(ctx, req.Items, req.Total.Decimal)
	if err != nil {
		switch {
		case domain.IsCatalogResolution(err):
			s.metrics.RecordCatalogRejected()
		default:
			if _, ok := domain.AsTotalMismatch(err); ok {
				s.metrics.RecordTotalMismatch()
			}
		}
		return domain.Order{}, err
	}

	now := time.Now().UTC()
	order := domain.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		Items:           items,
		Total:           total,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   domain.PaymentMethod(req.PaymentMethod),
		Status:          domain.OrderStatusPending,
		CreatedAt:       now,
	}

	if errs := order.ValidateInvariants(); len(errs) > 0 {
		// Сюда попадать не должны: валидатор и reconciler уже отработали.
		return domain.Order{}, fmt.Errorf("order invariants violated: %v", errs)
	}

	if err := s.orders.Create(ctx, order); err != nil {
		s.metrics.RecordStoreFailure()
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to persist order")
		return domain.Order{}, fmt.Errorf("persist order: %w", err)
	}

	s.metrics.RecordOrderCreated()
	s.enqueueCreatedEvent(order)

	// Перечитываем заказ, чтобы вернуть позиции с данными каталога.
	stored, err := s.orders.GetByID(ctx, order.ID)
	if err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to reload created order")
		return order, nil
	}
	return stored, nil
}

// List возвращает страницу заказов пользователя, новые раньше старых.
// Выдача всегда ограничена заказами запрашивающего пользователя.
func (s *Service) List(ctx context.Context, userID string, page, limit int) ([]domain.Order, Pagination, error) {
	if userID == "" {
		return nil, Pagination{}, domain.ErrUserRequired
	}
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}

	offset := (page - 1) * limit
	orders, err := s.orders.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to list orders")
		return nil, Pagination{}, fmt.Errorf("list orders: %w", err)
	}

	total, err := s.orders.CountByUser(ctx, userID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to count orders")
		return nil, Pagination{}, fmt.Errorf("count orders: %w", err)
	}

	return orders, Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

// Get возвращает заказ по идентификатору с проверкой владельца.
// Исходы различимы: некорректный id, заказ отсутствует, заказ чужой.
func (s *Service) Get(ctx context.Context, userID, orderID string) (domain.Order, error) {
	if userID == "" {
		return domain.Order{}, domain.ErrUserRequired
	}
	// Некорректный формат отклоняется до обращения к хранилищу.
	if _, err := uuid.Parse(orderID); err != nil {
		return domain.Order{}, domain.ErrInvalidOrderID
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if order.UserID != userID {
		return domain.Order{}, domain.ErrAccessDenied
	}
	return order, nil
}

func (s *Service) enqueueCreatedEvent(order domain.Order) {
	if s.outbox == nil {
		return
	}

	event := kafka.NewOrderEvent(kafka.EventTypeOrderCreated, order.ID, order.UserID, string(order.Status))
	event.Metadata = map[string]interface{}{
		"total": order.Total.String(),
		"items": len(order.Items),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to encode order created event")
		return
	}

	if _, err := s.outbox.Enqueue(domain.OutboxMessage{
		AggregateType: "order",
		AggregateID:   order.ID,
		EventType:     string(kafka.EventTypeOrderCreated),
		Payload:       payload,
	}); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to enqueue order created event")
		return
	}

	s.metrics.RecordOutboxEvent()
}
