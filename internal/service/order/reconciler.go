package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vladislavdragonenkov/catalog-orders/internal/domain"
	"github.com/vladislavdragonenkov/catalog-orders/internal/metrics"
)

// totalTolerance — допустимое абсолютное расхождение между заявленной и
// пересчитанной суммой. Фиксированная величина вне зависимости от размера заказа.
var totalTolerance = decimal.RequireFromString("0.01")

// Reconciler пересчитывает сумму заказа по доверенным ценам каталога
// и сверяет её с суммой, заявленной клиентом.
type Reconciler struct {
	catalog domain.CatalogLookup
	logger  *log.Entry
	metrics *metrics.OrderMetrics
}

// NewReconciler создаёт reconciler поверх каталога.
func NewReconciler(catalog domain.CatalogLookup, logger *log.Entry, m *metrics.OrderMetrics) *Reconciler {
	if logger == nil {
		logger = log.New().WithField("component", "pricing-reconciler")
	}
	return &Reconciler{catalog: catalog, logger: logger, metrics: m}
}

// Reconcile разрешает каждую позицию в каталоге (независимо и конкурентно),
// строит позиции с зафиксированными ценами и проверяет заявленную сумму.
// Ошибка любой позиции отклоняет заказ целиком; частичных заказов не бывает.
func (r *Reconciler) Reconcile(ctx context.Context, items []SubmitItem, declared decimal.Decimal) ([]domain.OrderItem, decimal.Decimal, error) {
	start := time.Now()
	defer func() {
		r.metrics.RecordLookupDuration(time.Since(start))
	}()

	priced := make([]domain.OrderItem, len(items))

	// Fan-out по позициям: первая содержательная ошибка отменяет остальные
	// запросы, Wait дожидается завершения уже запущенных.
	g, gctx := errgroup.WithContext(ctx)
	for idx, item := range items {
		g.Go(func() error {
			if _, err := uuid.Parse(item.ProductID); err != nil {
				return fmt.Errorf("%w: %s", domain.ErrInvalidProductID, item.ProductID)
			}

			resolved, err := r.catalog.Resolve(gctx, item.ProductID)
			if err != nil {
				return err
			}

			// Клиентская цена, если и была, игнорируется: доверенная цена — из каталога.
			priced[idx] = domain.OrderItem{
				ProductID: resolved.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: resolved.UnitPrice,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		r.logger.WithError(err).Debug("catalog resolution rejected the order")
		return nil, decimal.Zero, err
	}

	calculated := decimal.Zero
	for _, item := range priced {
		calculated = calculated.Add(item.UnitPrice.Mul(decimal.NewFromInt32(item.Quantity)))
	}

	if calculated.Sub(declared).Abs().GreaterThan(totalTolerance) {
		return nil, decimal.Zero, &domain.TotalMismatchError{
			Calculated: calculated,
			Declared:   declared,
		}
	}

	return priced, calculated, nil
}
