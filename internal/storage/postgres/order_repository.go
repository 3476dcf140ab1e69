package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/catalog-orders/internal/domain"
)

const (
	opTimeout = 5 * time.Second
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

func (r *orderRepository) Create(ctx context.Context, order domain.Order) error {
	if order.UserID == "" {
		return domain.ErrUserRequired
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, user_id, total, shipping_address, payment_method, status, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		order.ID, order.UserID, order.Total, order.ShippingAddress,
		string(order.PaymentMethod), string(order.Status), order.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrOrderAlreadyExists
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for i, item := range order.Items {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (
				order_id, position, product_id, quantity, unit_price
			) VALUES ($1,$2,$3,$4,$5)
		`,
			order.ID, i, item.ProductID, item.Quantity, item.UnitPrice,
		); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create order: %w", err)
	}

	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var (
		order         domain.Order
		status        string
		paymentMethod string
	)

	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, total, shipping_address, payment_method, status, created_at
		FROM orders
		WHERE id = $1
	`, id).Scan(
		&order.ID, &order.UserID, &order.Total, &order.ShippingAddress,
		&paymentMethod, &status, &order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}
	order.PaymentMethod = domain.PaymentMethod(paymentMethod)
	order.Status = domain.OrderStatus(status)

	items, err := r.loadItems(ctx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	order.Items = items

	return order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		return []domain.Order{}, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, total, shipping_address, payment_method, status, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		OFFSET $2 LIMIT $3
	`, userID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0, limit)
	for rows.Next() {
		var (
			order         domain.Order
			status        string
			paymentMethod string
		)
		if err := rows.Scan(
			&order.ID, &order.UserID, &order.Total, &order.ShippingAddress,
			&paymentMethod, &status, &order.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		order.PaymentMethod = domain.PaymentMethod(paymentMethod)
		order.Status = domain.OrderStatus(status)
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	for i := range orders {
		items, err := r.loadItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	return orders, nil
}

func (r *orderRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var total int
	if err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM orders WHERE user_id = $1
	`, userID).Scan(&total); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}

	return total, nil
}

// loadItems читает позиции заказа вместе с актуальными данными каталога.
// Товар мог быть удалён, поэтому JOIN левый и поля каталога опциональны.
func (r *orderRepository) loadItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT oi.product_id, oi.quantity, oi.unit_price, p.name, p.price
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.position ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		var (
			item         domain.OrderItem
			productName  sql.NullString
			productPrice decimal.NullDecimal
		)
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.UnitPrice, &productName, &productPrice); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		if productName.Valid {
			item.ProductName = productName.String
		}
		if productPrice.Valid {
			item.ProductPrice = productPrice.Decimal
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return items, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

var _ domain.OrderRepository = (*orderRepository)(nil)
