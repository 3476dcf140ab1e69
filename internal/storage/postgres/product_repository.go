package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/catalog-orders/internal/domain"
)

type productRepository struct {
	db *sql.DB
}

// NewProductRepository создаёт PostgreSQL-реализацию ProductRepository.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepository{db: store.DB()}
}

func (r *productRepository) Create(ctx context.Context, product domain.Product) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (
			id, name, description, price, items_per_box, company_id, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		product.ID, product.Name, product.Description, product.Price,
		product.ItemsPerBox, product.CompanyID, product.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("product %s already exists", product.ID)
		}
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var product domain.Product
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, price, items_per_box, company_id, created_at
		FROM products
		WHERE id = $1
	`, id).Scan(
		&product.ID, &product.Name, &product.Description, &product.Price,
		&product.ItemsPerBox, &product.CompanyID, &product.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
		}
		return domain.Product{}, fmt.Errorf("select product: %w", err)
	}

	return product, nil
}

func (r *productRepository) ListByCompany(ctx context.Context, companyID string) ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, price, items_per_box, company_id, created_at
		FROM products
		WHERE company_id = $1
		ORDER BY created_at DESC, id DESC
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(
			&product.ID, &product.Name, &product.Description, &product.Price,
			&product.ItemsPerBox, &product.CompanyID, &product.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, nil
}

func (r *productRepository) Update(ctx context.Context, product domain.Product) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2,
		    description = $3,
		    price = $4,
		    items_per_box = $5,
		    company_id = $6
		WHERE id = $1
	`,
		product.ID, product.Name, product.Description, product.Price,
		product.ItemsPerBox, product.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrProductNotFound, product.ID)
	}

	return nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
	}

	return nil
}

var _ domain.ProductRepository = (*productRepository)(nil)
