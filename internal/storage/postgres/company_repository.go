package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/catalog-orders/internal/domain"
)

type companyRepository struct {
	db *sql.DB
}

// NewCompanyRepository создаёт PostgreSQL-реализацию CompanyRepository.
func NewCompanyRepository(store *Store) domain.CompanyRepository {
	return &companyRepository{db: store.DB()}
}

func (r *companyRepository) Create(ctx context.Context, company domain.Company) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO companies (
			id, name, contact_email, contact_phone, address, website, description,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		company.ID, company.Name, company.ContactEmail, company.ContactPhone,
		company.Address, company.Website, company.Description,
		company.CreatedAt, company.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("company %s already exists", company.ID)
		}
		return fmt.Errorf("insert company: %w", err)
	}

	return nil
}

func (r *companyRepository) GetByID(ctx context.Context, id string) (domain.Company, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var company domain.Company
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, contact_email, contact_phone, address, website, description,
		       created_at, updated_at
		FROM companies
		WHERE id = $1
	`, id).Scan(
		&company.ID, &company.Name, &company.ContactEmail, &company.ContactPhone,
		&company.Address, &company.Website, &company.Description,
		&company.CreatedAt, &company.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Company{}, fmt.Errorf("%w: %s", domain.ErrCompanyNotFound, id)
		}
		return domain.Company{}, fmt.Errorf("select company: %w", err)
	}

	return company, nil
}

func (r *companyRepository) List(ctx context.Context) ([]domain.Company, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, contact_email, contact_phone, address, website, description,
		       created_at, updated_at
		FROM companies
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	companies := make([]domain.Company, 0)
	for rows.Next() {
		var company domain.Company
		if err := rows.Scan(
			&company.ID, &company.Name, &company.ContactEmail, &company.ContactPhone,
			&company.Address, &company.Website, &company.Description,
			&company.CreatedAt, &company.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan company row: %w", err)
		}
		companies = append(companies, company)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate company rows: %w", err)
	}

	return companies, nil
}

func (r *companyRepository) Update(ctx context.Context, company domain.Company) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE companies
		SET name = $2,
		    contact_email = $3,
		    contact_phone = $4,
		    address = $5,
		    website = $6,
		    description = $7,
		    updated_at = $8
		WHERE id = $1
	`,
		company.ID, company.Name, company.ContactEmail, company.ContactPhone,
		company.Address, company.Website, company.Description, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrCompanyNotFound, company.ID)
	}

	return nil
}

func (r *companyRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrCompanyNotFound, id)
	}

	return nil
}

var _ domain.CompanyRepository = (*companyRepository)(nil)
