package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/digital-banking/account-service/internal/domain/customer"
	"github.com/digital-banking/account-service/internal/platform/persistence"
)

// CustomerRepository implements the customer.Directory interface for PostgreSQL
type CustomerRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewCustomerRepository creates a new PostgreSQL customer directory
func NewCustomerRepository(logger *slog.Logger, db *persistence.PostgresDB) customer.Directory {
	return &CustomerRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Create stores a new customer
func (r *CustomerRepository) Create(ctx context.Context, cust *customer.Customer) error {
	query := `
		INSERT INTO customers (id, name, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.querier.Exec(ctx, query,
		cust.ID,
		cust.Name,
		cust.Email,
		cust.CreatedAt,
		cust.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create customer", "error", err)
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

// GetByID retrieves a customer by its ID
func (r *CustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	query := `
		SELECT id, name, email, created_at, updated_at
		FROM customers
		WHERE id = $1
	`

	var cust customer.Customer
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&cust.ID,
		&cust.Name,
		&cust.Email,
		&cust.CreatedAt,
		&cust.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customer.ErrCustomerNotFound{CustomerID: id}
		}
		r.logger.Error("Failed to get customer", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return &cust, nil
}

// Update persists customer changes
func (r *CustomerRepository) Update(ctx context.Context, cust *customer.Customer) error {
	query := `
		UPDATE customers
		SET name = $1, email = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := r.querier.Exec(ctx, query,
		cust.Name,
		cust.Email,
		cust.UpdatedAt,
		cust.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update customer", "id", cust.ID.String(), "error", err)
		return fmt.Errorf("failed to update customer: %w", err)
	}

	if result.RowsAffected() == 0 {
		return customer.ErrCustomerNotFound{CustomerID: cust.ID}
	}

	return nil
}

// Delete removes a customer. Accounts referencing the customer are an
// external concern; the schema restricts deletion while accounts exist.
func (r *CustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM customers WHERE id = $1`

	result, err := r.querier.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete customer", "id", id.String(), "error", err)
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	if result.RowsAffected() == 0 {
		return customer.ErrCustomerNotFound{CustomerID: id}
	}

	return nil
}

// List retrieves every customer ordered by creation time
func (r *CustomerRepository) List(ctx context.Context) ([]*customer.Customer, error) {
	query := `
		SELECT id, name, email, created_at, updated_at
		FROM customers
		ORDER BY created_at
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list customers", "error", err)
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	return r.collectCustomers(rows)
}

// Search retrieves customers whose name or email matches the keyword,
// case-insensitively
func (r *CustomerRepository) Search(ctx context.Context, keyword string) ([]*customer.Customer, error) {
	if keyword == "" {
		return r.List(ctx)
	}

	query := `
		SELECT id, name, email, created_at, updated_at
		FROM customers
		WHERE name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%'
		ORDER BY created_at
	`

	rows, err := r.querier.Query(ctx, query, keyword)
	if err != nil {
		r.logger.Error("Failed to search customers", "keyword", keyword, "error", err)
		return nil, fmt.Errorf("failed to search customers: %w", err)
	}
	defer rows.Close()

	return r.collectCustomers(rows)
}

func (r *CustomerRepository) collectCustomers(rows pgx.Rows) ([]*customer.Customer, error) {
	customers := make([]*customer.Customer, 0)
	for rows.Next() {
		var cust customer.Customer
		if err := rows.Scan(&cust.ID, &cust.Name, &cust.Email, &cust.CreatedAt, &cust.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan customer row: %w", err)
		}
		customers = append(customers, &cust)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read customer rows: %w", err)
	}
	return customers, nil
}
