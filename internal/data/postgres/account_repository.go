// Package postgres provides PostgreSQL implementations of the customer
// directory and the account store. All monetary values are persisted in
// minor units; account updates are guarded by an optimistic-locking version.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/digital-banking/account-service/internal/domain/account"
	"github.com/digital-banking/account-service/internal/platform/persistence"
)

const accountColumns = `id, type, balance, currency, status, customer_id, overdraft_limit, interest_rate, version, created_at, updated_at`

// AccountRepository implements the account.Store interface for PostgreSQL
type AccountRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewAccountRepository creates a new PostgreSQL account store
func NewAccountRepository(logger *slog.Logger, db *persistence.PostgresDB) account.Store {
	return &AccountRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Create stores a new bank account
func (r *AccountRepository) Create(ctx context.Context, acc *account.BankAccount) error {
	query := `
		INSERT INTO accounts (id, type, balance, currency, status, customer_id, overdraft_limit, interest_rate, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.querier.Exec(ctx, query,
		acc.ID,
		acc.Type,
		acc.Balance,
		acc.Currency,
		acc.Status,
		acc.CustomerID,
		acc.OverdraftLimit,
		acc.InterestRate,
		acc.Version,
		acc.CreatedAt,
		acc.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create account", "error", err)
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByID retrieves an account by its ID
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.BankAccount, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE id = $1
	`

	acc, err := r.scanAccount(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound{AccountID: id}
		}
		r.logger.Error("Failed to get account", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return acc, nil
}

// Update persists account changes using the version column for optimistic
// locking. Returns ErrConcurrentModification when the stored version does
// not match the expected previous version.
func (r *AccountRepository) Update(ctx context.Context, acc *account.BankAccount) error {
	query := `
		UPDATE accounts
		SET balance = $1, status = $2, overdraft_limit = $3, interest_rate = $4, version = $5, updated_at = $6
		WHERE id = $7 AND version = $8
	`

	result, err := r.querier.Exec(ctx, query,
		acc.Balance,
		acc.Status,
		acc.OverdraftLimit,
		acc.InterestRate,
		acc.Version,
		acc.UpdatedAt,
		acc.ID,
		acc.Version-1, // Check previous version for optimistic locking
	)
	if err != nil {
		r.logger.Error("Failed to update account", "id", acc.ID.String(), "error", err)
		return fmt.Errorf("failed to update account: %w", err)
	}

	if result.RowsAffected() == 0 {
		return account.ErrConcurrentModification{AccountID: acc.ID}
	}

	return nil
}

// List retrieves every bank account ordered by creation time
func (r *AccountRepository) List(ctx context.Context) ([]*account.BankAccount, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		ORDER BY created_at
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list accounts", "error", err)
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	return r.collectAccounts(rows)
}

// ListByCustomer retrieves all accounts owned by the customer, ordered by
// creation time
func (r *AccountRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*account.BankAccount, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE customer_id = $1
		ORDER BY created_at
	`

	rows, err := r.querier.Query(ctx, query, customerID)
	if err != nil {
		r.logger.Error("Failed to list accounts for customer", "customer_id", customerID.String(), "error", err)
		return nil, fmt.Errorf("failed to list accounts for customer: %w", err)
	}
	defer rows.Close()

	return r.collectAccounts(rows)
}

func (r *AccountRepository) scanAccount(row pgx.Row) (*account.BankAccount, error) {
	var acc account.BankAccount
	err := row.Scan(
		&acc.ID,
		&acc.Type,
		&acc.Balance,
		&acc.Currency,
		&acc.Status,
		&acc.CustomerID,
		&acc.OverdraftLimit,
		&acc.InterestRate,
		&acc.Version,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (r *AccountRepository) collectAccounts(rows pgx.Rows) ([]*account.BankAccount, error) {
	accounts := make([]*account.BankAccount, 0)
	for rows.Next() {
		acc, err := r.scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read account rows: %w", err)
	}
	return accounts, nil
}
