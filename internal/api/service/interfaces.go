package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/digital-banking/account-service/internal/domain/account"
	"github.com/digital-banking/account-service/internal/domain/customer"
	"github.com/digital-banking/account-service/internal/domain/operation"
)

// CustomerService defines the interface for customer directory operations
type CustomerService interface {
	// CreateCustomer registers a new customer
	CreateCustomer(ctx context.Context, name, email string) (*customer.Customer, error)

	// GetCustomerByID retrieves a customer by its ID
	// Returns ErrCustomerNotFound if the customer doesn't exist
	GetCustomerByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error)

	// UpdateCustomer changes a customer's name and email
	UpdateCustomer(ctx context.Context, id uuid.UUID, name, email string) (*customer.Customer, error)

	// DeleteCustomer removes a customer from the directory
	DeleteCustomer(ctx context.Context, id uuid.UUID) error

	// ListCustomers retrieves all customers
	ListCustomers(ctx context.Context) ([]*customer.Customer, error)

	// SearchCustomers retrieves customers matching the keyword
	SearchCustomers(ctx context.Context, keyword string) ([]*customer.Customer, error)
}

// AccountService defines the interface for account lifecycle operations
type AccountService interface {
	// CreateCurrentAccount opens a CURRENT account for the customer
	// Returns ErrCustomerNotFound if the customer doesn't exist
	CreateCurrentAccount(ctx context.Context, initialBalance, overdraftLimit int64, customerID uuid.UUID) (*account.BankAccount, error)

	// CreateSavingAccount opens a SAVING account for the customer
	CreateSavingAccount(ctx context.Context, initialBalance int64, interestRate float64, customerID uuid.UUID) (*account.BankAccount, error)

	// GetAccountByID retrieves an account by its ID
	// Returns ErrAccountNotFound if the account doesn't exist
	GetAccountByID(ctx context.Context, id uuid.UUID) (*account.BankAccount, error)

	// ListAccounts retrieves all accounts
	ListAccounts(ctx context.Context) ([]*account.BankAccount, error)

	// ListAccountsByCustomer retrieves all accounts owned by the customer
	ListAccountsByCustomer(ctx context.Context, customerID uuid.UUID) ([]*account.BankAccount, error)

	// ActivateAccount transitions the account from CREATED to ACTIVATED
	ActivateAccount(ctx context.Context, id uuid.UUID) (*account.BankAccount, error)

	// SuspendAccount transitions the account from ACTIVATED to SUSPENDED
	SuspendAccount(ctx context.Context, id uuid.UUID) (*account.BankAccount, error)
}

// OperationService defines the interface for balance operations and history.
// It is implemented by the operation engine.
type OperationService interface {
	Credit(ctx context.Context, accountID uuid.UUID, amount int64, description string) (*operation.Operation, error)
	Debit(ctx context.Context, accountID uuid.UUID, amount int64, description string) (*operation.Operation, error)
	Transfer(ctx context.Context, sourceID, destinationID uuid.UUID, amount int64, description string) (*operation.Operation, *operation.Operation, error)
	History(ctx context.Context, accountID uuid.UUID, page, size int) (*operation.History, error)
}
