package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/digital-banking/account-service/internal/domain/account"
	"github.com/digital-banking/account-service/internal/engine"
)

// AccountServiceImpl implements the AccountService interface on top of the
// account factory and store
type AccountServiceImpl struct {
	factory  *engine.Factory
	accounts account.Store
}

// NewAccountService creates a new account service
func NewAccountService(factory *engine.Factory, accounts account.Store) AccountService {
	return &AccountServiceImpl{
		factory:  factory,
		accounts: accounts,
	}
}

// CreateCurrentAccount opens a CURRENT account for the customer
func (s *AccountServiceImpl) CreateCurrentAccount(ctx context.Context, initialBalance, overdraftLimit int64, customerID uuid.UUID) (*account.BankAccount, error) {
	return s.factory.CreateCurrentAccount(ctx, initialBalance, overdraftLimit, customerID)
}

// CreateSavingAccount opens a SAVING account for the customer
func (s *AccountServiceImpl) CreateSavingAccount(ctx context.Context, initialBalance int64, interestRate float64, customerID uuid.UUID) (*account.BankAccount, error) {
	return s.factory.CreateSavingAccount(ctx, initialBalance, interestRate, customerID)
}

// GetAccountByID retrieves an account by its ID, returns ErrAccountNotFound if not found
func (s *AccountServiceImpl) GetAccountByID(ctx context.Context, id uuid.UUID) (*account.BankAccount, error) {
	return s.accounts.GetByID(ctx, id)
}

// ListAccounts retrieves all accounts
func (s *AccountServiceImpl) ListAccounts(ctx context.Context) ([]*account.BankAccount, error) {
	return s.accounts.List(ctx)
}

// ListAccountsByCustomer retrieves all accounts owned by the customer
func (s *AccountServiceImpl) ListAccountsByCustomer(ctx context.Context, customerID uuid.UUID) ([]*account.BankAccount, error) {
	return s.accounts.ListByCustomer(ctx, customerID)
}

// ActivateAccount transitions the account from CREATED to ACTIVATED. A
// concurrent balance operation can surface as ErrConcurrentModification;
// callers retry.
func (s *AccountServiceImpl) ActivateAccount(ctx context.Context, id uuid.UUID) (*account.BankAccount, error) {
	return s.transition(ctx, id, (*account.BankAccount).Activate)
}

// SuspendAccount transitions the account from ACTIVATED to SUSPENDED
func (s *AccountServiceImpl) SuspendAccount(ctx context.Context, id uuid.UUID) (*account.BankAccount, error) {
	return s.transition(ctx, id, (*account.BankAccount).Suspend)
}

func (s *AccountServiceImpl) transition(ctx context.Context, id uuid.UUID, apply func(*account.BankAccount) error) (*account.BankAccount, error) {
	acc, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := apply(acc); err != nil {
		return nil, err
	}

	if err := s.accounts.Update(ctx, acc); err != nil {
		return nil, err
	}

	return acc, nil
}
