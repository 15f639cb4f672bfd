package engine

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/digital-banking/account-service/internal/domain/account"
	"github.com/digital-banking/account-service/internal/domain/customer"
)

// Factory creates bank accounts attached to existing customers. New accounts
// start in status CREATED with the configured default currency.
//
// Opening balances are seed state, not operations: no ledger entry is written
// for them, so an account's ledger sum always equals balance minus initial
// balance from the moment of creation.
type Factory struct {
	accounts  account.Store
	customers customer.Directory
	currency  string
	logger    *slog.Logger
}

// NewFactory creates an account factory using the given default currency
func NewFactory(logger *slog.Logger, accounts account.Store, customers customer.Directory, defaultCurrency string) *Factory {
	return &Factory{
		accounts:  accounts,
		customers: customers,
		currency:  defaultCurrency,
		logger:    logger,
	}
}

// CreateCurrentAccount creates a CURRENT account with the given overdraft
// limit. Returns ErrCustomerNotFound if the owning customer does not exist.
func (f *Factory) CreateCurrentAccount(ctx context.Context, initialBalance, overdraftLimit int64, customerID uuid.UUID) (*account.BankAccount, error) {
	if _, err := f.customers.GetByID(ctx, customerID); err != nil {
		return nil, err
	}

	acc, err := account.NewCurrentAccount(initialBalance, overdraftLimit, f.currency, customerID)
	if err != nil {
		return nil, err
	}

	if err := f.accounts.Create(ctx, acc); err != nil {
		return nil, &StorageError{Op: "account create", Err: err}
	}

	f.logger.Info("current account created",
		"account_id", acc.ID.String(),
		"customer_id", customerID.String(),
		"balance", acc.Balance,
		"overdraft_limit", overdraftLimit,
	)
	return acc, nil
}

// CreateSavingAccount creates a SAVING account with the given interest rate.
// Returns ErrCustomerNotFound if the owning customer does not exist.
func (f *Factory) CreateSavingAccount(ctx context.Context, initialBalance int64, interestRate float64, customerID uuid.UUID) (*account.BankAccount, error) {
	if _, err := f.customers.GetByID(ctx, customerID); err != nil {
		return nil, err
	}

	acc, err := account.NewSavingAccount(initialBalance, interestRate, f.currency, customerID)
	if err != nil {
		return nil, err
	}

	if err := f.accounts.Create(ctx, acc); err != nil {
		return nil, &StorageError{Op: "account create", Err: err}
	}

	f.logger.Info("saving account created",
		"account_id", acc.ID.String(),
		"customer_id", customerID.String(),
		"balance", acc.Balance,
		"interest_rate", interestRate,
	)
	return acc, nil
}
